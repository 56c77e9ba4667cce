// Package models defines the core domain models for CrewLedger.
//
// The central type is Document, the ledger a crew submits for verification:
// participants, expenses, and per-expense splits. Documents are caller-owned
// and never mutated; verification only recomputes and cross-checks.
//
// All monetary amounts are int64 minor currency units (cents). Relationships
// use ID strings rather than pointers to avoid circular references, and
// unknown JSON fields on incoming documents are ignored, not rejected.
//
// User and Report are the hosted-service models: registered accounts and the
// persisted outcome of one verification run.
package models
