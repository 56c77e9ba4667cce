package models

import "encoding/json"

// Report is the persisted record of one verification run: the submitted
// document, summary counters, and the computed settlement plan. The full
// per-expense results are not stored; verification is deterministic, so they
// can always be recomputed from the document.
type Report struct {
	// ID is the unique identifier for the report (UUID format).
	ID string

	// UserID is the account that submitted the ledger.
	UserID string

	// Title is a human-readable label for the run.
	Title string

	// Currency is the ISO 4217 code used when rendering amounts.
	Currency string

	// Document is the submitted ledger, stored verbatim.
	Document json.RawMessage

	// ExpenseCount, InvalidCount and SkippedCount summarize the per-expense
	// verification outcomes.
	ExpenseCount int
	InvalidCount int
	SkippedCount int

	// TotalCost is the sum of all expense amounts in cents, valid or not.
	TotalCost int64

	// CreatedAt is the Unix timestamp when the report was stored.
	CreatedAt int64

	// Settlements is the computed plan, in payment order.
	Settlements []StoredSettlement
}

// StoredSettlement is one transfer of a persisted settlement plan.
type StoredSettlement struct {
	FromID   string
	ToID     string
	FromName string
	ToName   string
	Amount   int64
}
