package rpc

import "github.com/crewledger/crewledger/internal/models"

// User is the public view of an account; no credential material.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type VerifyLedgerRequest struct {
	// Title labels the run; auto-generated from the date when empty.
	Title string `json:"title,omitempty"`

	// Currency is the ISO 4217 code for rendered amounts; the server default
	// applies when empty.
	Currency string `json:"currency,omitempty"`

	Document models.Document `json:"document"`
}

// ExpenseResult mirrors one per-expense verification outcome.
type ExpenseResult struct {
	ExpenseID   string           `json:"expenseId"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	ShareType   string           `json:"shareType,omitempty"`
	Status      string           `json:"status"`
	Shares      map[string]int64 `json:"shares,omitempty"`
	Delta       int64            `json:"delta"`
	Error       string           `json:"error,omitempty"`
}

// Settlement is one payer-to-payee transfer of a settlement plan.
type Settlement struct {
	FromID   string `json:"fromId"`
	ToID     string `json:"toId"`
	FromName string `json:"fromName"`
	ToName   string `json:"toName"`
	Amount   int64  `json:"amount"`
}

type VerifyLedgerResponse struct {
	ReportID    string           `json:"reportId"`
	Results     []ExpenseResult  `json:"results"`
	TotalCost   int64            `json:"totalCost"`
	Balances    map[string]int64 `json:"balances"`
	Settlements []Settlement     `json:"settlements"`

	// Rendered is the plain-text verification report.
	Rendered string `json:"rendered"`
}

// ReportSummary describes a stored report without its document.
type ReportSummary struct {
	ReportID     string `json:"reportId"`
	Title        string `json:"title"`
	Currency     string `json:"currency"`
	ExpenseCount int    `json:"expenseCount"`
	InvalidCount int    `json:"invalidCount"`
	SkippedCount int    `json:"skippedCount"`
	TotalCost    int64  `json:"totalCost"`
	CreatedAt    int64  `json:"createdAt"`
}

type GetReportRequest struct {
	ReportID string `json:"reportId"`
}

type GetReportResponse struct {
	Report      ReportSummary   `json:"report"`
	Document    models.Document `json:"document"`
	Settlements []Settlement    `json:"settlements"`
}

type ListReportsRequest struct{}

type ListReportsResponse struct {
	Reports []ReportSummary `json:"reports"`
}
