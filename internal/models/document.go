package models

// Participant is one member of the crew sharing expenses.
// Immutable once loaded; the ID is opaque and totally ordered, which the
// normalizer relies on for deterministic rounding.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Expense is a single payment made by one participant on behalf of the crew.
type Expense struct {
	ID string `json:"id"`

	// Amount is the expense total in minor currency units (cents).
	Amount int64 `json:"amount"`

	// PaidBy is the participant ID of whoever fronted the money.
	PaidBy string `json:"paidBy"`

	Date        string `json:"date"`
	Description string `json:"description"`
}

// Split declares one participant's stake in one expense. All splits of an
// expense must carry the same share type.
type Split struct {
	ExpenseID     string `json:"expenseId"`
	ParticipantID string `json:"participantId"`

	// ShareType is one of equal, percentage, weight, amount.
	ShareType string `json:"shareType"`

	// Share carries percentage points or weight units, depending on ShareType.
	Share float64 `json:"share,omitempty"`

	// Amount is the explicit share in cents, set only for amount-type splits.
	Amount *int64 `json:"amount,omitempty"`
}

// Document is a complete crew ledger as submitted for verification.
type Document struct {
	Participants  []Participant `json:"participants"`
	Expenses      []Expense     `json:"expenses"`
	ExpenseSplits []Split       `json:"expenseSplits"`
}
