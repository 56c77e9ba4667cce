package verifier

import (
	"testing"

	"github.com/crewledger/crewledger/internal/models"
)

func cents(v int64) *int64 { return &v }

func testDocument() *models.Document {
	return &models.Document{
		Participants: []models.Participant{
			{ID: "p-alice", Name: "Alice"},
			{ID: "p-bob", Name: "Bob"},
			{ID: "p-carol", Name: "Carol"},
		},
		Expenses: []models.Expense{
			{ID: "e1", Amount: 9000, PaidBy: "p-alice", Date: "2025-07-01T10:00:00Z", Description: "Cabin"},
			{ID: "e2", Amount: 5000, PaidBy: "p-bob", Date: "2025-07-02T19:30:00Z", Description: "Groceries"},
			{ID: "e3", Amount: 1000, PaidBy: "p-carol", Date: "2025-07-03T12:00:00Z", Description: "Ferry"},
			{ID: "e4", Amount: 700, PaidBy: "p-alice", Date: "2025-07-04T09:00:00Z", Description: "Coffee"},
		},
		ExpenseSplits: []models.Split{
			{ExpenseID: "e1", ParticipantID: "p-alice", ShareType: "equal"},
			{ExpenseID: "e1", ParticipantID: "p-bob", ShareType: "equal"},
			{ExpenseID: "e1", ParticipantID: "p-carol", ShareType: "equal"},

			{ExpenseID: "e2", ParticipantID: "p-alice", ShareType: "percentage", Share: 50},
			{ExpenseID: "e2", ParticipantID: "p-bob", ShareType: "percentage", Share: 30},
			{ExpenseID: "e2", ParticipantID: "p-carol", ShareType: "percentage", Share: 20},

			// Sums to 900, not 1000: must be rejected and excluded.
			{ExpenseID: "e3", ParticipantID: "p-alice", ShareType: "amount", Amount: cents(500)},
			{ExpenseID: "e3", ParticipantID: "p-bob", ShareType: "amount", Amount: cents(400)},

			// e4 has no splits at all.
		},
	}
}

func TestVerify(t *testing.T) {
	report := Verify(testDocument())

	if len(report.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(report.Results))
	}
	if report.TotalCost != 15700 {
		t.Errorf("TotalCost = %d, want 15700", report.TotalCost)
	}

	byID := make(map[string]ExpenseResult)
	for _, r := range report.Results {
		byID[r.ExpenseID] = r
	}

	if r := byID["e1"]; r.Status != StatusOK || r.Delta != 0 {
		t.Errorf("e1 = %+v, want ok with zero delta", r)
	}
	if r := byID["e2"]; r.Status != StatusOK {
		t.Errorf("e2 = %+v, want ok", r)
	}
	if r := byID["e3"]; r.Status != StatusInvalid || r.Err == "" {
		t.Errorf("e3 = %+v, want invalid with message", r)
	}
	if r := byID["e4"]; r.Status != StatusSkipped {
		t.Errorf("e4 = %+v, want skipped", r)
	}

	if got := byID["e2"].Shares["p-alice"]; got != 2500 {
		t.Errorf("e2 Alice share = %d, want 2500", got)
	}

	// e1: Alice +9000 -3000; e2: Alice -2500. e3 and e4 contribute nothing.
	wantBalances := map[string]int64{
		"p-alice": 3500,
		"p-bob":   500,
		"p-carol": -4000,
	}
	for id, want := range wantBalances {
		if got := report.Balances[id]; got != want {
			t.Errorf("balance %s = %d, want %d", id, got, want)
		}
	}

	if len(report.Settlements) != 2 {
		t.Fatalf("expected 2 settlements, got %v", report.Settlements)
	}
	first, second := report.Settlements[0], report.Settlements[1]
	if first.FromID != "p-carol" || first.ToID != "p-alice" || first.Amount != 3500 {
		t.Errorf("settlement[0] = %+v, want Carol pays Alice 3500", first)
	}
	if second.FromID != "p-carol" || second.ToID != "p-bob" || second.Amount != 500 {
		t.Errorf("settlement[1] = %+v, want Carol pays Bob 500", second)
	}
	if first.FromName != "Carol" || first.ToName != "Alice" {
		t.Errorf("settlement[0] names = %q -> %q", first.FromName, first.ToName)
	}

	if got := report.StatusCount(StatusOK); got != 2 {
		t.Errorf("StatusCount(ok) = %d, want 2", got)
	}
	if got := report.StatusCount(StatusInvalid); got != 1 {
		t.Errorf("StatusCount(invalid) = %d, want 1", got)
	}
	if got := report.StatusCount(StatusSkipped); got != 1 {
		t.Errorf("StatusCount(skipped) = %d, want 1", got)
	}
}

// One bad expense must not leak into balances: verifying with and without the
// invalid expense yields identical balances.
func TestVerifyInvalidExpenseIsExcluded(t *testing.T) {
	full := Verify(testDocument())

	trimmed := testDocument()
	var expenses []models.Expense
	for _, e := range trimmed.Expenses {
		if e.ID != "e3" {
			expenses = append(expenses, e)
		}
	}
	trimmed.Expenses = expenses

	clean := Verify(trimmed)
	for id, want := range clean.Balances {
		if got := full.Balances[id]; got != want {
			t.Errorf("balance %s = %d with invalid expense present, want %d", id, got, want)
		}
	}
}

// Payers and split participants not declared in the participants list are
// ignored during accumulation, and the resolver leaves the resulting
// imbalance unresolved instead of failing.
func TestVerifyUndeclaredParticipantsIgnored(t *testing.T) {
	doc := &models.Document{
		Participants: []models.Participant{
			{ID: "p-alice", Name: "Alice"},
			{ID: "p-bob", Name: "Bob"},
		},
		Expenses: []models.Expense{
			{ID: "e1", Amount: 600, PaidBy: "p-ghost", Date: "2025-07-01", Description: "Taxi"},
		},
		ExpenseSplits: []models.Split{
			{ExpenseID: "e1", ParticipantID: "p-alice", ShareType: "equal"},
			{ExpenseID: "e1", ParticipantID: "p-bob", ShareType: "equal"},
		},
	}

	report := Verify(doc)

	if r := report.Results[0]; r.Status != StatusOK {
		t.Fatalf("expense = %+v, want ok", r)
	}
	if got := report.Balances["p-alice"]; got != -300 {
		t.Errorf("Alice balance = %d, want -300", got)
	}
	if _, ok := report.Balances["p-ghost"]; ok {
		t.Error("undeclared payer must not appear in balances")
	}
	if len(report.Settlements) != 0 {
		t.Errorf("settlements = %v, want none (no creditors)", report.Settlements)
	}
}

func TestVerifyEmptyDocument(t *testing.T) {
	report := Verify(&models.Document{})
	if len(report.Results) != 0 || report.TotalCost != 0 || len(report.Settlements) != 0 {
		t.Errorf("empty document produced %+v", report)
	}
}
