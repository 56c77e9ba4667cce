// Package verifier runs one verification pass over a ledger document:
// re-derive every expense's shares, cross-check them against the expense
// total, accumulate net balances, and compute the settlement plan.
package verifier

import (
	"fmt"

	"github.com/crewledger/crewledger/internal/calculator"
	"github.com/crewledger/crewledger/internal/models"
)

// Status classifies the verification outcome of one expense.
type Status string

const (
	// StatusOK means the shares were re-derived and reconstruct the total.
	StatusOK Status = "ok"
	// StatusInvalid means the splits failed validation or the cross-check;
	// the expense is excluded from balance accumulation.
	StatusInvalid Status = "invalid"
	// StatusSkipped means the expense has no splits declared.
	StatusSkipped Status = "skipped"
)

// ExpenseResult is the verification outcome for a single expense.
type ExpenseResult struct {
	ExpenseID   string
	Date        string
	Description string
	ShareType   string
	Status      Status

	// Shares maps participant ID to its normalized share in cents.
	// Present only for StatusOK.
	Shares map[string]int64

	// Delta is the expense amount minus the reconstructed share total.
	// Always zero for StatusOK.
	Delta int64

	// Err holds the validation message for StatusInvalid.
	Err string
}

// Report is the outcome of one verification pass.
type Report struct {
	Results []ExpenseResult

	// TotalCost sums every expense amount, valid or not.
	TotalCost int64

	// Balances holds the final net position per declared participant:
	// positive means owed money, negative means owes money.
	Balances map[string]int64

	Settlements []calculator.Settlement
}

// StatusCount returns how many expenses finished with the given status.
func (r *Report) StatusCount(status Status) int {
	count := 0
	for _, res := range r.Results {
		if res.Status == status {
			count++
		}
	}
	return count
}

// Verify checks every expense of the document and builds the settlement plan
// from the accumulated balances. A failed expense is reported and excluded
// from accumulation, as if it never occurred; it does not abort the rest of
// the document. The document itself is never mutated.
func Verify(doc *models.Document) *Report {
	names := make(map[string]string, len(doc.Participants))
	balances := make(map[string]int64, len(doc.Participants))
	for _, p := range doc.Participants {
		names[p.ID] = p.Name
		balances[p.ID] = 0
	}

	splitsByExpense := make(map[string][]models.Split, len(doc.Expenses))
	for _, s := range doc.ExpenseSplits {
		splitsByExpense[s.ExpenseID] = append(splitsByExpense[s.ExpenseID], s)
	}

	report := &Report{Balances: balances}

	for _, expense := range doc.Expenses {
		report.TotalCost += expense.Amount

		result := ExpenseResult{
			ExpenseID:   expense.ID,
			Date:        expense.Date,
			Description: expense.Description,
		}

		splits := splitsByExpense[expense.ID]
		if len(splits) == 0 {
			result.Status = StatusSkipped
			report.Results = append(report.Results, result)
			continue
		}
		result.ShareType = splits[0].ShareType

		inputs := make([]calculator.Split, len(splits))
		for i, s := range splits {
			inputs[i] = calculator.Split{
				ParticipantID: s.ParticipantID,
				Type:          calculator.ShareType(s.ShareType),
				Share:         s.Share,
				Amount:        s.Amount,
			}
		}

		shares, err := calculator.NormalizeShares(inputs, expense.Amount)
		if err != nil {
			result.Status = StatusInvalid
			result.Err = err.Error()
			report.Results = append(report.Results, result)
			continue
		}

		result.Shares = make(map[string]int64, len(splits))
		var shareTotal int64
		for i, s := range splits {
			shareTotal += shares[i]
			result.Shares[s.ParticipantID] += shares[i]
		}
		result.Delta = expense.Amount - shareTotal
		if result.Delta != 0 {
			result.Status = StatusInvalid
			result.Err = fmt.Sprintf("shares sum to %d, expected %d", shareTotal, expense.Amount)
			result.Shares = nil
			report.Results = append(report.Results, result)
			continue
		}

		result.Status = StatusOK
		report.Results = append(report.Results, result)

		// Accumulate: the payer fronted the full amount, every split
		// participant owes its share. IDs not declared as participants are
		// ignored rather than invented.
		if _, ok := balances[expense.PaidBy]; ok {
			balances[expense.PaidBy] += expense.Amount
		}
		for i, s := range splits {
			if _, ok := balances[s.ParticipantID]; ok {
				balances[s.ParticipantID] -= shares[i]
			}
		}
	}

	report.Settlements = calculator.ResolveDebts(balances, names)
	return report
}
