// Package report renders verification reports as plain text, mirroring the
// shape of the original console output: an expense verification table, the
// total cost, and the settlement plan.
package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/crewledger/crewledger/internal/verifier"
)

const lineWidth = 72

// Render produces the human-readable report for one verification pass.
// Amounts are integer minor units formatted in the given ISO 4217 currency;
// an empty code falls back to USD.
func Render(rep *verifier.Report, currency string) string {
	if currency == "" {
		currency = money.USD
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%-12s | %-25s | %-10s | %s\n", "Date", "Description", "Type", "Status")
	b.WriteString(strings.Repeat("-", lineWidth))
	b.WriteByte('\n')
	for _, r := range rep.Results {
		fmt.Fprintf(&b, "%-12s | %-25s | %-10s | %s\n",
			shortDate(r.Date), r.Description, r.ShareType, statusLabel(r))
	}
	b.WriteString(strings.Repeat("-", lineWidth))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Total cost: %s\n", money.New(rep.TotalCost, currency).Display())

	b.WriteString("\nSettlement plan\n")
	if len(rep.Settlements) == 0 {
		b.WriteString("All balances are settled, no payments needed.\n")
		return b.String()
	}
	for _, s := range rep.Settlements {
		fmt.Fprintf(&b, "%-15s pays %-15s %s\n",
			s.FromName, s.ToName, money.New(s.Amount, currency).Display())
	}
	return b.String()
}

func statusLabel(r verifier.ExpenseResult) string {
	switch r.Status {
	case verifier.StatusOK:
		return "OK"
	case verifier.StatusSkipped:
		return "SKIPPED"
	default:
		if r.Err != "" {
			return "ERROR: " + r.Err
		}
		return fmt.Sprintf("DIFF: %d", r.Delta)
	}
}

// shortDate trims RFC 3339 timestamps down to the calendar date.
func shortDate(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
