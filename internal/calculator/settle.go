package calculator

import "sort"

// Settlement is one payer-to-payee transfer in a settlement plan.
type Settlement struct {
	FromID   string
	ToID     string
	FromName string
	ToName   string
	Amount   int64
}

// unknownName stands in for a participant missing from the names mapping.
// Settlement computation never aborts on a display-name lookup miss.
const unknownName = "Unknown"

type party struct {
	id     string
	amount int64
}

// ResolveDebts computes the transfers that settle all balances to zero using
// greedy largest-to-largest matching: the biggest remaining debtor always
// pays the biggest remaining creditor. Participants with a zero balance are
// omitted. The plan holds at most debtors+creditors-1 transfers and the loop
// terminates once either side is exhausted; if the balances were not
// zero-sum, the leftover imbalance is simply left unresolved.
func ResolveDebts(balances map[string]int64, names map[string]string) []Settlement {
	var debtors, creditors []party
	for id, amount := range balances {
		switch {
		case amount < 0:
			debtors = append(debtors, party{id: id, amount: amount})
		case amount > 0:
			creditors = append(creditors, party{id: id, amount: amount})
		}
	}

	// Largest magnitudes first. Participant ID breaks ties so map iteration
	// order never leaks into the plan.
	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].amount != debtors[j].amount {
			return debtors[i].amount < debtors[j].amount
		}
		return debtors[i].id < debtors[j].id
	})
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].amount != creditors[j].amount {
			return creditors[i].amount > creditors[j].amount
		}
		return creditors[i].id < creditors[j].id
	})

	var settlements []Settlement
	d, c := 0, 0
	for d < len(debtors) && c < len(creditors) {
		debtor := &debtors[d]
		creditor := &creditors[c]

		amount := -debtor.amount
		if creditor.amount < amount {
			amount = creditor.amount
		}

		settlements = append(settlements, Settlement{
			FromID:   debtor.id,
			ToID:     creditor.id,
			FromName: displayName(names, debtor.id),
			ToName:   displayName(names, creditor.id),
			Amount:   amount,
		})

		debtor.amount += amount
		creditor.amount -= amount

		// Advance once the remaining balance drops below one minor unit.
		// Both sides may advance in the same step.
		if debtor.amount > -1 {
			d++
		}
		if creditor.amount < 1 {
			c++
		}
	}
	return settlements
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return unknownName
}
