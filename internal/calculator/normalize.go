// Package calculator implements the two pure algorithms at the heart of
// CrewLedger: deterministic share normalization and greedy debt settlement.
//
// All monetary values are int64 minor currency units (cents). Floating point
// appears only as intermediate apportionment math for percentage and weight
// splits; the output is always exact integers that sum to the expense total.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ShareType declares how an expense is allocated across its splits.
type ShareType string

const (
	ShareEqual      ShareType = "equal"
	SharePercentage ShareType = "percentage"
	ShareWeight     ShareType = "weight"
	ShareAmount     ShareType = "amount"
)

// Split is one participant's declared stake in a single expense.
// Share carries percentage points or weight units depending on Type.
// Amount is set only for amount-type splits.
type Split struct {
	ParticipantID string
	Type          ShareType
	Share         float64
	Amount        *int64
}

// Validation failure categories. NormalizeShares wraps these in a
// *ValidationError carrying the diagnostic detail, so callers can match
// either the category (errors.Is) or the type (errors.As).
var (
	ErrMixedShareTypes   = errors.New("splits disagree on share type")
	ErrPercentageSum     = errors.New("percentages must sum to 100")
	ErrNonPositiveWeight = errors.New("total weight must be positive")
	ErrMissingAmount     = errors.New("split missing explicit amount")
	ErrAmountSum         = errors.New("split amounts must sum to expense total")
	ErrUnknownShareType  = errors.New("unknown share type")
)

// ValidationError reports an invalid split configuration for one expense.
// Failures are per-expense: the caller records the expense as invalid and
// keeps processing the rest of the ledger.
type ValidationError struct {
	category error
	detail   string
}

func (e *ValidationError) Error() string { return e.detail }

func (e *ValidationError) Unwrap() error { return e.category }

func validationErrorf(category error, format string, args ...any) error {
	return &ValidationError{category: category, detail: fmt.Sprintf(format, args...)}
}

// percentTolerance absorbs floating-point representation error in declared
// percentages without masking real mismatches: 0.01 plus 100 ulps of 1.0.
var percentTolerance = 0.01 + 100*(math.Nextafter(1, 2)-1)

// NormalizeShares converts the declared allocation for one expense into exact
// integer shares, positionally aligned with splits and summing to total.
//
// The result does not depend on the caller's split ordering: splits are first
// re-sorted into a canonical order keyed by (participant ID, original index),
// all arithmetic and remainder distribution runs in that order, and the
// shares are scattered back to the caller's positions at the end.
//
// A zero total returns all-zero shares without validation (nothing to
// allocate); an empty input returns an empty result.
func NormalizeShares(splits []Split, total int64) ([]int64, error) {
	if len(splits) == 0 {
		return nil, nil
	}
	if total == 0 {
		return make([]int64, len(splits)), nil
	}

	shareType := splits[0].Type
	for _, s := range splits[1:] {
		if s.Type != shareType {
			return nil, validationErrorf(ErrMixedShareTypes,
				"all splits for an expense must have the same share type, found %q and %q",
				shareType, s.Type)
		}
	}

	order := canonicalOrder(splits)

	var canonical []int64
	var err error
	switch shareType {
	case ShareEqual:
		canonical = normalizeEqual(len(splits), total)
	case SharePercentage:
		canonical, err = normalizePercentage(splits, order, total)
	case ShareWeight:
		canonical, err = normalizeWeight(splits, order, total)
	case ShareAmount:
		canonical, err = normalizeAmount(splits, order, total)
	default:
		err = validationErrorf(ErrUnknownShareType, "unknown share type %q", shareType)
	}
	if err != nil {
		return nil, err
	}

	normalized := make([]int64, len(splits))
	for pos, original := range order {
		normalized[original] = canonical[pos]
	}
	return normalized, nil
}

// canonicalOrder returns the original split indices sorted by participant ID,
// with the original index as secondary key. The secondary key keeps the order
// total even if participant IDs repeat, which the data model forbids but the
// rounding policy defends against anyway.
func canonicalOrder(splits []Split) []int {
	order := make([]int, len(splits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if splits[i].ParticipantID != splits[j].ParticipantID {
			return splits[i].ParticipantID < splits[j].ParticipantID
		}
		return i < j
	})
	return order
}

// normalizeEqual gives every participant total/n and spreads the remainder,
// one unit each, over the first participants in canonical order.
func normalizeEqual(n int, total int64) []int64 {
	base := total / int64(n)
	remainder := total - base*int64(n)

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
	}
	for i := int64(0); i < remainder; i++ {
		shares[i]++
	}
	return shares
}

func normalizePercentage(splits []Split, order []int, total int64) ([]int64, error) {
	var totalPercent float64
	for _, i := range order {
		totalPercent += splits[i].Share
	}
	if math.Abs(totalPercent-100) > percentTolerance {
		return nil, validationErrorf(ErrPercentageSum,
			"percentages must sum to 100, got %v", totalPercent)
	}

	exact := make([]float64, len(order))
	for pos, i := range order {
		exact[pos] = splits[i].Share / 100 * float64(total)
	}
	return apportion(exact, total), nil
}

func normalizeWeight(splits []Split, order []int, total int64) ([]int64, error) {
	var totalWeight float64
	for _, i := range order {
		totalWeight += splits[i].Share
	}
	if totalWeight <= 0 {
		return nil, validationErrorf(ErrNonPositiveWeight,
			"total weight must be positive, got %v", totalWeight)
	}

	exact := make([]float64, len(order))
	for pos, i := range order {
		exact[pos] = splits[i].Share / totalWeight * float64(total)
	}
	return apportion(exact, total), nil
}

func normalizeAmount(splits []Split, order []int, total int64) ([]int64, error) {
	missing := 0
	for _, s := range splits {
		if s.Amount == nil {
			missing++
		}
	}
	if missing > 0 {
		return nil, validationErrorf(ErrMissingAmount,
			"all splits must have explicit amounts; found %d missing amount(s)", missing)
	}

	shares := make([]int64, len(order))
	var sum int64
	for pos, i := range order {
		shares[pos] = *splits[i].Amount
		sum += shares[pos]
	}
	if sum != total {
		return nil, validationErrorf(ErrAmountSum,
			"split amounts must sum to expense total: expected %d, got %d", total, sum)
	}
	return shares, nil
}

// apportion floors each exact real-valued amount to an integer base, then
// hands the remaining units to the largest fractional remainders, ties broken
// by the lower canonical index. This is the largest-remainder method: the
// integer vector closest to the ideal proportional split, with deterministic
// tie-breaks.
func apportion(exact []float64, total int64) []int64 {
	shares := make([]int64, len(exact))
	var baseTotal int64
	for i, amount := range exact {
		shares[i] = int64(math.Floor(amount))
		baseTotal += shares[i]
	}
	remainder := total - baseTotal

	byFraction := make([]int, len(exact))
	for i := range byFraction {
		byFraction[i] = i
	}
	sort.Slice(byFraction, func(a, b int) bool {
		i, j := byFraction[a], byFraction[b]
		fi := exact[i] - math.Floor(exact[i])
		fj := exact[j] - math.Floor(exact[j])
		if fi != fj {
			return fi > fj
		}
		return i < j
	})

	// The tolerance admits percentage sums slightly under 100, where the
	// remainder can exceed the split count; wrap around so the shares still
	// sum to total. A negative remainder (sums slightly over 100) is left
	// alone and surfaces as a non-zero delta in the caller's cross-check.
	if remainder > 0 {
		n := int64(len(byFraction))
		for k := int64(0); k < remainder; k++ {
			shares[byFraction[k%n]]++
		}
	}
	return shares
}
