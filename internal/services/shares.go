package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MemberShare is one member's slice of a split, as a fraction of 1.
type MemberShare struct {
	MemberID string
	Share    decimal.Decimal
}

// Allocation is a computed ledger entry: what one member owes or is owed.
type Allocation struct {
	MemberID  string
	Share     decimal.Decimal
	AmountDue decimal.Decimal
}

var ErrSharesSum = errors.New("shares must total 100%")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// PercentToShare converts the wire representation (0-100) to the internal
// fraction of 1.
func PercentToShare(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

func ShareToPercent(share decimal.Decimal) decimal.Decimal {
	return share.Mul(hundred)
}

// SplitShares allocates total across the given shares. An empty list yields
// no allocations; a non-empty list must sum to exactly 1. Each amount due is
// rounded to 2 decimal places, so the allocations may drift from total by up
// to one minor unit per member. Total may be negative (a loss splits the
// same way a profit does).
func SplitShares(total decimal.Decimal, shares []MemberShare) ([]Allocation, error) {
	if len(shares) == 0 {
		return nil, nil
	}

	sum := decimal.Zero
	for _, s := range shares {
		if s.MemberID == "" {
			return nil, fmt.Errorf("share entry is missing a member id")
		}
		if s.Share.IsNegative() {
			return nil, fmt.Errorf("share for member %s cannot be negative", s.MemberID)
		}
		sum = sum.Add(s.Share)
	}
	if !sum.Equal(one) {
		return nil, ErrSharesSum
	}

	allocations := make([]Allocation, 0, len(shares))
	for _, s := range shares {
		allocations = append(allocations, Allocation{
			MemberID:  s.MemberID,
			Share:     s.Share,
			AmountDue: total.Mul(s.Share).Round(2),
		})
	}
	return allocations, nil
}
