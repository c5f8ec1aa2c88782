package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DistributionPlan holds the derived figures of a profit distribution,
// computed once at creation and persisted as-is.
type DistributionPlan struct {
	TotalExpenses   decimal.Decimal
	CooperativeFees decimal.Decimal
	NetProfit       decimal.Decimal
	Allocations     []Allocation
}

// PlanDistribution derives a distribution from a sale's revenue.
// cooperativeShare is a fraction of 1. Net profit is reported as computed,
// including losses; a negative figure must reach the books unchanged.
func PlanDistribution(totalRevenue decimal.Decimal, expenseAmounts []decimal.Decimal, cooperativeShare decimal.Decimal, shares []MemberShare) (DistributionPlan, error) {
	if cooperativeShare.IsNegative() || cooperativeShare.GreaterThan(one) {
		return DistributionPlan{}, fmt.Errorf("cooperative share must be between 0 and 1")
	}

	totalExpenses := decimal.Zero
	for _, amount := range expenseAmounts {
		if amount.IsNegative() {
			return DistributionPlan{}, fmt.Errorf("expense amounts cannot be negative")
		}
		totalExpenses = totalExpenses.Add(amount)
	}

	cooperativeFees := totalRevenue.Mul(cooperativeShare).Round(2)
	netProfit := totalRevenue.Sub(totalExpenses).Sub(cooperativeFees)

	allocations, err := SplitShares(netProfit, shares)
	if err != nil {
		return DistributionPlan{}, err
	}

	return DistributionPlan{
		TotalExpenses:   totalExpenses,
		CooperativeFees: cooperativeFees,
		NetProfit:       netProfit,
		Allocations:     allocations,
	}, nil
}
