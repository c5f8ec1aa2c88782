package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDistribution(t *testing.T) {
	t.Run("fees and net profit derive from revenue", func(t *testing.T) {
		plan, err := PlanDistribution(
			decimal.NewFromInt(1000),
			[]decimal.Decimal{decimal.NewFromInt(100)},
			decimal.RequireFromString("0.1"),
			[]MemberShare{
				{MemberID: "m1", Share: decimal.RequireFromString("0.6")},
				{MemberID: "m2", Share: decimal.RequireFromString("0.4")},
			},
		)
		require.NoError(t, err)
		assert.Equal(t, "100.00", plan.TotalExpenses.StringFixed(2))
		assert.Equal(t, "100.00", plan.CooperativeFees.StringFixed(2))
		assert.Equal(t, "800.00", plan.NetProfit.StringFixed(2))
		require.Len(t, plan.Allocations, 2)
		assert.Equal(t, "480.00", plan.Allocations[0].AmountDue.StringFixed(2))
		assert.Equal(t, "320.00", plan.Allocations[1].AmountDue.StringFixed(2))
	})

	t.Run("expenses above revenue produce a negative net profit", func(t *testing.T) {
		plan, err := PlanDistribution(
			decimal.NewFromInt(500),
			[]decimal.Decimal{decimal.NewFromInt(600)},
			decimal.RequireFromString("0.1"),
			[]MemberShare{
				{MemberID: "m1", Share: decimal.RequireFromString("1")},
			},
		)
		require.NoError(t, err)
		assert.Equal(t, "-150.00", plan.NetProfit.StringFixed(2))
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, "-150.00", plan.Allocations[0].AmountDue.StringFixed(2))
	})

	t.Run("no expenses and no members", func(t *testing.T) {
		plan, err := PlanDistribution(decimal.NewFromInt(1000), nil, decimal.Zero, nil)
		require.NoError(t, err)
		assert.Equal(t, "0.00", plan.TotalExpenses.StringFixed(2))
		assert.Equal(t, "0.00", plan.CooperativeFees.StringFixed(2))
		assert.Equal(t, "1000.00", plan.NetProfit.StringFixed(2))
		assert.Empty(t, plan.Allocations)
	})

	t.Run("cooperative share above 1 is rejected", func(t *testing.T) {
		_, err := PlanDistribution(decimal.NewFromInt(1000), nil,
			decimal.RequireFromString("1.1"), nil)
		assert.Error(t, err)
	})

	t.Run("negative cooperative share is rejected", func(t *testing.T) {
		_, err := PlanDistribution(decimal.NewFromInt(1000), nil,
			decimal.RequireFromString("-0.1"), nil)
		assert.Error(t, err)
	})

	t.Run("negative expense amount is rejected", func(t *testing.T) {
		_, err := PlanDistribution(decimal.NewFromInt(1000),
			[]decimal.Decimal{decimal.NewFromInt(-50)},
			decimal.Zero, nil)
		assert.Error(t, err)
	})

	t.Run("member shares not summing to 100 are rejected", func(t *testing.T) {
		_, err := PlanDistribution(decimal.NewFromInt(1000), nil, decimal.Zero,
			[]MemberShare{
				{MemberID: "m1", Share: decimal.RequireFromString("0.5")},
				{MemberID: "m2", Share: decimal.RequireFromString("0.4")},
			})
		assert.ErrorIs(t, err, ErrSharesSum)
	})
}
