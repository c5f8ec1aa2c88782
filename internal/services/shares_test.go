package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShares(t *testing.T) {
	t.Run("60/40 split of 1000", func(t *testing.T) {
		allocations, err := SplitShares(decimal.NewFromInt(1000), []MemberShare{
			{MemberID: "m1", Share: decimal.RequireFromString("0.6")},
			{MemberID: "m2", Share: decimal.RequireFromString("0.4")},
		})
		require.NoError(t, err)
		require.Len(t, allocations, 2)
		assert.Equal(t, "600.00", allocations[0].AmountDue.StringFixed(2))
		assert.Equal(t, "400.00", allocations[1].AmountDue.StringFixed(2))
	})

	t.Run("empty share list yields no allocations", func(t *testing.T) {
		allocations, err := SplitShares(decimal.NewFromInt(1000), nil)
		require.NoError(t, err)
		assert.Empty(t, allocations)
	})

	t.Run("shares not summing to 100 are rejected", func(t *testing.T) {
		_, err := SplitShares(decimal.NewFromInt(1000), []MemberShare{
			{MemberID: "m1", Share: decimal.RequireFromString("0.6")},
			{MemberID: "m2", Share: decimal.RequireFromString("0.3")},
		})
		assert.ErrorIs(t, err, ErrSharesSum)
	})

	t.Run("shares summing past 100 are rejected", func(t *testing.T) {
		_, err := SplitShares(decimal.NewFromInt(1000), []MemberShare{
			{MemberID: "m1", Share: decimal.RequireFromString("0.7")},
			{MemberID: "m2", Share: decimal.RequireFromString("0.4")},
		})
		assert.ErrorIs(t, err, ErrSharesSum)
	})

	t.Run("missing member id is rejected", func(t *testing.T) {
		_, err := SplitShares(decimal.NewFromInt(1000), []MemberShare{
			{MemberID: "", Share: decimal.RequireFromString("1")},
		})
		assert.Error(t, err)
	})

	t.Run("negative share is rejected", func(t *testing.T) {
		_, err := SplitShares(decimal.NewFromInt(1000), []MemberShare{
			{MemberID: "m1", Share: decimal.RequireFromString("1.5")},
			{MemberID: "m2", Share: decimal.RequireFromString("-0.5")},
		})
		assert.Error(t, err)
	})

	t.Run("a loss splits the same way a profit does", func(t *testing.T) {
		allocations, err := SplitShares(decimal.NewFromInt(-500), []MemberShare{
			{MemberID: "m1", Share: decimal.RequireFromString("0.5")},
			{MemberID: "m2", Share: decimal.RequireFromString("0.5")},
		})
		require.NoError(t, err)
		assert.Equal(t, "-250.00", allocations[0].AmountDue.StringFixed(2))
		assert.Equal(t, "-250.00", allocations[1].AmountDue.StringFixed(2))
	})

	t.Run("uneven split rounds each amount to two decimals", func(t *testing.T) {
		allocations, err := SplitShares(decimal.NewFromInt(100), []MemberShare{
			{MemberID: "m1", Share: decimal.RequireFromString("0.333333")},
			{MemberID: "m2", Share: decimal.RequireFromString("0.333333")},
			{MemberID: "m3", Share: decimal.RequireFromString("0.333334")},
		})
		require.NoError(t, err)
		assert.Equal(t, "33.33", allocations[0].AmountDue.StringFixed(2))
		assert.Equal(t, "33.33", allocations[1].AmountDue.StringFixed(2))
		assert.Equal(t, "33.33", allocations[2].AmountDue.StringFixed(2))
	})
}

func TestPercentConversion(t *testing.T) {
	share := PercentToShare(decimal.NewFromInt(60))
	assert.Equal(t, "0.6", share.String())
	assert.Equal(t, "60", ShareToPercent(share).String())
}
