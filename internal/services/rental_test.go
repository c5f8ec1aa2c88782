package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalCost(t *testing.T) {
	t.Run("daily rate bills whole started days", func(t *testing.T) {
		cost, err := RentalCost(decimal.NewFromInt(50), RentalUnitDay,
			date("2024-01-01 00:00:00"), date("2024-01-04 00:00:00"))
		require.NoError(t, err)
		assert.True(t, cost.Equal(decimal.NewFromInt(150)), "got %s", cost)
	})

	t.Run("partial day rounds up", func(t *testing.T) {
		cost, err := RentalCost(decimal.NewFromInt(50), RentalUnitDay,
			date("2024-01-01 08:00:00"), date("2024-01-04 12:00:00"))
		require.NoError(t, err)
		assert.True(t, cost.Equal(decimal.NewFromInt(200)), "got %s", cost)
	})

	t.Run("hourly rate bills fractional hours", func(t *testing.T) {
		cost, err := RentalCost(decimal.NewFromInt(10), RentalUnitHour,
			date("2024-01-01 09:00:00"), date("2024-01-01 11:30:00"))
		require.NoError(t, err)
		assert.True(t, cost.Equal(decimal.NewFromInt(25)), "got %s", cost)
	})

	t.Run("weekly rate bills whole started weeks", func(t *testing.T) {
		cost, err := RentalCost(decimal.NewFromInt(100), RentalUnitWeek,
			date("2024-01-01 00:00:00"), date("2024-01-09 00:00:00"))
		require.NoError(t, err)
		assert.True(t, cost.Equal(decimal.NewFromInt(200)), "got %s", cost)
	})

	t.Run("empty unit falls back to daily", func(t *testing.T) {
		cost, err := RentalCost(decimal.NewFromInt(50), "",
			date("2024-01-01 00:00:00"), date("2024-01-02 00:00:00"))
		require.NoError(t, err)
		assert.True(t, cost.Equal(decimal.NewFromInt(50)), "got %s", cost)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := RentalCost(decimal.NewFromInt(50), RentalUnitDay,
			date("2024-01-04 00:00:00"), date("2024-01-01 00:00:00"))
		assert.ErrorIs(t, err, ErrInvalidRentalPeriod)
	})

	t.Run("end equal to start is rejected", func(t *testing.T) {
		_, err := RentalCost(decimal.NewFromInt(50), RentalUnitDay,
			date("2024-01-01 00:00:00"), date("2024-01-01 00:00:00"))
		assert.ErrorIs(t, err, ErrInvalidRentalPeriod)
	})

	t.Run("negative rate is rejected", func(t *testing.T) {
		_, err := RentalCost(decimal.NewFromInt(-5), RentalUnitDay,
			date("2024-01-01 00:00:00"), date("2024-01-02 00:00:00"))
		assert.Error(t, err)
	})

	t.Run("unknown unit is rejected", func(t *testing.T) {
		_, err := RentalCost(decimal.NewFromInt(50), "per-month",
			date("2024-01-01 00:00:00"), date("2024-02-01 00:00:00"))
		assert.Error(t, err)
	})

	t.Run("longer periods never cost less", func(t *testing.T) {
		start := date("2024-01-01 00:00:00")
		prev := decimal.Zero
		for days := 1; days <= 14; days++ {
			cost, err := RentalCost(decimal.NewFromInt(50), RentalUnitDay,
				start, start.AddDate(0, 0, days))
			require.NoError(t, err)
			assert.True(t, cost.GreaterThanOrEqual(prev),
				"cost dropped from %s to %s at %d days", prev, cost, days)
			prev = cost
		}
	})
}

func TestDepositRequired(t *testing.T) {
	deposit := DepositRequired(decimal.NewFromInt(150))
	assert.True(t, deposit.Equal(decimal.NewFromInt(45)), "got %s", deposit)

	deposit = DepositRequired(decimal.RequireFromString("99.99"))
	assert.Equal(t, "30.00", deposit.StringFixed(2))
}
