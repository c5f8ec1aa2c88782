package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Billing granularities for equipment rentals.
const (
	RentalUnitHour = "per-hour"
	RentalUnitDay  = "per-day"
	RentalUnitWeek = "per-week"
)

var ErrInvalidRentalPeriod = errors.New("end date must be after start date")

var depositRate = decimal.RequireFromString("0.3")

// RentalCost prices a booking of the given period. Hourly rentals bill
// fractional hours; daily and weekly rentals bill whole started units.
func RentalCost(rate decimal.Decimal, unit string, start, end time.Time) (decimal.Decimal, error) {
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("rental rate cannot be negative")
	}
	if !end.After(start) {
		return decimal.Zero, ErrInvalidRentalPeriod
	}

	switch unit {
	case RentalUnitHour:
		hours := decimal.NewFromFloat(end.Sub(start).Hours())
		return rate.Mul(hours).Round(2), nil
	case RentalUnitWeek:
		days := math.Ceil(end.Sub(start).Hours() / 24)
		weeks := int64(math.Ceil(days / 7))
		return rate.Mul(decimal.NewFromInt(weeks)).Round(2), nil
	case RentalUnitDay, "":
		days := int64(math.Ceil(end.Sub(start).Hours() / 24))
		return rate.Mul(decimal.NewFromInt(days)).Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown rental unit %q", unit)
	}
}

// DepositRequired is 30% of the rental cost.
func DepositRequired(rentalCost decimal.Decimal) decimal.Decimal {
	return rentalCost.Mul(depositRate).Round(2)
}
