package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type EquipmentBooking struct {
	ID                    string          `json:"id,omitempty" db:"id,omitempty"`
	BookingCode           string          `json:"booking_code,omitempty" db:"booking_code,omitempty"`
	MemberID              string          `json:"member_id,omitempty" db:"member_id,omitempty"`
	EquipmentID           string          `json:"equipment_id,omitempty" db:"equipment_id,omitempty"`
	StartDate             string          `json:"start_date,omitempty" db:"start_date,omitempty"`
	EndDate               string          `json:"end_date,omitempty" db:"end_date,omitempty"`
	Purpose               string          `json:"purpose,omitempty" db:"purpose,omitempty"`
	Status                string          `json:"status,omitempty" db:"status,omitempty"`
	RentalCost            decimal.Decimal `json:"rental_cost,omitempty" db:"rental_cost,omitempty"`
	DepositAmountRequired decimal.Decimal `json:"deposit_amount_required,omitempty" db:"deposit_amount_required,omitempty"`
	DepositPaid           bool            `json:"deposit_paid,omitempty" db:"deposit_paid,omitempty"`
	DamageReported        bool            `json:"damage_reported,omitempty" db:"damage_reported,omitempty"`
	DamageDescription     sql.NullString  `json:"damage_description,omitempty" db:"damage_description,omitempty"`
	OperatorName          sql.NullString  `json:"operator_name,omitempty" db:"operator_name,omitempty"`
	OperatorPhone         sql.NullString  `json:"operator_phone,omitempty" db:"operator_phone,omitempty"`
	Notes                 sql.NullString  `json:"notes,omitempty" db:"notes,omitempty"`
	ApprovedBy            sql.NullString  `json:"approved_by,omitempty" db:"approved_by,omitempty"`
	MemberName            string          `json:"member_name,omitempty" db:"-"`
	EquipmentName         string          `json:"equipment_name,omitempty" db:"-"`
	CreatedAt             sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt             sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
