package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Equipment struct {
	ID            string              `json:"id,omitempty" db:"id,omitempty"`
	EquipmentCode string              `json:"equipment_code,omitempty" db:"equipment_code,omitempty"`
	Name          string              `json:"name,omitempty" db:"name,omitempty"`
	Type          string              `json:"type,omitempty" db:"type,omitempty"`
	Description   sql.NullString      `json:"description,omitempty" db:"description,omitempty"`
	PurchaseDate  sql.NullString      `json:"purchase_date,omitempty" db:"purchase_date,omitempty"`
	PurchasePrice decimal.NullDecimal `json:"purchase_price,omitempty" db:"purchase_price,omitempty"`
	CurrentValue  decimal.NullDecimal `json:"current_value,omitempty" db:"current_value,omitempty"`
	Status        string              `json:"status,omitempty" db:"status,omitempty"`
	RentalRate    decimal.Decimal     `json:"rental_rate,omitempty" db:"rental_rate,omitempty"`
	RentalUnit    string              `json:"rental_unit,omitempty" db:"rental_unit,omitempty"`
	Location      sql.NullString      `json:"location,omitempty" db:"location,omitempty"`
	OwnershipType string              `json:"ownership_type,omitempty" db:"ownership_type,omitempty"`
	CreatedAt     sql.NullString      `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt     sql.NullString      `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
