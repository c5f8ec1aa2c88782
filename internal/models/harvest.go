package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Harvest struct {
	ID              string              `json:"id,omitempty" db:"id,omitempty"`
	HarvestCode     string              `json:"harvest_code,omitempty" db:"harvest_code,omitempty"`
	MemberID        string              `json:"member_id,omitempty" db:"member_id,omitempty"`
	PlotID          string              `json:"plot_id,omitempty" db:"plot_id,omitempty"`
	Crop            string              `json:"crop,omitempty" db:"crop,omitempty"`
	Weight          decimal.Decimal     `json:"weight,omitempty" db:"weight,omitempty"`
	Unit            string              `json:"unit,omitempty" db:"unit,omitempty"`
	HarvestDate     string              `json:"harvest_date,omitempty" db:"harvest_date,omitempty"`
	Quality         string              `json:"quality,omitempty" db:"quality,omitempty"`
	Status          string              `json:"status,omitempty" db:"status,omitempty"`
	StorageLocation sql.NullString      `json:"storage_location,omitempty" db:"storage_location,omitempty"`
	EstimatedValue  decimal.NullDecimal `json:"estimated_value,omitempty" db:"estimated_value,omitempty"`
	Notes           sql.NullString      `json:"notes,omitempty" db:"notes,omitempty"`
	ValidatedBy     sql.NullString      `json:"validated_by,omitempty" db:"validated_by,omitempty"`
	ValidationDate  sql.NullString      `json:"validation_date,omitempty" db:"validation_date,omitempty"`
	MemberName      string              `json:"member_name,omitempty" db:"-"`
	PlotCode        string              `json:"plot_code,omitempty" db:"-"`
	CreatedAt       sql.NullString      `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt       sql.NullString      `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
