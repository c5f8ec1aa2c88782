package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID            string          `json:"id,omitempty" db:"id,omitempty"`
	SaleCode      string          `json:"sale_code,omitempty" db:"sale_code,omitempty"`
	Crop          string          `json:"crop,omitempty" db:"crop,omitempty"`
	TotalWeight   decimal.Decimal `json:"total_weight,omitempty" db:"total_weight,omitempty"`
	Unit          string          `json:"unit,omitempty" db:"unit,omitempty"`
	BuyerName     string          `json:"buyer_name,omitempty" db:"buyer_name,omitempty"`
	BuyerContact  sql.NullString  `json:"buyer_contact,omitempty" db:"buyer_contact,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price,omitempty" db:"unit_price,omitempty"`
	TotalRevenue  decimal.Decimal `json:"total_revenue,omitempty" db:"total_revenue,omitempty"`
	Currency      string          `json:"currency,omitempty" db:"currency,omitempty"`
	SaleDate      string          `json:"sale_date,omitempty" db:"sale_date,omitempty"`
	PaymentStatus string          `json:"payment_status,omitempty" db:"payment_status,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty" db:"payment_method,omitempty"`
	QualityGrade  string          `json:"quality_grade,omitempty" db:"quality_grade,omitempty"`
	Status        string          `json:"status,omitempty" db:"status,omitempty"`
	RecordedBy    sql.NullString  `json:"recorded_by,omitempty" db:"recorded_by,omitempty"`
	Notes         sql.NullString  `json:"notes,omitempty" db:"notes,omitempty"`
	HarvestIDs    []string        `json:"harvest_ids,omitempty" db:"-"`
	CreatedAt     sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt     sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
