package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Plot struct {
	ID               string          `json:"id,omitempty" db:"id,omitempty"`
	PlotCode         string          `json:"plot_code,omitempty" db:"plot_code,omitempty"`
	MemberID         string          `json:"member_id,omitempty" db:"member_id,omitempty"`
	Size             decimal.Decimal `json:"size,omitempty" db:"size,omitempty"`
	Village          sql.NullString  `json:"village,omitempty" db:"village,omitempty"`
	Sector           sql.NullString  `json:"sector,omitempty" db:"sector,omitempty"`
	SoilType         string          `json:"soil_type,omitempty" db:"soil_type,omitempty"`
	WaterAccess      string          `json:"water_access,omitempty" db:"water_access,omitempty"`
	Status           string          `json:"status,omitempty" db:"status,omitempty"`
	Crops            []string        `json:"crops,omitempty" db:"crops,omitempty"`
	RegistrationDate sql.NullString  `json:"registration_date,omitempty" db:"registration_date,omitempty"`
	Notes            sql.NullString  `json:"notes,omitempty" db:"notes,omitempty"`
	MemberName       string          `json:"member_name,omitempty" db:"-"`
	CreatedAt        sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt        sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
