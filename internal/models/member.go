package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Member struct {
	ID               string          `json:"id,omitempty" db:"id,omitempty"`
	Name             string          `json:"name,omitempty" db:"name,omitempty"`
	Email            string          `json:"email,omitempty" db:"email,omitempty"`
	Phone            string          `json:"phone,omitempty" db:"phone,omitempty"`
	Village          string          `json:"village,omitempty" db:"village,omitempty"`
	PlotSize         decimal.Decimal `json:"plot_size,omitempty" db:"plot_size,omitempty"`
	Password         string          `json:"password,omitempty" db:"password,omitempty"`
	Role             string          `json:"role,omitempty" db:"role,omitempty"`
	Status           string          `json:"status,omitempty" db:"status,omitempty"`
	Shares           int             `json:"shares,omitempty" db:"shares,omitempty"`
	Address          sql.NullString  `json:"address,omitempty" db:"address,omitempty"`
	EmergencyContact sql.NullString  `json:"emergency_contact,omitempty" db:"emergency_contact,omitempty"`
	EmergencyPhone   sql.NullString  `json:"emergency_phone,omitempty" db:"emergency_phone,omitempty"`
	JoinDate         sql.NullString  `json:"join_date,omitempty" db:"join_date,omitempty"`
	CreatedAt        sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt        sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
