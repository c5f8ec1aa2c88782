package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type SharedExpense struct {
	ID            string               `json:"id,omitempty" db:"id,omitempty"`
	ExpenseCode   string               `json:"expense_code,omitempty" db:"expense_code,omitempty"`
	Category      string               `json:"category,omitempty" db:"category,omitempty"`
	Description   string               `json:"description,omitempty" db:"description,omitempty"`
	Amount        decimal.Decimal      `json:"amount,omitempty" db:"amount,omitempty"`
	Currency      string               `json:"currency,omitempty" db:"currency,omitempty"`
	PaidBy        string               `json:"paid_by,omitempty" db:"paid_by,omitempty"`
	ExpenseDate   string               `json:"expense_date,omitempty" db:"expense_date,omitempty"`
	Status        string               `json:"status,omitempty" db:"status,omitempty"`
	ApprovedBy    sql.NullString       `json:"approved_by,omitempty" db:"approved_by,omitempty"`
	Notes         sql.NullString       `json:"notes,omitempty" db:"notes,omitempty"`
	PayerName     string               `json:"payer_name,omitempty" db:"-"`
	Beneficiaries []ExpenseBeneficiary `json:"beneficiaries,omitempty" db:"-"`
	CreatedAt     sql.NullString       `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt     sql.NullString       `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

// ExpenseBeneficiary is one row of an expense ledger. Share is a fraction
// of 1; SharePercentage is what the dashboard sends and sees.
type ExpenseBeneficiary struct {
	ID              string          `json:"id,omitempty" db:"id,omitempty"`
	ExpenseID       string          `json:"expense_id,omitempty" db:"expense_id,omitempty"`
	MemberID        string          `json:"member_id,omitempty" db:"member_id,omitempty"`
	SharePercentage decimal.Decimal `json:"share_percentage" db:"-"`
	AmountDue       decimal.Decimal `json:"amount_due" db:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	Status          string          `json:"status,omitempty" db:"status,omitempty"`
	MemberName      string          `json:"member_name,omitempty" db:"-"`
}
