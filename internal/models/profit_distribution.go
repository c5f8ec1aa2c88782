package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type ProfitDistribution struct {
	ID                  string                `json:"id,omitempty" db:"id,omitempty"`
	DistributionCode    string                `json:"distribution_code,omitempty" db:"distribution_code,omitempty"`
	SaleID              string                `json:"sale_id,omitempty" db:"sale_id,omitempty"`
	TotalRevenue        decimal.Decimal       `json:"total_revenue,omitempty" db:"total_revenue,omitempty"`
	TotalExpenses       decimal.Decimal       `json:"total_expenses" db:"total_expenses"`
	CooperativeShare    decimal.Decimal       `json:"cooperative_share" db:"cooperative_share"`
	CooperativeFees     decimal.Decimal       `json:"cooperative_fees" db:"cooperative_fees"`
	NetProfit           decimal.Decimal       `json:"net_profit" db:"net_profit"`
	DistributionMethod  string                `json:"distribution_method,omitempty" db:"distribution_method,omitempty"`
	DistributionDate    string                `json:"distribution_date,omitempty" db:"distribution_date,omitempty"`
	Status              string                `json:"status,omitempty" db:"status,omitempty"`
	ApprovedBy          sql.NullString        `json:"approved_by,omitempty" db:"approved_by,omitempty"`
	ApprovalDate        sql.NullString        `json:"approval_date,omitempty" db:"approval_date,omitempty"`
	Notes               sql.NullString        `json:"notes,omitempty" db:"notes,omitempty"`
	SaleCode            string                `json:"sale_code,omitempty" db:"-"`
	Expenses            []DistributionExpense `json:"expenses,omitempty" db:"-"`
	MemberDistributions []DistributionMember  `json:"member_distributions,omitempty" db:"-"`
	CreatedAt           sql.NullString        `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt           sql.NullString        `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

// DistributionExpense is one deductible line item of a distribution plan.
type DistributionExpense struct {
	ID             string          `json:"id,omitempty" db:"id,omitempty"`
	DistributionID string          `json:"distribution_id,omitempty" db:"distribution_id,omitempty"`
	Label          string          `json:"label,omitempty" db:"label,omitempty"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
}

// DistributionMember is one member's ledger row in a distribution. Share is
// a fraction of 1; SharePercentage is the wire representation.
type DistributionMember struct {
	ID              string          `json:"id,omitempty" db:"id,omitempty"`
	DistributionID  string          `json:"distribution_id,omitempty" db:"distribution_id,omitempty"`
	MemberID        string          `json:"member_id,omitempty" db:"member_id,omitempty"`
	SharePercentage decimal.Decimal `json:"share_percentage" db:"-"`
	AmountDue       decimal.Decimal `json:"amount_due" db:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	Status          string          `json:"status,omitempty" db:"status,omitempty"`
	PaymentDate     sql.NullString  `json:"payment_date,omitempty" db:"payment_date,omitempty"`
	MemberName      string          `json:"member_name,omitempty" db:"-"`
}
