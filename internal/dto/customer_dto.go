package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateCustomerRequest: a nil DebtLimit applies the default of 1000; an
// explicit 0 means unlimited credit.
type CreateCustomerRequest struct {
	Name      string           `json:"name"  validate:"required,min=1,max=120"`
	Phone     string           `json:"phone" validate:"required,min=5,max=20"`
	DebtLimit *decimal.Decimal `json:"debt_limit"`
}

type UpdateCustomerRequest struct {
	Name      *string          `json:"name"  validate:"omitempty,min=1,max=120"`
	Phone     *string          `json:"phone" validate:"omitempty,min=5,max=20"`
	DebtLimit *decimal.Decimal `json:"debt_limit"`
}

type CustomerFilter struct {
	Search string `form:"search"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	// DebtLimit null means unlimited.
	DebtLimit *decimal.Decimal `json:"debt_limit"`
	LastVisit *string          `json:"last_visit"`
	CreatedAt string           `json:"created_at"`
}
