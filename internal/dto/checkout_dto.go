package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card debt"`
	// CustomerID is required iff payment_method is debt.
	CustomerID *string `json:"customer_id" validate:"omitempty,uuid"`
	// OverrideDebtLimit commits a debt sale even when it pushes the customer
	// past their limit.
	OverrideDebtLimit bool `json:"override_debt_limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	CustomerID    *string            `json:"customer_id"`
	Timestamp     string             `json:"timestamp"`
	ReceiptPath   *string            `json:"receipt_path,omitempty"`
}

// DebtLimitExceededResponse is the soft-rejection payload. The client may
// retry with override_debt_limit set.
type DebtLimitExceededResponse struct {
	Detail        string          `json:"detail"`
	CurrentDebt   decimal.Decimal `json:"current_debt"`
	SaleTotal     decimal.Decimal `json:"sale_total"`
	ProjectedDebt decimal.Decimal `json:"projected_debt"`
	DebtLimit     decimal.Decimal `json:"debt_limit"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
}
