package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name     string          `json:"name"     validate:"required,min=1,max=120"`
	Category string          `json:"category" validate:"required"`
	Price    decimal.Decimal `json:"price"    validate:"required"`
	Cost     decimal.Decimal `json:"cost"`
	Stock    int             `json:"stock"    validate:"min=0"`
	// LowStockThreshold nil keeps the default of 5.
	LowStockThreshold *int    `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Barcode           *string `json:"barcode"             validate:"omitempty,min=4,max=18"`
	Image             *string `json:"image"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"     validate:"omitempty,min=1,max=120"`
	Category          *string          `json:"category"`
	Price             *decimal.Decimal `json:"price"`
	Cost              *decimal.Decimal `json:"cost"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Barcode           *string          `json:"barcode"             validate:"omitempty,min=4,max=18"`
	Image             *string          `json:"image"`
}

// RestockRequest adjusts stock by a signed quantity and records a movement.
type RestockRequest struct {
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason"   validate:"required,min=2"`
}

// DeleteProductRequest carries the admin password for step-up verification.
// Deletion is gated on the password regardless of the session's role.
type DeleteProductRequest struct {
	Password string `json:"password" validate:"required"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductFilter struct {
	Search   string `form:"search"`
	Barcode  string `form:"barcode"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	IsLowStock        bool            `json:"is_low_stock"`
	Barcode           *string         `json:"barcode"`
	Image             *string         `json:"image"`
	CreatedAt         string          `json:"created_at"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}
