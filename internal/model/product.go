package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold applies when a product has no explicit alert threshold.
const DefaultLowStockThreshold = 5

// Product is a catalog entry. Category is a denormalized category name, not a
// foreign key — deleting a category leaves the string in place.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"index;not null"`
	Category string    `gorm:"index;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock    int             `gorm:"not null;default:0"`
	// LowStockThreshold nil means DefaultLowStockThreshold.
	LowStockThreshold *int
	Barcode           *string `gorm:"index"`
	Image             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Threshold returns the effective low-stock alert threshold.
func (p *Product) Threshold() int {
	if p.LowStockThreshold != nil {
		return *p.LowStockThreshold
	}
	return DefaultLowStockThreshold
}

// IsLowStock is recomputed on every read; it is never stored.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.Threshold()
}

// Category classifies products for the POS grid. Color is a display hint.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
