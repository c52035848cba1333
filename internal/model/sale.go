package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods accepted at checkout.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentDebt = "debt"
)

// Sale is an immutable checkout record. TotalAmount is the tax-inclusive total
// computed once at checkout from the item snapshots; repricing a product later
// never changes historical sales.
// Synced is kept for a future upstream sync process; nothing consumes it yet.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(10);not null"`
	// CustomerID is set iff PaymentMethod == PaymentDebt.
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	Timestamp  time.Time  `gorm:"index;not null"`
	Synced     bool       `gorm:"not null;default:false"`

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

func (s *Sale) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SaleItem snapshots name, price and cost at sale time so that gross-profit
// reporting stays correct even if the product is later repriced or deleted.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (i *SaleItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
