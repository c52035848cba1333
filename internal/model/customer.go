package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a debt-ledger entry. TotalDebt is mutated only by debt checkouts;
// there is no settlement operation. A nil DebtLimit means unlimited credit.
type Customer struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"index;not null"`
	Phone     string          `gorm:"index;not null"`
	TotalDebt decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DebtLimit *decimal.Decimal `gorm:"type:decimal(12,2)"`
	LastVisit *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// OverLimit reports whether adding amount to the current debt would exceed the
// limit. Customers without a limit are never over it.
func (c *Customer) OverLimit(amount decimal.Decimal) bool {
	if c.DebtLimit == nil {
		return false
	}
	return c.TotalDebt.Add(amount).GreaterThan(*c.DebtLimit)
}
