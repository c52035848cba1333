package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is an out-of-pocket cost entered at the counter. It feeds the daily
// net figure and nothing else.
type Expense struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title     string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category  string
	Timestamp time.Time `gorm:"index;not null"`
}

func (e *Expense) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
