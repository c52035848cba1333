package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock movement directions.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// StockMovement is an append-only audit entry. Every stock mutation emits
// exactly one movement, so the log is a replayable derivation of current stock.
// ProductName is snapshotted so the log survives product deletion.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductName string    `gorm:"not null"`
	Type        string    `gorm:"type:varchar(5);not null;index"`
	Quantity    int       `gorm:"not null"`
	Reason      string
	// ReferenceID links sale-driven movements back to the originating Sale.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"index"`
}

func (m *StockMovement) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (StockMovement) TableName() string { return "stock_movements" }
