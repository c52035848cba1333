package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ertugrul2020/pos/internal/model"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	// ListAll returns every customer; search filtering happens in the service
	// with exact substring semantics the SQL LIKE of some drivers cannot give.
	ListAll(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AddDebtTx adds amount to total_debt inside the caller's transaction and
	// stamps last_visit with the sale instant, so the ledger and the sale row
	// carry the same moment.
	AddDebtTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal, ts time.Time) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *customerRepo) ListAll(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id).Error
}

func (r *customerRepo) AddDebtTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal, ts time.Time) error {
	return tx.Model(&model.Customer{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_debt": gorm.Expr("total_debt + ?", amount),
			"last_visit": ts,
		}).Error
}
