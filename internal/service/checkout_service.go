package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/infra"
	"github.com/Ertugrul2020/pos/internal/model"
	"github.com/Ertugrul2020/pos/internal/repository"
)

var (
	ErrSaleNotFound     = errors.New("sale not found")
	ErrCustomerRequired = errors.New("debt sales require a customer")
	ErrCustomerNotFound = errors.New("customer not found")
)

// DebtLimitError is the soft rejection for a debt sale that would push the
// customer past their limit. Checkout retried with the override flag commits.
type DebtLimitError struct {
	CurrentDebt   decimal.Decimal
	SaleTotal     decimal.Decimal
	ProjectedDebt decimal.Decimal
	DebtLimit     decimal.Decimal
}

func (e *DebtLimitError) Error() string {
	return "هذا العميل سيتجاوز حد الدين المسموح به"
}

type CheckoutService interface {
	// Checkout commits the session cart as one sale. All writes — the sale and
	// its items, per-line stock decrements, per-line movements, and the debt
	// increment — happen in a single transaction.
	Checkout(ctx context.Context, subject string, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	ListSales(ctx context.Context) (*dto.SaleListResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error
}

type checkoutService struct {
	sales       repository.SaleRepository
	products    repository.ProductRepository
	movements   repository.StockMovementRepository
	customers   repository.CustomerRepository
	cart        CartService
	settings    SettingsService
	receiptPath string
	now         func() time.Time
}

func NewCheckoutService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	customers repository.CustomerRepository,
	cart CartService,
	settings SettingsService,
	receiptPath string,
) CheckoutService {
	return &checkoutService{
		sales:       sales,
		products:    products,
		movements:   movements,
		customers:   customers,
		cart:        cart,
		settings:    settings,
		receiptPath: receiptPath,
		now:         time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *checkoutService) Checkout(ctx context.Context, subject string, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	lines := s.cart.Lines(subject)
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	total := saleTotal(subtotal)

	// Pre-flight: resolve the customer and check the limit outside the TX.
	var customerID *uuid.UUID
	if req.PaymentMethod == model.PaymentDebt {
		if req.CustomerID == nil {
			return nil, ErrCustomerRequired
		}
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, ErrCustomerNotFound
		}
		customer, err := s.customers.FindByID(ctx, cid)
		if err != nil {
			if notFound(err) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
		if customer.OverLimit(total) && !req.OverrideDebtLimit {
			return nil, &DebtLimitError{
				CurrentDebt:   customer.TotalDebt,
				SaleTotal:     total,
				ProjectedDebt: customer.TotalDebt.Add(total),
				DebtLimit:     *customer.DebtLimit,
			}
		}
		customerID = &cid
	}

	sale := model.Sale{
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
		CustomerID:    customerID,
		Timestamp:     s.now(),
	}
	for _, l := range lines {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Cost:      l.Cost,
			Quantity:  l.Quantity,
			Total:     l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return err
		}
		for i := range sale.Items {
			sale.Items[i].SaleID = sale.ID
		}

		// Stock may go negative here: the cart only refuses lines that started
		// at zero, and the counter must never block a sale mid-customer.
		for _, l := range lines {
			if err := s.products.UpdateStockTx(tx, l.ProductID, -l.Quantity); err != nil {
				return fmt.Errorf("stock decrement for %s: %w", l.Name, err)
			}
			ref := sale.ID
			mov := model.StockMovement{
				ProductID:   l.ProductID,
				ProductName: l.Name,
				Type:        model.MovementOut,
				Quantity:    l.Quantity,
				Reason:      fmt.Sprintf("بيع - فاتورة #%s", shortSaleID(sale.ID)),
				ReferenceID: &ref,
			}
			if err := s.movements.CreateTx(tx, &mov); err != nil {
				return err
			}
		}

		if customerID != nil {
			if err := s.customers.AddDebtTx(tx, *customerID, total, sale.Timestamp); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit side effects are best-effort: the sale stands even when the
	// printer or disk is unhappy.
	s.cart.Clear(subject)

	resp := saleToResponse(&sale)
	if s.receiptPath != "" {
		storeName := ""
		if settings, err := s.settings.Get(ctx); err == nil {
			storeName = settings.StoreName
		}
		if path, err := infra.GenerateReceiptPDF(&sale, storeName, s.receiptPath); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("checkout: receipt PDF failed")
		} else {
			resp.ReceiptPath = &path
		}
	}
	return resp, nil
}

func (s *checkoutService) ListSales(ctx context.Context) (*dto.SaleListResponse, error) {
	sales, total, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: total}, nil
}

func (s *checkoutService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *checkoutService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sales.FindByID(ctx, id); err != nil {
		if notFound(err) {
			return ErrSaleNotFound
		}
		return err
	}
	// Historical deletion does not rewind stock or debt; the movement log
	// keeps the audit trail either way.
	return s.sales.Delete(ctx, id)
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	subtotal := decimal.Zero
	for _, it := range sale.Items {
		subtotal = subtotal.Add(it.Total)
		items = append(items, dto.SaleItemResponse{
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Total:     it.Total,
		})
	}
	var customerID *string
	if sale.CustomerID != nil {
		c := sale.CustomerID.String()
		customerID = &c
	}
	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		Items:         items,
		Subtotal:      subtotal,
		Tax:           sale.TotalAmount.Sub(subtotal),
		Total:         sale.TotalAmount,
		PaymentMethod: sale.PaymentMethod,
		CustomerID:    customerID,
		Timestamp:     sale.Timestamp.Format(time.RFC3339),
	}
}

func shortSaleID(id uuid.UUID) string {
	return id.String()[:8]
}
