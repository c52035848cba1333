package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/model"
)

func buildCheckout() (*checkoutService, CartService, *stubProductRepo, *stubSaleRepo, *stubMovementRepo, *stubCustomerRepo) {
	productRepo := newStubProductRepo()
	saleRepo := &stubSaleRepo{}
	movementRepo := &stubMovementRepo{}
	customerRepo := newStubCustomerRepo()
	cart := NewCartService(productRepo)

	// Empty receipt path disables PDF generation in tests.
	svc := NewCheckoutService(saleRepo, productRepo, movementRepo, customerRepo, cart, newStubSettings(), "").(*checkoutService)
	return svc, cart, productRepo, saleRepo, movementRepo, customerRepo
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _, _, _, _, _ := buildCheckout()

	_, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckout_CashSale(t *testing.T) {
	svc, cart, productRepo, saleRepo, movementRepo, _ := buildCheckout()
	p := seedProduct(productRepo, "كشري", 10, 5)

	_, err := cart.Add(context.Background(), "s1", addReq(p.ID.String(), 2))
	require.NoError(t, err)

	resp, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	require.NoError(t, err)

	// subtotal 20.00, tax-inclusive total 22.80
	assert.Equal(t, "20", resp.Subtotal.String())
	assert.Equal(t, "22.8", resp.Total.String())
	assert.Equal(t, "2.8", resp.Tax.String())
	assert.Equal(t, model.PaymentCash, resp.PaymentMethod)

	// Stock decremented and audited
	assert.Equal(t, 3, productRepo.products[p.ID].Stock)
	require.Len(t, movementRepo.movements, 1)
	mov := movementRepo.movements[0]
	assert.Equal(t, model.MovementOut, mov.Type)
	assert.Equal(t, 2, mov.Quantity)
	assert.True(t, strings.HasPrefix(mov.Reason, "بيع - فاتورة #"))
	require.NotNil(t, mov.ReferenceID)

	// Sale stored, cart cleared
	assert.Len(t, saleRepo.sales, 1)
	assert.Empty(t, cart.Get("s1").Items)
}

func TestCheckout_DebtRequiresCustomer(t *testing.T) {
	svc, cart, productRepo, _, _, _ := buildCheckout()
	p := seedProduct(productRepo, "فول", 8, 5)

	_, err := cart.Add(context.Background(), "s1", addReq(p.ID.String(), 1))
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: model.PaymentDebt})
	assert.ErrorIs(t, err, ErrCustomerRequired)
}

func TestCheckout_DebtSale_AddsDebtAndStampsVisit(t *testing.T) {
	svc, cart, productRepo, _, _, customerRepo := buildCheckout()
	saleInstant := time.Date(2026, 8, 27, 23, 59, 0, 0, time.Local)
	svc.now = func() time.Time { return saleInstant }
	p := seedProduct(productRepo, "طعمية", 100, 5)

	customer := &model.Customer{Name: "أحمد", Phone: "0100", TotalDebt: decimal.Zero}
	require.NoError(t, customerRepo.Create(context.Background(), customer))

	_, err := cart.Add(context.Background(), "s1", addReq(p.ID.String(), 1))
	require.NoError(t, err)

	cid := customer.ID.String()
	resp, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		PaymentMethod: model.PaymentDebt,
		CustomerID:    &cid,
	})
	require.NoError(t, err)
	assert.Equal(t, "114", resp.Total.String()) // 100 * 1.14

	stored := customerRepo.customers[customer.ID]
	assert.Equal(t, "114", stored.TotalDebt.String())
	// The visit stamp is the sale instant, not the wall clock at write time
	require.NotNil(t, stored.LastVisit)
	assert.True(t, stored.LastVisit.Equal(saleInstant))
}

func TestCheckout_DebtLimit_SoftRejectThenOverride(t *testing.T) {
	svc, cart, productRepo, saleRepo, _, customerRepo := buildCheckout()
	p := seedProduct(productRepo, "لحمة", 100, 5)

	limit := decimal.NewFromInt(1000)
	customer := &model.Customer{
		Name:      "سمير",
		Phone:     "0111",
		TotalDebt: decimal.NewFromInt(900),
		DebtLimit: &limit,
	}
	require.NoError(t, customerRepo.Create(context.Background(), customer))

	_, err := cart.Add(context.Background(), "s1", addReq(p.ID.String(), 1))
	require.NoError(t, err)

	cid := customer.ID.String()
	_, err = svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		PaymentMethod: model.PaymentDebt,
		CustomerID:    &cid,
	})

	var limitErr *DebtLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, "900", limitErr.CurrentDebt.String())
	assert.Equal(t, "114", limitErr.SaleTotal.String())
	assert.Equal(t, "1014", limitErr.ProjectedDebt.String())
	assert.Equal(t, "1000", limitErr.DebtLimit.String())

	// Nothing committed, cart intact for the retry
	assert.Empty(t, saleRepo.sales)
	assert.Equal(t, 5, productRepo.products[p.ID].Stock)
	require.Len(t, cart.Get("s1").Items, 1)

	// Retry with the override commits
	_, err = svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		PaymentMethod:     model.PaymentDebt,
		CustomerID:        &cid,
		OverrideDebtLimit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "1014", customerRepo.customers[customer.ID].TotalDebt.String())
	assert.Len(t, saleRepo.sales, 1)
}

func TestCheckout_UnlimitedCustomerNeverRejected(t *testing.T) {
	svc, cart, productRepo, _, _, customerRepo := buildCheckout()
	p := seedProduct(productRepo, "سمك", 5000, 5)

	customer := &model.Customer{Name: "منى", Phone: "0122", TotalDebt: decimal.NewFromInt(90000)}
	require.NoError(t, customerRepo.Create(context.Background(), customer))

	_, err := cart.Add(context.Background(), "s1", addReq(p.ID.String(), 1))
	require.NoError(t, err)

	cid := customer.ID.String()
	_, err = svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		PaymentMethod: model.PaymentDebt,
		CustomerID:    &cid,
	})
	require.NoError(t, err)
}

func TestCheckout_StockMayGoNegative(t *testing.T) {
	svc, cart, productRepo, _, _, _ := buildCheckout()
	p := seedProduct(productRepo, "جمبري", 50, 1)

	_, err := cart.Add(context.Background(), "s1", addReq(p.ID.String(), 3))
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, -2, productRepo.products[p.ID].Stock)
}

func TestDeleteSale_DoesNotRewindStock(t *testing.T) {
	svc, cart, productRepo, saleRepo, _, _ := buildCheckout()
	p := seedProduct(productRepo, "أرز", 20, 10)

	_, err := cart.Add(context.Background(), "s1", addReq(p.ID.String(), 4))
	require.NoError(t, err)
	_, err = svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, 6, productRepo.products[p.ID].Stock)

	require.NoError(t, svc.DeleteSale(context.Background(), saleRepo.sales[0].ID))
	assert.Empty(t, saleRepo.sales)
	// Deletion keeps the audit trail; stock stays as sold.
	assert.Equal(t, 6, productRepo.products[p.ID].Stock)
}
