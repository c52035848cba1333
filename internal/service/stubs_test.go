package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/model"
	"github.com/Ertugrul2020/pos/internal/repository"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository for unit tests. Its TX
// methods accept a nil *gorm.DB, matching the runTx passthrough.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	order    []uuid.UUID
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, id := range r.order {
		p := r.products[id]
		if p.Barcode != nil && *p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	for _, id := range r.order {
		p := r.products[id]
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	return r.List(context.Background(), dto.ProductFilter{})
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	return r.UpdateStockTx(nil, id, delta)
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo stores sales in insertion order; listings return newest first.
type stubSaleRepo struct {
	sales []*model.Sale
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) List(_ context.Context) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for i := len(r.sales) - 1; i >= 0; i-- {
		out = append(out, *r.sales[i])
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListSince(_ context.Context, from time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if !s.Timestamp.Before(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) ListRecent(_ context.Context, n int) ([]model.Sale, error) {
	all, _, _ := r.List(context.Background())
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (r *stubSaleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.sales)), nil
}

func (r *stubSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, s := range r.sales {
		if s.ID == id {
			r.sales = append(r.sales[:i], r.sales[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubMovementRepo captures audit entries for assertion.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	return r.Create(context.Background(), m)
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) List(_ context.Context, limit int) ([]model.StockMovement, error) {
	out := r.movements
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
	order      []uuid.UUID
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.categories[id])
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	order     []uuid.UUID
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) ListAll(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.customers[id])
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) AddDebtTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal, ts time.Time) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalDebt = c.TotalDebt.Add(amount)
	c.LastVisit = &ts
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

type stubExpenseRepo struct {
	expenses []model.Expense
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *stubExpenseRepo) List(_ context.Context) ([]model.Expense, error) {
	return r.expenses, nil
}

func (r *stubExpenseRepo) ListSince(_ context.Context, from time.Time) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range r.expenses {
		if !e.Timestamp.Before(from) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.expenses {
		if r.expenses[i].ID == id {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

// stubSettings is an in-memory SettingsService so tests skip the repo layer.
type stubSettings struct {
	settings model.Settings
}

func newStubSettings() *stubSettings {
	return &stubSettings{settings: model.Settings{
		ID:         model.SettingsID,
		StoreName:  "الصياد",
		AdminEmail: "admin@example.com",
		AdminPhone: "+201000000000",
	}}
}

func (s *stubSettings) Get(_ context.Context) (*model.Settings, error) {
	cp := s.settings
	return &cp, nil
}

func (s *stubSettings) Response(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, _ := s.Get(ctx)
	return settingsToResponse(settings), nil
}

func (s *stubSettings) Update(ctx context.Context, _ dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	return s.Response(ctx)
}

func (s *stubSettings) SetPasswordHash(_ context.Context, hash string) error {
	s.settings.AdminPasswordHash = hash
	return nil
}

func (s *stubSettings) MarkReportSent(_ context.Context, date string) error {
	s.settings.LastReportSentDate = &date
	return nil
}

var _ SettingsService = (*stubSettings)(nil)

// stubMailer records sent mail; it satisfies both TokenMailer and ReportMailer.
type sentMail struct {
	to, subject, body string
}

type stubMailer struct {
	configured bool
	sent       []sentMail
}

func (m *stubMailer) Configured() bool { return m.configured }

func (m *stubMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func mustParseUUID(t *testing.T, raw string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(raw)
	require.NoError(t, err)
	return id
}

func addReq(productID string, qty int) dto.AddToCartRequest {
	return dto.AddToCartRequest{ProductID: productID, Quantity: qty}
}

func seedProduct(repo *stubProductRepo, name string, price float64, stock int) *model.Product {
	p := &model.Product{
		Name:     name,
		Category: "وجبات",
		Price:    decimal.NewFromFloat(price),
		Cost:     decimal.NewFromFloat(price / 2),
		Stock:    stock,
	}
	_ = repo.Create(context.Background(), p)
	return p
}
