package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/model"
	"github.com/Ertugrul2020/pos/internal/repository"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// reasonNewProduct is the audit reason stamped on the initial-stock movement.
const reasonNewProduct = "إضافة منتج جديد"

type CatalogService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	// Restock adjusts stock by a signed quantity and appends the matching
	// movement; every stock mutation leaves an audit entry.
	Restock(ctx context.Context, id uuid.UUID, req dto.RestockRequest) (*dto.ProductResponse, error)
	// DeleteProduct is step-up gated on the admin password regardless of the
	// caller's session role.
	DeleteProduct(ctx context.Context, id uuid.UUID, password string) error
	ListMovements(ctx context.Context, productID *uuid.UUID) ([]dto.StockMovementResponse, error)

	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	movements  repository.StockMovementRepository
	auth       AuthService
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	movements repository.StockMovementRepository,
	auth AuthService,
) CatalogService {
	return &catalogService{
		products:   products,
		categories: categories,
		movements:  movements,
		auth:       auth,
	}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := model.Product{
		Name:              req.Name,
		Category:          req.Category,
		Price:             req.Price,
		Cost:              req.Cost,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		Barcode:           req.Barcode,
		Image:             req.Image,
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}

	// Initial stock enters the audit log even when zero, so the movement
	// history is a complete derivation of the current figure.
	mov := model.StockMovement{
		ProductID:   p.ID,
		ProductName: p.Name,
		Type:        model.MovementIn,
		Quantity:    p.Stock,
		Reason:      reasonNewProduct,
	}
	if err := s.movements.Create(ctx, &mov); err != nil {
		return nil, err
	}

	return productToResponse(&p), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		if filter.LowStock && !products[i].IsLowStock() {
			continue
		}
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Cost != nil {
		p.Cost = *req.Cost
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = req.LowStockThreshold
	}
	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.Image != nil {
		p.Image = req.Image
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *catalogService) Restock(ctx context.Context, id uuid.UUID, req dto.RestockRequest) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.products.AdjustStock(ctx, id, req.Quantity); err != nil {
		return nil, err
	}

	movType := model.MovementIn
	qty := req.Quantity
	if qty < 0 {
		movType = model.MovementOut
		qty = -qty
	}
	mov := model.StockMovement{
		ProductID:   p.ID,
		ProductName: p.Name,
		Type:        movType,
		Quantity:    qty,
		Reason:      req.Reason,
	}
	if err := s.movements.Create(ctx, &mov); err != nil {
		return nil, err
	}

	p.Stock += req.Quantity
	return productToResponse(p), nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID, password string) error {
	if err := s.auth.VerifyAdminPassword(ctx, password); err != nil {
		return err
	}
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if notFound(err) {
			return ErrProductNotFound
		}
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *catalogService) ListMovements(ctx context.Context, productID *uuid.UUID) ([]dto.StockMovementResponse, error) {
	var (
		movements []model.StockMovement
		err       error
	)
	if productID != nil {
		movements, err = s.movements.ListByProduct(ctx, *productID)
	} else {
		movements, err = s.movements.List(ctx, 200)
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		var ref *string
		if m.ReferenceID != nil {
			r := m.ReferenceID.String()
			ref = &r
		}
		out = append(out, dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			ProductName: m.ProductName,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Reason:      m.Reason,
			ReferenceID: ref,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// ── Categories ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := model.Category{Name: req.Name, Color: req.Color}
	if err := s.categories.Create(ctx, &c); err != nil {
		return nil, err
	}
	return categoryToResponse(&c), nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryToResponse(&categories[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return categoryToResponse(c), nil
}

// DeleteCategory removes the category only. Products keep their denormalized
// category string; nothing cascades.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if notFound(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categories.Delete(ctx, id)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Category:          p.Category,
		Price:             p.Price,
		Cost:              p.Cost,
		Stock:             p.Stock,
		LowStockThreshold: p.Threshold(),
		IsLowStock:        p.IsLowStock(),
		Barcode:           p.Barcode,
		Image:             p.Image,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}

func categoryToResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:    c.ID.String(),
		Name:  c.Name,
		Color: c.Color,
	}
}
