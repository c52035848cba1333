package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/repository"
)

var (
	ErrOutOfStock    = errors.New("المنتج غير متوفر في المخزون")
	ErrItemNotInCart = errors.New("item not in cart")
	ErrCartEmpty     = errors.New("cart is empty")
)

// cartLine snapshots name, price and cost at add time. Later catalog edits do
// not reprice lines already in a cart.
type cartLine struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	Quantity  int
}

func (l cartLine) total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartService keeps one in-memory cart per session subject. Carts are scratch
// state: they never touch the database and vanish on restart.
type CartService interface {
	Add(ctx context.Context, subject string, req dto.AddToCartRequest) (*dto.CartResponse, error)
	// UpdateQuantity sets a line's quantity with a floor of one; removing a
	// line is an explicit Remove, never a decrement to zero.
	UpdateQuantity(ctx context.Context, subject string, productID uuid.UUID, quantity int) (*dto.CartResponse, error)
	Remove(ctx context.Context, subject string, productID uuid.UUID) (*dto.CartResponse, error)
	Clear(subject string)
	Get(subject string) *dto.CartResponse

	// Lines exposes the raw snapshot for checkout.
	Lines(subject string) []CartLine
}

// CartLine is the exported snapshot consumed by checkout.
type CartLine struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	Quantity  int
}

type cartService struct {
	products repository.ProductRepository

	mu    sync.Mutex
	carts map[string][]cartLine
}

func NewCartService(products repository.ProductRepository) CartService {
	return &cartService{
		products: products,
		carts:    make(map[string][]cartLine),
	}
}

func (s *cartService) Add(ctx context.Context, subject string, req dto.AddToCartRequest) (*dto.CartResponse, error) {
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	p, err := s.products.FindByID(ctx, pid)
	if err != nil {
		if notFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	// Adding is refused at zero stock; checkout may still drive stock negative
	// for quantities already in the cart.
	if p.Stock <= 0 {
		return nil, ErrOutOfStock
	}

	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[subject]
	merged := false
	for i := range lines {
		if lines[i].ProductID == pid {
			lines[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, cartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Cost:      p.Cost,
			Quantity:  qty,
		})
	}
	s.carts[subject] = lines

	return s.toResponse(lines), nil
}

func (s *cartService) UpdateQuantity(_ context.Context, subject string, productID uuid.UUID, quantity int) (*dto.CartResponse, error) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[subject]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			s.carts[subject] = lines
			return s.toResponse(lines), nil
		}
	}
	return nil, ErrItemNotInCart
}

func (s *cartService) Remove(_ context.Context, subject string, productID uuid.UUID) (*dto.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[subject]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines = append(lines[:i], lines[i+1:]...)
			s.carts[subject] = lines
			return s.toResponse(lines), nil
		}
	}
	return nil, ErrItemNotInCart
}

func (s *cartService) Clear(subject string) {
	s.mu.Lock()
	delete(s.carts, subject)
	s.mu.Unlock()
}

func (s *cartService) Get(subject string) *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toResponse(s.carts[subject])
}

func (s *cartService) Lines(subject string) []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[subject]
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartLine(l))
	}
	return out
}

func (s *cartService) toResponse(lines []cartLine) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		total := l.total()
		subtotal = subtotal.Add(total)
		items = append(items, dto.CartItemResponse{
			ProductID: l.ProductID.String(),
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Total:     total,
		})
	}
	total := saleTotal(subtotal)
	return &dto.CartResponse{
		Items:    items,
		Subtotal: subtotal,
		Tax:      total.Sub(subtotal),
		Total:    total,
	}
}

// saleTotal applies the tax-inclusive pricing rule used everywhere a total is
// shown or committed: round(subtotal * 1.14, 2).
func saleTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxMultiplier).Round(2)
}

var taxMultiplier = decimal.NewFromFloat(1.14)
