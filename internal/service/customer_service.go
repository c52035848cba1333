package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/model"
	"github.com/Ertugrul2020/pos/internal/repository"
)

// defaultDebtLimit applies when a customer is created without an explicit
// limit. An explicit zero means unlimited credit.
var defaultDebtLimit = decimal.NewFromInt(1000)

var ErrDeleteNotConfirmed = errors.New("deletion requires confirmation")

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	// List filters by case-sensitive substring on name or phone.
	List(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	// Delete requires the confirmed flag; there is no password step-up here.
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := model.Customer{
		Name:      req.Name,
		Phone:     req.Phone,
		TotalDebt: decimal.Zero,
	}
	c.DebtLimit = normalizeDebtLimit(req.DebtLimit)

	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return customerToResponse(&c), nil
}

// normalizeDebtLimit maps the request field onto storage: nil applies the
// default, zero disables the limit, anything else is kept as given.
func normalizeDebtLimit(limit *decimal.Decimal) *decimal.Decimal {
	if limit == nil {
		d := defaultDebtLimit
		return &d
	}
	if limit.IsZero() {
		return nil
	}
	return limit
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		if filter.Search != "" &&
			!strings.Contains(c.Name, filter.Search) &&
			!strings.Contains(c.Phone, filter.Search) {
			continue
		}
		out = append(out, *customerToResponse(c))
	}
	return out, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.DebtLimit != nil {
		// Explicit zero lifts the limit; any other value replaces it.
		if req.DebtLimit.IsZero() {
			c.DebtLimit = nil
		} else {
			c.DebtLimit = req.DebtLimit
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if notFound(err) {
			return ErrCustomerNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	var lastVisit *string
	if c.LastVisit != nil {
		v := c.LastVisit.Format(time.RFC3339)
		lastVisit = &v
	}
	return &dto.CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		TotalDebt: c.TotalDebt,
		DebtLimit: c.DebtLimit,
		LastVisit: lastVisit,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
