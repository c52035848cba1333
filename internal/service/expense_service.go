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
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
)

type ExpenseService interface {
	Create(ctx context.Context, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	List(ctx context.Context) ([]dto.ExpenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseService struct {
	repo repository.ExpenseRepository
	now  func() time.Time
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo, now: time.Now}
}

func (s *expenseService) Create(ctx context.Context, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	e := model.Expense{
		Title:     req.Title,
		Amount:    req.Amount,
		Category:  req.Category,
		Timestamp: s.now(),
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return nil, err
	}
	return expenseToResponse(&e), nil
}

func (s *expenseService) List(ctx context.Context) ([]dto.ExpenseResponse, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, *expenseToResponse(&expenses[i]))
	}
	return out, nil
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func expenseToResponse(e *model.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:        e.ID.String(),
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Timestamp: e.Timestamp.Format(time.RFC3339),
	}
}
