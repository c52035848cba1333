package service

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/model"
	"github.com/Ertugrul2020/pos/internal/repository"
)

// SettingsService is the single read path for store configuration. The row is
// loaded once and cached; every save refreshes the cache, so readers never see
// stale values within this process.
type SettingsService interface {
	Get(ctx context.Context) (*model.Settings, error)
	Response(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	// SetPasswordHash swaps the admin password hash (login reset, password change).
	SetPasswordHash(ctx context.Context, hash string) error
	// MarkReportSent writes the once-per-day report latch (local YYYY-MM-DD).
	MarkReportSent(ctx context.Context, date string) error
}

type settingsService struct {
	repo repository.SettingsRepository

	mu     sync.RWMutex
	cached *model.Settings
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*model.Settings, error) {
	s.mu.RLock()
	if s.cached != nil {
		cp := *s.cached
		s.mu.RUnlock()
		return &cp, nil
	}
	s.mu.RUnlock()

	loaded, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cached = loaded
	cp := *loaded
	s.mu.Unlock()
	return &cp, nil
}

func (s *settingsService) save(ctx context.Context, settings *model.Settings) error {
	if err := s.repo.Save(ctx, settings); err != nil {
		return err
	}
	s.mu.Lock()
	s.cached = settings
	s.mu.Unlock()
	return nil
}

func (s *settingsService) Response(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settingsToResponse(settings), nil
}

func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.StoreName != nil {
		settings.StoreName = *req.StoreName
	}
	if req.AdminEmail != nil {
		settings.AdminEmail = *req.AdminEmail
	}
	if req.AdminPhone != nil {
		settings.AdminPhone = *req.AdminPhone
	}
	if req.StoreAddress != nil {
		settings.StoreAddress = *req.StoreAddress
	}
	if req.StorePhone != nil {
		settings.StorePhone = *req.StorePhone
	}
	if req.LogoBase64 != nil {
		settings.LogoBase64 = req.LogoBase64
	}
	if req.AutoReportHour != nil {
		settings.AutoReportHour = *req.AutoReportHour
	}

	if err := s.save(ctx, settings); err != nil {
		return nil, err
	}
	return settingsToResponse(settings), nil
}

func (s *settingsService) SetPasswordHash(ctx context.Context, hash string) error {
	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.AdminPasswordHash = hash
	return s.save(ctx, settings)
}

func (s *settingsService) MarkReportSent(ctx context.Context, date string) error {
	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.LastReportSentDate = &date
	return s.save(ctx, settings)
}

func settingsToResponse(m *model.Settings) *dto.SettingsResponse {
	lastSent := ""
	if m.LastReportSentDate != nil {
		lastSent = *m.LastReportSentDate
	}
	return &dto.SettingsResponse{
		StoreName:          m.StoreName,
		AdminEmail:         m.AdminEmail,
		AdminPhone:         m.AdminPhone,
		StoreAddress:       m.StoreAddress,
		StorePhone:         m.StorePhone,
		LogoBase64:         m.LogoBase64,
		AutoReportHour:     m.AutoReportHour,
		LastReportSentDate: lastSent,
	}
}

// notFound reports a gorm missing-row error, used by services to translate
// repository errors into user-facing messages.
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
