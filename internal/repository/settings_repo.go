package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ertugrul2020/pos/internal/model"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, s *model.Settings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := r.db.WithContext(ctx).First(&s, "id = ?", model.SettingsID).Error
	return &s, err
}

func (r *settingsRepo) Save(ctx context.Context, s *model.Settings) error {
	s.ID = model.SettingsID
	return r.db.WithContext(ctx).Save(s).Error
}
