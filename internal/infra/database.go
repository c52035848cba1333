package infra

import (
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Ertugrul2020/pos/internal/model"
)

// NewDatabase opens the store selected by the DSN scheme. file: and sqlite:
// URLs open the embedded single-file store; postgres:// opens PostgreSQL.
// AutoMigrate keeps the schema current on every start.
func NewDatabase(dsn string) (*gorm.DB, error) {
	dialector := openDialector(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(dsn, "postgres") {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	} else {
		// SQLite serializes writes; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Category{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.Customer{},
		&model.Expense{},
		&model.Settings{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

func openDialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn)
	default:
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:"))
	}
}

// Seed inserts the first-run defaults: the settings singleton and two starter
// categories. Every step is idempotent and seed failures are logged, never
// fatal; the store must come up even if a previous run half-seeded.
func Seed(db *gorm.DB) {
	var count int64
	if err := db.Model(&model.Settings{}).Where("id = ?", model.SettingsID).Count(&count).Error; err != nil {
		log.Warn().Err(err).Msg("seed: settings lookup failed")
	} else if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
		if err != nil {
			log.Warn().Err(err).Msg("seed: default password hash failed")
		} else {
			s := model.Settings{
				ID:                model.SettingsID,
				AdminPasswordHash: string(hash),
				StoreName:         "الصياد",
				AutoReportHour:    0,
			}
			if err := db.Create(&s).Error; err != nil {
				log.Warn().Err(err).Msg("seed: settings insert failed")
			}
		}
	}

	defaults := []model.Category{
		{Name: "وجبات", Color: "#ef4444"},
		{Name: "مشروبات", Color: "#3b82f6"},
	}
	for _, c := range defaults {
		var n int64
		if err := db.Model(&model.Category{}).Where("name = ?", c.Name).Count(&n).Error; err != nil {
			log.Warn().Err(err).Str("category", c.Name).Msg("seed: category lookup failed")
			continue
		}
		if n > 0 {
			continue
		}
		cat := c
		if err := db.Create(&cat).Error; err != nil {
			log.Warn().Err(err).Str("category", c.Name).Msg("seed: category insert failed")
		}
	}
}
