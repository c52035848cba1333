package model

import "time"

// SettingsID is the primary key of the singleton settings row.
const SettingsID = "main"

// Settings is the single-row store configuration. AdminPasswordHash is a
// bcrypt hash; the plaintext password is never persisted.
// LastReportSentDate holds a local calendar date (YYYY-MM-DD) and acts as the
// once-per-day latch for the closing report.
type Settings struct {
	ID                 string `gorm:"primaryKey"`
	AdminPasswordHash  string `gorm:"not null"`
	StoreName          string `gorm:"not null"`
	AdminEmail         string
	AdminPhone         string
	StoreAddress       string
	StorePhone         string
	LogoBase64         *string
	LastReportSentDate *string
	// AutoReportHour is the local hour (0-23) at which the closing-report
	// prompt becomes due.
	AutoReportHour int `gorm:"not null;default:0"`
	UpdatedAt      time.Time
}

func (Settings) TableName() string { return "settings" }
