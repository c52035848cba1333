package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpdateSettingsRequest struct {
	StoreName      *string `json:"store_name"    validate:"omitempty,min=1,max=120"`
	AdminEmail     *string `json:"admin_email"   validate:"omitempty,email"`
	AdminPhone     *string `json:"admin_phone"   validate:"omitempty,min=5,max=20"`
	StoreAddress   *string `json:"store_address"`
	StorePhone     *string `json:"store_phone"`
	LogoBase64     *string `json:"logo_base64"`
	AutoReportHour *int    `json:"auto_report_hour" validate:"omitempty,min=0,max=23"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=4,max=128"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SettingsResponse never includes the password hash.
type SettingsResponse struct {
	StoreName          string  `json:"store_name"`
	AdminEmail         string  `json:"admin_email"`
	AdminPhone         string  `json:"admin_phone"`
	StoreAddress       string  `json:"store_address"`
	StorePhone         string  `json:"store_phone"`
	LogoBase64         *string `json:"logo_base64"`
	AutoReportHour     int     `json:"auto_report_hour"`
	LastReportSentDate string  `json:"last_report_sent_date"`
}
