package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

// DailySummaryResponse aggregates today's trading. Reading it never mutates
// anything; the same day yields the same figures.
type DailySummaryResponse struct {
	Date          string          `json:"date"`
	Revenue       decimal.Decimal `json:"revenue"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	Expenses      decimal.Decimal `json:"expenses"`
	Net           decimal.Decimal `json:"net"`
	CashTotal     decimal.Decimal `json:"cash_total"`
	CardTotal     decimal.Decimal `json:"card_total"`
	DebtTotal     decimal.Decimal `json:"debt_total"`
	SalesCount    int             `json:"sales_count"`
	LowStockCount int             `json:"low_stock_count"`
}

// SendReportResponse carries the share message and a wa.me URL for one-tap
// WhatsApp delivery.
type SendReportResponse struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
	EmailQueued bool   `json:"email_queued"`
}

// AutoReportStatusResponse exposes the prompt state machine to the UI.
// State is one of idle, due, sent.
type AutoReportStatusResponse struct {
	State          string `json:"state"`
	AutoReportHour int    `json:"auto_report_hour"`
	LastSentDate   string `json:"last_sent_date"`
}
