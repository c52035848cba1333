package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/model"
	"github.com/Ertugrul2020/pos/internal/repository"
	"github.com/Ertugrul2020/pos/internal/worker"
)

// Auto-prompt states. The prompt becomes due when the local hour reaches the
// configured report hour and today's report has not gone out yet. Dismissal is
// in-memory only, so the prompt returns on the next tick until a send lands.
const (
	ReportStateIdle = "idle"
	ReportStateDue  = "due"
	ReportStateSent = "sent"
)

// paymentLabel maps a payment method to its receipt/report label.
func paymentLabel(method string) string {
	switch method {
	case model.PaymentCash:
		return "كاش"
	case model.PaymentCard:
		return "فيزا"
	case model.PaymentDebt:
		return "شكك"
	default:
		return method
	}
}

type ReportService interface {
	// Summary aggregates today's trading: every sale with timestamp at or
	// after local midnight, with no upper bound. Reading never mutates state.
	Summary(ctx context.Context) (*dto.DailySummaryResponse, error)
	// Send composes the closing message, writes the once-per-day latch, and
	// queues (or directly sends) the email copy to the admin address.
	Send(ctx context.Context) (*dto.SendReportResponse, error)
	// ExportCSV renders the full sale history, BOM-prefixed for Excel.
	ExportCSV(ctx context.Context) ([]byte, error)

	AutoStatus(ctx context.Context) (*dto.AutoReportStatusResponse, error)
	DismissPrompt()
	// StartAutoPrompt runs the minute ticker that flips the prompt to due.
	StartAutoPrompt(ctx context.Context)
}

// ReportMailer abstracts synchronous mail for the no-Redis deployment.
type ReportMailer interface {
	Configured() bool
	Send(to, subject, body string) error
}

type reportService struct {
	sales      repository.SaleRepository
	expenses   repository.ExpenseRepository
	products   repository.ProductRepository
	settings   SettingsService
	dispatcher *worker.Dispatcher
	mailer     ReportMailer
	now        func() time.Time

	mu        sync.Mutex
	dismissed bool
}

func NewReportService(
	sales repository.SaleRepository,
	expenses repository.ExpenseRepository,
	products repository.ProductRepository,
	settings SettingsService,
	dispatcher *worker.Dispatcher,
	mailer ReportMailer,
) ReportService {
	return &reportService{
		sales:      sales,
		expenses:   expenses,
		products:   products,
		settings:   settings,
		dispatcher: dispatcher,
		mailer:     mailer,
		now:        time.Now,
	}
}

// localMidnight returns 00:00 of t's calendar day in t's location.
func localMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// localDate is the calendar-day latch format (YYYY-MM-DD, local time).
func localDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func (s *reportService) Summary(ctx context.Context) (*dto.DailySummaryResponse, error) {
	now := s.now()
	from := localMidnight(now)

	sales, err := s.sales.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	grossProfit := decimal.Zero
	cash, card, debt := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range sales {
		sale := &sales[i]
		revenue = revenue.Add(sale.TotalAmount)
		switch sale.PaymentMethod {
		case model.PaymentCash:
			cash = cash.Add(sale.TotalAmount)
		case model.PaymentCard:
			card = card.Add(sale.TotalAmount)
		case model.PaymentDebt:
			debt = debt.Add(sale.TotalAmount)
		}
		// Profit comes from the item snapshots, not current catalog prices.
		for _, it := range sale.Items {
			qty := decimal.NewFromInt(int64(it.Quantity))
			grossProfit = grossProfit.Add(it.Price.Sub(it.Cost).Mul(qty))
		}
	}

	expenseTotal := decimal.Zero
	for i := range expenses {
		expenseTotal = expenseTotal.Add(expenses[i].Amount)
	}

	lowStock := 0
	for i := range products {
		if products[i].IsLowStock() {
			lowStock++
		}
	}

	return &dto.DailySummaryResponse{
		Date:          localDate(now),
		Revenue:       revenue,
		GrossProfit:   grossProfit,
		Expenses:      expenseTotal,
		Net:           grossProfit.Sub(expenseTotal),
		CashTotal:     cash,
		CardTotal:     card,
		DebtTotal:     debt,
		SalesCount:    len(sales),
		LowStockCount: lowStock,
	}, nil
}

// buildMessage renders the WhatsApp closing report.
func (s *reportService) buildMessage(summary *dto.DailySummaryResponse, storeName string, now time.Time) string {
	return fmt.Sprintf(`*🚀 تقرير إغلاق اليوم - %s*
--------------------------
📅 التاريخ: %s
⏰ الوقت: %s

💰 *المبيعات الإجمالية:* %s ج.م
💵 كاش: %s ج.م
💳 فيزا: %s ج.م
📝 آجل (شكك): %s ج.م

📉 *المصروفات اليومية:* %s ج.م
--------------------------
✅ *صافي الربح التقريبي اليوم:* %s ج.م

📦 نواقص المخزن: %d أصناف
--------------------------
_تم الإرسال أوتوماتيكياً من نظام الصياد_`,
		storeName,
		now.Format("02/01/2006"),
		now.Format("15:04:05"),
		summary.Revenue.StringFixed(2),
		summary.CashTotal.StringFixed(2),
		summary.CardTotal.StringFixed(2),
		summary.DebtTotal.StringFixed(2),
		summary.Expenses.StringFixed(2),
		summary.Revenue.Sub(summary.Expenses).StringFixed(2),
		summary.LowStockCount,
	)
}

func (s *reportService) Send(ctx context.Context) (*dto.SendReportResponse, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	message := s.buildMessage(summary, settings.StoreName, now)

	// Latch first: the day counts as reported even if delivery is flaky.
	if err := s.settings.MarkReportSent(ctx, localDate(now)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.dismissed = false
	s.mu.Unlock()

	waURL := fmt.Sprintf("https://wa.me/%s?text=%s", settings.AdminPhone, url.QueryEscape(message))

	emailQueued := false
	if settings.AdminEmail != "" {
		payload := worker.EmailJobPayload{
			ToEmail: settings.AdminEmail,
			Subject: "تقرير إغلاق اليوم - " + settings.StoreName,
			Body:    message,
		}
		if s.dispatcher != nil {
			if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
				log.Warn().Err(err).Msg("report: enqueue email failed")
			} else {
				emailQueued = true
			}
		} else if s.mailer != nil && s.mailer.Configured() {
			// No queue configured: deliver inline, best-effort.
			if err := s.mailer.Send(payload.ToEmail, payload.Subject, payload.Body); err != nil {
				log.Warn().Err(err).Msg("report: direct email failed")
			} else {
				emailQueued = true
			}
		}
	}

	return &dto.SendReportResponse{
		Message:     message,
		WhatsAppURL: waURL,
		EmailQueued: emailQueued,
	}, nil
}

func (s *reportService) ExportCSV(ctx context.Context) ([]byte, error) {
	sales, _, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	// UTF-8 BOM so Excel renders the Arabic columns.
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	header := []string{"رقم الفاتورة", "التاريخ", "الإجمالي", "طريقة الدفع", "عدد الأصناف"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range sales {
		sale := &sales[i]
		row := []string{
			sale.ID.String(),
			sale.Timestamp.Format("2006-01-02 15:04:05"),
			sale.TotalAmount.StringFixed(2),
			paymentLabel(sale.PaymentMethod),
			strconv.Itoa(len(sale.Items)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ── Auto-prompt state machine ─────────────────────────────────────────────────

func (s *reportService) state(settings *model.Settings, now time.Time) string {
	today := localDate(now)
	if settings.LastReportSentDate != nil && *settings.LastReportSentDate == today {
		return ReportStateSent
	}
	if now.Hour() == settings.AutoReportHour {
		s.mu.Lock()
		dismissed := s.dismissed
		s.mu.Unlock()
		if !dismissed {
			return ReportStateDue
		}
	}
	return ReportStateIdle
}

func (s *reportService) AutoStatus(ctx context.Context) (*dto.AutoReportStatusResponse, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	lastSent := ""
	if settings.LastReportSentDate != nil {
		lastSent = *settings.LastReportSentDate
	}
	return &dto.AutoReportStatusResponse{
		State:          s.state(settings, s.now()),
		AutoReportHour: settings.AutoReportHour,
		LastSentDate:   lastSent,
	}, nil
}

// DismissPrompt suppresses the current prompt without persisting anything;
// the next tick inside the report hour re-raises it until a send happens.
func (s *reportService) DismissPrompt() {
	s.mu.Lock()
	s.dismissed = true
	s.mu.Unlock()
}

func (s *reportService) StartAutoPrompt(ctx context.Context) {
	go func() {
		s.tick(ctx)
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

func (s *reportService) tick(ctx context.Context) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("report: auto-prompt settings load failed")
		return
	}
	now := s.now()
	// Every minute check re-arms the prompt. A dismissal quiets it only
	// until the next tick; the nag stops when the report goes out.
	s.mu.Lock()
	s.dismissed = false
	s.mu.Unlock()
	if now.Hour() != settings.AutoReportHour {
		return
	}
	if s.state(settings, now) == ReportStateDue {
		log.Info().Str("hour", strconv.Itoa(settings.AutoReportHour)).Msg("report: closing report due")
	}
}
