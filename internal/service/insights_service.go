package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/infra"
	"github.com/Ertugrul2020/pos/internal/repository"
)

// ErrNotEnoughSales guards the model call: below five sales there is nothing
// worth analyzing, and no outbound request is made.
var ErrNotEnoughSales = errors.New("نحتاج إلى 5 مبيعات على الأقل للبدء في تحليل البيانات وتقديم نصائح دقيقة.")

var ErrInsightsUnavailable = errors.New("insights backend not configured")

const (
	minSalesForInsights = 5
	recentSalesWindow   = 50
)

// TextGenerator is the outbound AI surface; infra.GeminiClient satisfies it.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type InsightsService interface {
	Generate(ctx context.Context) (*dto.InsightsResponse, error)
}

type insightsService struct {
	sales     repository.SaleRepository
	products  repository.ProductRepository
	generator TextGenerator
	breaker   *infra.CircuitBreaker
}

func NewInsightsService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	generator TextGenerator,
) InsightsService {
	return &insightsService{
		sales:     sales,
		products:  products,
		generator: generator,
		breaker:   infra.NewCircuitBreaker(infra.DefaultCBConfig()),
	}
}

func (s *insightsService) Generate(ctx context.Context) (*dto.InsightsResponse, error) {
	if s.generator == nil {
		return nil, ErrInsightsUnavailable
	}

	count, err := s.sales.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count < minSalesForInsights {
		return nil, ErrNotEnoughSales
	}

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.sales.ListRecent(ctx, recentSalesWindow)
	if err != nil {
		return nil, err
	}

	var productSummary strings.Builder
	for i := range products {
		if i > 0 {
			productSummary.WriteString(", ")
		}
		p := &products[i]
		fmt.Fprintf(&productSummary, "%s (سعر: %s, مخزون: %d)", p.Name, p.Price.StringFixed(2), p.Stock)
	}

	type saleDigest struct {
		Total string `json:"total"`
		Date  string `json:"date"`
	}
	digests := make([]saleDigest, 0, len(recent))
	for i := range recent {
		digests = append(digests, saleDigest{
			Total: recent[i].TotalAmount.StringFixed(2),
			Date:  recent[i].Timestamp.Format("2006-01-02"),
		})
	}
	digestJSON, _ := json.Marshal(digests)

	prompt := fmt.Sprintf(`أنت خبير نمو تجاري لمتاجر التجزئة والمطاعم. قم بتحليل البيانات المقدمة واستخراج 3 نصائح ذهبية باللغة العربية لزيادة الأرباح أو تحسين إدارة المخزون. الرد يجب أن يكون بتنسيق JSON حصراً بمصفوفة insights تحتوي على حقول title و description.

تحليل مبيعات المتجر الحالي:
إجمالي عدد المبيعات: %d
المنتجات المتوفرة: %s
آخر %d عملية بيع: %s`,
		count, productSummary.String(), len(digests), string(digestJSON))

	var raw string
	callErr := s.breaker.Execute(func() error {
		var genErr error
		raw, genErr = s.generator.GenerateJSON(ctx, prompt)
		return genErr
	})
	if callErr != nil {
		return nil, callErr
	}

	// Any parse failure degrades to an empty list; the model's reply is
	// untrusted input, never an error surface.
	var parsed dto.InsightsResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		log.Warn().Err(err).Msg("insights: unparseable model reply")
		return &dto.InsightsResponse{Insights: []dto.Insight{}}, nil
	}
	if parsed.Insights == nil {
		parsed.Insights = []dto.Insight{}
	}
	return &parsed, nil
}
