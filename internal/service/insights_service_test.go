package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ertugrul2020/pos/internal/model"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) GenerateJSON(_ context.Context, _ string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func buildInsights(salesCount int, gen TextGenerator) (InsightsService, *stubSaleRepo) {
	saleRepo := &stubSaleRepo{}
	productRepo := newStubProductRepo()
	seedProduct(productRepo, "سمك", 80, 10)

	for i := 0; i < salesCount; i++ {
		seedSale(saleRepo, model.PaymentCash, 50, 30, 1, time.Now())
	}
	return NewInsightsService(saleRepo, productRepo, gen), saleRepo
}

func TestInsights_NoGenerator(t *testing.T) {
	svc, _ := buildInsights(10, nil)

	_, err := svc.Generate(context.Background())
	assert.ErrorIs(t, err, ErrInsightsUnavailable)
}

func TestInsights_NotEnoughSales(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := buildInsights(4, gen)

	_, err := svc.Generate(context.Background())
	assert.ErrorIs(t, err, ErrNotEnoughSales)
	// The guard fires before any outbound call
	assert.Zero(t, gen.calls)
}

func TestInsights_ParsesReply(t *testing.T) {
	gen := &stubGenerator{reply: `{"insights":[{"title":"قلل المخزون","description":"المخزون أعلى من الطلب"}]}`}
	svc, _ := buildInsights(6, gen)

	resp, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Insights, 1)
	assert.Equal(t, "قلل المخزون", resp.Insights[0].Title)
	assert.Equal(t, 1, gen.calls)
}

func TestInsights_MalformedReplyDegradesToEmpty(t *testing.T) {
	gen := &stubGenerator{reply: "sorry, not json"}
	svc, _ := buildInsights(6, gen)

	resp, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, resp.Insights)
	assert.Empty(t, resp.Insights)
}

func TestInsights_EmptyInsightsFieldNormalized(t *testing.T) {
	gen := &stubGenerator{reply: `{}`}
	svc, _ := buildInsights(6, gen)

	resp, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, resp.Insights)
	assert.Empty(t, resp.Insights)
}
