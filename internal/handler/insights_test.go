package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/service"
)

type stubInsightsService struct {
	resp *dto.InsightsResponse
	err  error
}

func (s *stubInsightsService) Generate(_ context.Context) (*dto.InsightsResponse, error) {
	return s.resp, s.err
}

func insightsRequest(svc service.InsightsService) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/insights", NewInsightsHandler(svc).Generate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/insights", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestInsightsGenerate_GuardMessagesPassThrough(t *testing.T) {
	w := insightsRequest(&stubInsightsService{err: service.ErrNotEnoughSales})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "5 مبيعات")
}

func TestInsightsGenerate_UpstreamFailureIsLocalized(t *testing.T) {
	w := insightsRequest(&stubInsightsService{err: errors.New("rpc: deadline exceeded")})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "الذكاء الاصطناعي")
}
