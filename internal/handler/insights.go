package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ertugrul2020/pos/internal/apierror"
	"github.com/Ertugrul2020/pos/internal/service"
)

type InsightsHandler struct{ svc service.InsightsService }

func NewInsightsHandler(svc service.InsightsService) *InsightsHandler {
	return &InsightsHandler{svc: svc}
}

func (h *InsightsHandler) Generate(c *gin.Context) {
	resp, err := h.svc.Generate(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnoughSales):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		case errors.Is(err, service.ErrInsightsUnavailable):
			c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadGateway, apierror.New("حدث خطأ أثناء الاتصال بالذكاء الاصطناعي. تأكد من جودة الإنترنت."))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
