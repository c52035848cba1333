package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ertugrul2020/pos/internal/apierror"
	"github.com/Ertugrul2020/pos/internal/service"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not build summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Send(c *gin.Context) {
	resp, err := h.svc.Send(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not send report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	data, err := h.svc.ExportCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not export sales"))
		return
	}
	filename := fmt.Sprintf("sales_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *ReportsHandler) AutoStatus(c *gin.Context) {
	resp, err := h.svc.AutoStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not read report status"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Dismiss(c *gin.Context) {
	h.svc.DismissPrompt()
	c.Status(http.StatusNoContent)
}
