package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ertugrul2020/pos/internal/apierror"
	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/service"
)

type SalesHandler struct{ svc service.CheckoutService }

func NewSalesHandler(svc service.CheckoutService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

func (h *SalesHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), subject(c), req)
	if err != nil {
		var limitErr *service.DebtLimitError
		switch {
		case errors.As(err, &limitErr):
			// Soft rejection: the client may retry with the override flag.
			c.JSON(http.StatusConflict, dto.DebtLimitExceededResponse{
				Detail:        limitErr.Error(),
				CurrentDebt:   limitErr.CurrentDebt,
				SaleTotal:     limitErr.SaleTotal,
				ProjectedDebt: limitErr.ProjectedDebt,
				DebtLimit:     limitErr.DebtLimit,
			})
		case errors.Is(err, service.ErrCartEmpty):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		case errors.Is(err, service.ErrCustomerRequired):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		case errors.Is(err, service.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("checkout failed"))
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListSales(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("sale not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteSale(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("could not delete sale"))
		return
	}
	c.Status(http.StatusNoContent)
}
