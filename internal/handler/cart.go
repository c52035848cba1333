package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ertugrul2020/pos/internal/apierror"
	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/middleware"
	"github.com/Ertugrul2020/pos/internal/service"
)

type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// subject returns the session identity that keys the cart.
func subject(c *gin.Context) string {
	return middleware.GetClaims(c).Subject
}

func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Get(subject(c)))
}

func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddToCartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Add(c.Request.Context(), subject(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOutOfStock):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("could not add to cart"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateQuantity(c.Request.Context(), subject(c), id, req.Quantity)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Remove(c.Request.Context(), subject(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.svc.Clear(subject(c))
	c.Status(http.StatusNoContent)
}
