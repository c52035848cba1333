package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ertugrul2020/pos/internal/apierror"
	"github.com/Ertugrul2020/pos/internal/dto"
	"github.com/Ertugrul2020/pos/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("invalid credentials"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Recover(c *gin.Context) {
	var req dto.RecoverRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Recover(c.Request.Context(), req)
	if err != nil {
		// Mismatch and delivery failure share one response; the endpoint must
		// not confirm which contact details are on file.
		c.JSON(http.StatusUnauthorized, apierror.New("recovery details do not match"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Reset(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Reset(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("could not reset password"))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, apierror.New("invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("could not change password"))
		return
	}
	c.Status(http.StatusNoContent)
}
