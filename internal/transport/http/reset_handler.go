package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tradevault/tradevault-api/internal/service"
	"github.com/tradevault/tradevault-api/internal/util"
)

// ResetHandler exposes the OTP password-reset flow. Both endpoints are
// unauthenticated; the send endpoint answers identically whether or not the
// email has an account.
type ResetHandler struct {
	resets *service.PasswordResetService
}

func RegisterPasswordReset(e *echo.Echo, resets *service.PasswordResetService) {
	handler := &ResetHandler{resets: resets}
	e.POST("/api/send-reset-otp", handler.sendOTP)
	e.POST("/api/verify-otp-reset", handler.verifyOTP)
}

func (h *ResetHandler) sendOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, util.Error("Email required"))
	}

	if err := h.resets.Request(c.Request().Context(), req.Email); err != nil {
		c.Logger().Errorf("send reset otp: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("server error"))
	}
	return c.JSON(http.StatusOK, util.OK("OTP sent if email exists"))
}

func (h *ResetHandler) verifyOTP(c echo.Context) error {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.OTP) == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, util.Error("email, otp and newPassword required"))
	}

	err := h.resets.Confirm(c.Request().Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, util.Error("Password must be at least 8 characters"))
		case errors.Is(err, service.ErrResetOTPExpired):
			return c.JSON(http.StatusBadRequest, util.Error("OTP expired"))
		case errors.Is(err, service.ErrResetOTPInvalid):
			return c.JSON(http.StatusBadRequest, util.Error("OTP invalid or expired"))
		default:
			c.Logger().Errorf("verify reset otp: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("server error"))
		}
	}
	return c.JSON(http.StatusOK, util.OK("Password updated"))
}
