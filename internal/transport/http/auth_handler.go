package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tradevault/tradevault-api/internal/service"
	"github.com/tradevault/tradevault-api/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	handler := &AuthHandler{auth: auth}

	public := e.Group("/api/v1/auth")
	public.POST("/register", handler.register)
	public.POST("/login", handler.login)
	public.POST("/google", handler.loginWithGoogle)

	protected := e.Group("/api/v1/auth", RequireAuth(auth))
	protected.POST("/logout", handler.logout)
	protected.POST("/change-password", handler.changePassword)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		FullName *string `json:"full_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, util.Error("email and password required"))
	}

	user, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, util.Error("Password must be at least 8 characters"))
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusConflict, util.Error("an account with this email already exists"))
		default:
			c.Logger().Errorf("register: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("could not create account"))
		}
	}
	return c.JSON(http.StatusCreated, util.Envelope{"user": user})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid email or password"))
		}
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("could not sign in"))
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) loginWithGoogle(c echo.Context) error {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.IDToken) == "" {
		return c.JSON(http.StatusBadRequest, util.Error("id_token required"))
	}

	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid google token"))
		}
		c.Logger().Errorf("google login: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("could not sign in"))
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), currentToken(c)); err != nil {
		c.Logger().Errorf("logout: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("could not sign out"))
	}
	return c.JSON(http.StatusOK, util.OK("signed out"))
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	err := h.auth.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, util.Error("Password must be at least 8 characters"))
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, util.Error("current password is incorrect"))
		default:
			c.Logger().Errorf("change password: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("could not change password"))
		}
	}
	return c.JSON(http.StatusOK, util.OK("password changed"))
}
