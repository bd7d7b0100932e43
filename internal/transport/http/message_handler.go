package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/service"
	"github.com/tradevault/tradevault-api/internal/util"
)

type MessageHandler struct {
	messages *service.MessageService
}

func RegisterMessages(e *echo.Echo, auth *service.AuthService, messages *service.MessageService) {
	handler := &MessageHandler{messages: messages}

	protected := e.Group("/api/v1/users/me/messages", RequireAuth(auth))
	protected.GET("", handler.readMyThread)
	protected.POST("", handler.postToMyThread)
}

func (h *MessageHandler) readMyThread(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	limit, offset := parsePagination(c, 50, 0)
	thread, err := h.messages.ReadThread(c.Request().Context(), user.ID, domain.MessageSenderUser, limit, offset)
	if err != nil {
		c.Logger().Errorf("read messages: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load messages"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"messages": thread})
}

func (h *MessageHandler) postToMyThread(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	message, err := h.messages.Post(c.Request().Context(), user.ID, domain.MessageSenderUser, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, util.Error("message body cannot be empty"))
		}
		c.Logger().Errorf("post message: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to send message"))
	}
	return c.JSON(http.StatusCreated, util.Envelope{"message": message})
}
