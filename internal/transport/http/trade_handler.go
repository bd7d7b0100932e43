package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradevault/tradevault-api/internal/service"
	"github.com/tradevault/tradevault-api/internal/util"
)

type TradeHandler struct {
	trades *service.TradeService
}

func RegisterTrades(e *echo.Echo, auth *service.AuthService, trades *service.TradeService) {
	handler := &TradeHandler{trades: trades}

	protected := e.Group("/api/v1/users/me/trades", RequireAuth(auth))
	protected.GET("", handler.listMine)
	protected.GET("/summary", handler.summary)
}

func (h *TradeHandler) listMine(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	todayOnly := c.QueryParam("range") == "today"
	limit, offset := parsePagination(c, 50, 0)

	trades, err := h.trades.ListMine(c.Request().Context(), user.ID, todayOnly, limit, offset)
	if err != nil {
		c.Logger().Errorf("list trades: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load trades"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"trades": trades})
}

func (h *TradeHandler) summary(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	summary, err := h.trades.Summary(c.Request().Context(), user.ID)
	if err != nil {
		c.Logger().Errorf("trade summary: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load trade summary"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"summary": summary})
}
