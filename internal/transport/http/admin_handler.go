package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
	"github.com/tradevault/tradevault-api/internal/service"
	"github.com/tradevault/tradevault-api/internal/util"
)

type AdminHandler struct {
	admin    *service.AdminService
	kyc      *service.KYCService
	funds    *service.FundService
	trades   *service.TradeService
	messages *service.MessageService
}

func RegisterAdmin(e *echo.Echo, auth *service.AuthService, admin *service.AdminService, kyc *service.KYCService, funds *service.FundService, trades *service.TradeService, messages *service.MessageService) {
	handler := &AdminHandler{admin: admin, kyc: kyc, funds: funds, trades: trades, messages: messages}

	g := e.Group("/api/v1/admin", RequireAuth(auth), RequireAdmin())
	g.GET("/overview", handler.overview)
	g.GET("/users", handler.listUsers)
	g.PUT("/users/:id/role", handler.setRole)
	g.GET("/kyc", handler.listPendingKYC)
	g.PUT("/kyc/:user_id", handler.reviewKYC)
	g.GET("/fund-requests", handler.listFundRequests)
	g.PUT("/fund-requests/:id", handler.processFundRequest)
	g.GET("/trades", handler.listTrades)
	g.POST("/users/:id/trades", handler.createTrade)
	g.PUT("/trades/:id/close", handler.closeTrade)
	g.GET("/messages", handler.listThreads)
	g.GET("/users/:id/messages", handler.readThread)
	g.POST("/users/:id/messages", handler.reply)
}

func (h *AdminHandler) overview(c echo.Context) error {
	overview, err := h.admin.Overview(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("admin overview: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load overview"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"overview": overview})
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	limit, offset := parsePagination(c, 50, 0)
	users, err := h.admin.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("list users: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load users"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"users": users})
}

func (h *AdminHandler) setRole(c echo.Context) error {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.admin.SetRole(c.Request().Context(), userID, req.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, util.Error("role must be admin, moderator, or user"))
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error("user not found"))
		default:
			c.Logger().Errorf("set role: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("unable to update role"))
		}
	}
	return c.JSON(http.StatusOK, util.OK("role updated"))
}

func (h *AdminHandler) listPendingKYC(c echo.Context) error {
	limit, offset := parsePagination(c, 20, 0)
	profiles, err := h.kyc.ListPending(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("list pending kyc: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load KYC queue"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"profiles": profiles})
}

func (h *AdminHandler) reviewKYC(c echo.Context) error {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("user_id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("user_id must be a valid UUID"))
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.kyc.Review(c.Request().Context(), userID, req.Decision); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidKYCDecision):
			return c.JSON(http.StatusBadRequest, util.Error("decision must be approved or rejected"))
		case errors.Is(err, service.ErrProfileNotFound):
			return c.JSON(http.StatusNotFound, util.Error("profile not found"))
		default:
			c.Logger().Errorf("review kyc: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("unable to update KYC status"))
		}
	}
	return c.JSON(http.StatusOK, util.OK("KYC status updated"))
}

func (h *AdminHandler) listFundRequests(c echo.Context) error {
	limit, offset := parsePagination(c, 20, 0)
	requests, err := h.funds.List(c.Request().Context(), c.QueryParam("type"), c.QueryParam("status"), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFundRequestType) {
			return c.JSON(http.StatusBadRequest, util.Error("type must be deposit or withdraw"))
		}
		c.Logger().Errorf("list fund requests: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load fund requests"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"requests": requests})
}

func (h *AdminHandler) processFundRequest(c echo.Context) error {
	admin, ok := CurrentUser(c)
	if !ok || admin == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	requestID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	var req struct {
		Decision   string  `json:"decision"`
		AdminNotes *string `json:"admin_notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	request, err := h.funds.Process(c.Request().Context(), requestID, req.Decision, admin.ID, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFundDecision):
			return c.JSON(http.StatusBadRequest, util.Error("decision must be approved or rejected"))
		case errors.Is(err, service.ErrFundRequestNotFound):
			return c.JSON(http.StatusNotFound, util.Error("fund request not found"))
		case errors.Is(err, service.ErrFundRequestProcessed):
			return c.JSON(http.StatusConflict, util.Error("fund request has already been processed"))
		case errors.Is(err, service.ErrInsufficientBalance):
			return c.JSON(http.StatusBadRequest, util.Error("insufficient balance for this withdrawal"))
		default:
			c.Logger().Errorf("process fund request: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("unable to process fund request"))
		}
	}
	return c.JSON(http.StatusOK, util.Envelope{"request": request})
}

func (h *AdminHandler) listTrades(c echo.Context) error {
	limit, offset := parsePagination(c, 50, 0)
	trades, err := h.trades.ListAll(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("list trades: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load trades"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"trades": trades})
}

func (h *AdminHandler) createTrade(c echo.Context) error {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	var req struct {
		ScriptName string     `json:"script_name"`
		Exchange   string     `json:"exchange"`
		TradeType  string     `json:"trade_type"`
		Quantity   float64    `json:"quantity"`
		EntryPrice float64    `json:"entry_price"`
		EntryTime  *time.Time `json:"entry_time"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	newTrade := ports.NewTrade{
		UserID:     userID,
		ScriptName: req.ScriptName,
		Exchange:   req.Exchange,
		TradeType:  req.TradeType,
		Quantity:   req.Quantity,
		EntryPrice: req.EntryPrice,
	}
	if req.EntryTime != nil {
		newTrade.EntryTime = *req.EntryTime
	}

	trade, err := h.trades.Create(c.Request().Context(), newTrade)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTrade) {
			return c.JSON(http.StatusBadRequest, util.Error("invalid trade details"))
		}
		c.Logger().Errorf("create trade: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to create trade"))
	}
	return c.JSON(http.StatusCreated, util.Envelope{"trade": trade})
}

func (h *AdminHandler) closeTrade(c echo.Context) error {
	tradeID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	var req struct {
		ExitPrice float64    `json:"exit_price"`
		ExitTime  *time.Time `json:"exit_time"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	exitTime := time.Time{}
	if req.ExitTime != nil {
		exitTime = *req.ExitTime
	}

	trade, err := h.trades.Close(c.Request().Context(), tradeID, req.ExitPrice, exitTime)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTrade):
			return c.JSON(http.StatusBadRequest, util.Error("invalid exit details"))
		case errors.Is(err, service.ErrTradeNotFound):
			return c.JSON(http.StatusNotFound, util.Error("trade not found"))
		case errors.Is(err, service.ErrTradeAlreadyClosed):
			return c.JSON(http.StatusConflict, util.Error("trade is already closed"))
		default:
			c.Logger().Errorf("close trade: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("unable to close trade"))
		}
	}
	return c.JSON(http.StatusOK, util.Envelope{"trade": trade})
}

func (h *AdminHandler) listThreads(c echo.Context) error {
	limit, offset := parsePagination(c, 50, 0)
	threads, err := h.messages.ListThreads(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("list threads: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load message threads"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"threads": threads})
}

func (h *AdminHandler) readThread(c echo.Context) error {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	limit, offset := parsePagination(c, 50, 0)
	thread, err := h.messages.ReadThread(c.Request().Context(), userID, domain.MessageSenderAdmin, limit, offset)
	if err != nil {
		c.Logger().Errorf("read thread: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load messages"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"messages": thread})
}

func (h *AdminHandler) reply(c echo.Context) error {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	message, err := h.messages.Post(c.Request().Context(), userID, domain.MessageSenderAdmin, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, util.Error("message body cannot be empty"))
		}
		c.Logger().Errorf("reply: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to send message"))
	}
	return c.JSON(http.StatusCreated, util.Envelope{"message": message})
}
