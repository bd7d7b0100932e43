package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/media"
	"github.com/tradevault/tradevault-api/internal/service"
	"github.com/tradevault/tradevault-api/internal/util"
)

type FundHandler struct {
	funds *service.FundService
}

func RegisterFunds(e *echo.Echo, auth *service.AuthService, funds *service.FundService) {
	handler := &FundHandler{funds: funds}

	protected := e.Group("/api/v1/users/me/fund-requests", RequireAuth(auth))
	protected.POST("", handler.create)
	protected.GET("", handler.listMine)
}

// create accepts a multipart form so deposit requests can attach a payment
// screenshot; withdrawals carry only an amount.
func (h *FundHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	requestType := strings.TrimSpace(c.FormValue("request_type"))
	amount, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("amount")), 64)
	if err != nil || amount <= 0 {
		return c.JSON(http.StatusBadRequest, util.Error("amount must be a positive number"))
	}

	ctx := c.Request().Context()
	switch requestType {
	case domain.FundRequestDeposit:
		var paymentMethod, transactionReference *string
		if v := strings.TrimSpace(c.FormValue("payment_method")); v != "" {
			paymentMethod = &v
		}
		if v := strings.TrimSpace(c.FormValue("transaction_reference")); v != "" {
			transactionReference = &v
		}

		var screenshot *media.Upload
		if fileHeader, err := c.FormFile("screenshot"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				return c.JSON(http.StatusBadRequest, util.Error("unable to read screenshot"))
			}
			defer file.Close()
			screenshot = &media.Upload{
				Reader:      file,
				Size:        fileHeader.Size,
				FileName:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get(echo.HeaderContentType),
			}
		}

		request, err := h.funds.RequestDeposit(ctx, user.ID, amount, paymentMethod, transactionReference, screenshot)
		if err != nil {
			return h.createError(c, err)
		}
		return c.JSON(http.StatusCreated, util.Envelope{"request": request})

	case domain.FundRequestWithdraw:
		request, err := h.funds.RequestWithdrawal(ctx, user.ID, amount)
		if err != nil {
			return h.createError(c, err)
		}
		return c.JSON(http.StatusCreated, util.Envelope{"request": request})

	default:
		return c.JSON(http.StatusBadRequest, util.Error("request_type must be deposit or withdraw"))
	}
}

func (h *FundHandler) createError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, util.Error("amount must be a positive number"))
	case errors.Is(err, service.ErrInsufficientBalance):
		return c.JSON(http.StatusBadRequest, util.Error("insufficient balance"))
	case errors.Is(err, media.ErrNotAnImage):
		return c.JSON(http.StatusBadRequest, util.Error("screenshot must be a JPEG, PNG, GIF, or WebP image"))
	case errors.Is(err, media.ErrImageTooBig):
		return c.JSON(http.StatusBadRequest, util.Error("screenshot exceeds size limits"))
	default:
		c.Logger().Errorf("create fund request: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to create fund request"))
	}
}

func (h *FundHandler) listMine(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	limit, offset := parsePagination(c, 20, 0)
	requests, err := h.funds.ListMine(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		c.Logger().Errorf("list fund requests: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load fund requests"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"requests": requests})
}
