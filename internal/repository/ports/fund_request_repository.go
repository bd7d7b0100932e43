package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
)

// ErrInsufficientBalance is returned by Process when approving a withdrawal
// would take the requester's balance below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

type NewFundRequest struct {
	UserID               uuid.UUID
	RequestType          string
	Amount               float64
	PaymentMethod        *string
	TransactionReference *string
	ScreenshotURL        *string
}

type FundRequestFilter struct {
	RequestType string   // empty = both types
	Statuses    []string // empty = all statuses
}

type FundRequestRepository interface {
	Create(ctx context.Context, request NewFundRequest) (*domain.FundRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FundRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FundRequest, error)
	List(ctx context.Context, filter FundRequestFilter, limit, offset int) ([]domain.FundRequestListItem, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	// Process settles a pending request and, on approval, adjusts the
	// requester's balance totals in the same transaction. It reports false
	// when the request was not pending (already processed by someone else)
	// and returns ErrInsufficientBalance for an overdrawing withdrawal.
	Process(ctx context.Context, id uuid.UUID, status string, adminID uuid.UUID, notes *string, processedAt time.Time) (bool, error)
}
