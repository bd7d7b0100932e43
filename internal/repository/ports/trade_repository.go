package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
)

type NewTrade struct {
	UserID     uuid.UUID
	ScriptName string
	Exchange   string
	TradeType  string
	Quantity   float64
	EntryPrice float64
	EntryTime  time.Time
}

type TradeRepository interface {
	Create(ctx context.Context, trade NewTrade) (*domain.Trade, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error)
	// Close records the exit and derived P/L on an open trade; it reports
	// false when the trade was already closed.
	Close(ctx context.Context, id uuid.UUID, exitPrice float64, exitTime time.Time, profitLoss, profitLossPercent float64) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, since *time.Time, limit, offset int) ([]domain.Trade, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Trade, error)
	Count(ctx context.Context) (int64, error)
}
