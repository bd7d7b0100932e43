package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

var (
	ErrTradeNotFound      = errors.New("trade not found")
	ErrTradeAlreadyClosed = errors.New("trade is already closed")
	ErrInvalidTrade       = errors.New("invalid trade details")
)

type TradeService struct {
	trades ports.TradeRepository
}

func NewTradeService(trades ports.TradeRepository) *TradeService {
	return &TradeService{trades: trades}
}

func (s *TradeService) Create(ctx context.Context, trade ports.NewTrade) (*domain.Trade, error) {
	trade.ScriptName = strings.TrimSpace(trade.ScriptName)
	trade.Exchange = strings.TrimSpace(trade.Exchange)
	if trade.ScriptName == "" || trade.Exchange == "" {
		return nil, ErrInvalidTrade
	}
	if trade.TradeType != domain.TradeTypeBuy && trade.TradeType != domain.TradeTypeSell {
		return nil, ErrInvalidTrade
	}
	if trade.Quantity <= 0 || trade.EntryPrice <= 0 {
		return nil, ErrInvalidTrade
	}
	if trade.EntryTime.IsZero() {
		trade.EntryTime = time.Now()
	}
	return s.trades.Create(ctx, trade)
}

// Close records the exit on an open trade. P/L is quantity-adjusted and
// signed by direction: a sell (short) profits when the exit is below entry.
func (s *TradeService) Close(ctx context.Context, id uuid.UUID, exitPrice float64, exitTime time.Time) (*domain.Trade, error) {
	if exitPrice <= 0 {
		return nil, ErrInvalidTrade
	}
	trade, err := s.trades.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	if trade.Status != domain.TradeStatusOpen {
		return nil, ErrTradeAlreadyClosed
	}
	if exitTime.IsZero() {
		exitTime = time.Now()
	}

	perUnit := exitPrice - trade.EntryPrice
	if trade.TradeType == domain.TradeTypeSell {
		perUnit = -perUnit
	}
	profitLoss := perUnit * trade.Quantity
	profitLossPercent := perUnit / trade.EntryPrice * 100

	closed, err := s.trades.Close(ctx, id, exitPrice, exitTime, profitLoss, profitLossPercent)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, ErrTradeAlreadyClosed
	}
	return s.trades.FindByID(ctx, id)
}

func (s *TradeService) ListMine(ctx context.Context, userID uuid.UUID, todayOnly bool, limit, offset int) ([]domain.Trade, error) {
	limit, offset = normalizePagination(limit, offset)
	var since *time.Time
	if todayOnly {
		start := startOfDay(time.Now())
		since = &start
	}
	return s.trades.ListByUser(ctx, userID, since, limit, offset)
}

// Summary totals today's quantity-adjusted P/L for the user, the numbers the
// dashboard renders as profit, loss, and net.
func (s *TradeService) Summary(ctx context.Context, userID uuid.UUID) (*domain.TradeSummary, error) {
	start := startOfDay(time.Now())
	trades, err := s.trades.ListByUser(ctx, userID, &start, 500, 0)
	if err != nil {
		return nil, err
	}

	summary := &domain.TradeSummary{}
	for _, trade := range trades {
		if trade.ProfitLoss == nil {
			continue
		}
		summary.TradeCount++
		if *trade.ProfitLoss >= 0 {
			summary.TotalProfit += *trade.ProfitLoss
		} else {
			summary.TotalLoss += -*trade.ProfitLoss
		}
	}
	summary.Net = summary.TotalProfit - summary.TotalLoss
	return summary, nil
}

func (s *TradeService) ListAll(ctx context.Context, limit, offset int) ([]domain.Trade, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.trades.ListAll(ctx, limit, offset)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
