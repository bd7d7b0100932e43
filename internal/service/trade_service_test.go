package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

type fakeTradeRepo struct {
	createInput  ports.NewTrade
	createResult *domain.Trade
	createErr    error

	findResult *domain.Trade
	findErr    error

	closeID      uuid.UUID
	closeExit    float64
	closePL      float64
	closePLPct   float64
	closeCalls   int
	closeResult  bool
	closeErr     error

	listByUserSince  *time.Time
	listByUserResult []domain.Trade
	listByUserErr    error

	listAllResult []domain.Trade

	countResult int64
}

func (f *fakeTradeRepo) Create(ctx context.Context, trade ports.NewTrade) (*domain.Trade, error) {
	f.createInput = trade
	return f.createResult, f.createErr
}

func (f *fakeTradeRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	return f.findResult, f.findErr
}

func (f *fakeTradeRepo) Close(ctx context.Context, id uuid.UUID, exitPrice float64, exitTime time.Time, profitLoss, profitLossPercent float64) (bool, error) {
	f.closeCalls++
	f.closeID = id
	f.closeExit = exitPrice
	f.closePL = profitLoss
	f.closePLPct = profitLossPercent
	return f.closeResult, f.closeErr
}

func (f *fakeTradeRepo) ListByUser(ctx context.Context, userID uuid.UUID, since *time.Time, limit, offset int) ([]domain.Trade, error) {
	f.listByUserSince = since
	if f.listByUserErr != nil {
		return nil, f.listByUserErr
	}
	return append([]domain.Trade(nil), f.listByUserResult...), nil
}

func (f *fakeTradeRepo) ListAll(ctx context.Context, limit, offset int) ([]domain.Trade, error) {
	return append([]domain.Trade(nil), f.listAllResult...), nil
}

func (f *fakeTradeRepo) Count(ctx context.Context) (int64, error) {
	return f.countResult, nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCreateTradeValidation(t *testing.T) {
	trades := &fakeTradeRepo{createResult: &domain.Trade{}}
	svc := NewTradeService(trades)

	cases := []struct {
		name  string
		trade ports.NewTrade
	}{
		{"missing script", ports.NewTrade{Exchange: "NSE", TradeType: domain.TradeTypeBuy, Quantity: 1, EntryPrice: 100}},
		{"missing exchange", ports.NewTrade{ScriptName: "RELIANCE", TradeType: domain.TradeTypeBuy, Quantity: 1, EntryPrice: 100}},
		{"bad type", ports.NewTrade{ScriptName: "RELIANCE", Exchange: "NSE", TradeType: "hold", Quantity: 1, EntryPrice: 100}},
		{"zero quantity", ports.NewTrade{ScriptName: "RELIANCE", Exchange: "NSE", TradeType: domain.TradeTypeBuy, EntryPrice: 100}},
		{"zero entry", ports.NewTrade{ScriptName: "RELIANCE", Exchange: "NSE", TradeType: domain.TradeTypeBuy, Quantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.trade); !errors.Is(err, ErrInvalidTrade) {
				t.Fatalf("expected ErrInvalidTrade, got %v", err)
			}
		})
	}
}

func TestCreateTradeDefaultsEntryTime(t *testing.T) {
	trades := &fakeTradeRepo{createResult: &domain.Trade{}}
	svc := NewTradeService(trades)

	_, err := svc.Create(context.Background(), ports.NewTrade{
		UserID:     uuid.New(),
		ScriptName: " RELIANCE ",
		Exchange:   "NSE",
		TradeType:  domain.TradeTypeBuy,
		Quantity:   10,
		EntryPrice: 2500,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if trades.createInput.ScriptName != "RELIANCE" {
		t.Fatalf("expected trimmed script name, got %q", trades.createInput.ScriptName)
	}
	if trades.createInput.EntryTime.IsZero() {
		t.Fatalf("expected entry time defaulted to now")
	}
}

func TestCloseTradeBuyProfit(t *testing.T) {
	tradeID := uuid.New()
	trades := &fakeTradeRepo{
		findResult: &domain.Trade{
			ID:         tradeID,
			TradeType:  domain.TradeTypeBuy,
			Quantity:   10,
			EntryPrice: 100,
			Status:     domain.TradeStatusOpen,
		},
		closeResult: true,
	}
	svc := NewTradeService(trades)

	if _, err := svc.Close(context.Background(), tradeID, 110, time.Now()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !almostEqual(trades.closePL, 100) {
		t.Fatalf("expected P/L 100, got %v", trades.closePL)
	}
	if !almostEqual(trades.closePLPct, 10) {
		t.Fatalf("expected 10%% P/L, got %v", trades.closePLPct)
	}
}

func TestCloseTradeSellDirection(t *testing.T) {
	tradeID := uuid.New()
	trades := &fakeTradeRepo{
		findResult: &domain.Trade{
			ID:         tradeID,
			TradeType:  domain.TradeTypeSell,
			Quantity:   5,
			EntryPrice: 200,
			Status:     domain.TradeStatusOpen,
		},
		closeResult: true,
	}
	svc := NewTradeService(trades)

	// A short closed below entry is a profit.
	if _, err := svc.Close(context.Background(), tradeID, 180, time.Now()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !almostEqual(trades.closePL, 100) {
		t.Fatalf("expected P/L 100 on short, got %v", trades.closePL)
	}
	if !almostEqual(trades.closePLPct, 10) {
		t.Fatalf("expected 10%% P/L on short, got %v", trades.closePLPct)
	}
}

func TestCloseTradeAlreadyClosed(t *testing.T) {
	tradeID := uuid.New()
	trades := &fakeTradeRepo{
		findResult: &domain.Trade{ID: tradeID, TradeType: domain.TradeTypeBuy, Quantity: 1, EntryPrice: 100, Status: domain.TradeStatusClosed},
	}
	svc := NewTradeService(trades)

	if _, err := svc.Close(context.Background(), tradeID, 110, time.Now()); !errors.Is(err, ErrTradeAlreadyClosed) {
		t.Fatalf("expected ErrTradeAlreadyClosed, got %v", err)
	}
	if trades.closeCalls != 0 {
		t.Fatalf("expected no close attempt on closed trade")
	}
}

func TestCloseTradeLostRace(t *testing.T) {
	tradeID := uuid.New()
	trades := &fakeTradeRepo{
		findResult:  &domain.Trade{ID: tradeID, TradeType: domain.TradeTypeBuy, Quantity: 1, EntryPrice: 100, Status: domain.TradeStatusOpen},
		closeResult: false,
	}
	svc := NewTradeService(trades)

	if _, err := svc.Close(context.Background(), tradeID, 110, time.Now()); !errors.Is(err, ErrTradeAlreadyClosed) {
		t.Fatalf("expected ErrTradeAlreadyClosed when update hits a closed row, got %v", err)
	}
}

func TestCloseTradeNotFound(t *testing.T) {
	trades := &fakeTradeRepo{findErr: sql.ErrNoRows}
	svc := NewTradeService(trades)

	if _, err := svc.Close(context.Background(), uuid.New(), 110, time.Now()); !errors.Is(err, ErrTradeNotFound) {
		t.Fatalf("expected ErrTradeNotFound, got %v", err)
	}
}

func TestListMineTodayFilter(t *testing.T) {
	trades := &fakeTradeRepo{}
	svc := NewTradeService(trades)

	if _, err := svc.ListMine(context.Background(), uuid.New(), true, 0, 0); err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if trades.listByUserSince == nil {
		t.Fatalf("expected since filter for today's trades")
	}
	if h, m, s := trades.listByUserSince.Clock(); h != 0 || m != 0 || s != 0 {
		t.Fatalf("expected midnight boundary, got %v", trades.listByUserSince)
	}

	trades.listByUserSince = nil
	if _, err := svc.ListMine(context.Background(), uuid.New(), false, 0, 0); err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if trades.listByUserSince != nil {
		t.Fatalf("expected no since filter without today flag")
	}
}

func TestSummaryTotals(t *testing.T) {
	pl := func(v float64) *float64 { return &v }
	trades := &fakeTradeRepo{listByUserResult: []domain.Trade{
		{ProfitLoss: pl(150)},
		{ProfitLoss: pl(-40)},
		{ProfitLoss: pl(25)},
		{}, // still open, no P/L yet
	}}
	svc := NewTradeService(trades)

	summary, err := svc.Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.TradeCount != 3 {
		t.Fatalf("expected 3 closed trades counted, got %d", summary.TradeCount)
	}
	if !almostEqual(summary.TotalProfit, 175) || !almostEqual(summary.TotalLoss, 40) {
		t.Fatalf("unexpected totals: profit %v loss %v", summary.TotalProfit, summary.TotalLoss)
	}
	if !almostEqual(summary.Net, 135) {
		t.Fatalf("expected net 135, got %v", summary.Net)
	}
}
