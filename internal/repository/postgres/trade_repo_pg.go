package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

type TradeRepository struct {
	db *sqlx.DB
}

func NewTradeRepo(db *sqlx.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

const tradeColumns = `id, user_id, script_name, exchange, trade_type, quantity,
        entry_price, entry_time, exit_price, exit_time,
        profit_loss, profit_loss_percent, status, created_at`

func (r *TradeRepository) Create(ctx context.Context, trade ports.NewTrade) (*domain.Trade, error) {
	const query = `
        INSERT INTO trades (user_id, script_name, exchange, trade_type, quantity, entry_price, entry_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + tradeColumns + `
    `
	row := r.db.QueryRowxContext(ctx, query, trade.UserID, trade.ScriptName, trade.Exchange,
		trade.TradeType, trade.Quantity, trade.EntryPrice, trade.EntryTime)
	var created domain.Trade
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *TradeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	const query = `
        SELECT ` + tradeColumns + `
        FROM trades
        WHERE id = $1
    `
	var trade domain.Trade
	if err := r.db.GetContext(ctx, &trade, query, id); err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *TradeRepository) Close(ctx context.Context, id uuid.UUID, exitPrice float64, exitTime time.Time, profitLoss, profitLossPercent float64) (bool, error) {
	const query = `
        UPDATE trades
        SET exit_price = $2,
            exit_time = $3,
            profit_loss = $4,
            profit_loss_percent = $5,
            status = 'closed'
        WHERE id = $1 AND status = 'open'
    `
	result, err := r.db.ExecContext(ctx, query, id, exitPrice, exitTime, profitLoss, profitLossPercent)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *TradeRepository) ListByUser(ctx context.Context, userID uuid.UUID, since *time.Time, limit, offset int) ([]domain.Trade, error) {
	const query = `
        SELECT ` + tradeColumns + `
        FROM trades
        WHERE user_id = $1 AND ($2::timestamptz IS NULL OR entry_time >= $2)
        ORDER BY entry_time DESC
        LIMIT $3 OFFSET $4
    `
	trades := []domain.Trade{}
	if err := r.db.SelectContext(ctx, &trades, query, userID, since, limit, offset); err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *TradeRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Trade, error) {
	const query = `
        SELECT ` + tradeColumns + `
        FROM trades
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	trades := []domain.Trade{}
	if err := r.db.SelectContext(ctx, &trades, query, limit, offset); err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *TradeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM trades`); err != nil {
		return 0, err
	}
	return count, nil
}
