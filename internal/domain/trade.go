package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"

	TradeStatusOpen   = "open"
	TradeStatusClosed = "closed"
)

type Trade struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	ScriptName        string     `db:"script_name" json:"script_name"`
	Exchange          string     `db:"exchange" json:"exchange"`
	TradeType         string     `db:"trade_type" json:"trade_type"`
	Quantity          float64    `db:"quantity" json:"quantity"`
	EntryPrice        float64    `db:"entry_price" json:"entry_price"`
	EntryTime         time.Time  `db:"entry_time" json:"entry_time"`
	ExitPrice         *float64   `db:"exit_price" json:"exit_price,omitempty"`
	ExitTime          *time.Time `db:"exit_time" json:"exit_time,omitempty"`
	ProfitLoss        *float64   `db:"profit_loss" json:"profit_loss,omitempty"`
	ProfitLossPercent *float64   `db:"profit_loss_percent" json:"profit_loss_percent,omitempty"`
	Status            string     `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// TradeSummary aggregates closed-trade P/L for a reporting window.
type TradeSummary struct {
	TotalProfit float64 `json:"total_profit"`
	TotalLoss   float64 `json:"total_loss"`
	Net         float64 `json:"net"`
	TradeCount  int     `json:"trade_count"`
}
