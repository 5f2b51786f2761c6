package domain

import "time"

// TradeSide distinguishes ledger entries.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Trade is one append-only ledger entry. BUY trades carry zero PnL;
// SELL trades carry the realized PnL of the position they close.
type Trade struct {
	ID           string
	TokenAddress string
	Side         TradeSide
	AmountSOL    float64 // SOL debited (BUY) or credited (SELL)
	Price        float64 // SOL per token at execution
	Time         time.Time
	PnL          float64
	PnLPercent   float64
	Reasoning    string
}
