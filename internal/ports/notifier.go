package ports

import (
	"context"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// CycleReport is everything one strategy cycle produced, for display.
type CycleReport struct {
	BalanceSOL    float64
	OpenPositions []domain.Position
	Opened        []domain.Trade
	Closed        []domain.Trade
	TokensScanned int
	Warnings      int
}

// Notifier presents the outcome of a cycle to the user.
// The console implementation prints a formatted table.
type Notifier interface {
	Notify(ctx context.Context, report CycleReport) error
}
