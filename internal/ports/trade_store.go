package ports

import (
	"context"
	"time"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// TradeStore persists the trade ledger, portfolio history and activity log.
// All write paths are append-only except the heartbeat marker.
type TradeStore interface {
	RecordTrade(ctx context.Context, trade domain.Trade) error
	RecordSnapshot(ctx context.Context, snap domain.PortfolioSnapshot) error

	// RecordLog appends to the activity log. The store retains only the
	// most recent 100 entries.
	RecordLog(ctx context.Context, message, level string) error

	UpdateHeartbeat(ctx context.Context) error
	LastHeartbeat(ctx context.Context) (time.Time, bool, error)

	RecentTrades(ctx context.Context, limit int) ([]domain.Trade, error)
	RecentLogs(ctx context.Context, limit int) ([]domain.LogEntry, error)
	PortfolioHistory(ctx context.Context, limit int) ([]domain.PortfolioSnapshot, error)

	Close() error
}
