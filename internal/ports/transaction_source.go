package ports

import (
	"context"
	"time"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// TransactionSource fetches recent smart-money activity for a token.
type TransactionSource interface {
	// SmartMoneyTransfers returns transfers by smart-money wallets within
	// the lookback window. Implementations must degrade provider errors to
	// an empty slice plus a logged warning; the engine never sees them.
	SmartMoneyTransfers(ctx context.Context, tokenAddress string, lookback time.Duration) ([]domain.Transaction, error)
}
