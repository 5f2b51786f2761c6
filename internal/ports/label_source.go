package ports

import (
	"context"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// LabelSource resolves provider labels for wallet addresses.
// Implementations consult the TTL cache before hitting the network.
type LabelSource interface {
	WalletLabels(ctx context.Context, addresses []string) ([]domain.WalletLabel, error)
}
