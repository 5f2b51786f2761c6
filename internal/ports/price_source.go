package ports

import "context"

// PriceSource provides the current price of a token in SOL.
// Used at position close to realize PnL.
type PriceSource interface {
	CurrentPrice(ctx context.Context, tokenAddress string) (float64, error)
}
