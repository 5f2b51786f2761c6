package nansen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmedayman96/solana-nansen-bot/internal/cache"
	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// labelCacheKey is the cache key convention for wallet labels.
const labelCacheKey = "wallet_label:"

// labelResponse is one entry of the profiler labels payload.
type labelResponse struct {
	Label string `json:"label"`
}

// LabelProvider resolves wallet labels through the TTL cache, only hitting
// the API for addresses the cache cannot serve. Labels change slowly, so
// they are cached for a long TTL (24h by default).
type LabelProvider struct {
	client *Client
	cache  *cache.Cache
	ttl    time.Duration
}

// NewLabelProvider wires a label source over the client and cache.
func NewLabelProvider(client *Client, c *cache.Cache, ttl time.Duration) *LabelProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LabelProvider{client: client, cache: c, ttl: ttl}
}

// WalletLabels implements ports.LabelSource. Per-address fetch failures
// produce a fallback label rather than failing the batch.
func (p *LabelProvider) WalletLabels(ctx context.Context, addresses []string) ([]domain.WalletLabel, error) {
	results := make([]domain.WalletLabel, 0, len(addresses))
	var toFetch []string

	for _, addr := range addresses {
		var cached domain.WalletLabel
		if p.cache.Get(ctx, labelCacheKey+addr, &cached) {
			results = append(results, cached)
			continue
		}
		toFetch = append(toFetch, addr)
	}

	if len(toFetch) == 0 {
		return results, nil
	}
	slog.Debug("nansen: fetching labels", "count", len(toFetch))

	for _, addr := range toFetch {
		label, err := p.fetchLabel(ctx, addr)
		if err != nil {
			slog.Warn("nansen: label fetch failed", "address", addr, "err", err)
			results = append(results, domain.WalletLabel{
				Address: addr,
				Label:   "Error",
			})
			continue
		}
		results = append(results, label)
		p.cache.Set(ctx, labelCacheKey+addr, label, p.ttl)
	}
	return results, nil
}

func (p *LabelProvider) fetchLabel(ctx context.Context, address string) (domain.WalletLabel, error) {
	var resp []labelResponse
	url := fmt.Sprintf("%s/profiler/address/labels?address=%s", p.client.base, address)
	if err := p.client.get(ctx, p.client.labelsLimiter, url, &resp); err != nil {
		return domain.WalletLabel{}, err
	}

	label := "Unknown"
	if len(resp) > 0 && resp[0].Label != "" {
		label = resp[0].Label
	}
	return domain.WalletLabel{
		Address:      address,
		Label:        label,
		IsSmartMoney: isSmartMoneyLabel(label),
	}, nil
}

// isSmartMoneyLabel infers smart-money status from label text when the
// provider does not flag it explicitly.
func isSmartMoneyLabel(label string) bool {
	for _, marker := range []string{"Smart Money", "Fund", "Whale"} {
		if strings.Contains(label, marker) {
			return true
		}
	}
	return false
}
