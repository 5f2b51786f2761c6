package nansen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// transfersRequest is the TGM transfers payload.
type transfersRequest struct {
	Chain        string            `json:"chain"`
	TokenAddress string            `json:"token_address"`
	Date         dateRange         `json:"date"`
	Filters      transfersFilters  `json:"filters"`
	Pagination   paginationRequest `json:"pagination"`
}

type dateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type transfersFilters struct {
	OnlySmartMoney bool `json:"only_smart_money"`
}

type paginationRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type transfersResponse struct {
	Data []transferItem `json:"data"`
}

// transferItem tolerates the API's field drift: quantity vs transfer_amount,
// block_timestamp vs timestamp.
type transferItem struct {
	TxHash         string  `json:"tx_hash"`
	FromAddress    string  `json:"from_address"`
	ToAddress      string  `json:"to_address"`
	Quantity       float64 `json:"quantity"`
	TransferAmount float64 `json:"transfer_amount"`
	BlockTimestamp string  `json:"block_timestamp"`
	Timestamp      string  `json:"timestamp"`
	BlockNumber    int64   `json:"block_number"`
}

// SmartMoneyTransfers implements ports.TransactionSource. Provider errors
// degrade to an empty result with a warning; the strategy engine treats the
// token as signal-free this cycle.
func (c *Client) SmartMoneyTransfers(ctx context.Context, tokenAddress string, lookback time.Duration) ([]domain.Transaction, error) {
	now := time.Now().UTC()
	payload := transfersRequest{
		Chain:        "solana",
		TokenAddress: tokenAddress,
		Date: dateRange{
			From: now.Add(-lookback).Format("2006-01-02"),
			To:   now.Format("2006-01-02"),
		},
		Filters:    transfersFilters{OnlySmartMoney: true},
		Pagination: paginationRequest{Page: 1, PerPage: 50},
	}

	var resp transfersResponse
	url := fmt.Sprintf("%s/tgm/transfers", c.base)
	if err := c.post(ctx, c.transfersLimiter, url, payload, &resp); err != nil {
		slog.Warn("nansen: transfers fetch failed, returning empty",
			"token", tokenAddress, "err", err)
		return nil, nil
	}

	txs := make([]domain.Transaction, 0, len(resp.Data))
	for _, item := range resp.Data {
		txs = append(txs, domain.Transaction{
			Hash:         orDefault(item.TxHash, "unknown"),
			FromAddress:  item.FromAddress,
			ToAddress:    item.ToAddress,
			TokenAddress: tokenAddress,
			Amount:       firstNonZero(item.Quantity, item.TransferAmount),
			Timestamp:    parseTimestamp(item.BlockTimestamp, item.Timestamp, now),
			BlockNumber:  item.BlockNumber,
		})
	}
	return txs, nil
}

// parseTimestamp handles both "2006-01-02T15:04:05Z" and the provider's
// zone-less "2006-01-02T15:04:05" variant, falling back to now.
func parseTimestamp(primary, secondary string, fallback time.Time) time.Time {
	for _, raw := range []string{primary, secondary} {
		if raw == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
		if ts, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return ts.UTC()
		}
	}
	return fallback
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func firstNonZero(a, b float64) float64 {
	if a != 0 {
		return a
	}
	return b
}
