// Package solana is a thin JSON-RPC adapter for a Solana node. The bot
// needs two things from the chain: account balances and a current token
// price at position close.
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRPCURL = "https://api.mainnet-beta.solana.com"

	// Public mainnet endpoints throttle aggressively.
	rpcRatePerSec = 10

	lamportsPerSOL = 1e9
)

// Client is a minimal Solana JSON-RPC client.
type Client struct {
	http    *http.Client
	url     string
	limiter *rate.Limiter
}

// NewClient creates a Client for the given RPC URL.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = defaultRPCURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		url:     url,
		limiter: rate.NewLimiter(rpcRatePerSec, 5),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type balanceResponse struct {
	Result struct {
		Value int64 `json:"value"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

// SOLBalance returns the SOL balance of a wallet.
func (c *Client) SOLBalance(ctx context.Context, walletAddress string) (float64, error) {
	var resp balanceResponse
	if err := c.call(ctx, "getBalance", []any{walletAddress}, &resp); err != nil {
		return 0, fmt.Errorf("solana.SOLBalance: %w", err)
	}
	if resp.Error != nil {
		return 0, fmt.Errorf("solana.SOLBalance: rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	return float64(resp.Result.Value) / lamportsPerSOL, nil
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
