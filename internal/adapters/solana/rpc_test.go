package solana_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/solana"
)

func TestSOLBalance_ConvertsLamports(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getBalance", req["method"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"value":2500000000}}`))
	}))
	defer server.Close()

	client := solana.NewClient(server.URL, time.Second)
	balance, err := client.SOLBalance(context.Background(), "someWallet")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, balance, 1e-9)
}

func TestSOLBalance_RPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid param"}}`))
	}))
	defer server.Close()

	client := solana.NewClient(server.URL, time.Second)
	_, err := client.SOLBalance(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid param")
}

func TestSOLBalance_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := solana.NewClient(server.URL, time.Second)
	_, err := client.SOLBalance(context.Background(), "w")
	assert.Error(t, err)
}
