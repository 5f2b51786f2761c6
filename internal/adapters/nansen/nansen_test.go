package nansen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/nansen"
	"github.com/ahmedayman96/solana-nansen-bot/internal/cache"
)

type memCacheStore struct {
	entries map[string]memEntry
}

type memEntry struct {
	value  []byte
	expiry time.Time
}

func newMemCacheStore() *memCacheStore {
	return &memCacheStore{entries: make(map[string]memEntry)}
}

func (m *memCacheStore) Get(_ context.Context, key string) ([]byte, time.Time, bool, error) {
	e, ok := m.entries[key]
	return e.value, e.expiry, ok, nil
}

func (m *memCacheStore) Set(_ context.Context, key string, value []byte, expiry time.Time) error {
	m.entries[key] = memEntry{value: value, expiry: expiry}
	return nil
}

func TestSmartMoneyTransfers_ParsesResponse(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tgm/transfers", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("apiKey"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"tx_hash": "h1", "from_address": "a", "to_address": "b",
			 "quantity": 100.5, "block_timestamp": "2026-02-01T10:00:00Z", "block_number": 7},
			{"from_address": "c", "to_address": "d",
			 "transfer_amount": 42.0, "timestamp": "2026-02-01T11:30:00"}
		]}`))
	}))
	defer server.Close()

	client := nansen.NewClient(server.URL, "test-key", time.Second)
	txs, err := client.SmartMoneyTransfers(context.Background(), "tok1", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// Request carries the smart-money filter.
	filters, ok := gotPayload["filters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, filters["only_smart_money"])
	assert.Equal(t, "solana", gotPayload["chain"])

	assert.Equal(t, "h1", txs[0].Hash)
	assert.Equal(t, "tok1", txs[0].TokenAddress)
	assert.InDelta(t, 100.5, txs[0].Amount, 1e-9)
	assert.Equal(t, int64(7), txs[0].BlockNumber)
	assert.True(t, txs[0].Timestamp.Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)))

	// Second item exercises the field-drift fallbacks.
	assert.Equal(t, "unknown", txs[1].Hash)
	assert.InDelta(t, 42.0, txs[1].Amount, 1e-9)
	assert.True(t, txs[1].Timestamp.Equal(time.Date(2026, 2, 1, 11, 30, 0, 0, time.UTC)))
}

func TestSmartMoneyTransfers_ProviderErrorDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such endpoint", http.StatusNotFound)
	}))
	defer server.Close()

	client := nansen.NewClient(server.URL, "k", time.Second)
	txs, err := client.SmartMoneyTransfers(context.Background(), "tok1", time.Hour)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestWalletLabels_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/profiler/address/labels", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"label": "Smart Money (ROI > 150%)"}]`))
	}))
	defer server.Close()

	ctx := context.Background()
	client := nansen.NewClient(server.URL, "k", time.Second)
	provider := nansen.NewLabelProvider(client, cache.New(newMemCacheStore()), time.Hour)

	labels, err := provider.WalletLabels(ctx, []string{"w1"})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "w1", labels[0].Address)
	assert.Equal(t, "Smart Money (ROI > 150%)", labels[0].Label)
	assert.True(t, labels[0].IsSmartMoney)

	// Second lookup is served from the cache.
	labels, err = provider.WalletLabels(ctx, []string{"w1"})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.True(t, labels[0].IsSmartMoney)
	assert.Equal(t, int32(1), hits.Load())
}

func TestWalletLabels_EmptyResponseIsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := nansen.NewClient(server.URL, "k", time.Second)
	provider := nansen.NewLabelProvider(client, cache.New(newMemCacheStore()), time.Hour)

	labels, err := provider.WalletLabels(context.Background(), []string{"w1"})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "Unknown", labels[0].Label)
	assert.False(t, labels[0].IsSmartMoney)
}

func TestWalletLabels_FetchFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := nansen.NewClient(server.URL, "k", time.Second)
	provider := nansen.NewLabelProvider(client, cache.New(newMemCacheStore()), time.Hour)

	labels, err := provider.WalletLabels(context.Background(), []string{"w1"})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "Error", labels[0].Label)
	assert.False(t, labels[0].IsSmartMoney)
}
