package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/notify"
	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
	"github.com/ahmedayman96/solana-nansen-bot/internal/ports"
)

func sampleReport() ports.CycleReport {
	return ports.CycleReport{
		BalanceSOL:    49.0,
		TokensScanned: 2,
		Warnings:      1,
		OpenPositions: []domain.Position{{
			TokenAddress:   "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
			Amount:         100,
			EntryPrice:     0.01,
			EntryTime:      time.Now(),
			TargetExitTime: time.Now().Add(3 * time.Hour),
		}},
		Opened: []domain.Trade{{
			TokenAddress: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
			Side:         domain.SideBuy,
			AmountSOL:    1.0,
			Price:        0.01,
		}},
		Closed: []domain.Trade{{
			TokenAddress: "So11111111111111111111111111111111111111112",
			Side:         domain.SideSell,
			AmountSOL:    1.05,
			Price:        0.0105,
			PnLPercent:   5.0,
		}},
	}
}

func TestConsole_CompactLine(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, c.Notify(context.Background(), sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "balance 49.0000 SOL")
	assert.Contains(t, out, "open:1 scanned:2")
	assert.Contains(t, out, "BUY DezXAZ..B263")
	assert.Contains(t, out, "SELL So1111..1112 pnl +5.00%")
	assert.Contains(t, out, "warn:1")
}

func TestConsole_TableMode(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, c.Notify(context.Background(), sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "1 open, 2 scanned, 1 warnings")
	assert.Contains(t, out, "Target exit")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "SELL")
	assert.Contains(t, out, "+5.00%")
}

func TestConsole_QuietCycleStaysShort(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false)

	report := ports.CycleReport{BalanceSOL: 50.0, TokensScanned: 1}
	require.NoError(t, c.Notify(context.Background(), report))

	out := buf.String()
	assert.Contains(t, out, "balance 50.0000 SOL")
	assert.NotContains(t, out, "BUY")
	assert.NotContains(t, out, "warn:")
}
