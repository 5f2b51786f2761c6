package analysis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ahmedayman96/solana-nansen-bot/internal/analysis"
	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

var t0 = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func txAt(minutes int, from, to string) domain.Transaction {
	return domain.Transaction{
		Hash:        "tx",
		FromAddress: from,
		ToAddress:   to,
		Timestamp:   t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestMedianHoldingTime_EmptyInputs(t *testing.T) {
	e := analysis.NewHoldingTimeEstimator(nil)

	exits := []domain.Transaction{txAt(10, "a", "b")}
	assert.Zero(t, e.MedianHoldingTime(nil, exits))
	assert.Zero(t, e.MedianHoldingTime(exits, nil))
	assert.Zero(t, e.MedianHoldingTime(nil, nil))
}

func TestMedianHoldingTime_FIFOExample(t *testing.T) {
	e := analysis.NewHoldingTimeEstimator(nil)

	// Entries at t=0,5, exits at t=10,20 → pairs of 10 and 15 minutes.
	entries := []domain.Transaction{txAt(0, "x", "w"), txAt(5, "x", "w")}
	exits := []domain.Transaction{txAt(10, "w", "x"), txAt(20, "w", "x")}

	assert.InDelta(t, 12.5, e.MedianHoldingTime(entries, exits), 0.001)
}

func TestMedianHoldingTime_UnsortedInput(t *testing.T) {
	e := analysis.NewHoldingTimeEstimator(nil)

	// Same pairs as the example, given out of order.
	entries := []domain.Transaction{txAt(5, "x", "w"), txAt(0, "x", "w")}
	exits := []domain.Transaction{txAt(20, "w", "x"), txAt(10, "w", "x")}

	assert.InDelta(t, 12.5, e.MedianHoldingTime(entries, exits), 0.001)
}

func TestMedianHoldingTime_DropsNonPositivePairs(t *testing.T) {
	e := analysis.NewHoldingTimeEstimator(nil)

	// Exit before (and at) the entry time contributes nothing.
	entries := []domain.Transaction{txAt(30, "x", "w"), txAt(40, "x", "w")}
	exits := []domain.Transaction{txAt(10, "w", "x"), txAt(40, "w", "x")}

	assert.Zero(t, e.MedianHoldingTime(entries, exits))
}

func TestMedianHoldingTime_OddCount(t *testing.T) {
	e := analysis.NewHoldingTimeEstimator(nil)

	entries := []domain.Transaction{txAt(0, "x", "w"), txAt(1, "x", "w"), txAt(2, "x", "w")}
	exits := []domain.Transaction{txAt(10, "w", "x"), txAt(21, "w", "x"), txAt(32, "w", "x")}

	// Durations 10, 20, 30 → median 20.
	assert.InDelta(t, 20.0, e.MedianHoldingTime(entries, exits), 0.001)
}

func TestSmartMoneyMedianHold_FallbackWhenNoData(t *testing.T) {
	e := analysis.NewHoldingTimeEstimator(nil)

	assert.InDelta(t, analysis.DefaultMedianHoldMinutes,
		e.SmartMoneyMedianHold(nil, []string{"w1"}), 0.001)

	// Transactions exist but none touch a smart wallet.
	txs := []domain.Transaction{txAt(0, "a", "b"), txAt(5, "b", "a")}
	assert.InDelta(t, analysis.DefaultMedianHoldMinutes,
		e.SmartMoneyMedianHold(txs, []string{"w1"}), 0.001)
}

func TestSmartMoneyMedianHold_PerWalletPartition(t *testing.T) {
	e := analysis.NewHoldingTimeEstimator(nil)

	// w1: entry at 0, exit at 60 → 60 min.
	// w2: entry at 10, exit at 40 → 30 min.
	txs := []domain.Transaction{
		txAt(0, "pool", "w1"),
		txAt(60, "w1", "pool"),
		txAt(10, "pool", "w2"),
		txAt(40, "w2", "pool"),
	}

	got := e.SmartMoneyMedianHold(txs, []string{"w1", "w2"})
	assert.InDelta(t, 45.0, got, 0.001) // median of {60, 30}
}

func TestFIFOMatcher_PairsByIndex(t *testing.T) {
	m := analysis.FIFOMatcher{}

	// Three entries, two exits → only two pairs considered.
	entries := []domain.Transaction{txAt(0, "x", "w"), txAt(5, "x", "w"), txAt(6, "x", "w")}
	exits := []domain.Transaction{txAt(10, "w", "x"), txAt(25, "w", "x")}

	durations := m.Match(entries, exits)
	assert.Equal(t, []float64{10, 20}, durations)
}
