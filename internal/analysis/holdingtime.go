// Package analysis derives trading signals from raw transfer history:
// how long smart-money wallets hold a token, and how well an individual
// wallet has performed.
package analysis

import (
	"sort"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// DefaultMedianHoldMinutes is assumed when no smart-money holding data
// exists for a token. Four hours.
const DefaultMedianHoldMinutes = 240.0

// Matcher pairs entry transactions with exit transactions and returns the
// holding duration of each pair, in minutes. Implementations decide how
// entries map to exits.
type Matcher interface {
	Match(entries, exits []domain.Transaction) []float64
}

// FIFOMatcher pairs the i-th earliest entry with the i-th earliest exit,
// regardless of amount or causal linkage. This is a deliberate
// approximation: real accounting would match lots within a token. Pairs
// whose exit does not strictly follow the entry are dropped as noise.
type FIFOMatcher struct{}

// Match implements Matcher.
func (FIFOMatcher) Match(entries, exits []domain.Transaction) []float64 {
	sortedEntries := sortByTime(entries)
	sortedExits := sortByTime(exits)

	n := min(len(sortedEntries), len(sortedExits))
	durations := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		entry, exit := sortedEntries[i].Timestamp, sortedExits[i].Timestamp
		if exit.After(entry) {
			durations = append(durations, exit.Sub(entry).Minutes())
		}
	}
	return durations
}

// HoldingTimeEstimator computes median holding times from transfer history.
type HoldingTimeEstimator struct {
	matcher Matcher
}

// NewHoldingTimeEstimator creates an estimator with the given matcher.
// Pass nil to use the default FIFO matcher.
func NewHoldingTimeEstimator(m Matcher) *HoldingTimeEstimator {
	if m == nil {
		m = FIFOMatcher{}
	}
	return &HoldingTimeEstimator{matcher: m}
}

// MedianHoldingTime returns the median holding duration in minutes for the
// given entry and exit lists. Returns 0 when either list is empty or no
// pair survives filtering.
func (e *HoldingTimeEstimator) MedianHoldingTime(entries, exits []domain.Transaction) float64 {
	if len(entries) == 0 || len(exits) == 0 {
		return 0.0
	}
	durations := e.matcher.Match(entries, exits)
	if len(durations) == 0 {
		return 0.0
	}
	return median(durations)
}

// SmartMoneyMedianHold computes one median across the pooled holding
// durations of all smart wallets seen in txs. A transfer toward a smart
// wallet counts as an entry, away from it as an exit: a heuristic that
// does not distinguish plain transfers from swaps. Returns
// DefaultMedianHoldMinutes when no wallet contributes a duration.
func (e *HoldingTimeEstimator) SmartMoneyMedianHold(txs []domain.Transaction, smartWallets []string) float64 {
	smart := make(map[string]bool, len(smartWallets))
	for _, w := range smartWallets {
		smart[w] = true
	}

	type flows struct{ entries, exits []domain.Transaction }
	byWallet := make(map[string]*flows)
	for _, tx := range txs {
		wallet := ""
		switch {
		case smart[tx.FromAddress]:
			wallet = tx.FromAddress
		case smart[tx.ToAddress]:
			wallet = tx.ToAddress
		default:
			continue
		}
		f := byWallet[wallet]
		if f == nil {
			f = &flows{}
			byWallet[wallet] = f
		}
		if tx.ToAddress == wallet {
			f.entries = append(f.entries, tx)
		} else {
			f.exits = append(f.exits, tx)
		}
	}

	var pooled []float64
	for _, f := range byWallet {
		pooled = append(pooled, e.matcher.Match(f.entries, f.exits)...)
	}
	if len(pooled) == 0 {
		return DefaultMedianHoldMinutes
	}
	return median(pooled)
}

func sortByTime(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
