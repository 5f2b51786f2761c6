// Package engine holds the decision-and-lifecycle core: the position ledger
// that owns the simulated balance, and the strategy that drives it.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
	"github.com/ahmedayman96/solana-nansen-bot/internal/ports"
)

// Contract violations surfaced by the ledger. Insufficient funds is an
// expected runtime condition; the others indicate a caller bug.
var (
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrInvalidPrice      = errors.New("ledger: price must be positive")
	ErrInvalidAmount     = errors.New("ledger: amount must be positive")
	ErrPositionExists    = errors.New("ledger: position already open for token")
	ErrNoPosition        = errors.New("ledger: no open position for token")
)

// Ledger is the paper-trading engine. It exclusively owns the SOL balance
// and the open positions map; all balance-affecting actions go through it.
// Each open/close is one critical section: balance update, trade record and
// portfolio snapshot never interleave across tokens.
type Ledger struct {
	mu        sync.Mutex
	balance   float64
	positions map[string]domain.Position
	store     ports.TradeStore
	now       func() time.Time
}

// NewLedger creates a Ledger with the given starting balance. The store
// receives the trade ledger and portfolio snapshots; persistence failures
// are logged and never roll back the in-memory simulation.
func NewLedger(initialBalance float64, store ports.TradeStore) *Ledger {
	return &Ledger{
		balance:   initialBalance,
		positions: make(map[string]domain.Position),
		store:     store,
		now:       time.Now,
	}
}

// Open buys amountSOL worth of the token at price and opens a position with
// the given target exit time. Rejected with no state change on invalid
// arguments, insufficient funds, or an already-open position.
func (l *Ledger) Open(ctx context.Context, tokenAddress string, amountSOL, price float64, targetExit time.Time) (domain.Trade, error) {
	if price <= 0 {
		return domain.Trade{}, ErrInvalidPrice
	}
	if amountSOL <= 0 {
		return domain.Trade{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, open := l.positions[tokenAddress]; open {
		return domain.Trade{}, ErrPositionExists
	}
	if amountSOL > l.balance {
		return domain.Trade{}, ErrInsufficientFunds
	}

	now := l.now()
	l.balance -= amountSOL
	l.positions[tokenAddress] = domain.Position{
		TokenAddress:   tokenAddress,
		Amount:         amountSOL / price,
		EntryPrice:     price,
		EntryTime:      now,
		TargetExitTime: targetExit,
	}

	trade := domain.Trade{
		ID:           uuid.New().String(),
		TokenAddress: tokenAddress,
		Side:         domain.SideBuy,
		AmountSOL:    amountSOL,
		Price:        price,
		Time:         now,
		Reasoning:    "Buy wave detected",
	}
	l.persist(ctx, trade)
	return trade, nil
}

// Close sells the full open position for the token at price, realizing PnL.
// Returns ErrNoPosition when no position is open; callers must treat that
// as a bug, not a benign no-op.
func (l *Ledger) Close(ctx context.Context, tokenAddress string, price float64) (domain.Trade, error) {
	if price <= 0 {
		return domain.Trade{}, ErrInvalidPrice
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pos, open := l.positions[tokenAddress]
	if !open {
		return domain.Trade{}, ErrNoPosition
	}

	solValue := pos.Amount * price
	entryCost := pos.EntryCost() // > 0 by construction: Open validates price and amount
	pnl := solValue - entryCost
	pnlPercent := pnl / entryCost * 100

	l.balance += solValue
	delete(l.positions, tokenAddress)

	trade := domain.Trade{
		ID:           uuid.New().String(),
		TokenAddress: tokenAddress,
		Side:         domain.SideSell,
		AmountSOL:    solValue,
		Price:        price,
		Time:         l.now(),
		PnL:          pnl,
		PnLPercent:   pnlPercent,
		Reasoning:    "Target exit time reached",
	}
	l.persist(ctx, trade)
	return trade, nil
}

// PortfolioValue returns the current SOL balance. Open positions are not
// marked to market, a documented simplification.
func (l *Ledger) PortfolioValue() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// HasPosition reports whether a position is open for the token.
func (l *Ledger) HasPosition(tokenAddress string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, open := l.positions[tokenAddress]
	return open
}

// OpenPositions returns a stable-ordered copy of the open positions.
func (l *Ledger) OpenPositions() []domain.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Position, 0, len(l.positions))
	for _, pos := range l.positions {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TokenAddress < out[j].TokenAddress
	})
	return out
}

// Snapshot records the current portfolio state. Also called by the ledger
// itself after every balance-affecting event; exported so the bootstrap can
// write the initial snapshot.
func (l *Ledger) Snapshot(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshotLocked(ctx)
}

// persist writes the trade and a fresh snapshot. Must hold l.mu.
func (l *Ledger) persist(ctx context.Context, trade domain.Trade) {
	if l.store == nil {
		return
	}
	if err := l.store.RecordTrade(ctx, trade); err != nil {
		slog.Error("ledger: record trade failed", "trade", trade.ID, "err", err)
	}
	l.snapshotLocked(ctx)
}

func (l *Ledger) snapshotLocked(ctx context.Context) {
	if l.store == nil {
		return
	}
	positions := make([]domain.Position, 0, len(l.positions))
	for _, pos := range l.positions {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].TokenAddress < positions[j].TokenAddress
	})

	snap := domain.PortfolioSnapshot{
		Timestamp:     l.now(),
		TotalValueSOL: l.balance,
		Positions:     positions,
	}
	if err := l.store.RecordSnapshot(ctx, snap); err != nil {
		slog.Error("ledger: record snapshot failed", "err", err)
	}
}
