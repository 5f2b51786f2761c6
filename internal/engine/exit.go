package engine

import (
	"time"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// ExitRule decides whether an open position should be closed now.
// Implementations must be pure: no I/O, no mutation.
type ExitRule interface {
	ShouldExit(pos domain.Position, now time.Time) bool
}

// TimeExit closes a position once its target exit time has passed. The only
// exit rule the strategy ships with; stop-loss and trailing-stop variants
// plug in behind the same interface.
type TimeExit struct{}

// ShouldExit implements ExitRule.
func (TimeExit) ShouldExit(pos domain.Position, now time.Time) bool {
	return !now.Before(pos.TargetExitTime)
}
