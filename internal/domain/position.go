package domain

import "time"

// Position is an open simulated holding in one token.
// There is at most one position per token address at a time.
// Invariant while open: Amount > 0 and EntryPrice > 0.
type Position struct {
	TokenAddress   string
	Amount         float64 // token units
	EntryPrice     float64 // SOL per token
	EntryTime      time.Time
	TargetExitTime time.Time
}

// EntryCost returns the SOL spent to open the position.
func (p Position) EntryCost() float64 {
	return p.Amount * p.EntryPrice
}
