package domain

import "time"

// PortfolioSnapshot is the portfolio state after a balance-affecting event.
// Append-only; the dashboard charts the history.
type PortfolioSnapshot struct {
	Timestamp     time.Time
	TotalValueSOL float64
	Positions     []Position
}

// LogEntry is one row of the bounded activity log.
type LogEntry struct {
	Message   string
	Level     string
	Timestamp time.Time
}
