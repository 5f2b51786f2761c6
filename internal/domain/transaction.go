package domain

import "time"

// Transaction is a single on-chain token transfer as reported by the
// analytics provider. Immutable once fetched.
type Transaction struct {
	Hash         string
	FromAddress  string
	ToAddress    string
	TokenAddress string
	Amount       float64
	Timestamp    time.Time
	BlockNumber  int64
}
