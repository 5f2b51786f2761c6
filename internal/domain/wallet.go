package domain

// WalletLabel is the provider's classification of an address.
// Labels change slowly, so they are cached with a long TTL.
type WalletLabel struct {
	Address      string `json:"address"`
	Label        string `json:"label"` // e.g. "Smart Money", "Fund", "Whale"
	IsSmartMoney bool   `json:"is_smart_money"`
}

// Grade buckets wallets by historical performance.
// GradeUnknown is a sentinel for never-scored addresses, not a quality tier.
type Grade string

const (
	GradeS       Grade = "S"
	GradeA       Grade = "A"
	GradeB       Grade = "B"
	GradeUnknown Grade = "C"
)

// WalletScore is the latest performance assessment of an address.
// Re-scoring overwrites the previous value.
type WalletScore struct {
	Address              string
	WinRate              float64
	AvgROI               float64
	MedianHoldingMinutes float64
	Grade                Grade
}
