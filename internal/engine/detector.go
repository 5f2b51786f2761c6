package engine

import "github.com/ahmedayman96/solana-nansen-bot/internal/domain"

// WaveDetector decides whether recent smart-money activity constitutes an
// entry signal for a token.
type WaveDetector interface {
	Detect(txs []domain.Transaction) bool
}

// CountDetector triggers when the number of smart-money transfers in the
// lookback window meets the threshold. It is a coarse volume heuristic: it
// does not verify the transfers clustered inside a shorter sub-window, so a
// slow trickle over the whole window also triggers. Kept deliberately, see
// DESIGN.md.
type CountDetector struct {
	Threshold int
}

// Detect implements WaveDetector.
func (d CountDetector) Detect(txs []domain.Transaction) bool {
	return len(txs) >= d.Threshold
}
