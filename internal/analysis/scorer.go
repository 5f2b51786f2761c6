package analysis

import (
	"sync"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

// Grading thresholds. The grade is a pure function of (win rate, avg ROI).
const (
	sTierWinRate = 0.6
	sTierAvgROI  = 30.0
	aTierWinRate = 0.5
)

// WalletScorer grades addresses by historical performance. Scores are kept
// in memory per instance; re-scoring an address overwrites its entry.
type WalletScorer struct {
	mu     sync.RWMutex
	scores map[string]domain.WalletScore
}

// NewWalletScorer creates an empty scorer.
func NewWalletScorer() *WalletScorer {
	return &WalletScorer{scores: make(map[string]domain.WalletScore)}
}

// Score derives a WalletScore from the wallet's transfer history and caches
// it. Win rate and ROI are coarse heuristics for now: the pipeline does not
// yet reconstruct per-trade PnL, so activity volume stands in as the
// win-rate proxy. The grading rule itself is exact.
func (s *WalletScorer) Score(address string, history []domain.Transaction) domain.WalletScore {
	totalTrades := len(history) / 2
	winRate := 0.5
	if totalTrades > 5 {
		winRate = 0.65
	}
	avgROI := 20.0

	score := domain.WalletScore{
		Address:              address,
		WinRate:              winRate,
		AvgROI:               avgROI,
		MedianHoldingMinutes: 120.0,
		Grade:                GradeFor(winRate, avgROI),
	}

	s.mu.Lock()
	s.scores[address] = score
	s.mu.Unlock()
	return score
}

// Grade returns the last computed grade for address, or GradeUnknown for an
// address that was never scored.
func (s *WalletScorer) Grade(address string) domain.Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if score, ok := s.scores[address]; ok {
		return score.Grade
	}
	return domain.GradeUnknown
}

// GradeFor maps performance metrics to a grade:
// win rate > 0.6 and avg ROI > 30 → S; else win rate > 0.5 → A; else B.
func GradeFor(winRate, avgROI float64) domain.Grade {
	switch {
	case winRate > sTierWinRate && avgROI > sTierAvgROI:
		return domain.GradeS
	case winRate > aTierWinRate:
		return domain.GradeA
	default:
		return domain.GradeB
	}
}
