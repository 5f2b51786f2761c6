package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahmedayman96/solana-nansen-bot/internal/analysis"
	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
)

func TestGradeFor_Matrix(t *testing.T) {
	tests := []struct {
		name    string
		winRate float64
		avgROI  float64
		want    domain.Grade
	}{
		{"high win and roi", 0.65, 35, domain.GradeS},
		{"decent win low roi", 0.55, 10, domain.GradeA},
		{"low everything", 0.3, 5, domain.GradeB},
		{"s boundary not inclusive", 0.6, 35, domain.GradeA},
		{"roi alone is not enough", 0.4, 50, domain.GradeB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analysis.GradeFor(tt.winRate, tt.avgROI))
		})
	}
}

func TestWalletScorer_UnknownAddressIsC(t *testing.T) {
	s := analysis.NewWalletScorer()
	assert.Equal(t, domain.GradeUnknown, s.Grade("never-seen"))
}

func TestWalletScorer_ScoreThenGrade(t *testing.T) {
	s := analysis.NewWalletScorer()

	// 12 transfers → 6 trades → active wallet heuristic kicks in.
	history := make([]domain.Transaction, 12)
	score := s.Score("w1", history)

	assert.Equal(t, "w1", score.Address)
	assert.InDelta(t, 0.65, score.WinRate, 0.001)
	assert.Equal(t, score.Grade, s.Grade("w1"))
}

func TestWalletScorer_RescoreOverwrites(t *testing.T) {
	s := analysis.NewWalletScorer()

	s.Score("w1", make([]domain.Transaction, 12))
	assert.Equal(t, domain.GradeA, s.Grade("w1")) // win 0.65, roi 20 → A

	s.Score("w1", make([]domain.Transaction, 2))
	assert.Equal(t, domain.GradeB, s.Grade("w1")) // win 0.5 misses the A cut
}
