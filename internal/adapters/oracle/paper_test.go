package oracle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/oracle"
)

func TestPaperOracle_DriftPerRead(t *testing.T) {
	ctx := context.Background()
	o := oracle.NewPaperOracle(0.01, 1.05)

	first, err := o.CurrentPrice(ctx, "tok1")
	require.NoError(t, err)
	assert.InDelta(t, 0.01, first, 1e-9)

	second, err := o.CurrentPrice(ctx, "tok1")
	require.NoError(t, err)
	assert.InDelta(t, 0.0105, second, 1e-9)

	third, err := o.CurrentPrice(ctx, "tok1")
	require.NoError(t, err)
	assert.InDelta(t, 0.011025, third, 1e-9)
}

func TestPaperOracle_TokensWalkIndependently(t *testing.T) {
	ctx := context.Background()
	o := oracle.NewPaperOracle(0.01, 1.05)

	_, err := o.CurrentPrice(ctx, "tok1")
	require.NoError(t, err)
	_, err = o.CurrentPrice(ctx, "tok1")
	require.NoError(t, err)

	fresh, err := o.CurrentPrice(ctx, "tok2")
	require.NoError(t, err)
	assert.InDelta(t, 0.01, fresh, 1e-9)
}

func TestPaperOracle_DefaultsOnNonPositiveArgs(t *testing.T) {
	ctx := context.Background()
	o := oracle.NewPaperOracle(0, -1)

	price, err := o.CurrentPrice(ctx, "tok1")
	require.NoError(t, err)
	assert.InDelta(t, 0.01, price, 1e-9)

	next, err := o.CurrentPrice(ctx, "tok1")
	require.NoError(t, err)
	assert.InDelta(t, 0.0105, next, 1e-9)
}
