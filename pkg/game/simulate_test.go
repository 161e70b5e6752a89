package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

func TestSimulate(t *testing.T) {
	eng := newEngine()
	opts := SimulateOptions{Games: 8, Workers: 3, Seed: 100, KeepRecords: true}

	sum, records, err := Simulate(context.Background(), eng, opts)
	require.NoError(t, err)
	require.Equal(t, 8, sum.Games)
	require.Equal(t, 8, sum.WhiteWins+sum.BlackWins+sum.Unfinished)
	require.Greater(t, sum.MeanTurns, 0.0)
	require.Greater(t, sum.MeanLegal, 0.0)
	require.GreaterOrEqual(t, sum.MaxLegal, 1)
	require.LessOrEqual(t, sum.WinRateLow, sum.WhiteWinRate)
	require.GreaterOrEqual(t, sum.WinRateHigh, sum.WhiteWinRate)

	require.Len(t, records, 8)
	for i, rec := range records {
		require.Equal(t, uint64(100+i), rec.Seed)
		require.NoError(t, Verify(context.Background(), eng, rec))
	}

	again, none, err := Simulate(context.Background(), eng, SimulateOptions{Games: 8, Workers: 2, Seed: 100})
	require.NoError(t, err)
	require.Nil(t, none)
	require.Equal(t, sum.WhiteWins, again.WhiteWins)
	require.Equal(t, sum.MeanTurns, again.MeanTurns)
	require.Equal(t, sum.MeanLegal, again.MeanLegal)
}

func TestSimulateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Simulate(ctx, newEngine(), SimulateOptions{Games: 4, Seed: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSimulateRejectsNegativeGames(t *testing.T) {
	_, _, err := Simulate(context.Background(), newEngine(), SimulateOptions{Games: -1})
	require.ErrorIs(t, err, engine.ErrInvalidInput)

	sum, _, err := Simulate(context.Background(), newEngine(), SimulateOptions{Seed: 1})
	require.NoError(t, err)
	require.Zero(t, sum.Games)
}

func TestSummarize(t *testing.T) {
	records := []*Record{
		{Finished: true, Winner: "white", Turns: 10},
		{Finished: true, Winner: "black", Turns: 20},
		{Turns: 30},
	}
	legal := [][]float64{{1, 3}, {2}, nil}

	sum := summarize(records, legal)
	require.Equal(t, 1, sum.WhiteWins)
	require.Equal(t, 1, sum.BlackWins)
	require.Equal(t, 1, sum.Unfinished)
	require.InDelta(t, 20, sum.MeanTurns, 1e-12)
	require.InDelta(t, 10, sum.StdDevTurns, 1e-12)
	require.InDelta(t, 2, sum.MeanLegal, 1e-12)
	require.InDelta(t, 1, sum.StdDevLegal, 1e-12)
	require.Equal(t, 3, sum.MaxLegal)
	require.InDelta(t, 0.5, sum.WhiteWinRate, 1e-12)
	require.Equal(t, 0.0, sum.WinRateLow)
	require.Equal(t, 1.0, sum.WinRateHigh)

	empty := summarize(nil, nil)
	require.Zero(t, empty.Games)
	require.Zero(t, empty.WhiteWinRate)
}
