package game

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

func newEngine() *engine.Engine {
	return engine.NewEngine(engine.EngineOptions{})
}

func TestDiceDeterministic(t *testing.T) {
	a, b := NewDice(42), NewDice(42)
	for i := 0; i < 100; i++ {
		ra, rb := a.Roll(), b.Roll()
		require.Equal(t, ra, rb)
		require.NoError(t, engine.ValidateDice(ra))
	}
	require.NotZero(t, RandomSeed())
}

func TestPlayRecordsLegalGame(t *testing.T) {
	eng := newEngine()
	rec, err := Play(context.Background(), eng, Options{Seed: 1})
	require.NoError(t, err)

	require.Equal(t, uint64(1), rec.Seed)
	require.Len(t, rec.Plies, rec.Turns)
	if rec.Finished {
		require.Contains(t, []string{"white", "black"}, rec.Winner)
	}
	for i, p := range rec.Plies {
		require.Equal(t, i+1, p.Turn)
		require.GreaterOrEqual(t, p.Legal, 1)
	}
	require.NoError(t, Verify(context.Background(), eng, rec))

	again, err := Play(context.Background(), eng, Options{Seed: 1})
	require.NoError(t, err)
	require.Equal(t, rec, again, "same seed must replay the same game")
}

func TestPlayTurnLimit(t *testing.T) {
	rec, err := Play(context.Background(), newEngine(), Options{Seed: 9, MaxTurns: 3})
	require.NoError(t, err)
	require.False(t, rec.Finished)
	require.Empty(t, rec.Winner)
	require.Equal(t, 3, rec.Turns)
	require.Len(t, rec.Plies, 3)
	require.NotEqual(t, rec.Plies[0].Mover, rec.Plies[1].Mover)
}

func TestPlayChooserFunc(t *testing.T) {
	var calls int
	first := ChooserFunc(func(_ engine.Color, boards []engine.Board) int {
		calls++
		return 0
	})

	eng := newEngine()
	rec, err := Play(context.Background(), eng, Options{Seed: 4, MaxTurns: 50, Chooser: first, DiscardPlies: true})
	require.NoError(t, err)
	require.Equal(t, rec.Turns, calls)
	require.Empty(t, rec.Plies)

	_, err = Play(context.Background(), eng, Options{
		Seed:    4,
		Chooser: ChooserFunc(func(engine.Color, []engine.Board) int { return -1 }),
	})
	require.ErrorContains(t, err, "chooser returned index -1")
}

func TestPlayStops(t *testing.T) {
	stop := errors.New("stop")
	rec, err := Play(context.Background(), newEngine(), Options{
		Seed:  2,
		OnPly: func(Ply) error { return stop },
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, rec.Turns)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Play(ctx, newEngine(), Options{Seed: 2})
	require.ErrorIs(t, err, context.Canceled)
}

func TestVerifyRejectsTampering(t *testing.T) {
	eng := newEngine()
	rec, err := Play(context.Background(), eng, Options{Seed: 5, MaxTurns: 6})
	require.NoError(t, err)
	require.NoError(t, Verify(context.Background(), eng, rec))

	bad := *rec
	bad.Plies = append([]Ply(nil), rec.Plies...)
	bad.Plies[0].Board = engine.InitialBoard().Pairs()
	require.ErrorContains(t, Verify(context.Background(), eng, &bad), "cannot reach")

	bad.Plies = append([]Ply(nil), rec.Plies...)
	bad.Plies[1].Mover = bad.Plies[0].Mover
	require.ErrorContains(t, Verify(context.Background(), eng, &bad), "out of turn")

	bad = *rec
	bad.First = "green"
	require.Error(t, Verify(context.Background(), eng, &bad))
}

func TestVerifyChecksOutcome(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()

	unfinished, err := Play(ctx, eng, Options{Seed: 7, MaxTurns: 10})
	require.NoError(t, err)
	require.False(t, unfinished.Finished)

	forged := *unfinished
	forged.Winner = "white"
	forged.Finished = true
	require.ErrorContains(t, Verify(ctx, eng, &forged), "board shows no winner")

	forged = *unfinished
	forged.Finished = true
	require.ErrorContains(t, Verify(ctx, eng, &forged), "board shows no winner")

	var done *Record
	for seed := uint64(1); seed < 50 && done == nil; seed++ {
		rec, err := Play(ctx, eng, Options{Seed: seed})
		require.NoError(t, err)
		if rec.Finished {
			done = rec
		}
	}
	require.NotNil(t, done, "no finished game in 49 seeds")
	require.NoError(t, Verify(ctx, eng, done))

	stripped := *done
	stripped.Winner = ""
	require.ErrorContains(t, Verify(ctx, eng, &stripped), "board shows "+done.Winner)

	extra := *done
	last := done.Plies[len(done.Plies)-1]
	extra.Plies = append(append([]Ply(nil), done.Plies...), Ply{
		Turn:  last.Turn + 1,
		Mover: last.Mover,
		Dice:  []int{3, 1},
		Board: last.Board,
	})
	require.ErrorContains(t, Verify(ctx, eng, &extra), "played after "+done.Winner+" won")
}

func TestRecordsRoundTrip(t *testing.T) {
	rec, err := Play(context.Background(), newEngine(), Options{Seed: 3, MaxTurns: 10})
	require.NoError(t, err)

	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteRecords(&buf, format, &RecordFile{Games: []*Record{rec}}))

			got, err := ReadRecords(&buf, format)
			require.NoError(t, err)
			require.Nil(t, got.Summary)
			require.Len(t, got.Games, 1)
			require.Equal(t, rec, got.Games[0])
		})
	}

	require.Error(t, WriteRecords(&bytes.Buffer{}, Format("xml"), &RecordFile{}))
	_, err = ReadRecords(bytes.NewBufferString("{"), FormatJSON)
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	require.Equal(t, FormatJSON, FormatFromPath("games.JSON"))
	require.Equal(t, FormatYAML, FormatFromPath("games.yaml"))
	require.Equal(t, FormatYAML, FormatFromPath("games"))
}
