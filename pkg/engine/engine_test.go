package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

func TestEngineMatchesGenerateNextBoards(t *testing.T) {
	e := NewEngine(EngineOptions{})
	r := rand.New(rand.NewSource(5))
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		b := randomBoard(r)
		dice := randomRoll(r)
		for _, mover := range []Color{White, Black} {
			want, err := GenerateNextBoards(b, mover == Black, dice)
			require.NoError(t, err)

			// Twice: once from search, once from the cache.
			for pass := 0; pass < 2; pass++ {
				got, err := e.NextBoards(ctx, b, mover, dice)
				require.NoError(t, err)
				require.Equal(t, want, got, "pass %d mover %s dice %v", pass, mover, dice)
			}
		}
	}

	_, hits, adds := e.Cache().Stats()
	require.Greater(t, hits, uint64(0))
	require.Greater(t, adds, uint64(0))
}

func TestEngineSharesCacheAcrossColors(t *testing.T) {
	e := NewEngine(EngineOptions{})
	ctx := context.Background()
	b := boardOf(map[int][2]uint8{3: {15, 0}, 20: {0, 15}})

	_, err := e.NextBoards(ctx, b, Black, []int{4, 2})
	require.NoError(t, err)
	_, err = e.NextBoards(ctx, Mirror(b), White, []int{2, 4})
	require.NoError(t, err)

	lookups, hits, _ := e.Cache().Stats()
	require.Equal(t, uint64(2), lookups)
	require.Equal(t, uint64(1), hits)
}

func TestEngineResultsAreCopies(t *testing.T) {
	e := NewEngine(EngineOptions{})
	ctx := context.Background()

	first, err := e.NextBoards(ctx, InitialBoard(), White, []int{6, 5})
	require.NoError(t, err)
	want := append([]Board(nil), first...)
	first[0] = Board{}

	again, err := e.NextBoards(ctx, InitialBoard(), White, []int{6, 5})
	require.NoError(t, err)
	require.Equal(t, want, again)
}

func TestEngineWithoutCache(t *testing.T) {
	e := NewEngine(EngineOptions{CacheSize: -1})
	require.Nil(t, e.Cache())

	got, err := e.NextBoards(context.Background(), InitialBoard(), Black, []int{2, 1})
	require.NoError(t, err)
	want, err := GenerateNextBoards(InitialBoard(), true, []int{2, 1})
	require.NoError(t, err)
	require.Equal(t, want, got)

	e.LogStats()
}

func TestEngineErrors(t *testing.T) {
	e := NewEngine(EngineOptions{MaxNodes: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.NextBoards(ctx, InitialBoard(), White, []int{3, 1})
	require.ErrorIs(t, err, context.Canceled)

	_, err = e.NextBoards(context.Background(), InitialBoard(), White, []int{3, 3})
	require.ErrorIs(t, err, ErrInvalidInput)

	bad := InitialBoard()
	bad[WhiteOff].Black = 1
	_, err = e.NextBoards(context.Background(), bad, White, []int{3, 1})
	require.ErrorIs(t, err, ErrInvalidBoardState)

	_, err = e.NextBoards(context.Background(), InitialBoard(), White, []int{1, 1, 1, 1})
	require.True(t, errors.Is(err, ErrSearchLimit))
}

func TestEngineLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	e := NewEngine(EngineOptions{Logger: &logger, MaxNodes: 100})

	_, err := e.NextBoards(context.Background(), InitialBoard(), White, []int{3, 1})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"generated moves"`)
	require.Contains(t, buf.String(), `"component":"engine"`)

	_, err = e.NextBoards(context.Background(), InitialBoard(), White, []int{2, 2, 2, 2})
	require.Error(t, err)
	require.Contains(t, buf.String(), `"level":"warn"`)

	e.LogStats()
	require.Contains(t, buf.String(), `"message":"move cache"`)
}

func TestEngineConcurrent(t *testing.T) {
	e := NewEngine(EngineOptions{CacheSize: 64})
	rolls := allRolls()

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			mover := White
			if w%2 == 1 {
				mover = Black
			}
			for _, dice := range rolls {
				want, err := GenerateNextBoards(InitialBoard(), mover == Black, dice)
				if err != nil {
					return err
				}
				got, err := e.NextBoards(ctx, InitialBoard(), mover, dice)
				if err != nil {
					return err
				}
				if len(got) != len(want) {
					return errors.New("concurrent result mismatch")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestMoveCache(t *testing.T) {
	c := NewMoveCache(3)
	require.Equal(t, uint32(4), c.size)

	key := PositionKey(InitialBoard(), White)
	roll := MakeRollContext([]int{3, 1})

	res, slot := c.Lookup(key, roll)
	require.Nil(t, res)
	require.NotEqual(t, CacheHit, slot)

	boards := []Board{InitialBoard()}
	c.Add(key, roll, boards, slot)

	res, slot = c.Lookup(key, roll)
	require.Equal(t, CacheHit, slot)
	require.Equal(t, boards, res)

	// A different roll for the same position is a miss.
	_, slot = c.Lookup(key, MakeRollContext([]int{5, 2}))
	require.NotEqual(t, CacheHit, slot)

	lookups, hits, adds := c.Stats()
	require.Equal(t, uint64(3), lookups)
	require.Equal(t, uint64(1), hits)
	require.Equal(t, uint64(1), adds)
	require.InDelta(t, 100.0/3, c.HitRate(), 1e-9)

	c.Flush()
	_, slot = c.Lookup(key, roll)
	require.NotEqual(t, CacheHit, slot)
}

func TestMakeRollContext(t *testing.T) {
	require.Equal(t, MakeRollContext([]int{3, 1}), MakeRollContext([]int{1, 3}))
	require.NotEqual(t, MakeRollContext([]int{2, 1}), MakeRollContext([]int{2, 3}))

	seen := make(map[int32]bool)
	for _, dice := range allRolls() {
		ctx := MakeRollContext(dice)
		require.False(t, seen[ctx], "collision for %v", dice)
		seen[ctx] = true
	}
}
