package engine

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Engine wraps move generation with a shared result cache.
// It is safe for concurrent use.
type Engine struct {
	cache    *MoveCache
	maxNodes int
	log      zerolog.Logger
}

// EngineOptions configures the engine
type EngineOptions struct {
	CacheSize int             // Move cache size (0 = default, negative = disabled)
	MaxNodes  int             // Search node budget per call (0 = unlimited)
	Logger    *zerolog.Logger // Logger (nil = disabled)
}

// NewEngine creates an engine with the given options
func NewEngine(opts EngineOptions) *Engine {
	e := &Engine{
		maxNodes: opts.MaxNodes,
		log:      zerolog.Nop(),
	}
	if opts.Logger != nil {
		e.log = opts.Logger.With().Str("component", "engine").Logger()
	}

	switch {
	case opts.CacheSize == 0:
		e.cache = NewMoveCache(DefaultCacheSize)
	case opts.CacheSize > 0:
		e.cache = NewMoveCache(uint32(opts.CacheSize))
	}
	return e
}

// Cache returns the move cache, or nil when caching is disabled.
func (e *Engine) Cache() *MoveCache {
	return e.cache
}

// NextBoards returns the legal positions reachable from board when mover
// plays dice. The returned slice is owned by the caller.
func (e *Engine) NextBoards(ctx context.Context, board Board, mover Color, dice []int) ([]Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateDice(dice); err != nil {
		return nil, err
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}

	canonical := ToCanonical(board, mover)

	var (
		key  = PositionKey(canonical, White)
		roll = MakeRollContext(dice)
		slot uint32
	)
	if e.cache != nil {
		var cached []Board
		cached, slot = e.cache.Lookup(key, roll)
		if slot == CacheHit {
			return e.decanonicalize(cached, mover), nil
		}
	}

	results, stats, err := Search(canonical, White, dice, SearchOptions{MaxNodes: e.maxNodes})
	if err != nil {
		e.log.Warn().Err(err).
			Str("mover", mover.String()).
			Ints("dice", dice).
			Int("nodes", stats.Nodes).
			Msg("move generation failed")
		return nil, err
	}
	e.log.Debug().
		Str("mover", mover.String()).
		Ints("dice", dice).
		Int("nodes", stats.Nodes).
		Int("terminals", stats.Terminals).
		Int("legal", len(results)).
		Msg("generated moves")

	if e.cache != nil {
		e.cache.Add(key, roll, results, slot)
	}
	return e.decanonicalize(results, mover), nil
}

// decanonicalize copies canonical results into the mover's framing.
func (e *Engine) decanonicalize(canonical []Board, mover Color) []Board {
	out := make([]Board, len(canonical))
	for i, b := range canonical {
		out[i] = FromCanonical(b, mover)
	}
	if mover == Black {
		slices.SortFunc(out, compareBoards)
	}
	return out
}

// LogStats writes cache statistics at info level.
func (e *Engine) LogStats() {
	if e.cache == nil {
		return
	}
	lookups, hits, adds := e.cache.Stats()
	e.log.Info().
		Uint64("lookups", lookups).
		Uint64("hits", hits).
		Uint64("adds", adds).
		Float64("hit_rate", e.cache.HitRate()).
		Msg("move cache")
}
