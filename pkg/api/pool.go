package api

import (
	"context"
	"sync/atomic"
)

// Lane selects one of the pool's independent concurrency limits.
type Lane int

// Pool lanes
const (
	LaneMoves    Lane = iota // Move generation and validation
	LaneSelfPlay             // Self-play streams
)

// lane is a counting semaphore with usage statistics.
type lane struct {
	sem    chan struct{}
	queued atomic.Int64
	active atomic.Int64
	total  atomic.Int64
}

// WorkerPool bounds concurrent request processing. Move generation is cheap
// and gets a wide lane; self-play streams hold a slot for a whole game and
// get a narrow one.
type WorkerPool struct {
	lanes [2]lane
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxMoveWorkers     int // Max concurrent move generations (default: 100)
	MaxSelfPlayWorkers int // Max concurrent self-play streams (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxMoveWorkers:     100,
		MaxSelfPlayWorkers: 4,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxMoveWorkers <= 0 {
		config.MaxMoveWorkers = def.MaxMoveWorkers
	}
	if config.MaxSelfPlayWorkers <= 0 {
		config.MaxSelfPlayWorkers = def.MaxSelfPlayWorkers
	}

	p := &WorkerPool{}
	p.lanes[LaneMoves].sem = make(chan struct{}, config.MaxMoveWorkers)
	p.lanes[LaneSelfPlay].sem = make(chan struct{}, config.MaxSelfPlayWorkers)
	return p
}

// Acquire waits for a slot in lane l.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) Acquire(ctx context.Context, l Lane) error {
	ln := &p.lanes[l]
	ln.queued.Add(1)
	defer ln.queued.Add(-1)

	select {
	case ln.sem <- struct{}{}:
		ln.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot in lane l without blocking.
// Returns true if acquired, false if the lane is full.
func (p *WorkerPool) TryAcquire(l Lane) bool {
	ln := &p.lanes[l]
	select {
	case ln.sem <- struct{}{}:
		ln.active.Add(1)
		return true
	default:
		return false
	}
}

// Release returns a slot to lane l.
func (p *WorkerPool) Release(l Lane) {
	ln := &p.lanes[l]
	ln.active.Add(-1)
	ln.total.Add(1)
	<-ln.sem
}

// Run executes fn while holding a slot in lane l.
func (p *WorkerPool) Run(ctx context.Context, l Lane, fn func() error) error {
	if err := p.Acquire(ctx, l); err != nil {
		return err
	}
	defer p.Release(l)
	return fn()
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	ActiveMoves    int64 `json:"active_moves"`
	ActiveSelfPlay int64 `json:"active_self_play"`
	QueuedMoves    int64 `json:"queued_moves"`
	QueuedSelfPlay int64 `json:"queued_self_play"`
	TotalMoves     int64 `json:"total_moves"`
	TotalSelfPlay  int64 `json:"total_self_play"`
	MaxMoves       int   `json:"max_moves"`
	MaxSelfPlay    int   `json:"max_self_play"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	m, s := &p.lanes[LaneMoves], &p.lanes[LaneSelfPlay]
	return PoolStats{
		ActiveMoves:    m.active.Load(),
		ActiveSelfPlay: s.active.Load(),
		QueuedMoves:    m.queued.Load(),
		QueuedSelfPlay: s.queued.Load(),
		TotalMoves:     m.total.Load(),
		TotalSelfPlay:  s.total.Load(),
		MaxMoves:       cap(m.sem),
		MaxSelfPlay:    cap(s.sem),
	}
}
