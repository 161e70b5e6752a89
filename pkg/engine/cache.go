package engine

import (
	"sync"

	"github.com/yourusername/bgmovegen/internal/positionid"
)

// Cache constants
const (
	DefaultCacheSize = 1 << 16 // 64K entries
	CacheHit         = ^uint32(0)
)

// CacheEntry stores the legal canonical boards for one position and roll
type CacheEntry struct {
	Key     positionid.PositionKey // Canonical position key
	Roll    int32                  // Packed dice, see MakeRollContext
	Results []Board                // Canonical legal boards
}

// MoveCache is a thread-safe cache of generated move sets.
// Uses a two-way associative table with MurmurHash3-based indexing.
type MoveCache struct {
	entries  []cacheNode
	size     uint32
	hashMask uint32

	// Statistics
	lookups uint64
	hits    uint64
	adds    uint64

	mu sync.RWMutex
}

// cacheNode holds primary and secondary entries for two-way associative cache
type cacheNode struct {
	primary   CacheEntry
	secondary CacheEntry
}

// NewMoveCache creates a cache holding roughly size entries.
// Size is rounded up to a power of 2, minimum 2.
func NewMoveCache(size uint32) *MoveCache {
	if size > 1<<24 {
		size = 1 << 24
	}
	p := uint32(2)
	for p < size {
		p <<= 1
	}

	cache := &MoveCache{
		entries:  make([]cacheNode, p/2),
		size:     p,
		hashMask: (p / 2) - 1,
	}
	cache.Flush()
	return cache
}

// Flush clears all entries from the cache
func (c *MoveCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i] = cacheNode{
			primary:   CacheEntry{Roll: -1},
			secondary: CacheEntry{Roll: -1},
		}
	}
	c.lookups = 0
	c.hits = 0
	c.adds = 0
}

// hash mixes the position key and roll with MurmurHash3 steps.
func (c *MoveCache) hash(key positionid.PositionKey, roll int32) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	mix := func(h, k uint32) uint32 {
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2
		h ^= k
		h = (h << 13) | (h >> 19)
		return h*5 + 0xe6546b64
	}

	h := uint32(0)
	for _, k := range key.Data {
		h = mix(h, k)
	}
	h = mix(h, uint32(roll))

	// Finalization
	h ^= 32
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

// Lookup returns the cached results and CacheHit, or nil and the slot to
// pass to Add.
func (c *MoveCache) Lookup(key positionid.PositionKey, roll int32) ([]Board, uint32) {
	slot := c.hash(key, roll)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookups++
	node := &c.entries[slot]

	if node.primary.Roll == roll && node.primary.Key == key {
		c.hits++
		return node.primary.Results, CacheHit
	}
	if node.secondary.Roll == roll && node.secondary.Key == key {
		c.hits++
		return node.secondary.Results, CacheHit
	}
	return nil, slot
}

// Add stores results in slot, demoting the previous primary entry.
// The cache takes ownership of results; callers must not modify it.
func (c *MoveCache) Add(key positionid.PositionKey, roll int32, results []Board, slot uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.entries[slot&c.hashMask]
	node.secondary = node.primary
	node.primary = CacheEntry{Key: key, Roll: roll, Results: results}
	c.adds++
}

// Stats returns cache statistics
func (c *MoveCache) Stats() (lookups, hits, adds uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookups, c.hits, c.adds
}

// HitRate returns the cache hit rate as a percentage
func (c *MoveCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.lookups) * 100
}

// MakeRollContext packs a validated roll into a cache discriminator.
// Bits 0-2: first die, bits 3-5: second die, bit 6: doubles.
func MakeRollContext(dice []int) int32 {
	lo, hi := dice[0], dice[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	ctx := int32(lo) | int32(hi)<<3
	if len(dice) == 4 {
		ctx |= 1 << 6
	}
	return ctx
}
