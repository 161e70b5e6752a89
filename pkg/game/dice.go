package game

import (
	"math"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

// Dice rolls from a seeded source so games can be replayed.
type Dice struct {
	r *rand.Rand
}

// NewDice returns dice driven by seed.
func NewDice(seed uint64) *Dice {
	return &Dice{r: rand.New(rand.NewSource(seed))}
}

// RandomSeed returns a fresh seed from the system's secure generator.
func RandomSeed() uint64 {
	return frand.Uint64n(math.MaxUint64) + 1
}

// Roll throws two dice and returns the dice to play, four for doubles.
func (d *Dice) Roll() []int {
	return engine.ExpandRoll(1+d.r.Intn(6), 1+d.r.Intn(6))
}

// CoinFlip returns White or Black with equal probability.
func (d *Dice) CoinFlip() engine.Color {
	if d.r.Intn(2) == 0 {
		return engine.White
	}
	return engine.Black
}
