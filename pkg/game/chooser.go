package game

import (
	"golang.org/x/exp/rand"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

// Chooser selects one of the legal boards for the side on roll and returns
// its index. boards is never empty.
type Chooser interface {
	Choose(mover engine.Color, boards []engine.Board) int
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(mover engine.Color, boards []engine.Board) int

// Choose calls f.
func (f ChooserFunc) Choose(mover engine.Color, boards []engine.Board) int {
	return f(mover, boards)
}

// RandomChooser picks uniformly among the legal boards.
type RandomChooser struct {
	r *rand.Rand
}

// NewRandomChooser returns a chooser driven by seed.
func NewRandomChooser(seed uint64) *RandomChooser {
	return &RandomChooser{r: rand.New(rand.NewSource(seed))}
}

// Choose implements Chooser.
func (c *RandomChooser) Choose(_ engine.Color, boards []engine.Board) int {
	return c.r.Intn(len(boards))
}
