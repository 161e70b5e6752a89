package engine

import (
	"golang.org/x/exp/rand"
)

// boardOf builds a board from per-slot counts given as slot -> {white, black}.
func boardOf(slots map[int][2]uint8) Board {
	var b Board
	for i, c := range slots {
		b[i] = Point{White: c[0], Black: c[1]}
	}
	return b
}

// randomBoard returns a valid board with each color spread over at most
// four points, so that exhaustive doubles searches stay small.
func randomBoard(r *rand.Rand) Board {
	var b Board
	perm := r.Perm(NumPoints)

	place := func(c Color, points []int) {
		left := NumCheckers
		if r.Intn(4) == 0 {
			n := 1 + r.Intn(2)
			if c == White {
				b[WhiteBar].White = uint8(n)
			} else {
				b[BlackBar].Black = uint8(n)
			}
			left -= n
		}
		off := r.Intn(6)
		if c == White {
			b[WhiteOff].White = uint8(off)
		} else {
			b[BlackOff].Black = uint8(off)
		}
		left -= off
		for ; left > 0; left-- {
			p := points[r.Intn(len(points))]
			if c == White {
				b[p].White++
			} else {
				b[p].Black++
			}
		}
	}

	place(White, perm[0:1+r.Intn(4)])
	place(Black, perm[4:5+r.Intn(4)])
	return b
}

// randomRoll returns a complete roll, expanded for doubles.
func randomRoll(r *rand.Rand) []int {
	return ExpandRoll(1+r.Intn(6), 1+r.Intn(6))
}
