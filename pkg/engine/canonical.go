package engine

// Mirror reflects the board: point i swaps with point 23-i, the two colors
// swap counts, and the bar and off slots swap pairwise. Mirror is its own
// inverse.
func Mirror(b Board) Board {
	var m Board
	for i := 0; i < NumPoints; i++ {
		p := b[NumPoints-1-i]
		m[i] = Point{White: p.Black, Black: p.White}
	}
	m[WhiteBar] = Point{White: b[BlackBar].Black, Black: b[BlackBar].White}
	m[BlackBar] = Point{White: b[WhiteBar].Black, Black: b[WhiteBar].White}
	m[WhiteOff] = Point{White: b[BlackOff].Black, Black: b[BlackOff].White}
	m[BlackOff] = Point{White: b[WhiteOff].Black, Black: b[WhiteOff].White}
	return m
}

// ToCanonical returns the board as seen by the mover, so that the mover is
// always White travelling towards higher indices.
func ToCanonical(b Board, mover Color) Board {
	if mover == Black {
		return Mirror(b)
	}
	return b
}

// FromCanonical maps a canonical board back to the mover's original framing.
func FromCanonical(b Board, mover Color) Board {
	return ToCanonical(b, mover)
}
