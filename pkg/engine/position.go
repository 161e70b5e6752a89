// Package engine generates the legal positions reachable from a backgammon
// board for one roll of the dice.
package engine

import (
	"fmt"
	"strings"
)

// Board layout constants.
// Indices 0-23 are the playable points. White travels from 0 towards 23 and
// bears off past 23; Black travels from 23 towards 0 and bears off past 0.
const (
	NumPoints   = 24
	NumSlots    = 28
	NumCheckers = 15

	WhiteBar = 24
	BlackBar = 25
	WhiteOff = 26
	BlackOff = 27

	// HomeStart is the first point of White's home quadrant.
	HomeStart = 18
)

// Color identifies one side of the board.
type Color uint8

const (
	White Color = iota // moves towards higher indices
	Black              // moves towards lower indices
)

// String returns the lower-case color name.
func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Opponent returns the other color.
func (c Color) Opponent() Color {
	return 1 - c
}

// ParseColor parses "white"/"black" (or "w"/"b"), case-insensitively.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, &InputError{Reason: fmt.Sprintf("unknown color %q", s)}
}

// Point holds the checker counts of both colors on one slot.
type Point struct {
	White uint8
	Black uint8
}

// Count returns the number of checkers of color c on the point.
func (p Point) Count(c Color) int {
	if c == Black {
		return int(p.Black)
	}
	return int(p.White)
}

// Mixed reports whether both colors occupy the point.
func (p Point) Mixed() bool {
	return p.White > 0 && p.Black > 0
}

// Board is the full position: 24 points, two bars and two off trays.
// It is a value type; every transition yields a new Board.
type Board [NumSlots]Point

// BarIndex returns the bar slot of color c.
func BarIndex(c Color) int {
	if c == Black {
		return BlackBar
	}
	return WhiteBar
}

// OffIndex returns the off-tray slot of color c.
func OffIndex(c Color) int {
	if c == Black {
		return BlackOff
	}
	return WhiteOff
}

// InitialBoard returns the standard backgammon starting position.
func InitialBoard() Board {
	var b Board
	b[0].White = 2
	b[11].White = 5
	b[16].White = 3
	b[18].White = 5

	b[5].Black = 5
	b[7].Black = 3
	b[12].Black = 5
	b[23].Black = 2
	return b
}

// EqualBoards returns true if two boards are identical
func EqualBoards(b1, b2 Board) bool {
	return b1 == b2
}

// Total returns the number of checkers of color c across all 28 slots.
func (b Board) Total(c Color) int {
	n := 0
	for _, p := range b {
		n += p.Count(c)
	}
	return n
}

// IsValid reports whether the board satisfies every structural invariant.
func (b Board) IsValid() bool {
	return b.Validate() == nil
}

// Validate checks checker conservation, bar/off ownership and single-color
// occupancy. The returned error wraps ErrInvalidBoardState.
func (b Board) Validate() error {
	if n := b.Total(White); n != NumCheckers {
		return &BoardError{Slot: -1, Reason: fmt.Sprintf("white has %d checkers, want %d", n, NumCheckers)}
	}
	if n := b.Total(Black); n != NumCheckers {
		return &BoardError{Slot: -1, Reason: fmt.Sprintf("black has %d checkers, want %d", n, NumCheckers)}
	}
	if b[WhiteBar].Black != 0 {
		return &BoardError{Slot: WhiteBar, Reason: "black checker on white bar"}
	}
	if b[BlackBar].White != 0 {
		return &BoardError{Slot: BlackBar, Reason: "white checker on black bar"}
	}
	if b[WhiteOff].Black != 0 {
		return &BoardError{Slot: WhiteOff, Reason: "black checker in white off tray"}
	}
	if b[BlackOff].White != 0 {
		return &BoardError{Slot: BlackOff, Reason: "white checker in black off tray"}
	}
	for i, p := range b {
		if p.Mixed() {
			return &BoardError{Slot: i, Reason: "mixed occupancy"}
		}
	}
	return nil
}

// CanBearOff reports whether all White checkers are home or already off.
// The board is expected in canonical form (White to move).
func (b Board) CanBearOff() bool {
	n := int(b[WhiteOff].White)
	for i := HomeStart; i < NumPoints; i++ {
		n += int(b[i].White)
	}
	return n == NumCheckers
}

// IsFurthestOccupiedPoint reports whether pos holds a White checker, the
// White bar is empty, and no White checker lies further from home than pos.
// The board is expected in canonical form.
func (b Board) IsFurthestOccupiedPoint(pos int) bool {
	if pos < 0 || pos >= NumPoints || b[pos].White == 0 {
		return false
	}
	if b[WhiteBar].White > 0 {
		return false
	}
	for i := 0; i < pos; i++ {
		if b[i].White > 0 {
			return false
		}
	}
	return true
}

// Winner returns the color that has borne off all of its checkers.
func (b Board) Winner() (Color, bool) {
	if b[WhiteOff].White == NumCheckers {
		return White, true
	}
	if b[BlackOff].Black == NumCheckers {
		return Black, true
	}
	return White, false
}

// PipCount returns the total number of pips color c needs to bear off.
func (b Board) PipCount(c Color) int {
	pips := 0
	for i := 0; i < NumPoints; i++ {
		n := b[i].Count(c)
		if c == White {
			pips += n * (NumPoints - i)
		} else {
			pips += n * (i + 1)
		}
	}
	pips += b[BarIndex(c)].Count(c) * (NumPoints + 1)
	return pips
}

// String returns a compact one-line form such as "0:2w 5:5b ... wbar:1".
func (b Board) String() string {
	var sb strings.Builder
	names := [...]string{WhiteBar: "wbar", BlackBar: "bbar", WhiteOff: "woff", BlackOff: "boff"}
	for i, p := range b {
		if p.White == 0 && p.Black == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		label := fmt.Sprint(i)
		if i >= NumPoints {
			label = names[i]
		}
		switch {
		case p.Mixed():
			fmt.Fprintf(&sb, "%s:%dw%db", label, p.White, p.Black)
		case p.White > 0:
			fmt.Fprintf(&sb, "%s:%dw", label, p.White)
		default:
			fmt.Fprintf(&sb, "%s:%db", label, p.Black)
		}
	}
	return sb.String()
}
