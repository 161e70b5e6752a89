package engine

import (
	"fmt"

	"github.com/yourusername/bgmovegen/internal/positionid"
)

// ToTanBoard converts a board to gnubg's per-side layout with mover as the
// side on roll (side 1). Borne-off checkers are dropped.
func ToTanBoard(b Board, mover Color) positionid.TanBoard {
	var tan positionid.TanBoard
	c := ToCanonical(b, mover)
	for i := 0; i < NumPoints; i++ {
		// The canonical mover travels upward, so its point p sits at index 23-p;
		// the opponent's point p sits at index p.
		tan[1][NumPoints-1-i] = c[i].White
		tan[0][i] = c[i].Black
	}
	tan[1][24] = c[WhiteBar].White
	tan[0][24] = c[BlackBar].Black
	return tan
}

// FromTanBoard converts a gnubg board with mover on roll back to a Board.
// Checkers missing from the 15 of each side are placed in the off trays.
func FromTanBoard(tan positionid.TanBoard, mover Color) (Board, error) {
	var c Board
	for i := 0; i < NumPoints; i++ {
		c[i].White = tan[1][NumPoints-1-i]
		c[i].Black = tan[0][i]
	}
	c[WhiteBar].White = tan[1][24]
	c[BlackBar].Black = tan[0][24]

	for _, color := range []Color{White, Black} {
		n := c.Total(color)
		if n > NumCheckers {
			return Board{}, &BoardError{Slot: -1, Reason: fmt.Sprintf("%s has %d checkers", color, n)}
		}
		if color == White {
			c[WhiteOff].White = uint8(NumCheckers - n)
		} else {
			c[BlackOff].Black = uint8(NumCheckers - n)
		}
	}

	b := FromCanonical(c, mover)
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// PositionID returns the gnubg position ID of b with mover on roll.
func PositionID(b Board, mover Color) string {
	return positionid.PositionID(ToTanBoard(b, mover))
}

// BoardFromPositionID decodes a gnubg position ID, taking mover as the side
// on roll.
func BoardFromPositionID(id string, mover Color) (Board, error) {
	tan, err := positionid.BoardFromPositionID(id)
	if err != nil {
		return Board{}, &InputError{Reason: fmt.Sprintf("position %q: %v", id, err)}
	}
	return FromTanBoard(tan, mover)
}

// PositionKey returns the compact gnubg key of b with mover on roll.
func PositionKey(b Board, mover Color) positionid.PositionKey {
	return positionid.MakePositionKey(ToTanBoard(b, mover))
}
