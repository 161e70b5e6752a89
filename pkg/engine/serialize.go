package engine

import (
	"encoding/json"
	"fmt"
)

// Pairs returns the board as 28 [white, black] count pairs in slot order.
func (b Board) Pairs() [NumSlots][2]int {
	var out [NumSlots][2]int
	for i, p := range b {
		out[i] = [2]int{int(p.White), int(p.Black)}
	}
	return out
}

// BoardFromPairs builds a board from 28 [white, black] pairs and validates it.
func BoardFromPairs(pairs [][2]int) (Board, error) {
	var b Board
	if len(pairs) != NumSlots {
		return b, &BoardError{Slot: -1, Reason: fmt.Sprintf("got %d slots, want %d", len(pairs), NumSlots)}
	}
	for i, pr := range pairs {
		if pr[0] < 0 || pr[1] < 0 || pr[0] > NumCheckers || pr[1] > NumCheckers {
			return b, &BoardError{Slot: i, Reason: fmt.Sprintf("count out of range: %v", pr)}
		}
		b[i] = Point{White: uint8(pr[0]), Black: uint8(pr[1])}
	}
	if err := b.Validate(); err != nil {
		return b, err
	}
	return b, nil
}

// MarshalJSON encodes the board as an array of 28 [white, black] pairs.
func (b Board) MarshalJSON() ([]byte, error) {
	pairs := b.Pairs()
	return json.Marshal(pairs[:])
}

// UnmarshalJSON decodes an array of 28 [white, black] pairs. The decoded
// board must be valid.
func (b *Board) UnmarshalJSON(data []byte) error {
	var pairs [][2]int
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("decode board: %w", err)
	}
	nb, err := BoardFromPairs(pairs)
	if err != nil {
		return err
	}
	*b = nb
	return nil
}
