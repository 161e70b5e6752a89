package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrInvalidBoardState indicates a board that violates a structural invariant.
	ErrInvalidBoardState = errors.New("invalid board state")

	// ErrInvalidInput indicates malformed dice or other caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSearchLimit indicates the search exceeded its node budget.
	ErrSearchLimit = errors.New("search limit exceeded")
)

// BoardError describes which invariant a board violates.
type BoardError struct {
	Slot   int    // Offending slot, -1 for whole-board violations
	Reason string // Human-readable violation
}

func (e *BoardError) Error() string {
	if e.Slot < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidBoardState, e.Reason)
	}
	return fmt.Sprintf("%v: slot %d: %s", ErrInvalidBoardState, e.Slot, e.Reason)
}

// Unwrap returns ErrInvalidBoardState.
func (e *BoardError) Unwrap() error {
	return ErrInvalidBoardState
}

// InputError describes rejected caller input.
type InputError struct {
	Dice   []int  // The dice as supplied, if the error concerns dice
	Reason string
}

func (e *InputError) Error() string {
	if e.Dice != nil {
		return fmt.Sprintf("%v: dice %v: %s", ErrInvalidInput, e.Dice, e.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInput, e.Reason)
}

// Unwrap returns ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
