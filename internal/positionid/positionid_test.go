package positionid

import (
	"errors"
	"testing"
)

// startingBoard is the opening position. Each side sees its own points
// 0-23 counted from its home board.
func startingBoard() TanBoard {
	var board TanBoard
	for side := 0; side < 2; side++ {
		board[side][5] = 5
		board[side][7] = 3
		board[side][12] = 5
		board[side][23] = 2
	}
	return board
}

// Known position ID for starting position from gnubg
const startingPositionID = "4HPwATDgc/ABMA"

func TestPositionIDStartingPosition(t *testing.T) {
	if posID := PositionID(startingBoard()); posID != startingPositionID {
		t.Errorf("PositionID mismatch: got %s, want %s", posID, startingPositionID)
	}
}

func TestPositionKeyDistinguishesBoards(t *testing.T) {
	a := MakePositionKey(startingBoard())
	if a != MakePositionKey(startingBoard()) {
		t.Error("identical boards produced different keys")
	}

	moved := startingBoard()
	moved[1][23]--
	moved[1][20]++
	if a == MakePositionKey(moved) {
		t.Error("different boards produced the same key")
	}

	barred := startingBoard()
	barred[0][23]--
	barred[0][24]++
	if a == MakePositionKey(barred) {
		t.Error("a checker on the bar did not change the key")
	}
}

func TestOldPositionKeyRoundTrip(t *testing.T) {
	board := startingBoard()

	got, err := BoardFromOldKey(MakeOldPositionKey(board))
	if err != nil {
		t.Fatalf("BoardFromOldKey: %v", err)
	}
	if got != board {
		t.Errorf("OldPositionKey round-trip failed\noriginal: %v\nresult:   %v", board, got)
	}
}

func TestPositionIDRoundTrip(t *testing.T) {
	boards := map[string]TanBoard{
		"start": startingBoard(),
	}

	bar := startingBoard()
	bar[0][23] = 1
	bar[0][24] = 1
	boards["on bar"] = bar

	race := TanBoard{}
	race[0][0] = 4
	race[0][3] = 2
	race[1][1] = 7
	boards["bearing off"] = race

	for name, board := range boards {
		t.Run(name, func(t *testing.T) {
			posID := PositionID(board)
			if len(posID) != PositionIDLength {
				t.Fatalf("len(%q) = %d", posID, len(posID))
			}
			got, err := BoardFromPositionID(posID)
			if err != nil {
				t.Fatalf("BoardFromPositionID(%q): %v", posID, err)
			}
			if got != board {
				t.Errorf("round-trip failed\noriginal: %v\nresult:   %v", board, got)
			}
		})
	}
}

func TestBoardFromPositionID(t *testing.T) {
	board, err := BoardFromPositionID(startingPositionID)
	if err != nil {
		t.Fatalf("BoardFromPositionID failed: %v", err)
	}
	if board != startingBoard() {
		t.Errorf("got %v, want %v", board, startingBoard())
	}

	// A trailing match ID is ignored.
	if _, err := BoardFromPositionID(startingPositionID + ":cAkAAAAAAAAA"); err != nil {
		t.Errorf("suffix rejected: %v", err)
	}
}

func TestBoardFromPositionIDInvalid(t *testing.T) {
	for _, id := range []string{"", "4HPwATDgc", "4HPwATDgc/AB!A", "//////////////"} {
		if _, err := BoardFromPositionID(id); !errors.Is(err, ErrInvalidPositionID) {
			t.Errorf("BoardFromPositionID(%q) error = %v, want ErrInvalidPositionID", id, err)
		}
	}
}

func TestCheckPosition(t *testing.T) {
	if !CheckPosition(startingBoard()) {
		t.Error("CheckPosition should return true for starting position")
	}

	var invalid TanBoard
	for i := 0; i < 25; i++ {
		invalid[0][i] = 1
	}
	if CheckPosition(invalid) {
		t.Error("CheckPosition should return false for >15 checkers")
	}

	var overlap TanBoard
	overlap[0][5] = 2
	overlap[1][18] = 2
	if CheckPosition(overlap) {
		t.Error("CheckPosition should return false for overlapping checkers")
	}
}
