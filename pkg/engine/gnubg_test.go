package engine

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"
)

const initialPositionID = "4HPwATDgc/ABMA"

func TestPositionIDInitialBoard(t *testing.T) {
	for _, mover := range []Color{White, Black} {
		if got := PositionID(InitialBoard(), mover); got != initialPositionID {
			t.Errorf("PositionID(initial, %s) = %s, want %s", mover, got, initialPositionID)
		}
	}

	b, err := BoardFromPositionID(initialPositionID, Black)
	if err != nil {
		t.Fatalf("BoardFromPositionID: %v", err)
	}
	if b != InitialBoard() {
		t.Errorf("decoded %v, want initial board", b)
	}
}

func TestPositionIDRoundTripThroughPlay(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for game := 0; game < 5; game++ {
		b := InitialBoard()
		mover := White
		for turn := 0; turn < 60; turn++ {
			id := PositionID(b, mover)
			got, err := BoardFromPositionID(id, mover)
			if err != nil {
				t.Fatalf("BoardFromPositionID(%q): %v", id, err)
			}
			if got != b {
				t.Fatalf("round trip of %q\n got %v\nwant %v", id, got, b)
			}

			next, err := GenerateNextBoards(b, mover == Black, randomRoll(r))
			if err != nil {
				t.Fatalf("GenerateNextBoards: %v", err)
			}
			b = next[r.Intn(len(next))]
			if _, over := b.Winner(); over {
				break
			}
			mover = mover.Opponent()
		}
	}
}

func TestBoardFromPositionIDInvalid(t *testing.T) {
	_, err := BoardFromPositionID("not-an-id", White)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestFromTanBoardTooManyCheckers(t *testing.T) {
	tan := ToTanBoard(InitialBoard(), White)
	tan[1][0]++

	_, err := FromTanBoard(tan, White)
	var be *BoardError
	if !errors.As(err, &be) || be.Slot != -1 {
		t.Errorf("error = %v, want checker count BoardError", err)
	}
}

func TestPositionKeyIgnoresFraming(t *testing.T) {
	b := boardOf(map[int][2]uint8{3: {15, 0}, 20: {0, 14}, BlackBar: {0, 1}})
	if PositionKey(b, Black) != PositionKey(Mirror(b), White) {
		t.Error("a board and its mirror should share a key with the sides swapped")
	}
	if PositionKey(b, White) == PositionKey(b, Black) {
		t.Error("the side on roll should change the key")
	}
}
