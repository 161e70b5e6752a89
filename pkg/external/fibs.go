package external

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

// fibsFields is the number of colon-separated fields after "board:".
const fibsFields = 52

// FIBSBoard represents a parsed FIBS board string.
// See: http://www.fibs.com/fibs_interface.html#board_state
type FIBSBoard struct {
	Player1      string  // Your name
	Player2      string  // Opponent's name
	MatchLength  int     // Match length (0 = unlimited)
	Score1       int     // Your score
	Score2       int     // Opponent's score
	Board        [26]int // Checkers per FIBS point; your checkers carry the sign of Color
	Turn         int     // Color on roll (0 = game over)
	Dice         [2]int  // Your dice (0,0 if not rolled)
	OppDice      [2]int  // Opponent's dice
	Cube         int     // Cube value
	CanDouble    bool    // Can you double?
	OppCanDouble bool    // Can opponent double?
	Doubled      bool    // Has opponent doubled?
	Color        int     // Your color (1 or -1)
	Direction    int     // Your direction (1 = moving from point 1 to 24, -1 = from 24 to 1)
	Home         int     // Your home slot (0 or 25)
	Bar          int     // Your bar slot (0 or 25)
	OnHome       int     // Your borne-off checkers
	OppOnHome    int     // Opponent's borne-off checkers
	OnBar        int     // Your checkers on the bar
	OppOnBar     int     // Opponent's checkers on the bar
}

// Position is a FIBS board translated into engine terms.
// The FIBS player ("you") is always White.
type Position struct {
	Board engine.Board
	Mover engine.Color
	Dice  []int // Dice to play, expanded for doubles; nil if not rolled
}

// ParseFIBSBoard parses a FIBS board string.
// Format: board:player1:player2:matchlen:score1:score2:board[26]:turn:dice[4]:cube:...
func ParseFIBSBoard(s string) (*FIBSBoard, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "board:")

	parts := strings.Split(s, ":")
	if len(parts) < 32 {
		return nil, fmt.Errorf("invalid FIBS board: expected at least 32 fields, got %d", len(parts))
	}

	fb := &FIBSBoard{
		Player1: parts[0],
		Player2: parts[1],
	}

	var firstErr error
	num := func(i int) int {
		if i >= len(parts) {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("invalid FIBS board: field %d: %w", i+1, err)
		}
		return n
	}

	fb.MatchLength = num(2)
	fb.Score1 = num(3)
	fb.Score2 = num(4)
	for i := 0; i < 26; i++ {
		fb.Board[i] = num(5 + i)
	}
	fb.Turn = num(31)
	fb.Dice = [2]int{num(32), num(33)}
	fb.OppDice = [2]int{num(34), num(35)}
	fb.Cube = num(36)
	fb.CanDouble = num(37) == 1
	fb.OppCanDouble = num(38) == 1
	fb.Doubled = num(39) == 1
	fb.Color = num(40)
	fb.Direction = num(41)
	fb.Home = num(42)
	fb.Bar = num(43)
	fb.OnHome = num(44)
	fb.OppOnHome = num(45)
	fb.OnBar = num(46)
	fb.OppOnBar = num(47)

	if firstErr != nil {
		return nil, firstErr
	}
	return fb, nil
}

// sign returns the sign your checkers carry on the board.
func (fb *FIBSBoard) sign() int {
	if fb.Color < 0 {
		return -1
	}
	return 1
}

// slotIndex maps a FIBS point (1-24) to an engine index with you moving upward.
func (fb *FIBSBoard) slotIndex(p int) int {
	if fb.Direction < 0 {
		return 24 - p
	}
	return p - 1
}

// yourBar returns the FIBS slot holding your bar checkers.
func (fb *FIBSBoard) yourBar() int {
	if fb.Direction < 0 {
		return 25
	}
	return 0
}

// Position converts the FIBS board to an engine board, the side on roll and
// the dice that side has to play. Borne-off checkers are derived from the
// 15 each side started with.
func (fb *FIBSBoard) Position() (Position, error) {
	var b engine.Board
	sign := fb.sign()

	for p := 1; p <= engine.NumPoints; p++ {
		n := fb.Board[p] * sign
		i := fb.slotIndex(p)
		switch {
		case n > 0:
			b[i].White = uint8(n)
		case n < 0:
			b[i].Black = uint8(-n)
		}
	}

	yourBar, oppBar := fb.yourBar(), 25-fb.yourBar()
	if n := abs(fb.Board[yourBar]); n > 0 {
		b[engine.WhiteBar].White = uint8(n)
	}
	if n := abs(fb.Board[oppBar]); n > 0 {
		b[engine.BlackBar].Black = uint8(n)
	}

	for _, c := range []engine.Color{engine.White, engine.Black} {
		n := b.Total(c)
		if n > engine.NumCheckers {
			return Position{}, &engine.BoardError{Slot: -1, Reason: fmt.Sprintf("%s has %d checkers", c, n)}
		}
		if c == engine.White {
			b[engine.WhiteOff].White = uint8(engine.NumCheckers - n)
		} else {
			b[engine.BlackOff].Black = uint8(engine.NumCheckers - n)
		}
	}
	if err := b.Validate(); err != nil {
		return Position{}, err
	}

	pos := Position{Board: b, Mover: engine.Black}
	dice := fb.OppDice
	if fb.Turn == fb.sign() {
		pos.Mover = engine.White
		dice = fb.Dice
	}
	if dice[0] != 0 && dice[1] != 0 {
		pos.Dice = engine.ExpandRoll(dice[0], dice[1])
	}
	return pos, nil
}

// FromPosition builds a FIBS board for pos with you as White moving from
// point 1 to 24. Match, score and cube fields are left for the caller.
func FromPosition(pos Position, player, opponent string) *FIBSBoard {
	b := pos.Board
	fb := &FIBSBoard{
		Player1:   player,
		Player2:   opponent,
		Cube:      1,
		Color:     1,
		Direction: 1,
		Home:      25,
		Bar:       0,
		OnHome:    int(b[engine.WhiteOff].White),
		OppOnHome: int(b[engine.BlackOff].Black),
		OnBar:     int(b[engine.WhiteBar].White),
		OppOnBar:  int(b[engine.BlackBar].Black),
		Turn:      -1,
	}
	for i := 0; i < engine.NumPoints; i++ {
		fb.Board[i+1] = int(b[i].White) - int(b[i].Black)
	}
	fb.Board[0] = int(b[engine.WhiteBar].White)
	fb.Board[25] = -int(b[engine.BlackBar].Black)

	var dice [2]int
	if len(pos.Dice) >= 2 {
		dice = [2]int{pos.Dice[0], pos.Dice[1]}
	}
	if pos.Mover == engine.White {
		fb.Turn = 1
		fb.Dice = dice
	} else {
		fb.OppDice = dice
	}
	return fb
}

// String formats the board in FIBS "board:" notation.
func (fb *FIBSBoard) String() string {
	fields := make([]string, 0, fibsFields)
	fields = append(fields, fb.Player1, fb.Player2)

	ints := []int{fb.MatchLength, fb.Score1, fb.Score2}
	ints = append(ints, fb.Board[:]...)
	ints = append(ints,
		fb.Turn,
		fb.Dice[0], fb.Dice[1], fb.OppDice[0], fb.OppDice[1],
		fb.Cube, boolInt(fb.CanDouble), boolInt(fb.OppCanDouble), boolInt(fb.Doubled),
		fb.Color, fb.Direction, fb.Home, fb.Bar,
		fb.OnHome, fb.OppOnHome, fb.OnBar, fb.OppOnBar,
	)
	for _, n := range ints {
		fields = append(fields, strconv.Itoa(n))
	}
	for len(fields) < fibsFields {
		fields = append(fields, "0")
	}
	return "board:" + strings.Join(fields, ":")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
