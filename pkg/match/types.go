// Package match imports Jellyfish .mat match transcripts and audits every
// recorded play against the legal move generator.
package match

// Match represents a complete backgammon match.
type Match struct {
	Player1     string  // Name of player 1 (left column, plays White)
	Player2     string  // Name of player 2 (right column, plays Black)
	MatchLength int     // Match length (0 = money game)
	Date        string  // Match date
	Event       string  // Event name
	Place       string  // Site
	Annotator   string  // Transcriber
	Games       []*Game // Games in file order
}

// Game represents a single game within a match.
type Game struct {
	Number  int      // Game number (1-indexed)
	Score1  int      // Player 1 score at start of game
	Score2  int      // Player 2 score at start of game
	Actions []Action // Sequence of game actions
}

// ActionType represents the type of game action.
type ActionType int

const (
	ActionMove   ActionType = iota // Roll and checker play
	ActionDouble                   // Cube offered
	ActionTake                     // Cube taken
	ActionPass                     // Cube dropped
)

// String returns the action name.
func (t ActionType) String() string {
	switch t {
	case ActionMove:
		return "move"
	case ActionDouble:
		return "double"
	case ActionTake:
		return "take"
	case ActionPass:
		return "pass"
	}
	return "unknown"
}

// Step is one checker movement in the mover's own point numbering:
// 25 is the bar, 0 is off, 24..1 the points in playing order.
type Step struct {
	From int
	To   int
}

// Action represents a single game action.
type Action struct {
	Type     ActionType
	Player   int    // 0 = player 1, 1 = player 2
	Dice     [2]int // Roll (ActionMove)
	Steps    []Step // Checker movements (ActionMove); empty when no play was possible
	Notation string // Play as written in the transcript
}
