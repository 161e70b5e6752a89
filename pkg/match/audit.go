package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

// ErrIllegalPlay marks a recorded play the move generator does not produce.
var ErrIllegalPlay = errors.New("illegal play")

// Finding is one recorded play that failed the audit.
type Finding struct {
	Game     int    // Game number
	Action   int    // Index into Game.Actions
	Player   string // Player name
	Dice     [2]int
	Notation string
	Err      error
}

func (f Finding) String() string {
	return fmt.Sprintf("game %d, action %d: %s %d%d: %q: %v", f.Game, f.Action+1, f.Player, f.Dice[0], f.Dice[1], f.Notation, f.Err)
}

// Report summarizes an audit.
type Report struct {
	Games    int
	Plays    int
	Findings []Finding
}

// Color returns the color for an Action.Player index: 0 (Player1) is White,
// 1 (Player2) is Black.
func Color(player int) engine.Color {
	if player == 1 {
		return engine.Black
	}
	return engine.White
}

// slot maps a point in c's own numbering to a board slot.
func slot(c engine.Color, point int) int {
	switch point {
	case 25:
		return engine.BarIndex(c)
	case 0:
		return engine.OffIndex(c)
	}
	if c == engine.White {
		return engine.NumPoints - point
	}
	return point - 1
}

func take(p *engine.Point, c engine.Color) bool {
	if c == engine.White {
		if p.White == 0 {
			return false
		}
		p.White--
		return true
	}
	if p.Black == 0 {
		return false
	}
	p.Black--
	return true
}

func put(p *engine.Point, c engine.Color) {
	if c == engine.White {
		p.White++
	} else {
		p.Black++
	}
}

// ApplySteps plays steps for c on b, hitting lone opposing checkers. It
// checks only that each step has a checker to move and an open landing
// point; legality of the play as a whole is left to the move generator.
func ApplySteps(b engine.Board, c engine.Color, steps []Step) (engine.Board, error) {
	opp := c.Opponent()
	for _, s := range steps {
		if s.From == 0 || s.To == 25 || s.From == s.To {
			return b, fmt.Errorf("%d/%d: %w", s.From, s.To, ErrIllegalPlay)
		}
		from, to := slot(c, s.From), slot(c, s.To)
		if !take(&b[from], c) {
			return b, fmt.Errorf("%d/%d: no checker on %d: %w", s.From, s.To, s.From, ErrIllegalPlay)
		}
		if s.To != 0 {
			switch n := b[to].Count(opp); {
			case n > 1:
				return b, fmt.Errorf("%d/%d: point %d is blocked: %w", s.From, s.To, s.To, ErrIllegalPlay)
			case n == 1:
				take(&b[to], opp)
				put(&b[engine.BarIndex(opp)], opp)
			}
		}
		put(&b[to], c)
	}
	return b, nil
}

// Audit replays every game of m from the starting position and checks that
// each recorded play is one of the legal results for its roll. Plays that
// fail are reported as findings and the game continues from the recorded
// position when it is a valid board; otherwise the rest of the game is
// skipped. Engine failures other than illegal input abort the audit.
func Audit(ctx context.Context, eng *engine.Engine, m *Match, log zerolog.Logger) (*Report, error) {
	rep := &Report{Games: len(m.Games)}
	names := [2]string{m.Player1, m.Player2}

	for _, g := range m.Games {
		board := engine.InitialBoard()

		for i, a := range g.Actions {
			if a.Type != ActionMove {
				continue
			}
			rep.Plays++

			finding := Finding{Game: g.Number, Action: i, Player: names[a.Player], Dice: a.Dice, Notation: a.Notation}
			c := Color(a.Player)

			next, err := ApplySteps(board, c, a.Steps)
			if err != nil {
				finding.Err = err
				rep.Findings = append(rep.Findings, finding)
				log.Debug().Stringer("finding", finding).Msg("unplayable notation, skipping rest of game")
				break
			}

			boards, err := eng.NextBoards(ctx, board, c, engine.ExpandRoll(a.Dice[0], a.Dice[1]))
			if err != nil {
				return rep, fmt.Errorf("game %d action %d: %w", g.Number, i+1, err)
			}
			if !contains(boards, next) {
				finding.Err = fmt.Errorf("not among %d legal results: %w", len(boards), ErrIllegalPlay)
				rep.Findings = append(rep.Findings, finding)
				log.Debug().Stringer("finding", finding).Msg("illegal play")
			}
			board = next
		}
	}

	log.Info().
		Int("games", rep.Games).
		Int("plays", rep.Plays).
		Int("findings", len(rep.Findings)).
		Msg("match audited")
	return rep, nil
}

func contains(boards []engine.Board, b engine.Board) bool {
	for _, c := range boards {
		if c == b {
			return true
		}
	}
	return false
}
