// Package game drives complete backgammon games on top of the move
// generator: dice, a pluggable Chooser for picking among legal boards,
// game records and parallel self-play simulation.
package game

import (
	"context"
	"fmt"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

// DefaultMaxTurns bounds a game when Options.MaxTurns is zero.
const DefaultMaxTurns = 2000

// chooserSalt separates the chooser's random stream from the dice.
const chooserSalt = 0x9e3779b97f4a7c15

// Ply is one turn of a game: the roll and the board it produced.
type Ply struct {
	Turn       int                     `json:"turn" yaml:"turn"`
	Mover      string                  `json:"mover" yaml:"mover"`
	Dice       []int                   `json:"dice" yaml:"dice,flow"`
	Legal      int                     `json:"legal" yaml:"legal"`
	PositionID string                  `json:"position_id" yaml:"position_id"`
	Board      [engine.NumSlots][2]int `json:"board" yaml:"board,flow"`
}

// Record is the history of one game.
type Record struct {
	Seed     uint64 `json:"seed" yaml:"seed"`
	First    string `json:"first" yaml:"first"`
	Winner   string `json:"winner,omitempty" yaml:"winner,omitempty"`
	Finished bool   `json:"finished" yaml:"finished"`
	Turns    int    `json:"turns" yaml:"turns"`
	Plies    []Ply  `json:"plies,omitempty" yaml:"plies,omitempty"`
}

// Options configures Play.
type Options struct {
	Seed         uint64            // Dice seed (0 = random)
	MaxTurns     int               // Turn limit (0 = DefaultMaxTurns)
	Chooser      Chooser           // Move selection (nil = RandomChooser derived from Seed)
	DiscardPlies bool              // Leave Record.Plies empty
	OnPly        func(p Ply) error // Called after every turn; an error stops the game
}

// Play runs one game from the initial position until a side has borne off
// all its checkers or the turn limit is reached. The first mover is chosen
// by a coin flip.
func Play(ctx context.Context, eng *engine.Engine, opts Options) (*Record, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = RandomSeed()
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	chooser := opts.Chooser
	if chooser == nil {
		chooser = NewRandomChooser(seed ^ chooserSalt)
	}

	dice := NewDice(seed)
	mover := dice.CoinFlip()
	rec := &Record{Seed: seed, First: mover.String()}

	board := engine.InitialBoard()
	for turn := 1; turn <= maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return rec, err
		}

		roll := dice.Roll()
		boards, err := eng.NextBoards(ctx, board, mover, roll)
		if err != nil {
			return rec, fmt.Errorf("turn %d (%s %v): %w", turn, mover, roll, err)
		}

		i := chooser.Choose(mover, boards)
		if i < 0 || i >= len(boards) {
			return rec, fmt.Errorf("turn %d: chooser returned index %d of %d", turn, i, len(boards))
		}
		board = boards[i]

		ply := Ply{
			Turn:       turn,
			Mover:      mover.String(),
			Dice:       roll,
			Legal:      len(boards),
			PositionID: engine.PositionID(board, mover.Opponent()),
			Board:      board.Pairs(),
		}
		if !opts.DiscardPlies {
			rec.Plies = append(rec.Plies, ply)
		}
		rec.Turns = turn

		if opts.OnPly != nil {
			if err := opts.OnPly(ply); err != nil {
				return rec, err
			}
		}

		if winner, ok := board.Winner(); ok {
			rec.Winner = winner.String()
			rec.Finished = true
			return rec, nil
		}
		mover = mover.Opponent()
	}
	return rec, nil
}

// Verify replays a record and checks that every ply is a legal result of
// the previous position and its roll.
func Verify(ctx context.Context, eng *engine.Engine, rec *Record) error {
	mover, err := engine.ParseColor(rec.First)
	if err != nil {
		return fmt.Errorf("first mover: %w", err)
	}

	board := engine.InitialBoard()
	for _, ply := range rec.Plies {
		if winner, ok := board.Winner(); ok {
			return fmt.Errorf("turn %d: played after %s won", ply.Turn, winner)
		}
		if ply.Mover != mover.String() {
			return fmt.Errorf("turn %d: %s moved out of turn", ply.Turn, ply.Mover)
		}

		pairs := ply.Board
		next, err := engine.BoardFromPairs(pairs[:])
		if err != nil {
			return fmt.Errorf("turn %d: %w", ply.Turn, err)
		}

		boards, err := eng.NextBoards(ctx, board, mover, ply.Dice)
		if err != nil {
			return fmt.Errorf("turn %d: %w", ply.Turn, err)
		}
		if !containsBoard(boards, next) {
			return fmt.Errorf("turn %d: %s %v cannot reach %s", ply.Turn, mover, ply.Dice, engine.PositionID(next, mover.Opponent()))
		}

		board = next
		mover = mover.Opponent()
	}

	winner, ok := board.Winner()
	switch {
	case ok && (rec.Winner != winner.String() || !rec.Finished):
		return fmt.Errorf("record names winner %q, board shows %s", rec.Winner, winner)
	case !ok && (rec.Winner != "" || rec.Finished):
		return fmt.Errorf("record names winner %q, board shows no winner", rec.Winner)
	}
	return nil
}

func containsBoard(boards []engine.Board, b engine.Board) bool {
	for _, c := range boards {
		if c == b {
			return true
		}
	}
	return false
}
