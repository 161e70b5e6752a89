package engine

import (
	"golang.org/x/exp/slices"
)

// SearchOptions tunes the multi-die search.
type SearchOptions struct {
	MaxNodes              int  // Maximum states popped before ErrSearchLimit (0 = unlimited)
	DisableDoublesPruning bool // Explore every die position even when all dice are equal
}

// SearchStats reports how much work a search performed.
type SearchStats struct {
	Nodes       int // States popped from the search stack
	Terminals   int // States with no dice left
	MaxDiceUsed int // Largest number of dice played on any path
}

// searchState is one entry of the explicit search stack.
type searchState struct {
	board     Board
	remaining []int
	used      []int
}

// terminal is a fully expanded search path.
type terminal struct {
	board Board
	used  []int
}

// GenerateNextBoards returns every legal position reachable from board when
// the given side plays dice. dice holds two values, or four equal values for
// doubles. The input board is returned unchanged when no die can be played.
func GenerateNextBoards(board Board, moverIsBlack bool, dice []int) ([]Board, error) {
	mover := White
	if moverIsBlack {
		mover = Black
	}
	boards, _, err := Search(board, mover, dice, SearchOptions{})
	return boards, err
}

// Search is GenerateNextBoards with explicit options and statistics.
func Search(board Board, mover Color, dice []int, opts SearchOptions) ([]Board, SearchStats, error) {
	var stats SearchStats

	if err := ValidateDice(dice); err != nil {
		return nil, stats, err
	}
	if err := board.Validate(); err != nil {
		return nil, stats, err
	}

	canonical := ToCanonical(board, mover)
	terminals, err := expand(canonical, dice, opts, &stats)
	if err != nil {
		return nil, stats, err
	}

	legal := filterLegal(terminals)
	for i := range legal {
		legal[i] = FromCanonical(legal[i], mover)
	}
	slices.SortFunc(legal, compareBoards)

	return legal, stats, nil
}

// expand runs the depth-first search over (board, remaining, used) states
// and collects every terminal.
func expand(canonical Board, dice []int, opts SearchOptions, stats *SearchStats) ([]terminal, error) {
	var terminals []terminal

	stack := []searchState{{
		board:     canonical,
		remaining: slices.Clone(dice),
	}}

	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.Nodes++
		if opts.MaxNodes > 0 && stats.Nodes > opts.MaxNodes {
			return nil, ErrSearchLimit
		}

		if len(st.remaining) == 0 {
			terminals = append(terminals, terminal{board: st.board, used: st.used})
			stats.Terminals++
			if len(st.used) > stats.MaxDiceUsed {
				stats.MaxDiceUsed = len(st.used)
			}
			continue
		}

		for i, die := range st.remaining {
			next, err := applyDie(st.board, die)
			if err != nil {
				return nil, err
			}

			rest := removeAt(st.remaining, i)
			if len(next) == 0 {
				// The die has no use from this board; forfeit it.
				stack = append(stack, searchState{board: st.board, remaining: rest, used: st.used})
			}
			for _, nb := range next {
				used := make([]int, len(st.used), len(st.used)+1)
				copy(used, st.used)
				stack = append(stack, searchState{board: nb, remaining: rest, used: append(used, die)})
			}

			// Equal dice are interchangeable: the first position covers them all.
			if !opts.DisableDoublesPruning && isDoubles(st.remaining) {
				break
			}
		}
	}

	return terminals, nil
}

// filterLegal applies the maximal-use rule, the larger-die rule when only one
// die can be played, and collapses duplicate boards.
func filterLegal(terminals []terminal) []Board {
	maxUsed := 0
	for _, t := range terminals {
		if len(t.used) > maxUsed {
			maxUsed = len(t.used)
		}
	}

	maxDie := 0
	if maxUsed == 1 {
		for _, t := range terminals {
			if len(t.used) == 1 && t.used[0] > maxDie {
				maxDie = t.used[0]
			}
		}
	}

	seen := make(map[Board]struct{}, len(terminals))
	var boards []Board
	for _, t := range terminals {
		if len(t.used) != maxUsed {
			continue
		}
		if maxUsed == 1 && t.used[0] != maxDie {
			continue
		}
		if _, ok := seen[t.board]; ok {
			continue
		}
		seen[t.board] = struct{}{}
		boards = append(boards, t.board)
	}
	return boards
}

// removeAt returns a copy of dice without the element at i.
func removeAt(dice []int, i int) []int {
	out := make([]int, 0, len(dice)-1)
	out = append(out, dice[:i]...)
	return append(out, dice[i+1:]...)
}

// compareBoards orders boards slot by slot, White count before Black count.
func compareBoards(a, b Board) int {
	for i := range a {
		if a[i].White != b[i].White {
			return int(a[i].White) - int(b[i].White)
		}
		if a[i].Black != b[i].Black {
			return int(a[i].Black) - int(b[i].Black)
		}
	}
	return 0
}
