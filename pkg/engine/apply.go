package engine

// applyDie returns every board reachable from canonical board b by playing
// the single die value with one White checker. The result may be empty and
// may contain duplicates. Candidates failing validation are discarded; the
// first such failure is returned alongside the valid boards so that strict
// callers can abort.
func applyDie(b Board, die int) ([]Board, error) {
	if b[WhiteBar].White > 0 {
		next, ok := enterFromBar(b, die)
		if !ok {
			return nil, nil
		}
		if err := next.Validate(); err != nil {
			return nil, err
		}
		return []Board{next}, nil
	}

	var (
		boards   []Board
		firstErr error
	)
	for pos := 0; pos < NumPoints; pos++ {
		if b[pos].White == 0 {
			continue
		}
		next, ok := moveChecker(b, pos, die)
		if !ok {
			continue
		}
		if err := next.Validate(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		boards = append(boards, next)
	}
	return boards, firstErr
}

// enterFromBar brings one White checker in from the bar onto point die-1.
func enterFromBar(b Board, die int) (Board, bool) {
	target := die - 1
	if b[target].Black >= 2 {
		return b, false
	}
	b[WhiteBar].White--
	landOn(&b, target)
	return b, true
}

// moveChecker moves one White checker from pos by die pips, bearing off when
// the target lies past the last point.
func moveChecker(b Board, pos, die int) (Board, bool) {
	target := pos + die
	if target >= NumPoints {
		if !b.CanBearOff() {
			return b, false
		}
		if target > NumPoints && !b.IsFurthestOccupiedPoint(pos) {
			return b, false
		}
		b[pos].White--
		b[WhiteOff].White++
		return b, true
	}

	if b[target].Black >= 2 {
		return b, false
	}
	b[pos].White--
	landOn(&b, target)
	return b, true
}

// landOn places a White checker on target, hitting a lone Black checker.
func landOn(b *Board, target int) {
	if b[target].Black == 1 {
		b[target].Black = 0
		b[BlackBar].Black++
	}
	b[target].White++
}
