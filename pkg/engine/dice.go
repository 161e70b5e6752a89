package engine

// ValidateDice checks that dice is a complete roll: two values in 1..6, or
// four equal values in 1..6 for doubles.
func ValidateDice(dice []int) error {
	switch len(dice) {
	case 0:
		return &InputError{Dice: dice, Reason: "no dice"}
	case 2, 4:
	default:
		return &InputError{Dice: dice, Reason: "roll must have 2 dice, or 4 for doubles"}
	}
	for _, d := range dice {
		if d < 1 || d > 6 {
			return &InputError{Dice: dice, Reason: "die value out of range 1-6"}
		}
	}
	if len(dice) == 2 && dice[0] == dice[1] {
		return &InputError{Dice: dice, Reason: "doubles must be given as 4 dice"}
	}
	if len(dice) == 4 {
		for _, d := range dice[1:] {
			if d != dice[0] {
				return &InputError{Dice: dice, Reason: "4 dice must all show the same value"}
			}
		}
	}
	return nil
}

// ExpandRoll turns two rolled dice into the dice to play: the pair itself,
// or four copies of the value for doubles.
func ExpandRoll(d1, d2 int) []int {
	if d1 == d2 {
		return []int{d1, d1, d1, d1}
	}
	return []int{d1, d2}
}

// isDoubles reports whether every remaining die shows the same value.
func isDoubles(dice []int) bool {
	for _, d := range dice[1:] {
		if d != dice[0] {
			return false
		}
	}
	return true
}
