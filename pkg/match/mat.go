package match

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// MAT format is the Jellyfish/gnubg match format.
// Example format:
//
//	; [Site "GamesGrid"]
//	; [Player 1 "name1"]
//	; [Player 2 "name2"]
//	7 point match
//
//	Game 1
//	name1 : 0            name2 : 0
//	1) 31: 8/5 6/5       52: 24/22 13/8
//	2) 43: 24/20 13/10   ...

var (
	matchLengthRE = regexp.MustCompile(`(\d+)\s+point\s+match`)
	gameHeaderRE  = regexp.MustCompile(`^Game\s+(\d+)`)
	scoreLineRE   = regexp.MustCompile(`^(.+?)\s*:\s*(\d+)\s+(.+?)\s*:\s*(\d+)\s*$`)
	moveLineRE    = regexp.MustCompile(`^\s*(\d+)\)`)
	tagRE         = regexp.MustCompile(`\[(\w+(?:\s\d)?)\s+"([^"]*)"\]`)
	columnRE      = regexp.MustCompile(`\s{3,}`)
)

// emptyColumn is the indentation beyond which a move line's first column
// is taken to be blank (player 2 rolled first).
const emptyColumn = 12

// ImportMAT reads a match from MAT format.
func ImportMAT(r io.Reader) (*Match, error) {
	scanner := bufio.NewScanner(r)
	match := &Match{}

	var currentGame *Game
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ";") {
			if m := tagRE.FindStringSubmatch(line); m != nil {
				value := m[2]
				switch strings.ToLower(m[1]) {
				case "player 1", "player1":
					match.Player1 = value
				case "player 2", "player2":
					match.Player2 = value
				case "site", "place":
					match.Place = value
				case "event":
					match.Event = value
				case "eventdate", "date":
					match.Date = value
				case "annotator", "transcriber":
					match.Annotator = value
				}
			}
			continue
		}

		if currentGame == nil {
			if m := matchLengthRE.FindStringSubmatch(line); m != nil {
				match.MatchLength, _ = strconv.Atoi(m[1])
				continue
			}
		}

		if m := gameHeaderRE.FindStringSubmatch(line); m != nil {
			if currentGame != nil {
				match.Games = append(match.Games, currentGame)
			}
			gameNum, _ := strconv.Atoi(m[1])
			currentGame = &Game{Number: gameNum}
			continue
		}

		if currentGame == nil {
			continue
		}

		if moveLineRE.MatchString(line) {
			if err := parseMoveLineMAT(raw, currentGame); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		if m := scoreLineRE.FindStringSubmatch(line); m != nil && len(currentGame.Actions) == 0 {
			if match.Player1 == "" {
				match.Player1 = strings.TrimSpace(m[1])
			}
			if match.Player2 == "" {
				match.Player2 = strings.TrimSpace(m[3])
			}
			currentGame.Score1, _ = strconv.Atoi(m[2])
			currentGame.Score2, _ = strconv.Atoi(m[4])
		}
	}

	if currentGame != nil {
		match.Games = append(match.Games, currentGame)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MAT file: %w", err)
	}

	return match, nil
}

// parseMoveLineMAT parses a single move line in MAT format.
// Format: "1) 31: 8/5 6/5       52: 24/22 13/8"
func parseMoveLineMAT(line string, game *Game) error {
	parts := strings.SplitN(line, ")", 2)
	if len(parts) < 2 {
		return nil
	}
	rest := strings.TrimRight(parts[1], " \t")
	text := strings.TrimLeft(rest, " \t")
	if text == "" {
		return nil
	}

	if len(rest)-len(text) > emptyColumn {
		return parsePlayerMoveMAT(text, 1, game)
	}

	halves := columnRE.Split(text, 2)
	for playerIdx, half := range halves {
		if err := parsePlayerMoveMAT(strings.TrimSpace(half), playerIdx, game); err != nil {
			return err
		}
	}
	return nil
}

// parsePlayerMoveMAT parses a single player's roll and move.
// Format: "31: 8/5 6/5", "43:" (no play), "Doubles => 2", "Takes" or "Drops"
func parsePlayerMoveMAT(text string, player int, game *Game) error {
	if text == "" {
		return nil
	}

	lowerText := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lowerText, "doubles"):
		game.Actions = append(game.Actions, Action{Type: ActionDouble, Player: player})
		return nil
	case lowerText == "takes" || lowerText == "accepts":
		game.Actions = append(game.Actions, Action{Type: ActionTake, Player: player})
		return nil
	case lowerText == "drops" || lowerText == "passes" || lowerText == "rejects":
		game.Actions = append(game.Actions, Action{Type: ActionPass, Player: player})
		return nil
	}

	colonIdx := strings.Index(text, ":")
	if colonIdx == -1 {
		// "Wins 1 point" and similar trailers
		return nil
	}

	diceStr := strings.TrimSpace(text[:colonIdx])
	moveStr := strings.TrimSpace(text[colonIdx+1:])

	if len(diceStr) != 2 {
		return fmt.Errorf("bad roll %q", diceStr)
	}
	die1, die2 := int(diceStr[0]-'0'), int(diceStr[1]-'0')
	if die1 < 1 || die1 > 6 || die2 < 1 || die2 > 6 {
		return fmt.Errorf("bad roll %q", diceStr)
	}

	var steps []Step
	if moveStr != "" && !strings.Contains(strings.ToLower(moveStr), "cannot") {
		var err error
		if steps, err = ParseNotation(moveStr); err != nil {
			return err
		}
	}

	game.Actions = append(game.Actions, Action{
		Type:     ActionMove,
		Player:   player,
		Dice:     [2]int{die1, die2},
		Steps:    steps,
		Notation: moveStr,
	})
	return nil
}

// ParseNotation parses backgammon move notation such as "8/5 6/5",
// "24/22(2)", "bar/22*", "13/7*/5" or "6/off", in the mover's own point
// numbering.
func ParseNotation(notation string) ([]Step, error) {
	var steps []Step

	for _, part := range strings.Fields(notation) {
		count := 1
		if idx := strings.Index(part, "("); idx != -1 {
			endIdx := strings.Index(part, ")")
			if endIdx < idx {
				return nil, fmt.Errorf("bad repeat in %q", part)
			}
			n, err := strconv.Atoi(part[idx+1 : endIdx])
			if err != nil || n < 1 || n > 4 {
				return nil, fmt.Errorf("bad repeat in %q", part)
			}
			count = n
			part = part[:idx]
		}

		points := strings.Split(strings.ReplaceAll(part, "*", ""), "/")
		if len(points) < 2 {
			return nil, fmt.Errorf("bad move %q", part)
		}
		path := make([]int, len(points))
		for i, p := range points {
			pt, err := parsePoint(p)
			if err != nil {
				return nil, fmt.Errorf("bad move %q: %w", part, err)
			}
			path[i] = pt
		}

		for i := 0; i < count; i++ {
			for j := 1; j < len(path); j++ {
				steps = append(steps, Step{From: path[j-1], To: path[j]})
			}
		}
	}

	if len(steps) > 4 {
		return nil, fmt.Errorf("%q moves %d checkers", notation, len(steps))
	}
	return steps, nil
}

// parsePoint converts point notation to the mover's own numbering.
// "bar" = 25, "off" = 0.
func parsePoint(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bar", "b":
		return 25, nil
	case "off", "o", "home":
		return 0, nil
	}

	point, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || point < 1 || point > 24 {
		return 0, fmt.Errorf("bad point %q", s)
	}
	return point, nil
}
