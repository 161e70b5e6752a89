// bgmovegen - backgammon legal move generator
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yourusername/bgmovegen/pkg/engine"
	"github.com/yourusername/bgmovegen/pkg/game"
	"github.com/yourusername/bgmovegen/pkg/match"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "moves":
		cmdMoves(args)
	case "validate":
		cmdValidate(args)
	case "initial":
		cmdInitial(args)
	case "selfplay":
		cmdSelfPlay(args)
	case "verify":
		cmdVerify(args)
	case "audit":
		cmdAudit(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bgmovegen - Backgammon Legal Move Generator

Usage: bgmovegen <command> [options]

Commands:
  moves     List the legal resulting positions for a roll
  validate  Check a board for structural errors
  initial   Show the starting position
  selfplay  Play random games and report statistics
  verify    Replay a game record file and check every ply
  audit     Check every play of a Jellyfish .mat match file

Use "bgmovegen <command> -h" for command-specific help.

Positions:
  -position takes a gnubg position ID ("4HPwATDgc/ABMA"); anything after
  a ':' (a match ID) is ignored. -board takes a JSON array of 28
  [white, black] pairs, or @file to read one.

Dice:
  "3,1" or "3-1". A double may be given as "4,4" or "4,4,4,4".`)
}

// newLogger returns a console logger on stderr.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// parseDice reads "3,1", "3-1" or four equal values. Two equal values are
// expanded to the four dice of a double.
func parseDice(s string) ([]int, error) {
	sep := ","
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)

	dice := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("dice should be in format '3,1' or '3-1'")
		}
		dice = append(dice, d)
	}
	if len(dice) == 2 && dice[0] == dice[1] {
		dice = engine.ExpandRoll(dice[0], dice[1])
	}
	if err := engine.ValidateDice(dice); err != nil {
		return nil, err
	}
	return dice, nil
}

// parseBoard decodes a board given inline or as @file.
func parseBoard(s string) (engine.Board, error) {
	data := []byte(s)
	if strings.HasPrefix(s, "@") {
		var err error
		if data, err = os.ReadFile(s[1:]); err != nil {
			return engine.Board{}, err
		}
	}
	var b engine.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return engine.Board{}, err
	}
	return b, nil
}

// resolveBoard picks the board from -board or -position.
func resolveBoard(board, position string, mover engine.Color) (engine.Board, error) {
	switch {
	case board != "" && position != "":
		return engine.Board{}, fmt.Errorf("give either -board or -position, not both")
	case board != "":
		return parseBoard(board)
	case position != "":
		if idx := strings.Index(position, ":"); idx >= 0 {
			position = position[:idx]
		}
		return engine.BoardFromPositionID(position, mover)
	}
	return engine.InitialBoard(), nil
}

func cmdMoves(args []string) {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	posFlag := fs.String("position", "", "Position ID (gnubg format, default: starting position)")
	posShort := fs.String("p", "", "Position ID (short form)")
	boardFlag := fs.String("board", "", "Board as JSON pairs, or @file")
	moverFlag := fs.String("mover", "white", "Side on roll (white or black)")
	diceFlag := fs.String("dice", "", "Dice roll (e.g., 3,1 or 3-1)")
	diceShort := fs.String("d", "", "Dice roll (short form)")
	maxNodes := fs.Int("max-nodes", 0, "Search node budget (0 = unlimited)")
	asJSON := fs.Bool("json", false, "Print boards as JSON")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	pos := *posFlag
	if pos == "" {
		pos = *posShort
	}
	diceStr := *diceFlag
	if diceStr == "" {
		diceStr = *diceShort
	}
	if diceStr == "" {
		fmt.Fprintln(os.Stderr, "Error: dice required")
		fmt.Fprintln(os.Stderr, "Usage: bgmovegen moves [-position <positionID> | -board <json>] -mover white -dice <roll>")
		os.Exit(1)
	}

	mover, err := engine.ParseColor(*moverFlag)
	if err != nil {
		fatal("%v", err)
	}
	dice, err := parseDice(diceStr)
	if err != nil {
		fatal("%v", err)
	}
	board, err := resolveBoard(*boardFlag, pos, mover)
	if err != nil {
		fatal("%v", err)
	}

	log := newLogger(*verbose)
	e := engine.NewEngine(engine.EngineOptions{CacheSize: -1, MaxNodes: *maxNodes, Logger: &log})

	boards, err := e.NextBoards(context.Background(), board, mover, dice)
	if err != nil {
		fatal("%v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(boards); err != nil {
			fatal("%v", err)
		}
		return
	}

	if len(boards) == 1 && boards[0] == board {
		fmt.Println("No legal moves (forced to pass)")
		return
	}

	fmt.Printf("%d legal positions for %s %v:\n", len(boards), mover, dice)
	for i, b := range boards {
		fmt.Printf("  %3d. %s  %s\n", i+1, engine.PositionID(b, mover.Opponent()), b)
	}
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	boardFlag := fs.String("board", "", "Board as JSON pairs, or @file")
	fs.Parse(args)

	if *boardFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: board required")
		fmt.Fprintln(os.Stderr, "Usage: bgmovegen validate -board <json|@file>")
		os.Exit(1)
	}

	b, err := parseBoard(*boardFlag)
	if err != nil {
		fmt.Printf("invalid: %v\n", err)
		os.Exit(2)
	}
	fmt.Println("valid")
	fmt.Printf("  Position ID: %s\n", engine.PositionID(b, engine.White))
	fmt.Printf("  Pips:        white %d, black %d\n", b.PipCount(engine.White), b.PipCount(engine.Black))
}

func cmdInitial(args []string) {
	fs := flag.NewFlagSet("initial", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the board as JSON")
	fs.Parse(args)

	b := engine.InitialBoard()
	if *asJSON {
		out, _ := json.Marshal(b)
		fmt.Println(string(out))
		return
	}
	fmt.Printf("Position ID: %s\n", engine.PositionID(b, engine.White))
	fmt.Printf("Board:       %s\n", b)
}

func cmdSelfPlay(args []string) {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	games := fs.Int("games", 100, "Number of games to play")
	workers := fs.Int("workers", 0, "Number of worker goroutines (0 = auto)")
	seed := fs.Uint64("seed", 0, "Seed of the first game (0 = random)")
	maxTurns := fs.Int("max-turns", 0, "Turn limit per game (0 = default)")
	cacheSize := fs.Int("cache", 0, "Move cache entries (0 = default, negative = disabled)")
	out := fs.String("out", "", "Write records to file (.yaml or .json)")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if *games <= 0 {
		fatal("games must be positive")
	}

	log := newLogger(*verbose)
	e := engine.NewEngine(engine.EngineOptions{CacheSize: *cacheSize, Logger: &log})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, records, err := game.Simulate(ctx, e, game.SimulateOptions{
		Games:       *games,
		Workers:     *workers,
		Seed:        *seed,
		MaxTurns:    *maxTurns,
		KeepRecords: *out != "",
	})
	if err != nil {
		fatal("self-play failed: %v", err)
	}
	e.LogStats()

	fmt.Printf("Self-play (%d games, %.1fs):\n", sum.Games, sum.Elapsed.Seconds())
	fmt.Printf("  White wins: %d (%.1f%%, 99%% CI %.1f-%.1f%%)\n",
		sum.WhiteWins, sum.WhiteWinRate*100, sum.WinRateLow*100, sum.WinRateHigh*100)
	fmt.Printf("  Black wins: %d\n", sum.BlackWins)
	if sum.Unfinished > 0 {
		fmt.Printf("  Unfinished: %d\n", sum.Unfinished)
	}
	fmt.Printf("  Turns:      %.1f ± %.1f\n", sum.MeanTurns, sum.StdDevTurns)
	fmt.Printf("  Legal:      %.1f ± %.1f (max %d)\n", sum.MeanLegal, sum.StdDevLegal, sum.MaxLegal)

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fatal("%v", err)
		}
		defer f.Close()
		if err := game.WriteRecords(f, game.FormatFromPath(*out), &game.RecordFile{Summary: sum, Games: records}); err != nil {
			fatal("write records: %v", err)
		}
		fmt.Printf("Records written to %s\n", *out)
	}
}

func cmdVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	in := fs.String("in", "", "Record file (.yaml or .json)")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Error: record file required")
		fmt.Fprintln(os.Stderr, "Usage: bgmovegen verify -in <file>")
		os.Exit(1)
	}

	f, err := os.Open(*in)
	if err != nil {
		fatal("%v", err)
	}
	defer f.Close()

	rf, err := game.ReadRecords(f, game.FormatFromPath(*in))
	if err != nil {
		fatal("%v", err)
	}

	log := newLogger(*verbose)
	e := engine.NewEngine(engine.EngineOptions{Logger: &log})

	failed := 0
	for i, rec := range rf.Games {
		if err := game.Verify(context.Background(), e, rec); err != nil {
			fmt.Printf("  game %d (seed %d): %v\n", i+1, rec.Seed, err)
			failed++
		}
	}
	fmt.Printf("%d of %d games verified\n", len(rf.Games)-failed, len(rf.Games))
	if failed > 0 {
		os.Exit(2)
	}
}

func cmdAudit(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	in := fs.String("in", "", "Match file (.mat)")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Error: match file required")
		fmt.Fprintln(os.Stderr, "Usage: bgmovegen audit -in <file.mat>")
		os.Exit(1)
	}

	f, err := os.Open(*in)
	if err != nil {
		fatal("%v", err)
	}
	defer f.Close()

	m, err := match.ImportMAT(f)
	if err != nil {
		fatal("%v", err)
	}

	log := newLogger(*verbose)
	e := engine.NewEngine(engine.EngineOptions{Logger: &log})

	rep, err := match.Audit(context.Background(), e, m, log)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("%s vs %s: %d games, %d plays\n", m.Player1, m.Player2, rep.Games, rep.Plays)
	for _, finding := range rep.Findings {
		fmt.Printf("  %s\n", finding)
	}
	if len(rep.Findings) > 0 {
		os.Exit(2)
	}
	fmt.Println("All plays legal")
}
