// Package main provides C-compatible functions for building a shared library.
// Build with: go build -buildmode=c-shared -o libbgmovegen.so ./pkg/capi
//
// Boards cross the C boundary as 56 ints: the [white, black] counts of the
// 28 slots in order. Colors are 0 for white and 1 for black.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

const version = "0.2.0"

// boardInts is the length of a flattened board.
const boardInts = engine.NumSlots * 2

var (
	globalEngine *engine.Engine
	engineMutex  sync.RWMutex
	lastError    string
	errorMutex   sync.Mutex
)

// setError stores an error message for later retrieval.
func setError(err error) {
	errorMutex.Lock()
	defer errorMutex.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getError() string {
	errorMutex.Lock()
	defer errorMutex.Unlock()
	return lastError
}

func initEngine(cacheSize, maxNodes int) {
	engineMutex.Lock()
	defer engineMutex.Unlock()
	globalEngine = engine.NewEngine(engine.EngineOptions{CacheSize: cacheSize, MaxNodes: maxNodes})
}

func shutdownEngine() {
	engineMutex.Lock()
	defer engineMutex.Unlock()
	globalEngine = nil
}

// currentEngine returns the shared engine, creating a default one on first use.
func currentEngine() *engine.Engine {
	engineMutex.RLock()
	eng := globalEngine
	engineMutex.RUnlock()
	if eng != nil {
		return eng
	}

	engineMutex.Lock()
	defer engineMutex.Unlock()
	if globalEngine == nil {
		globalEngine = engine.NewEngine(engine.EngineOptions{})
	}
	return globalEngine
}

func colorFromInt(c int) (engine.Color, error) {
	switch c {
	case 0:
		return engine.White, nil
	case 1:
		return engine.Black, nil
	}
	return engine.White, &engine.InputError{Reason: fmt.Sprintf("unknown color %d", c)}
}

// unflatten decodes a 56-int board.
func unflatten(flat []int) (engine.Board, error) {
	if len(flat) != boardInts {
		return engine.Board{}, &engine.BoardError{Slot: -1, Reason: fmt.Sprintf("got %d ints, want %d", len(flat), boardInts)}
	}
	pairs := make([][2]int, engine.NumSlots)
	for i := range pairs {
		pairs[i] = [2]int{flat[2*i], flat[2*i+1]}
	}
	return engine.BoardFromPairs(pairs)
}

// flatten appends the 56-int form of b to dst.
func flatten(dst []int, b engine.Board) []int {
	for _, p := range b.Pairs() {
		dst = append(dst, p[0], p[1])
	}
	return dst
}

// nextBoardsFlat generates the legal boards for a flattened board.
func nextBoardsFlat(flat []int, mover int, dice []int) ([]int, error) {
	c, err := colorFromInt(mover)
	if err != nil {
		return nil, err
	}
	b, err := unflatten(flat)
	if err != nil {
		return nil, err
	}
	boards, err := currentEngine().NextBoards(context.Background(), b, c, dice)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, len(boards)*boardInts)
	for _, nb := range boards {
		out = flatten(out, nb)
	}
	return out, nil
}

// movesResult is the JSON answer of movesJSON.
type movesResult struct {
	Mover       string         `json:"mover"`
	Dice        []int          `json:"dice"`
	Count       int            `json:"count"`
	PositionIDs []string       `json:"position_ids"`
	Boards      []engine.Board `json:"boards"`
}

// movesJSON generates the legal boards for a gnubg position ID and returns
// them as JSON. Result IDs have the opponent on roll.
func movesJSON(positionID string, mover int, dice []int) (string, error) {
	c, err := colorFromInt(mover)
	if err != nil {
		return "", err
	}
	if idx := strings.Index(positionID, ":"); idx >= 0 {
		positionID = positionID[:idx]
	}
	b, err := engine.BoardFromPositionID(positionID, c)
	if err != nil {
		return "", err
	}
	boards, err := currentEngine().NextBoards(context.Background(), b, c, dice)
	if err != nil {
		return "", err
	}

	res := movesResult{
		Mover:       c.String(),
		Dice:        dice,
		Count:       len(boards),
		PositionIDs: make([]string, len(boards)),
		Boards:      boards,
	}
	for i, nb := range boards {
		res.PositionIDs[i] = engine.PositionID(nb, c.Opponent())
	}
	data, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func main() {}
