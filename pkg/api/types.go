// Package api provides the HTTP/JSON, WebSocket and SSE surface of the
// move generator.
package api

import (
	"github.com/yourusername/bgmovegen/pkg/engine"
	"github.com/yourusername/bgmovegen/pkg/game"
)

// ============================================================================
// Request Types
// ============================================================================

// MovesRequest is the request body for legal move generation.
// Exactly one of Board and Position must be set.
type MovesRequest struct {
	Board    [][2]int `json:"board,omitempty"`    // 28 [white, black] pairs
	Position string   `json:"position,omitempty"` // Position ID (gnubg format) with Mover on roll
	Mover    string   `json:"mover"`              // "white" or "black"
	Dice     []int    `json:"dice"`               // Two dice, or four equal dice for doubles
}

// ValidateRequest is the request body for board validation.
type ValidateRequest struct {
	Board [][2]int `json:"board"` // 28 [white, black] pairs
}

// FIBSBoardRequest is the request body for FIBS board analysis.
type FIBSBoardRequest struct {
	Board string `json:"board"` // FIBS "board:..." string
}

// ============================================================================
// Response Types
// ============================================================================

// MovesResponse lists the legal resulting positions.
type MovesResponse struct {
	Mover       string         `json:"mover"`        // Side that moved
	Dice        []int          `json:"dice"`         // Dice played
	Count       int            `json:"count"`        // Number of legal resulting boards
	Boards      []engine.Board `json:"boards"`       // Resulting boards, deterministic order
	PositionIDs []string       `json:"position_ids"` // Position IDs of Boards with the opponent on roll
}

// ValidateResponse reports whether a board is a legal position.
type ValidateResponse struct {
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`       // Violation, if any
	Slot       *int   `json:"slot,omitempty"`        // Offending slot (-1 for checker totals)
	WhitePips  int    `json:"white_pips,omitempty"`  // Pip count of White
	BlackPips  int    `json:"black_pips,omitempty"`  // Pip count of Black
	PositionID string `json:"position_id,omitempty"` // Position ID with White on roll
}

// InitialResponse describes the starting position.
type InitialResponse struct {
	Board      engine.Board `json:"board"`
	PositionID string       `json:"position_id"` // Same for either side on roll
	Pips       int          `json:"pips"`        // Pip count of each side
}

// FIBSBoardResponse is the response for a FIBS board.
type FIBSBoardResponse struct {
	Player   string `json:"player"`   // FIBS player, always White
	Opponent string `json:"opponent"` // FIBS opponent, always Black
	MovesResponse
}

// SelfPlayStart is the first event of a self-play stream.
type SelfPlayStart struct {
	Seed  uint64 `json:"seed"`
	First string `json:"first"`
}

// SelfPlayResult is the final event of a self-play stream.
type SelfPlayResult struct {
	Seed     uint64 `json:"seed"`
	Winner   string `json:"winner,omitempty"`
	Finished bool   `json:"finished"`
	Turns    int    `json:"turns"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error   string `json:"error"`             // Error message
	Code    string `json:"code,omitempty"`    // Error code
	Details string `json:"details,omitempty"` // Additional details
}

// CacheStats reports move cache usage.
type CacheStats struct {
	Lookups uint64  `json:"lookups"`
	Hits    uint64  `json:"hits"`
	Adds    uint64  `json:"adds"`
	HitRate float64 `json:"hit_rate"` // Percent
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string      `json:"status"`          // "ok" or "error"
	Version string      `json:"version"`         // Server version
	Ready   bool        `json:"ready"`           // Whether the engine is set
	Pool    *PoolStats  `json:"pool,omitempty"`  // Worker pool statistics
	Cache   *CacheStats `json:"cache,omitempty"` // Move cache statistics
}

// ============================================================================
// Helper Functions
// ============================================================================

// resultFromRecord strips the plies from a finished game record.
func resultFromRecord(rec *game.Record) SelfPlayResult {
	return SelfPlayResult{
		Seed:     rec.Seed,
		Winner:   rec.Winner,
		Finished: rec.Finished,
		Turns:    rec.Turns,
	}
}
