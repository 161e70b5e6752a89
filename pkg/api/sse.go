package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yourusername/bgmovegen/pkg/game"
)

// SelfPlaySSE streams one self-play game as Server-Sent Events.
// GET /api/selfplay/stream?seed=...&max_turns=...
//
// Events: "start", one "ply" per turn, "result", then "done". Failures end
// the stream with an "error" event.
func (h *Handlers) SelfPlaySSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	query := r.URL.Query()
	seed, err := parseSeed(query.Get("seed"))
	if err != nil {
		writeSSEError(w, err.Error())
		return
	}
	maxTurns := parseIntParam(query.Get("max_turns"), h.maxTurns)
	if h.maxTurns > 0 && (maxTurns <= 0 || maxTurns > h.maxTurns) {
		maxTurns = h.maxTurns
	}

	ctx := r.Context()
	if h.pool != nil {
		if err := h.pool.Acquire(ctx, LaneSelfPlay); err != nil {
			writeSSEError(w, "server busy: "+err.Error())
			return
		}
		defer h.pool.Release(LaneSelfPlay)
	}

	opts := game.Options{
		Seed:         seed,
		MaxTurns:     maxTurns,
		DiscardPlies: true,
		OnPly: func(p game.Ply) error {
			if p.Turn == 1 {
				writeSSEEvent(w, "start", SelfPlayStart{Seed: seed, First: p.Mover})
			}
			writeSSEEvent(w, "ply", p)
			flusher.Flush()
			return nil
		},
	}

	rec, err := game.Play(ctx, h.engine, opts)
	if err != nil {
		h.log.Warn().Err(err).Uint64("seed", seed).Msg("self-play stream failed")
		writeSSEError(w, "self-play failed: "+err.Error())
		return
	}
	h.log.Debug().Uint64("seed", seed).Int("turns", rec.Turns).Str("winner", rec.Winner).Msg("self-play stream done")

	writeSSEEvent(w, "result", resultFromRecord(rec))
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// parseSeed reads the seed query parameter. An empty value picks a random seed.
func parseSeed(s string) (uint64, error) {
	if s == "" {
		return game.RandomSeed(), nil
	}
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil || seed == 0 {
		return 0, fmt.Errorf("invalid seed %q", s)
	}
	return seed, nil
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
