package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yourusername/bgmovegen/pkg/engine"
	"github.com/yourusername/bgmovegen/pkg/external"
)

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine   *engine.Engine
	version  string
	pool     *WorkerPool
	log      zerolog.Logger
	maxTurns int
}

// HandlerOption configures Handlers.
type HandlerOption func(h *Handlers)

// WithPool bounds request concurrency with pool.
func WithPool(pool *WorkerPool) HandlerOption {
	return func(h *Handlers) {
		h.pool = pool
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger zerolog.Logger) HandlerOption {
	return func(h *Handlers) {
		h.log = logger
	}
}

// WithMaxTurns caps streamed self-play games.
func WithMaxTurns(n int) HandlerOption {
	return func(h *Handlers) {
		h.maxTurns = n
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(e *engine.Engine, version string, options ...HandlerOption) *Handlers {
	h := &Handlers{
		engine:  e,
		version: version,
		log:     zerolog.Nop(),
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// classify maps an engine error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrInvalidBoardState):
		return http.StatusBadRequest, "INVALID_BOARD"
	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, engine.ErrSearchLimit):
		return http.StatusUnprocessableEntity, "SEARCH_LIMIT"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "SERVER_BUSY"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// writeEngineError writes err with the status classify assigns it.
func (h *Handlers) writeEngineError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	resp := ErrorResponse{Error: err.Error(), Code: code}

	var be *engine.BoardError
	if errors.As(err, &be) {
		resp.Details = fmt.Sprintf("slot %d", be.Slot)
	}
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("code", code).Msg("request failed")
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// resolvePosition turns a moves request into a board and side on roll.
func resolvePosition(req MovesRequest) (engine.Board, engine.Color, error) {
	mover, err := engine.ParseColor(req.Mover)
	if err != nil {
		return engine.Board{}, mover, err
	}

	switch {
	case req.Board != nil && req.Position != "":
		return engine.Board{}, mover, &engine.InputError{Reason: "give either board or position, not both"}
	case req.Board != nil:
		b, err := engine.BoardFromPairs(req.Board)
		return b, mover, err
	case req.Position != "":
		b, err := engine.BoardFromPositionID(req.Position, mover)
		return b, mover, err
	}
	return engine.Board{}, mover, &engine.InputError{Reason: "board or position is required"}
}

// generate runs move generation in the moves lane of the pool.
func (h *Handlers) generate(ctx context.Context, board engine.Board, mover engine.Color, dice []int) (*MovesResponse, error) {
	var boards []engine.Board
	run := func() error {
		var err error
		boards, err = h.engine.NextBoards(ctx, board, mover, dice)
		return err
	}

	var err error
	if h.pool != nil {
		err = h.pool.Run(ctx, LaneMoves, run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}

	next := mover.Opponent()
	resp := &MovesResponse{
		Mover:       mover.String(),
		Dice:        dice,
		Count:       len(boards),
		Boards:      boards,
		PositionIDs: make([]string, len(boards)),
	}
	for i, b := range boards {
		resp.PositionIDs[i] = engine.PositionID(b, next)
	}
	return resp, nil
}

// moves resolves and answers a moves request.
func (h *Handlers) moves(ctx context.Context, req MovesRequest) (*MovesResponse, error) {
	board, mover, err := resolvePosition(req)
	if err != nil {
		return nil, err
	}
	return h.generate(ctx, board, mover, req.Dice)
}

// validate checks a board given as pairs.
func validate(pairs [][2]int) ValidateResponse {
	b, err := engine.BoardFromPairs(pairs)
	if err != nil {
		resp := ValidateResponse{Error: err.Error()}
		var be *engine.BoardError
		if errors.As(err, &be) {
			slot := be.Slot
			resp.Slot = &slot
		}
		return resp
	}
	return ValidateResponse{
		Valid:      true,
		WhitePips:  b.PipCount(engine.White),
		BlackPips:  b.PipCount(engine.Black),
		PositionID: engine.PositionID(b, engine.White),
	}
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.engine != nil,
	}

	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	if h.engine != nil {
		if c := h.engine.Cache(); c != nil {
			lookups, hits, adds := c.Stats()
			resp.Cache = &CacheStats{Lookups: lookups, Hits: hits, Adds: adds, HitRate: c.HitRate()}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func initialResponse() InitialResponse {
	b := engine.InitialBoard()
	return InitialResponse{
		Board:      b,
		PositionID: engine.PositionID(b, engine.White),
		Pips:       b.PipCount(engine.White),
	}
}

// Initial handles GET /api/initial
func (h *Handlers) Initial(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, initialResponse())
}

// Validate handles POST /api/validate
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_JSON")
		return
	}
	writeJSON(w, http.StatusOK, validate(req.Board))
}

// Moves handles POST /api/moves
func (h *Handlers) Moves(w http.ResponseWriter, r *http.Request) {
	var req MovesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_JSON")
		return
	}

	resp, err := h.moves(r.Context(), req)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIBSBoard handles POST /api/fibsboard
func (h *Handlers) FIBSBoard(w http.ResponseWriter, r *http.Request) {
	var req FIBSBoardRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_JSON")
		return
	}
	if req.Board == "" {
		writeError(w, http.StatusBadRequest, "board is required", "MISSING_BOARD")
		return
	}

	fb, err := external.ParseFIBSBoard(req.Board)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_FIBS_BOARD")
		return
	}
	pos, err := fb.Position()
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if pos.Dice == nil {
		writeError(w, http.StatusBadRequest, "no dice rolled", "NO_DICE")
		return
	}

	resp, err := h.generate(r.Context(), pos.Board, pos.Mover, pos.Dice)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FIBSBoardResponse{
		Player:        fb.Player1,
		Opponent:      fb.Player2,
		MovesResponse: *resp,
	})
}
