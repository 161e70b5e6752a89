package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "moves", "validate", "initial", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
	Code    string      `json:"code,omitempty"`    // Error code if any
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	log      zerolog.Logger
}

// WebSocket handles WebSocket connections. Requests on one connection are
// answered in order.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &WSClient{
		conn:     conn,
		handlers: h,
		sendChan: make(chan WSResponse, 256),
		log:      h.log.With().Str("remote", r.RemoteAddr).Logger(),
	}
	client.log.Debug().Msg("websocket connected")
	go client.writePump()
	client.readPump(r.Context())
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (c *WSClient) readPump(ctx context.Context) {
	defer func() {
		close(c.sendChan)
		c.conn.Close()
		c.log.Debug().Msg("websocket closed")
	}()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(ctx, msg)
	}
}

func (c *WSClient) handleMessage(ctx context.Context, msg WSMessage) {
	switch msg.Type {
	case "moves":
		c.handleMoves(ctx, msg)
	case "validate":
		c.handleValidate(msg)
	case "initial":
		c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: initialResponse()}
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type", Code: "UNKNOWN_TYPE"}
	}
}

func (c *WSClient) handleMoves(ctx context.Context, msg WSMessage) {
	var req MovesRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		return
	}
	resp, err := c.handlers.moves(ctx, req)
	if err != nil {
		_, code := classify(err)
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error(), Code: code}
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleValidate(msg WSMessage) {
	var req ValidateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: validate(req.Board)}
}
