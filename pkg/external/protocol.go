// Package external speaks FIBS board notation: it parses "board:" strings into
// engine positions and serves legal moves for them over a line-oriented TCP
// protocol modelled on gnubg's external player interface.
//
// Protocol overview:
//   - Server listens on a TCP port
//   - Client connects and sends one command per line
//   - Commands: version, help, set, fibsboard (or a bare board: line),
//     validate, exit
//   - Replies are single lines; move replies list the resulting gnubg
//     position IDs with the opponent on roll
package external

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

// ProtocolVersion is reported by the version command.
const ProtocolVersion = "bgmovegen external protocol 1.0"

// Server implements the external protocol server.
type Server struct {
	engine   *engine.Engine
	listener net.Listener
	log      zerolog.Logger
	mu       sync.Mutex
	running  bool
	options  ServerOptions
	wg       sync.WaitGroup
}

// ServerOptions configures the external protocol server.
type ServerOptions struct {
	Port          int  // TCP port to listen on (0 = any free port)
	MaxResults    int  // Position IDs listed per reply (0 = all)
	PromptEnabled bool // Send prompts after responses
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Port:          1234,
		PromptEnabled: true,
	}
}

// NewServer creates a new external protocol server.
func NewServer(eng *engine.Engine, opts ServerOptions, logger zerolog.Logger) *Server {
	return &Server{
		engine:  eng,
		options: opts,
		log:     logger.With().Str("component", "external").Logger(),
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf(":%d", s.options.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.running = true
	s.log.Info().Str("addr", listener.Addr().String()).Msg("external protocol listening")

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the server and waits for the accept loop to exit.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	err := s.listener.Close()
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one client until it exits or disconnects.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	log.Debug().Msg("client connected")

	sess := &session{maxResults: s.options.MaxResults}
	reader := bufio.NewReader(conn)

	if s.options.PromptEnabled {
		conn.Write([]byte("> "))
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Debug().Err(err).Msg("client disconnected")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response := s.processCommand(sess, line)
		if _, err := conn.Write([]byte(response)); err != nil {
			log.Warn().Err(err).Msg("write failed")
			return
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return
		}

		if s.options.PromptEnabled {
			conn.Write([]byte("> "))
		}
	}
}

// session holds per-connection settings.
type session struct {
	maxResults int
}

// processCommand processes a single command and returns the response.
func (s *Server) processCommand(sess *session, cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "Error: empty command\n"
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "version":
		return ProtocolVersion + "\n"

	case "help":
		return helpResponse

	case "exit", "quit":
		return "Goodbye\n"

	case "set":
		return sess.handleSet(parts[1:])

	case "validate":
		return s.handleValidate(cmd)

	case "fibsboard":
		return s.handleFIBSBoard(sess, cmd)

	default:
		if strings.HasPrefix(cmd, "board:") {
			return s.handleFIBSBoard(sess, cmd)
		}
		return fmt.Sprintf("Error: unknown command '%s'\n", command)
	}
}

const helpResponse = `Available commands:
  version            - Show version information
  help               - Show this help
  set maxresults <n> - Limit position IDs per reply (0 = all)
  validate <board>   - Check a FIBS board
  fibsboard <board>  - List legal moves for the side on roll
  exit               - Close connection
`

// handleSet handles the set command.
func (sess *session) handleSet(args []string) string {
	if len(args) < 2 {
		return "Error: set requires option and value\n"
	}

	switch option := strings.ToLower(args[0]); option {
	case "maxresults":
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return "Error: maxresults must be a non-negative integer\n"
		}
		sess.maxResults = n
		return fmt.Sprintf("maxresults set to %d\n", n)

	default:
		return fmt.Sprintf("Error: unknown option '%s'\n", option)
	}
}

// boardArg extracts the "board:..." argument of a command.
func boardArg(cmd string) (string, bool) {
	i := strings.Index(cmd, "board:")
	if i < 0 {
		return "", false
	}
	return cmd[i:], true
}

// handleValidate reports whether a FIBS board is a legal position.
func (s *Server) handleValidate(cmd string) string {
	arg, ok := boardArg(cmd)
	if !ok {
		return "Error: no board specified\n"
	}

	fb, err := ParseFIBSBoard(arg)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	if _, err := fb.Position(); err != nil {
		return fmt.Sprintf("invalid: %v\n", err)
	}
	return "valid\n"
}

// handleFIBSBoard lists the legal moves for the side on roll. The reply is
// "<count>" followed by the position IDs of the resulting boards.
func (s *Server) handleFIBSBoard(sess *session, cmd string) string {
	arg, ok := boardArg(cmd)
	if !ok {
		return "Error: no board specified\n"
	}

	fb, err := ParseFIBSBoard(arg)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	pos, err := fb.Position()
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	if pos.Dice == nil {
		return "Error: no dice rolled\n"
	}

	boards, err := s.engine.NextBoards(context.Background(), pos.Board, pos.Mover, pos.Dice)
	if err != nil {
		if errors.Is(err, engine.ErrSearchLimit) {
			return "Error: search limit exceeded\n"
		}
		return fmt.Sprintf("Error: %v\n", err)
	}

	if len(boards) == 1 && boards[0] == pos.Board {
		return "cannot move\n"
	}

	shown := boards
	if sess.maxResults > 0 && len(shown) > sess.maxResults {
		shown = shown[:sess.maxResults]
	}

	next := pos.Mover.Opponent()
	fields := make([]string, 0, len(shown)+1)
	fields = append(fields, strconv.Itoa(len(boards)))
	for _, b := range shown {
		fields = append(fields, engine.PositionID(b, next))
	}
	return strings.Join(fields, " ") + "\n"
}
