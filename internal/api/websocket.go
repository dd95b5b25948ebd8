package api

import (
	"encoding/json"
	"net/http"
	"time"

	"tvremote/internal/remote"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Command is a message a WebSocket client sends to operate the remote.
// Exactly one of Button or Channel is expected.
type Command struct {
	Button  string `json:"button,omitempty"`
	Channel *int   `json:"channel,omitempty"`
}

// handleWebSocket upgrades the connection, sends the current state and then
// every change until the client goes away
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	logger := s.logger.With(zap.String("remote_addr", r.RemoteAddr))
	logger.Info("WebSocket client connected")

	// Changes coalesce into one pending signal; the writer always sends the
	// latest state, so a slow client skips intermediate states but never the last.
	pending := make(chan struct{}, 1)
	done := make(chan struct{})

	sub := s.remote.Subscribe(func(_, _ remote.State) {
		select {
		case pending <- struct{}{}:
		default:
		}
	})
	defer func() {
		sub.Unsubscribe()
		close(done)
		conn.Close()
		logger.Info("WebSocket client disconnected")
	}()

	initial := s.remote.State()
	if err := s.writeState(conn, initial); err != nil {
		logger.Debug("Failed to send initial state", zap.Error(err))
		return
	}

	go s.writeLoop(conn, initial.Revision, pending, done, logger)

	s.readLoop(conn, logger)
}

func (s *Server) writeState(conn *websocket.Conn, state remote.State) error {
	if s.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return conn.WriteJSON(s.toResponse(state))
}

// writeLoop is the only goroutine writing to conn once the initial state is out
func (s *Server) writeLoop(conn *websocket.Conn, lastRevision uint64, pending <-chan struct{}, done <-chan struct{}, logger *zap.Logger) {
	for {
		select {
		case <-done:
			return
		case <-pending:
			state := s.remote.State()
			if state.Revision <= lastRevision {
				continue
			}
			if err := s.writeState(conn, state); err != nil {
				logger.Debug("WebSocket write failed", zap.Error(err))
				// Unblocks readLoop so the handler can clean up
				conn.Close()
				return
			}
			lastRevision = state.Revision
		}
	}
}

// readLoop applies client commands until the connection fails or closes.
// Malformed commands are skipped.
func (s *Server) readLoop(conn *websocket.Conn, logger *zap.Logger) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("WebSocket read ended", zap.Error(err))
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			logger.Debug("Ignoring malformed WebSocket command", zap.Error(err))
			continue
		}

		switch {
		case cmd.Channel != nil:
			s.remote.SetChannel(*cmd.Channel)
		case cmd.Button != "":
			button, err := remote.ParseButton(cmd.Button)
			if err != nil {
				logger.Debug("Ignoring unknown button from WebSocket client", zap.Error(err))
				continue
			}
			s.remote.Press(button)
		default:
			logger.Debug("Ignoring empty WebSocket command")
		}
	}
}
