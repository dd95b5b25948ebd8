package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tvremote/internal/channelart"
	"tvremote/internal/remote"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	buttonsPrefix = "/api/buttons/"
	channelPrefix = "/api/channel/"
)

// Server provides HTTP API endpoints for the TV remote
type Server struct {
	remote       *remote.Remote
	catalog      *channelart.Catalog
	logger       *zap.Logger
	server       *http.Server
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

// NewServer creates a new API server
func NewServer(r *remote.Remote, catalog *channelart.Catalog, logger *zap.Logger, port int, writeTimeout time.Duration) *Server {
	s := &Server{
		remote:       r,
		catalog:      catalog,
		logger:       logger.Named("api"),
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleSitemap)
	mux.HandleFunc("/api/state", s.handleGetState)
	mux.HandleFunc(buttonsPrefix, s.handlePressButton)
	mux.HandleFunc(channelPrefix, s.handleSetChannel)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// StateResponse is the JSON form of the remote state
type StateResponse struct {
	remote.State
	Image string `json:"image,omitempty"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) toResponse(state remote.State) StateResponse {
	resp := StateResponse{State: state}
	if !state.PowerOn {
		return resp
	}
	if image, ok := s.catalog.ImageFor(state.Channel); ok {
		resp.Image = image
	}
	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

// handleGetState returns the current television state as JSON
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, http.StatusOK, s.toResponse(s.remote.State()))

	s.logger.Debug("State request served",
		zap.String("remote_addr", r.RemoteAddr))
}

// handlePressButton presses the button named in the path
func (s *Server) handlePressButton(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, buttonsPrefix)
	button, err := remote.ParseButton(name)
	if err != nil {
		s.logger.Debug("Rejected button press", zap.String("button", name), zap.Error(err))
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, s.toResponse(s.remote.Press(button)))
}

// handleSetChannel jumps to the channel named in the path. Integers outside the
// channel range are accepted and leave the state as it was.
func (s *Server) handleSetChannel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, channelPrefix)
	channel, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid channel %q", raw))
		return
	}

	s.writeJSON(w, http.StatusOK, s.toResponse(s.remote.SetChannel(channel)))
}

// handleHealth returns a simple health check response
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Endpoint represents an API endpoint with its documentation
type Endpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// Endpoints lists every route the server handles
func Endpoints() []Endpoint {
	buttons := make([]string, 0, len(remote.AllButtons))
	for _, b := range remote.AllButtons {
		buttons = append(buttons, string(b))
	}

	return []Endpoint{
		{Path: "/", Method: "GET", Description: "This sitemap - lists all available API endpoints"},
		{Path: "/health", Method: "GET", Description: "Health check endpoint - returns {\"status\": \"ok\"}"},
		{Path: "/api/state", Method: "GET", Description: "Current power, mute, volume and channel"},
		{Path: buttonsPrefix + "{button}", Method: "POST", Description: "Press a button: " + strings.Join(buttons, ", ")},
		{Path: channelPrefix + "{n}", Method: "POST", Description: "Jump to channel n (0-6)"},
		{Path: "/api/ws", Method: "GET", Description: "WebSocket stream of state changes; send {\"button\":...} or {\"channel\":n}"},
	}
}

// handleSitemap returns a list of all available API endpoints
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	// Only handle requests to the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	endpoints := Endpoints()
	preferHTML := strings.Contains(r.Header.Get("Accept"), "text/html")

	if preferHTML {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>TV Remote API</title>
    <style>
        body { font-family: monospace; margin: 40px; background: #1e1e1e; color: #d4d4d4; }
        h1 { color: #4ec9b0; }
        .endpoint { background: #2d2d2d; padding: 15px; margin: 10px 0; border-left: 3px solid #007acc; }
        .method { color: #4ec9b0; font-weight: bold; }
        .path { color: #ce9178; }
        .description { color: #9cdcfe; margin-top: 5px; }
    </style>
</head>
<body>
    <h1>TV Remote API</h1>
`)
		for _, ep := range endpoints {
			fmt.Fprintf(w, `    <div class="endpoint">
        <div><span class="method">%s</span> <span class="path">%s</span></div>
        <div class="description">%s</div>
    </div>
`, ep.Method, ep.Path, ep.Description)
		}
		fmt.Fprintf(w, "</body>\n</html>\n")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "TV Remote API\n")
		fmt.Fprintf(w, "=============\n\n")
		for _, ep := range endpoints {
			fmt.Fprintf(w, "  %-6s %-22s %s\n", ep.Method, ep.Path, ep.Description)
		}
		fmt.Fprintf(w, "\nExample:\n\n")
		fmt.Fprintf(w, "  curl -X POST http://localhost%s%spower\n", s.server.Addr, buttonsPrefix)
	}

	s.logger.Debug("Sitemap request served",
		zap.String("remote_addr", r.RemoteAddr),
		zap.Bool("html_format", preferHTML))
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP API server", zap.String("addr", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	s.logger.Info("Stopping HTTP API server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
