// Package dashboard serves the tracker's read surface over HTTP and
// WebSocket for a local browser dashboard.
//
// The HTTP API exposes the word-count summary, raw collections, and the
// snapshot list. The WebSocket endpoint broadcasts a fresh summary
// whenever the store file changes on disk, so a dashboard stays live
// while the CLI edits the same store from another terminal.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/novelforge/tracker/internal/app"
)

// MessageType defines the type of a broadcast message.
type MessageType string

const (
	// MessageTypeSummary carries a stats.Summary payload.
	MessageTypeSummary MessageType = "summary"

	// MessageTypeStoreChanged indicates the store file was modified
	// outside this process.
	MessageTypeStoreChanged MessageType = "store_changed"

	// MessageTypeCheckpoint indicates a snapshot was taken.
	MessageTypeCheckpoint MessageType = "checkpoint"
)

// Message is one WebSocket broadcast.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Config holds server configuration.
type Config struct {
	// Port to listen on (default: 8080).
	Port int

	// Logger for server activity (default: stderr logger).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:   8080,
		Logger: log.Default(),
	}
}

// Server manages WebSocket clients and the HTTP API over one tracker.
type Server struct {
	addr     string
	tracker  *app.Tracker
	listener net.Listener
	server   *http.Server
	watcher  *StoreWatcher

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan Message

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewServer creates a dashboard server over the given tracker.
func NewServer(tracker *app.Tracker, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr:      fmt.Sprintf(":%d", config.Port),
		tracker:   tracker,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, 100),
		ctx:       ctx,
		cancel:    cancel,
		logger:    config.Logger,
	}
}

// Start begins listening and starts the broadcast loop and the store
// watcher.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/api/summary", s.handleSummary)
	r.Get("/api/collections/{name}", s.handleCollection)
	r.Get("/api/snapshots", s.handleSnapshots)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/", s.handleRoot)

	s.server = &http.Server{
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go s.broadcastLoop()

	if err := s.startWatcher(); err != nil {
		// The dashboard still works without live updates; log and
		// keep serving.
		s.logger.Printf("Warning: store watcher disabled: %v", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("Dashboard server listening on %s", s.addr)
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server, watcher, and all clients.
func (s *Server) Stop() error {
	s.logger.Println("Stopping dashboard server")

	s.cancel()

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Printf("Warning: failed to stop store watcher: %v", err)
		}
	}

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "Server shutting down")
		delete(s.clients, conn)
	}
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.wg.Wait()

	s.logger.Println("Dashboard server stopped")
	return nil
}

// startWatcher wires store-file change events to session invalidation
// and a summary re-broadcast.
func (s *Server) startWatcher() error {
	w, err := NewStoreWatcher(s.tracker.Store.Path())
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	s.watcher = w

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.ctx.Done():
				return
			case _, ok := <-w.Events():
				if !ok {
					return
				}
				s.tracker.Session.InvalidateAll()
				s.Broadcast(Message{Type: MessageTypeStoreChanged})
				s.BroadcastSummary()
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				s.logger.Printf("Store watcher error: %v", err)
			}
		}
	}()

	return nil
}

// Broadcast sends a message to all connected clients.
func (s *Server) Broadcast(msg Message) {
	select {
	case s.broadcast <- msg:
	case <-s.ctx.Done():
		return
	default:
		s.logger.Println("Warning: broadcast channel full, dropping message")
	}
}

// BroadcastSummary computes a fresh summary and broadcasts it.
func (s *Server) BroadcastSummary() {
	summary, err := s.tracker.Summary(s.ctx)
	if err != nil {
		s.logger.Printf("Failed to compute summary: %v", err)
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		s.logger.Printf("Failed to marshal summary: %v", err)
		return
	}

	s.Broadcast(Message{Type: MessageTypeSummary, Data: data})
}

// broadcastLoop fans messages out to all clients.
func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return

		case msg := <-s.broadcast:
			if msg.Timestamp.IsZero() {
				msg.Timestamp = time.Now()
			}

			data, err := json.Marshal(msg)
			if err != nil {
				s.logger.Printf("Failed to marshal message: %v", err)
				continue
			}

			s.clientsMu.RLock()
			clients := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				clients = append(clients, conn)
			}
			s.clientsMu.RUnlock()

			// Send outside the read lock so a slow client cannot
			// block new broadcasts.
			for _, conn := range clients {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()

				if err != nil {
					s.logger.Printf("Failed to send to client: %v", err)
					s.removeClient(conn)
				}
			}
		}
	}
}

// handleWebSocket upgrades HTTP connections to WebSocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // local tool, any origin is fine
	})
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	clientCount := len(s.clients)
	s.clientsMu.Unlock()

	s.logger.Printf("Client connected (total: %d)", clientCount)

	// New clients get the current summary immediately.
	s.BroadcastSummary()

	go s.readLoop(conn)
}

// readLoop keeps the connection alive and handles client disconnects.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.removeClient(conn)

	for {
		_, _, err := conn.Read(s.ctx)
		if err != nil {
			return
		}
		// Client messages are ignored; the dashboard is read-only.
	}
}

// removeClient safely removes a client connection.
func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if _, exists := s.clients[conn]; exists {
		delete(s.clients, conn)
		clientCount := len(s.clients)
		s.clientsMu.Unlock()

		_ = conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Printf("Client disconnected (total: %d)", clientCount)
	} else {
		s.clientsMu.Unlock()
	}
}

// GetAddr returns the server's listening address.
func (s *Server) GetAddr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
