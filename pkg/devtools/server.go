// Package devtools serves an inspector for a live in-memory host tree.
//
// Routes:
//
//	GET /healthz     liveness probe
//	GET /tree        outer HTML of the root
//	GET /tree.json   JSON snapshot of the root
//	GET /mutations   websocket stream of mutation records
//	GET /metrics     optional, see WithMetrics
//
// The mutation stream accepts ?since=<seq> to replay logged mutations
// with a greater sequence number before live ones.
package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/host/memdom"
)

const (
	defaultBuffer = 256
	writeWait     = 10 * time.Second
)

// ClientTracker is told when stream clients come and go.
type ClientTracker interface {
	ClientConnected()
	ClientDisconnected()
}

type nopTracker struct{}

func (nopTracker) ClientConnected()    {}
func (nopTracker) ClientDisconnected() {}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBuffer sets how many mutations may queue for one client before the
// client is dropped.
func WithBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// WithClientTracker reports stream clients to t.
func WithClientTracker(t ClientTracker) Option {
	return func(s *Server) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithCheckOrigin sets the websocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// Server is the inspector HTTP handler.
type Server struct {
	doc      *memdom.Document
	root     host.Node
	router   chi.Router
	upgrader websocket.Upgrader
	buffer   int
	tracker  ClientTracker
	metrics  http.Handler
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New creates an inspector for root, which must belong to doc.
func New(doc *memdom.Document, root host.Node, opts ...Option) *Server {
	s := &Server{
		doc:     doc,
		root:    root,
		buffer:  defaultBuffer,
		tracker: nopTracker{},
		logger:  slog.Default().With("component", "devtools"),
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Get("/tree.json", s.handleTreeJSON)
	r.Get("/mutations", s.handleMutations)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Clients returns the number of connected stream clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every stream client.
func (s *Server) Close() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.stop(websocket.CloseGoingAway, "server closing")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := memdom.WriteHTML(w, s.root); err != nil {
		s.logger.Warn("write tree", "error", err)
	}
}

func (s *Server) handleTreeJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(memdom.Snapshot(s.root)); err != nil {
		s.logger.Warn("write tree json", "error", err)
	}
}

func (s *Server) handleMutations(w http.ResponseWriter, r *http.Request) {
	var since uint64
	replay := r.URL.Query().Has("since")
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		since = n
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(conn, s.buffer)
	cancel := s.doc.Observe(func(m memdom.Mutation) {
		select {
		case c.send <- m:
		default:
			c.drop()
		}
	})

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.tracker.ClientConnected()
	s.logger.Debug("stream client connected", "remote", r.RemoteAddr)

	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		s.tracker.ClientDisconnected()
		_ = conn.Close()
		s.logger.Debug("stream client disconnected", "remote", r.RemoteAddr)
	}()

	go c.readLoop()

	var last uint64
	if replay {
		for _, m := range s.doc.Mutations() {
			if m.Seq <= since {
				continue
			}
			if err := c.write(m); err != nil {
				return
			}
			last = m.Seq
		}
	}
	c.writeLoop(last, s.logger)
}
