package bridge

import (
	_ "embed"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

//go:embed client.js
var clientJS []byte

// Server accepts browser connections and serves the JSON API.
type Server struct {
	config   Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   atomic.Bool
}

// New creates a Server. Zero Config fields take their defaults.
func New(config Config) *Server {
	config = config.withDefaults()
	s := &Server{
		config:   config,
		logger:   config.Logger.With("component", "bridge"),
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     config.checkOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/client.js", handleClientJS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/parse", handleParse)
		r.Post("/format", handleFormat)
		r.Post("/links", s.handleSaveLink)
		r.Get("/links/{id}", s.handleLoadLink)
	})

	if s.config.MetricsHandler != nil {
		r.Handle(s.config.MetricsPath, s.config.MetricsHandler)
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router returns the underlying chi router, for mounting extra routes.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func handleClientJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(clientJS)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		http.Error(w, "server closing", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		s.logger.Error("websocket upgrade failed", "error", err, "origin", r.Header.Get("Origin"))
		s.recordError("upgrade")
		return
	}

	sess := newSession(conn, s.config)
	s.register(sess)
	defer s.unregister(sess)

	s.logger.Info("session started", "session", sess.ID, "remote", r.RemoteAddr)
	sess.enqueue(Message{Type: TypeWelcome, Session: sess.ID, Hash: sess.Read()})

	go sess.WriteLoop()
	if s.config.OnSession != nil {
		s.config.OnSession(sess)
	}
	sess.ReadLoop()
}

func (s *Server) register(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	if s.config.Recorder != nil {
		s.config.Recorder.SessionOpened()
	}
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if s.config.Recorder != nil {
		s.config.Recorder.SessionClosed()
	}
}

func (s *Server) recordError(kind string) {
	if s.config.Recorder != nil {
		s.config.Recorder.BridgeError(kind)
	}
}

// Session returns the live session with the given ID.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Sessions returns the live sessions ordered by creation time.
func (s *Server) Sessions() []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Close stops accepting connections and closes every live session.
func (s *Server) Close() error {
	s.closed.Store(true)
	for _, sess := range s.Sessions() {
		sess.Close()
	}
	return nil
}
