package bridge

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/hashnav/pkg/hashroute"
)

// Session is one connected browser tab. It implements hashroute.Location and
// sync.Locker, so Navigator.Update on a session is atomic with respect to
// other Updates and to client reports.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	// CreatedAt is when the connection was accepted.
	CreatedAt time.Time

	conn   *websocket.Conn
	config Config
	logger *slog.Logger
	nav    *hashroute.Navigator

	// mu serializes read-modify-write cycles (Lock/Unlock).
	mu sync.Mutex

	// hashMu guards hash.
	hashMu sync.RWMutex
	hash   string

	send   chan Message
	done   chan struct{}
	closed atomic.Bool

	sent     atomic.Int64
	received atomic.Int64
}

func newSession(conn *websocket.Conn, config Config) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		conn:      conn,
		config:    config,
		logger:    config.Logger.With("session", id),
		send:      make(chan Message, config.SendBuffer),
		done:      make(chan struct{}),
	}
	opts := []hashroute.Option{hashroute.WithLogger(s.logger)}
	if config.Observer != nil {
		opts = append(opts, hashroute.WithObserver(config.Observer))
	}
	s.nav = hashroute.NewNavigator(s, opts...)
	return s
}

// Navigator returns a Navigator bound to this session.
func (s *Session) Navigator() *hashroute.Navigator {
	return s.nav
}

// Read returns the fragment the browser last reported or the server last
// wrote, whichever came later.
func (s *Session) Read() string {
	s.hashMu.RLock()
	defer s.hashMu.RUnlock()
	return s.hash
}

// Write records fragment and queues a sethash message for the browser.
func (s *Session) Write(fragment string) {
	s.hashMu.Lock()
	s.hash = fragment
	s.hashMu.Unlock()
	s.enqueue(Message{Type: TypeSetHash, Hash: fragment})
}

// Lock acquires the session's read-modify-write lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the lock taken by Lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Done returns a channel that is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// enqueue adds msg to the send queue, dropping the oldest queued message when
// the queue is full. It reports false once the session is closed.
func (s *Session) enqueue(msg Message) bool {
	for {
		if s.closed.Load() {
			return false
		}
		select {
		case s.send <- msg:
			return true
		case <-s.done:
			return false
		default:
		}

		select {
		case old := <-s.send:
			s.logger.Warn("send queue full, dropping message", "type", old.Type)
			s.recordError("queue_full")
		default:
		}
	}
}

// sendError queues an error message for the client.
func (s *Session) sendError(message string) {
	s.enqueue(Message{Type: TypeError, Message: message})
}

// setFromClient applies a fragment reported by the browser without echoing
// it back.
func (s *Session) setFromClient(fragment string) (old, current string) {
	fragment = strings.TrimPrefix(fragment, "#")

	s.mu.Lock()
	s.hashMu.Lock()
	old = s.hash
	s.hash = fragment
	s.hashMu.Unlock()
	s.mu.Unlock()
	return old, fragment
}

// ReadLoop reads client frames until the connection fails or the session is
// closed. It blocks.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageBytes)
	s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) && !s.closed.Load() {
				s.logger.Error("read error", "error", err)
				s.recordError("read")
			}
			return
		}

		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		s.received.Add(1)
		s.recordMessage("in")

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("message decode error", "error", err)
			s.recordError("decode")
			s.sendError("invalid message")
			continue
		}
		s.handleMessage(msg)
	}
}

func (s *Session) handleMessage(msg Message) {
	switch msg.Type {
	case TypeHello, TypeHashChange:
		old, current := s.setFromClient(msg.Hash)
		s.logger.Debug("client hash", "type", msg.Type, "hash", current)
		if s.config.OnHashChange != nil && old != current {
			s.config.OnHashChange(s, old, current)
		}

	default:
		s.logger.Warn("unknown message type", "type", msg.Type)
		s.recordError("unknown_type")
		s.sendError("unknown message type: " + msg.Type)
	}
}

// WriteLoop drains the send queue and keeps the connection alive with pings.
// It blocks until the session is closed or a write fails.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.pingPeriod())
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteJSON(msg); err != nil {
				if !s.closed.Load() {
					s.logger.Error("write error", "error", err)
					s.recordError("write")
				}
				return
			}
			s.sent.Add(1)
			s.recordMessage("out")

		case <-ticker.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}

		case <-s.done:
			return
		}
	}
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	s.conn.Close()

	s.logger.Info("session closed",
		"sent", s.sent.Load(),
		"received", s.received.Load(),
		"duration", time.Since(s.CreatedAt))
}

func (s *Session) recordMessage(direction string) {
	if s.config.Recorder != nil {
		s.config.Recorder.BridgeMessage(direction)
	}
}

func (s *Session) recordError(kind string) {
	if s.config.Recorder != nil {
		s.config.Recorder.BridgeError(kind)
	}
}
