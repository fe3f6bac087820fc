package bridge

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/vango-dev/hashnav/pkg/hashroute"
	"github.com/vango-dev/hashnav/pkg/linkstore"
)

// Default values used when the corresponding Config field is zero.
const (
	DefaultReadTimeout  = 60 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultSendBuffer   = 64

	// maxMessageBytes caps a single client frame and API request body.
	maxMessageBytes = 64 << 10
)

// Recorder receives bridge lifecycle counts. *middleware.Metrics satisfies it.
type Recorder interface {
	SessionOpened()
	SessionClosed()
	BridgeMessage(direction string)
	BridgeError(kind string)
}

// Config configures a Server.
type Config struct {
	// Logger receives connection lifecycle and protocol errors.
	// Default: slog.Default().
	Logger *slog.Logger

	// AllowedOrigins lists extra origins allowed to open the websocket.
	// Same-origin requests are always allowed. "*" allows any origin.
	AllowedOrigins []string

	// ReadTimeout bounds the wait for the next client frame or pong.
	ReadTimeout time.Duration

	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration

	// SendBuffer is the number of outgoing messages a session may queue.
	// When the queue is full the oldest message is dropped.
	SendBuffer int

	// Observer is attached to every session Navigator.
	Observer hashroute.Observer

	// Recorder counts sessions and messages. Optional.
	Recorder Recorder

	// Links backs the /api/links endpoints. Nil disables them.
	Links linkstore.Store

	// MetricsHandler is mounted at MetricsPath when set.
	MetricsHandler http.Handler

	// MetricsPath is where MetricsHandler is served. Default: "/metrics".
	MetricsPath string

	// OnSession runs once per connection, after the welcome message is
	// queued and before the first client frame is read.
	OnSession func(s *Session)

	// OnHashChange runs after a client reports a new fragment, outside the
	// session lock, so it may call Navigator().Update.
	OnHashChange func(s *Session, old, current string)
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = DefaultSendBuffer
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	return c
}

// pingPeriod must stay below ReadTimeout so pongs keep the read deadline alive.
func (c Config) pingPeriod() time.Duration {
	return c.ReadTimeout * 9 / 10
}

// checkOrigin accepts same-origin requests and those in AllowedOrigins.
func (c Config) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (non-browser client)
		return true
	}
	if slices.Contains(c.AllowedOrigins, "*") || slices.Contains(c.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}
