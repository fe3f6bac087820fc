package hashroute

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Navigator reads and rewrites the fragment held by a Location.
//
// Every call starts from a fresh Parse of Location.Read; nothing is cached
// between calls. ChangePage and ChangeRouteVars are plain read-modify-write
// sequences: two callers racing on the same Location resolve as last writer
// wins. Use Update when the Location implements sync.Locker and the cycle must
// be atomic.
type Navigator struct {
	loc      Location
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger for degraded parses and writes.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithObserver sets the observer notified after every read and write.
func WithObserver(o Observer) Option {
	return func(n *Navigator) {
		n.observer = o
	}
}

// NewNavigator returns a Navigator over loc.
func NewNavigator(loc Location, opts ...Option) *Navigator {
	n := &Navigator{
		loc:    loc,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Location returns the underlying location.
func (n *Navigator) Location() Location {
	return n.loc
}

// GetParsedHash parses the current fragment.
func (n *Navigator) GetParsedHash() RouteState {
	start := n.now()
	fragment := n.loc.Read()
	state, report := Inspect(fragment)

	if report.Degraded() {
		n.logger.Debug("hashroute: degraded fragment",
			"fragment", fragment,
			"dropped", report.Dropped,
			"decode_fallbacks", report.DecodeFallbacks)
	}
	n.observe(Event{
		Op:       OpRead,
		Fragment: fragment,
		State:    state,
		Report:   report,
		Start:    start,
		Duration: n.now().Sub(start),
	})
	return state
}

// Serialize formats state and replaces the location's fragment with it,
// returning the written fragment. The write is unconditional, even when the
// fragment is unchanged.
func (n *Navigator) Serialize(state RouteState) string {
	start := n.now()
	fragment := Format(state)
	n.loc.Write(fragment)

	n.logger.Debug("hashroute: wrote fragment", "fragment", fragment)
	n.observe(Event{
		Op:       OpWrite,
		Fragment: fragment,
		State:    state,
		Start:    start,
		Duration: n.now().Sub(start),
	})
	return fragment
}

// ChangePage replaces the page key and keeps the variables.
func (n *Navigator) ChangePage(pageKey string) {
	state := n.GetParsedHash()
	state.PageKey = pageKey
	n.Serialize(state)
}

// ChangeRouteVars merges updates into the current variables. Unset entries in
// updates remove the key from the written fragment.
func (n *Navigator) ChangeRouteVars(updates *Vars) {
	state := n.GetParsedHash()
	state.MergeVars(updates)
	n.Serialize(state)
}

// ChangeRouteVarsMap is ChangeRouteVars for a plain map. A nil value deletes
// the key. Keys not yet present are appended in sorted order.
func (n *Navigator) ChangeRouteVarsMap(updates map[string]*string) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := NewVars()
	for _, k := range keys {
		if v := updates[k]; v != nil {
			vars.Set(k, *v)
		} else {
			vars.Unset(k)
		}
	}
	n.ChangeRouteVars(vars)
}

// Update runs fn against the parsed fragment and writes the result. When the
// location implements sync.Locker the whole cycle holds its lock, so change
// listeners on that location must not call Update synchronously.
func (n *Navigator) Update(fn func(state *RouteState)) string {
	if l, ok := n.loc.(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}
	state := n.GetParsedHash()
	fn(&state)
	return n.Serialize(state)
}

func (n *Navigator) observe(ev Event) {
	if n.observer != nil {
		n.observer.Observe(ev)
	}
}
