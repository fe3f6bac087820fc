package hashroute

import "time"

// Op identifies a Navigator operation reported to an Observer.
type Op string

const (
	// OpRead is a parse of the current location.
	OpRead Op = "read"

	// OpWrite is a format and write of a new fragment.
	OpWrite Op = "write"
)

// Event describes one completed Navigator operation.
type Event struct {
	Op       Op
	Fragment string
	State    RouteState

	// Report is only filled for OpRead.
	Report Report

	Start    time.Time
	Duration time.Duration
}

// Observer receives Navigator events. Implementations must be safe for
// concurrent use when the Navigator is shared.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// MultiObserver fans an event out to each non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	list := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return ObserverFunc(func(ev Event) {
		for _, o := range list {
			o.Observe(ev)
		}
	})
}
