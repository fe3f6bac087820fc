package hashroute

import (
	"strings"
	"sync"
)

// Location owns the current fragment. Read returns it without the leading
// "#"; Write replaces it wholesale and is expected to notify whatever renders
// navigation (a browser, a test, a bridge session).
type Location interface {
	Read() string
	Write(fragment string)
}

// LocationFuncs adapts a pair of functions to Location.
type LocationFuncs struct {
	ReadFunc  func() string
	WriteFunc func(string)
}

// Read calls ReadFunc, or returns "" when it is nil.
func (l LocationFuncs) Read() string {
	if l.ReadFunc == nil {
		return ""
	}
	return l.ReadFunc()
}

// Write calls WriteFunc when it is set.
func (l LocationFuncs) Write(fragment string) {
	if l.WriteFunc != nil {
		l.WriteFunc(fragment)
	}
}

// ChangeFunc is called after a Location's fragment is written.
type ChangeFunc func(previous, current string)

// MemoryLocation is an in-process Location. It serializes individual reads
// and writes and exposes Lock/Unlock so a Navigator can make a whole
// read-modify-write atomic (see Navigator.Update).
type MemoryLocation struct {
	// mu guards a read-modify-write cycle; state guards the fields below.
	mu    sync.Mutex
	state sync.Mutex

	fragment  string
	listeners map[int]ChangeFunc
	nextID    int
}

// NewMemoryLocation returns a location holding fragment.
func NewMemoryLocation(fragment string) *MemoryLocation {
	return &MemoryLocation{fragment: strings.TrimPrefix(fragment, "#")}
}

// Read returns the current fragment.
func (l *MemoryLocation) Read() string {
	l.state.Lock()
	defer l.state.Unlock()
	return l.fragment
}

// Write replaces the fragment and notifies subscribers. Listeners run on the
// writer's goroutine, after the new value is visible to Read.
func (l *MemoryLocation) Write(fragment string) {
	l.state.Lock()
	previous := l.fragment
	l.fragment = fragment
	listeners := make([]ChangeFunc, 0, len(l.listeners))
	for id := 0; id < l.nextID; id++ {
		if fn, ok := l.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	l.state.Unlock()

	for _, fn := range listeners {
		fn(previous, fragment)
	}
}

// Subscribe registers fn for every subsequent Write and returns a function
// that removes it.
func (l *MemoryLocation) Subscribe(fn ChangeFunc) (cancel func()) {
	l.state.Lock()
	defer l.state.Unlock()
	if l.listeners == nil {
		l.listeners = make(map[int]ChangeFunc)
	}
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	return func() {
		l.state.Lock()
		delete(l.listeners, id)
		l.state.Unlock()
	}
}

// Lock acquires the read-modify-write lock.
func (l *MemoryLocation) Lock() { l.mu.Lock() }

// Unlock releases the read-modify-write lock.
func (l *MemoryLocation) Unlock() { l.mu.Unlock() }
