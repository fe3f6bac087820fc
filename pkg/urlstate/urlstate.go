package urlstate

import (
	"reflect"
	"sync"
	"time"

	"github.com/vango-dev/hashnav/pkg/hashroute"
)

// Var is a typed view of one route variable.
type Var[T any] struct {
	nav          *hashroute.Navigator
	key          string
	defaultValue T
	serializer   func(T) string
	deserializer func(string) T
	debounce     time.Duration

	timerMu sync.Mutex
	timer   *time.Timer
	pending func()
	// gen identifies the latest scheduled write; timers from older
	// generations fire as no-ops.
	gen uint64
}

// Use binds key on nav to a value of type T. The default is returned by Get
// while the key is absent from the fragment.
func Use[T any](nav *hashroute.Navigator, key string, defaultValue T) *Var[T] {
	return &Var[T]{
		nav:          nav,
		key:          key,
		defaultValue: defaultValue,
		serializer:   DefaultSerializer(defaultValue),
		deserializer: DefaultDeserializer(defaultValue),
	}
}

// Key returns the route variable name.
func (v *Var[T]) Key() string {
	return v.key
}

// Get parses the current fragment and returns the variable's value.
func (v *Var[T]) Get() T {
	raw, ok := v.nav.GetParsedHash().Vars.Get(v.key)
	if !ok {
		return v.defaultValue
	}
	return v.deserializer(raw)
}

// Set writes value into the fragment, after the debounce delay if one is
// configured.
func (v *Var[T]) Set(value T) {
	encoded := v.serializer(value)
	v.schedule(func() {
		v.nav.ChangeRouteVars(hashroute.VarsOf(v.key, encoded))
	})
}

// Reset removes the variable from the fragment so Get returns the default.
// A pending debounced Set is discarded.
func (v *Var[T]) Reset() {
	v.cancel()
	v.nav.ChangeRouteVars(hashroute.NewVars().Unset(v.key))
}

// IsSet reports whether the fragment holds a value different from the default.
func (v *Var[T]) IsSet() bool {
	raw, ok := v.nav.GetParsedHash().Vars.Get(v.key)
	if !ok {
		return false
	}
	return !reflect.DeepEqual(v.deserializer(raw), v.defaultValue)
}

// Debounce delays writes until d has passed without another Set.
func (v *Var[T]) Debounce(d time.Duration) *Var[T] {
	v.debounce = d
	return v
}

// Serialize overrides the value-to-string conversion.
func (v *Var[T]) Serialize(fn func(T) string) *Var[T] {
	v.serializer = fn
	return v
}

// Deserialize overrides the string-to-value conversion.
func (v *Var[T]) Deserialize(fn func(string) T) *Var[T] {
	v.deserializer = fn
	return v
}

// Flush performs a pending debounced write immediately.
func (v *Var[T]) Flush() {
	v.timerMu.Lock()
	v.gen++
	fn := v.pending
	v.pending = nil
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.timerMu.Unlock()

	if fn != nil {
		fn()
	}
}

func (v *Var[T]) schedule(write func()) {
	if v.debounce <= 0 {
		write()
		return
	}

	v.timerMu.Lock()
	defer v.timerMu.Unlock()

	if v.timer != nil {
		v.timer.Stop()
	}
	v.gen++
	gen := v.gen
	v.pending = write
	v.timer = time.AfterFunc(v.debounce, func() { v.fire(gen) })
}

// fire runs the pending write if no Set, Flush or Reset happened since the
// timer for gen was armed.
func (v *Var[T]) fire(gen uint64) {
	v.timerMu.Lock()
	if gen != v.gen {
		v.timerMu.Unlock()
		return
	}
	fn := v.pending
	v.pending = nil
	v.timer = nil
	v.timerMu.Unlock()

	if fn != nil {
		fn()
	}
}

func (v *Var[T]) cancel() {
	v.timerMu.Lock()
	defer v.timerMu.Unlock()
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.gen++
	v.pending = nil
}
