package hashroute

import (
	"iter"
	"strings"
)

// Vars is an ordered string-to-string container for route variables.
//
// Entries keep insertion order. Setting an existing key updates its value in
// place. An entry may be marked unset (the delete sentinel): it stays in the
// container so a merge can carry the deletion, but Get, Len, and All skip it
// and Format never emits it.
//
// The zero value is an empty container ready to use. A nil *Vars behaves as an
// empty container for every read. Set, Unset, and Merge on a nil *Vars
// allocate and return a new container, so keep their result, as with append.
type Vars struct {
	entries []varEntry
	index   map[string]int
}

type varEntry struct {
	key   string
	value string
	unset bool
}

// NewVars returns an empty container.
func NewVars() *Vars {
	return &Vars{}
}

// VarsOf builds a container from alternating key, value arguments.
// A trailing key without a value is ignored.
func VarsOf(pairs ...string) *Vars {
	v := &Vars{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

func (v *Vars) lookup(key string) (int, bool) {
	if v == nil || v.index == nil {
		return 0, false
	}
	i, ok := v.index[key]
	return i, ok
}

func (v *Vars) put(key, value string, unset bool) {
	if i, ok := v.lookup(key); ok {
		v.entries[i].value = value
		v.entries[i].unset = unset
		return
	}
	if v.index == nil {
		v.index = make(map[string]int)
	}
	v.index[key] = len(v.entries)
	v.entries = append(v.entries, varEntry{key: key, value: value, unset: unset})
}

// Set assigns value to key. An existing key keeps its position.
func (v *Vars) Set(key, value string) *Vars {
	if v == nil {
		v = NewVars()
	}
	v.put(key, value, false)
	return v
}

// Unset marks key for deletion on the next Format. If key is not present an
// unset entry is appended so that Merge propagates the deletion.
func (v *Vars) Unset(key string) *Vars {
	if v == nil {
		v = NewVars()
	}
	v.put(key, "", true)
	return v
}

// Delete removes key outright. It reports whether an entry was removed.
func (v *Vars) Delete(key string) bool {
	i, ok := v.lookup(key)
	if !ok {
		return false
	}
	v.entries = append(v.entries[:i], v.entries[i+1:]...)
	delete(v.index, key)
	for j := i; j < len(v.entries); j++ {
		v.index[v.entries[j].key] = j
	}
	return true
}

// Get returns the value for key. Unset entries report false.
func (v *Vars) Get(key string) (string, bool) {
	i, ok := v.lookup(key)
	if !ok || v.entries[i].unset {
		return "", false
	}
	return v.entries[i].value, true
}

// Has reports whether key holds a live value.
func (v *Vars) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// IsUnset reports whether key is present and carries the delete sentinel.
func (v *Vars) IsUnset(key string) bool {
	i, ok := v.lookup(key)
	return ok && v.entries[i].unset
}

// Len returns the number of live entries.
func (v *Vars) Len() int {
	if v == nil {
		return 0
	}
	n := 0
	for _, e := range v.entries {
		if !e.unset {
			n++
		}
	}
	return n
}

// Count returns the number of entries, unset ones included.
func (v *Vars) Count() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// Keys returns the live keys in order.
func (v *Vars) Keys() []string {
	keys := make([]string, 0, v.Len())
	for k := range v.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates live entries in order.
func (v *Vars) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if v == nil {
			return
		}
		for _, e := range v.entries {
			if e.unset {
				continue
			}
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Entries iterates every entry in order. The value is nil for unset entries.
func (v *Vars) Entries() iter.Seq2[string, *string] {
	return func(yield func(string, *string) bool) {
		if v == nil {
			return
		}
		for _, e := range v.entries {
			var value *string
			if !e.unset {
				s := e.value
				value = &s
			}
			if !yield(e.key, value) {
				return
			}
		}
	}
}

// Merge applies updates on top of v: keys present in both take the update's
// value in place, new keys are appended in the update's order, and unset
// entries in updates mark the key unset in v.
func (v *Vars) Merge(updates *Vars) *Vars {
	if updates == nil {
		return v
	}
	if v == nil {
		v = NewVars()
	}
	for _, e := range updates.entries {
		v.put(e.key, e.value, e.unset)
	}
	return v
}

// Compact drops unset entries.
func (v *Vars) Compact() *Vars {
	if v == nil {
		return v
	}
	live := v.entries[:0]
	for _, e := range v.entries {
		if !e.unset {
			live = append(live, e)
		}
	}
	clear(v.entries[len(live):])
	v.entries = live
	v.index = make(map[string]int, len(live))
	for i, e := range live {
		v.index[e.key] = i
	}
	return v
}

// Clone returns a deep copy, unset entries included.
func (v *Vars) Clone() *Vars {
	c := &Vars{}
	if v == nil || len(v.entries) == 0 {
		return c
	}
	c.entries = append([]varEntry(nil), v.entries...)
	c.index = make(map[string]int, len(v.index))
	for k, i := range v.index {
		c.index[k] = i
	}
	return c
}

// Equal reports whether v and o hold the same live entries in the same order.
func (v *Vars) Equal(o *Vars) bool {
	if v.Len() != o.Len() {
		return false
	}
	next, stop := iter.Pull2(o.All())
	defer stop()
	for k, val := range v.All() {
		ok, ov, more := next()
		if !more || k != ok || val != ov {
			return false
		}
	}
	return true
}

// Map copies the live entries into a plain map.
func (v *Vars) Map() map[string]string {
	m := make(map[string]string, v.Len())
	for k, val := range v.All() {
		m[k] = val
	}
	return m
}

// String renders the live entries in fragment form without the leading "/".
func (v *Vars) String() string {
	var b strings.Builder
	writeVars(&b, v)
	return b.String()
}
