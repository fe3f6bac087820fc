package hashroute

import (
	"maps"
	"testing"
)

func TestVarsSetKeepsPosition(t *testing.T) {
	v := VarsOf("a", "1", "b", "2", "c", "3")
	v.Set("a", "updated")

	want := []string{"a", "updated", "b", "2", "c", "3"}
	if got := pairs(v); !equalPairs(got, want) {
		t.Errorf("pairs = %q, want %q", got, want)
	}
}

func TestVarsOfOddArguments(t *testing.T) {
	v := VarsOf("a", "1", "dangling")
	if v.Len() != 1 || v.Has("dangling") {
		t.Errorf("VarsOf kept a key without value: %q", pairs(v))
	}
}

func TestVarsDeleteReindexes(t *testing.T) {
	v := VarsOf("a", "1", "b", "2", "c", "3")
	if !v.Delete("a") {
		t.Fatal("Delete(a) = false")
	}
	if v.Delete("missing") {
		t.Error("Delete(missing) = true")
	}

	v.Set("c", "updated")
	v.Set("d", "4")
	want := []string{"b", "2", "c", "updated", "d", "4"}
	if got := pairs(v); !equalPairs(got, want) {
		t.Errorf("pairs = %q, want %q", got, want)
	}
}

func TestVarsUnset(t *testing.T) {
	v := VarsOf("a", "1", "b", "2")
	v.Unset("a")

	if v.Has("a") {
		t.Error("Has(a) = true after Unset")
	}
	if _, ok := v.Get("a"); ok {
		t.Error("Get(a) reported a value after Unset")
	}
	if !v.IsUnset("a") {
		t.Error("IsUnset(a) = false")
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
	if v.Count() != 2 {
		t.Errorf("Count() = %d, want 2", v.Count())
	}

	v.Set("a", "back")
	if got, _ := v.Get("a"); got != "back" {
		t.Errorf("Get(a) = %q after re-Set, want %q", got, "back")
	}
	if keys := v.Keys(); keys[0] != "a" {
		t.Errorf("Keys() = %q, want a first", keys)
	}
}

func TestVarsEntriesIncludeUnset(t *testing.T) {
	v := VarsOf("a", "1").Unset("b")

	var keys []string
	var nilValues int
	for k, val := range v.Entries() {
		keys = append(keys, k)
		if val == nil {
			nilValues++
		}
	}
	if !equalPairs(keys, []string{"a", "b"}) || nilValues != 1 {
		t.Errorf("Entries keys = %q nil values = %d", keys, nilValues)
	}
}

func TestVarsMerge(t *testing.T) {
	v := VarsOf("a", "1", "b", "2")
	v.Merge(VarsOf("b", "20", "c", "3").Unset("a"))

	want := []string{"b", "20", "c", "3"}
	if got := pairs(v); !equalPairs(got, want) {
		t.Errorf("pairs = %q, want %q", got, want)
	}
	if !v.IsUnset("a") {
		t.Error("merge did not carry the delete sentinel")
	}

	if v.Merge(nil) != v {
		t.Error("Merge(nil) should return the receiver")
	}
}

func TestVarsCompact(t *testing.T) {
	v := VarsOf("a", "1", "b", "2", "c", "3").Unset("a").Unset("c")
	v.Compact()

	if v.Count() != 1 {
		t.Errorf("Count() = %d after Compact, want 1", v.Count())
	}
	v.Set("d", "4")
	want := []string{"b", "2", "d", "4"}
	if got := pairs(v); !equalPairs(got, want) {
		t.Errorf("pairs = %q, want %q", got, want)
	}
}

func TestVarsCloneIsIndependent(t *testing.T) {
	orig := VarsOf("a", "1")
	c := orig.Clone()
	c.Set("a", "changed").Set("b", "2")

	if got, _ := orig.Get("a"); got != "1" {
		t.Errorf("original mutated through clone: a = %q", got)
	}
	if orig.Has("b") {
		t.Error("original gained key from clone")
	}
}

func TestVarsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Vars
		want bool
	}{
		{"both empty", NewVars(), NewVars(), true},
		{"nil and empty", nil, NewVars(), true},
		{"same", VarsOf("a", "1"), VarsOf("a", "1"), true},
		{"order matters", VarsOf("a", "1", "b", "2"), VarsOf("b", "2", "a", "1"), false},
		{"value differs", VarsOf("a", "1"), VarsOf("a", "2"), false},
		{"unset ignored", VarsOf("a", "1").Unset("z"), VarsOf("a", "1"), true},
		{"length differs", VarsOf("a", "1"), VarsOf("a", "1", "b", "2"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVarsZeroAndNil(t *testing.T) {
	var zero Vars
	zero.Set("k", "v")
	if got, _ := zero.Get("k"); got != "v" {
		t.Errorf("zero value Get(k) = %q", got)
	}

	var nilVars *Vars
	if nilVars.Len() != 0 || nilVars.Has("k") || nilVars.String() != "" {
		t.Error("nil *Vars should read as empty")
	}
	if nilVars.Clone().Len() != 0 {
		t.Error("Clone of nil should be empty")
	}
}

func TestVarsMapAndString(t *testing.T) {
	v := VarsOf("q", "a b", "tag", "x&y").Unset("gone")

	want := map[string]string{"q": "a b", "tag": "x&y"}
	if got := v.Map(); !maps.Equal(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
	if got := v.String(); got != "q=a%20b&tag=x%26y" {
		t.Errorf("String() = %q", got)
	}
}

func TestVarsNilMutatorsAllocate(t *testing.T) {
	var v *Vars
	merged := v.Merge(VarsOf("a", "1"))
	if got, _ := merged.Get("a"); got != "1" {
		t.Errorf("nil Merge: Get(a) = %q, want %q", got, "1")
	}
	if v.Merge(nil) != nil {
		t.Error("nil Merge(nil) should stay nil")
	}

	set := v.Set("k", "v")
	if !set.Has("k") {
		t.Error("nil Set: key missing from returned container")
	}
	unset := v.Unset("gone")
	if !unset.IsUnset("gone") {
		t.Error("nil Unset: key not marked unset in returned container")
	}
}
