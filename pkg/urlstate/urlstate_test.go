package urlstate

import (
	"testing"
	"time"

	"github.com/vango-dev/hashnav/pkg/hashroute"
)

func newNav(fragment string) (*hashroute.Navigator, *hashroute.MemoryLocation) {
	loc := hashroute.NewMemoryLocation(fragment)
	return hashroute.NewNavigator(loc), loc
}

func TestUseVar(t *testing.T) {
	nav, loc := newNav("workflows")
	tab := Use(nav, "tab", "log")

	if tab.Get() != "log" {
		t.Errorf("Get() = %q, want default %q", tab.Get(), "log")
	}
	if tab.IsSet() {
		t.Error("IsSet() = true before Set")
	}

	tab.Set("results")
	if got := loc.Read(); got != "workflows/tab=results" {
		t.Errorf("fragment = %q", got)
	}
	if tab.Get() != "results" {
		t.Errorf("Get() = %q, want %q", tab.Get(), "results")
	}
	if !tab.IsSet() {
		t.Error("IsSet() = false after Set")
	}

	tab.Set("log")
	if tab.IsSet() {
		t.Error("IsSet() = true when value equals default")
	}

	tab.Reset()
	if got := loc.Read(); got != "workflows" {
		t.Errorf("fragment after Reset = %q", got)
	}
}

func TestVarReadsHandEditedFragment(t *testing.T) {
	nav, loc := newNav("")
	limit := Use(nav, "limit", 20)

	loc.Write("list/limit=50")
	if limit.Get() != 50 {
		t.Errorf("Get() = %d, want 50", limit.Get())
	}

	loc.Write("list/limit=abc")
	if limit.Get() != 0 {
		t.Errorf("Get() = %d for unparsable input, want 0", limit.Get())
	}
}

func TestVarTypes(t *testing.T) {
	nav, loc := newNav("p")

	Use(nav, "n", 0).Set(42)
	Use(nav, "ok", false).Set(true)
	Use(nav, "tags", []string{}).Set([]string{"go", "web"})

	type filter struct {
		Name string `json:"name"`
		Max  int    `json:"max"`
	}
	f := Use(nav, "f", filter{})
	f.Set(filter{Name: "a b", Max: 3})

	want := "p/n=42&ok=true&tags=go%2Cweb&f=%7B%22name%22%3A%22a%20b%22%2C%22max%22%3A3%7D"
	if got := loc.Read(); got != want {
		t.Errorf("fragment = %q, want %q", got, want)
	}
	if got := f.Get(); got.Name != "a b" || got.Max != 3 {
		t.Errorf("struct Get() = %+v", got)
	}
	if got := Use(nav, "tags", []string(nil)).Get(); len(got) != 2 || got[1] != "web" {
		t.Errorf("tags Get() = %v", got)
	}
}

func TestVarCustomSerializer(t *testing.T) {
	nav, loc := newNav("p")
	v := Use(nav, "id", 0).
		Serialize(func(i int) string { return "id-" + DefaultSerializer(0)(i) }).
		Deserialize(func(s string) int { return DefaultDeserializer(0)(s[len("id-"):]) })

	v.Set(7)
	if got := loc.Read(); got != "p/id=id-7" {
		t.Errorf("fragment = %q", got)
	}
	if v.Get() != 7 {
		t.Errorf("Get() = %d, want 7", v.Get())
	}
}

func TestVarDebounce(t *testing.T) {
	nav, loc := newNav("search")
	q := Use(nav, "q", "").Debounce(time.Hour)

	q.Set("g")
	q.Set("go")
	if got := loc.Read(); got != "search" {
		t.Errorf("fragment = %q before debounce elapsed", got)
	}

	q.Flush()
	if got := loc.Read(); got != "search/q=go" {
		t.Errorf("fragment = %q after Flush", got)
	}

	q.Set("discarded")
	q.Reset()
	q.Flush()
	if got := loc.Read(); got != "search" {
		t.Errorf("fragment = %q, Reset should drop the pending write", got)
	}
}

func TestVarDebounceStaleTimer(t *testing.T) {
	nav, loc := newNav("search")
	q := Use(nav, "q", "").Debounce(time.Hour)

	q.Set("g")
	q.timerMu.Lock()
	stale := q.gen
	q.timerMu.Unlock()

	// A timer armed for the first Set fires after the second Set replaced it.
	q.Set("go")
	q.fire(stale)
	if got := loc.Read(); got != "search" {
		t.Errorf("fragment = %q, stale timer should not write", got)
	}

	q.timerMu.Lock()
	current := q.gen
	q.timerMu.Unlock()
	q.fire(current)
	if got := loc.Read(); got != "search/q=go" {
		t.Errorf("fragment = %q after current timer fired", got)
	}
}

func TestVarDebounceFires(t *testing.T) {
	nav, loc := newNav("search")
	written := make(chan string, 1)
	loc.Subscribe(func(_, current string) { written <- current })

	Use(nav, "q", "").Debounce(10 * time.Millisecond).Set("late")

	select {
	case got := <-written:
		if got != "search/q=late" {
			t.Errorf("fragment = %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced write never happened")
	}
}

func TestPageState(t *testing.T) {
	nav, loc := newNav("/x=1")
	page := UsePage(nav, "home")

	if page.Get() != "home" || !page.Is("home") {
		t.Errorf("Get() = %q, want default", page.Get())
	}

	page.Set("settings")
	if got := loc.Read(); got != "settings/x=1" {
		t.Errorf("fragment = %q", got)
	}
	if !page.Is("settings") {
		t.Error("Is(settings) = false")
	}
}

func TestDefaultSerializer(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"string", DefaultSerializer("")("hello"), "hello"},
		{"int", DefaultSerializer(0)(123), "123"},
		{"int64", DefaultSerializer(int64(0))(-9), "-9"},
		{"uint", DefaultSerializer(uint(0))(5), "5"},
		{"float", DefaultSerializer(0.0)(3.14), "3.14"},
		{"bool", DefaultSerializer(false)(true), "true"},
		{"strings", DefaultSerializer([]string(nil))([]string{"a", "b"}), "a,b"},
		{"map", DefaultSerializer(map[string]int(nil))(map[string]int{"a": 1}), `{"a":1}`},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestDefaultDeserializer(t *testing.T) {
	if got := DefaultDeserializer(0)("123"); got != 123 {
		t.Errorf("int = %d", got)
	}
	if got := DefaultDeserializer(0)("nope"); got != 0 {
		t.Errorf("invalid int = %d, want 0", got)
	}
	if got := DefaultDeserializer(int32(0))("99999999999"); got != 0 {
		t.Errorf("overflowing int32 = %d, want 0", got)
	}
	if got := DefaultDeserializer(0.0)("3.14"); got != 3.14 {
		t.Errorf("float = %v", got)
	}
	if got := DefaultDeserializer(false)("true"); !got {
		t.Error("bool = false")
	}
	if got := DefaultDeserializer([]string{})(""); got == nil || len(got) != 0 {
		t.Errorf("empty slice = %#v", got)
	}
	if got := DefaultDeserializer(map[string]int{})(`{"a":1,"b":2}`); len(got) != 2 {
		t.Errorf("map = %v", got)
	}
	if got := DefaultDeserializer(map[string]int{"x": 1})("not json"); got["x"] != 1 {
		t.Errorf("invalid JSON should return the zero argument, got %v", got)
	}
}
