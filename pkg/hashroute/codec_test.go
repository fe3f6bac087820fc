package hashroute

import (
	"testing"
	"unicode/utf8"
)

func pairs(v *Vars) []string {
	var out []string
	for k, val := range v.All() {
		out = append(out, k, val)
	}
	return out
}

func equalPairs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		page     string
		vars     []string
	}{
		{"empty", "", "", nil},
		{"page only", "home", "home", nil},
		{"page and vars", "home/x=1&y=2", "home", []string{"x", "1", "y", "2"}},
		{"decoded value", "search/q=hello%20world", "search", []string{"q", "hello world"}},
		{"segment without equals dropped", "page/flag", "page", nil},
		{"leading hash stripped", "#home/x=1", "home", []string{"x", "1"}},
		{"vars without page", "/x=1", "", []string{"x", "1"}},
		{"trailing slash", "page/", "page", nil},
		{"value keeps equals", "p/a=1=2", "p", []string{"a", "1=2"}},
		{"value keeps slash", "p/a=1/b", "p", []string{"a", "1/b"}},
		{"empty value", "p/a=", "p", []string{"a", ""}},
		{"empty key", "p/=v", "p", []string{"", "v"}},
		{"empty segments dropped", "p/a=1&&b=2", "p", []string{"a", "1", "b", "2"}},
		{"duplicate keeps first position", "p/a=1&b=2&a=3", "p", []string{"a", "3", "b", "2"}},
		{"encoded separators", "%2Fweird/k%3D=%26%2F", "/weird", []string{"k=", "&/"}},
		{"plus is literal", "p/q=a+b", "p", []string{"q", "a+b"}},
		{"lowercase escapes", "p/q=%c3%a9", "p", []string{"q", "é"}},
		{"malformed escape falls back per field", "p/%ZZ=ok&k=%E0%A4%A", "p", []string{"%ZZ", "ok", "k", "%E0%A4%A"}},
		{"malformed page falls back", "100%/x=1", "100%", []string{"x", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Parse(tt.fragment)
			if state.PageKey != tt.page {
				t.Errorf("PageKey = %q, want %q", state.PageKey, tt.page)
			}
			if got := pairs(state.Vars); !equalPairs(got, tt.vars) {
				t.Errorf("Vars = %q, want %q", got, tt.vars)
			}
		})
	}
}

func TestParseEmptyState(t *testing.T) {
	state := Parse("")
	if state.HasPage() {
		t.Errorf("HasPage() = true for empty fragment")
	}
	if state.Vars == nil {
		t.Fatal("Vars should never be nil after Parse")
	}
	if state.Vars.Len() != 0 {
		t.Errorf("Vars.Len() = %d, want 0", state.Vars.Len())
	}
}

func TestInspectReport(t *testing.T) {
	_, report := Inspect("p%ZZ/a=1&flag&&a=2&b=%G1")
	want := Report{Segments: 5, Dropped: 2, Duplicates: 1, DecodeFallbacks: 2}
	if report != want {
		t.Errorf("Report = %+v, want %+v", report, want)
	}
	if !report.Degraded() {
		t.Error("Degraded() = false, want true")
	}

	_, clean := Inspect("home/x=1")
	if clean.Degraded() {
		t.Errorf("clean fragment reported degraded: %+v", clean)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		state RouteState
		want  string
	}{
		{"empty", RouteState{Vars: NewVars()}, ""},
		{"nil vars", RouteState{}, ""},
		{"page only", RouteState{PageKey: "home"}, "home"},
		{"page and vars", RouteState{PageKey: "home", Vars: VarsOf("x", "1", "y", "2")}, "home/x=1&y=2"},
		{"vars without page", RouteState{Vars: VarsOf("x", "1")}, "/x=1"},
		{"space encoded as %20", RouteState{PageKey: "search", Vars: VarsOf("q", "hello world")}, "search/q=hello%20world"},
		{"separators encoded", RouteState{PageKey: "a/b", Vars: VarsOf("k&=", "v/&=")}, "a%2Fb/k%26%3D=v%2F%26%3D"},
		{"non-ascii", RouteState{PageKey: "é", Vars: VarsOf("ключ", "値")}, "%C3%A9/%D0%BA%D0%BB%D1%8E%D1%87=%E5%80%A4"},
		{"unset dropped", RouteState{PageKey: "p", Vars: VarsOf("a", "1", "b", "2").Unset("b")}, "p/a=1"},
		{"all unset emits no slash", RouteState{PageKey: "p", Vars: VarsOf("a", "1").Unset("a")}, "p"},
		{"unset first entry", RouteState{PageKey: "p", Vars: VarsOf("a", "1", "b", "2").Unset("a")}, "p/b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.state); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	states := []RouteState{
		{Vars: NewVars()},
		{PageKey: "home", Vars: NewVars()},
		{PageKey: "home", Vars: VarsOf("x", "1", "y", "2")},
		{Vars: VarsOf("only", "vars")},
		{PageKey: "a/b&c=d", Vars: VarsOf("k/1", "v&2", "=", "==", "", "empty key")},
		{PageKey: "100%", Vars: VarsOf("pct", "%zz", "plus", "a+b")},
		{PageKey: "workflows", Vars: VarsOf("__proto__", "x", "constructor", "y")},
		{PageKey: "ünïcödé", Vars: VarsOf("emoji", "🚀", "cjk", "漢字")},
		{PageKey: "#hash", Vars: VarsOf("hash", "#")},
		{PageKey: "raw\xff", Vars: VarsOf("bad\xfe", "\x00\x01")},
		{PageKey: "p", Vars: VarsOf("z", "1", "a", "2", "m", "3")},
	}

	for _, s := range states {
		formatted := Format(s)
		got := Parse(formatted)
		if !got.Equal(s) {
			t.Errorf("Parse(Format(%q)) = page %q vars %q, want page %q vars %q",
				formatted, got.PageKey, pairs(got.Vars), s.PageKey, pairs(s.Vars))
		}
		if again := Format(got); again != formatted {
			t.Errorf("Format not idempotent: %q then %q", formatted, again)
		}
	}
}

func TestInjectionKeysAreData(t *testing.T) {
	state := Parse("p/__proto__=evil&constructor=evil&hasOwnProperty=1")

	for _, key := range []string{"__proto__", "constructor", "hasOwnProperty"} {
		if !state.Vars.Has(key) {
			t.Errorf("Has(%q) = false, want true", key)
		}
	}
	if v, _ := state.Vars.Get("__proto__"); v != "evil" {
		t.Errorf("Get(__proto__) = %q, want %q", v, "evil")
	}
	if state.Vars.Len() != 3 {
		t.Errorf("Len() = %d, want 3", state.Vars.Len())
	}

	other := NewVars()
	if other.Has("__proto__") || other.Has("constructor") {
		t.Error("fresh Vars sees keys parsed into another instance")
	}
	unrelated := Parse("p/x=1")
	if unrelated.Vars.Has("__proto__") {
		t.Error("unrelated parse sees __proto__")
	}
	if unrelated.Vars.Len() != 1 {
		t.Errorf("unrelated Len() = %d, want 1", unrelated.Vars.Len())
	}
}

func FuzzParseFormat(f *testing.F) {
	seeds := []string{
		"", "home", "home/x=1&y=2", "search/q=hello%20world", "page/flag",
		"/x=1", "p/=", "%", "p/%ZZ=%", "#/&&&", "a/b/c=d=e", "__proto__/__proto__=1",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, fragment string) {
		state := Parse(fragment)
		once := Format(state)
		twice := Format(Parse(once))
		if once != twice {
			t.Fatalf("Format(Parse(%q)) = %q, reformatted %q", fragment, once, twice)
		}
		if !Parse(once).Equal(state) {
			t.Fatalf("Parse(Format(Parse(%q))) changed the state", fragment)
		}
		if utf8.ValidString(fragment) && !utf8.ValidString(once) {
			t.Fatalf("Format produced invalid UTF-8 from %q", fragment)
		}
	})
}

func TestRouteStateMutatorsOnZeroState(t *testing.T) {
	var s RouteState
	s.MergeVars(VarsOf("a", "1", "b", "2"))
	if got := Format(s); got != "/a=1&b=2" {
		t.Errorf("Format() after MergeVars = %q, want %q", got, "/a=1&b=2")
	}

	s = RouteState{PageKey: "p"}
	s.SetVar("x", "1")
	if got := Format(s); got != "p/x=1" {
		t.Errorf("Format() after SetVar = %q, want %q", got, "p/x=1")
	}

	s = RouteState{PageKey: "p"}
	s.UnsetVar("x")
	if got := Format(s); got != "p" {
		t.Errorf("Format() after UnsetVar = %q, want %q", got, "p")
	}
	if !s.Vars.IsUnset("x") {
		t.Error("UnsetVar did not record the delete marker")
	}
}
