package hashroute

import "strings"

// RouteState is the structured form of a fragment.
type RouteState struct {
	// PageKey identifies the active page. Empty means no page segment.
	PageKey string

	// Vars holds the route variables in fragment order. May be nil.
	Vars *Vars
}

// HasPage reports whether the state carries a page key.
func (s RouteState) HasPage() bool {
	return s.PageKey != ""
}

// Equal reports whether both states have the same page and live variables.
func (s RouteState) Equal(o RouteState) bool {
	return s.PageKey == o.PageKey && s.Vars.Equal(o.Vars)
}

// Clone returns a copy whose Vars can be mutated independently.
func (s RouteState) Clone() RouteState {
	return RouteState{PageKey: s.PageKey, Vars: s.Vars.Clone()}
}

// MergeVars merges updates into s.Vars, allocating it first when nil.
func (s *RouteState) MergeVars(updates *Vars) {
	s.Vars = s.Vars.Merge(updates)
}

// SetVar sets one variable, allocating s.Vars first when nil.
func (s *RouteState) SetVar(key, value string) {
	s.Vars = s.Vars.Set(key, value)
}

// UnsetVar marks key for deletion, allocating s.Vars first when nil.
func (s *RouteState) UnsetVar(key string) {
	s.Vars = s.Vars.Unset(key)
}

// String returns the formatted fragment.
func (s RouteState) String() string {
	return Format(s)
}

// Report describes how much of a fragment Inspect had to degrade.
type Report struct {
	// Segments is the number of "&"-separated variable segments seen.
	Segments int

	// Dropped counts segments discarded for being empty or lacking "=".
	Dropped int

	// Duplicates counts segments whose key was already present.
	Duplicates int

	// DecodeFallbacks counts fields kept as literal text because of a
	// malformed percent-escape.
	DecodeFallbacks int
}

// Degraded reports whether any input was dropped or kept undecoded.
func (r Report) Degraded() bool {
	return r.Dropped > 0 || r.DecodeFallbacks > 0
}

// Parse converts a fragment into a RouteState. A single leading "#" is
// ignored. Parse never fails; see Inspect for what was discarded.
func Parse(fragment string) RouteState {
	state, _ := Inspect(fragment)
	return state
}

// Inspect is Parse with a report of dropped segments and decode fallbacks.
func Inspect(fragment string) (RouteState, Report) {
	var report Report
	state := RouteState{Vars: NewVars()}

	fragment = strings.TrimPrefix(fragment, "#")
	page, rest, hasVars := strings.Cut(fragment, "/")

	if page != "" {
		decoded, fellBack := decodeField(page)
		if fellBack {
			report.DecodeFallbacks++
		}
		state.PageKey = decoded
	}

	if !hasVars || rest == "" {
		return state, report
	}

	for _, segment := range strings.Split(rest, "&") {
		report.Segments++
		rawKey, rawValue, ok := strings.Cut(segment, "=")
		if !ok {
			report.Dropped++
			continue
		}

		key, keyFellBack := decodeField(rawKey)
		value, valueFellBack := decodeField(rawValue)
		if keyFellBack {
			report.DecodeFallbacks++
		}
		if valueFellBack {
			report.DecodeFallbacks++
		}
		if _, seen := state.Vars.lookup(key); seen {
			report.Duplicates++
		}
		state.Vars.Set(key, value)
	}

	return state, report
}

// Format renders state as a fragment without the leading "#". Unset variables
// are omitted, and no "/" is written when no live variable remains.
func Format(state RouteState) string {
	var b strings.Builder
	if state.PageKey != "" {
		b.WriteString(Escape(state.PageKey))
	}
	if state.Vars.Len() > 0 {
		b.WriteByte('/')
		writeVars(&b, state.Vars)
	}
	return b.String()
}

func writeVars(b *strings.Builder, v *Vars) {
	first := true
	for key, value := range v.All() {
		if !first {
			b.WriteByte('&')
		}
		first = false
		b.WriteString(Escape(key))
		b.WriteByte('=')
		b.WriteString(Escape(value))
	}
}
