// Package hashroute converts between a URL fragment ("hash") and a structured
// route descriptor.
//
// A fragment carries an optional page key followed by an ordered set of named
// variables:
//
//	fragment = [ page ] [ "/" key "=" value *( "&" key "=" value ) ]
//
// Page, keys, and values are percent-encoded with the encodeURIComponent
// alphabet, so "/", "&", "=" inside them never collide with the separators.
//
// # Parsing
//
// Parse is total: every input, including garbage, yields a RouteState. A
// segment without "=" is dropped, a malformed percent-escape falls back to the
// literal text of that one field, and duplicate keys keep their first position
// while taking the last value.
//
//	state := hashroute.Parse("search/q=hello%20world")
//	q, _ := state.Vars.Get("q") // "hello world"
//
// # Variables
//
// Vars is an ordered container backed by a slice and a Go map index. Keys such
// as "__proto__" or "constructor" are ordinary data. A key can be marked with
// Unset, the delete sentinel: it is carried through merges and then omitted by
// Format.
//
// # Navigation
//
// A Navigator applies read-modify-write updates to a Location, the injected
// owner of the current fragment:
//
//	loc := hashroute.NewMemoryLocation("home")
//	nav := hashroute.NewNavigator(loc)
//	nav.ChangeRouteVars(hashroute.VarsOf("tab", "log"))
//	// loc.Read() == "home/tab=log"
//
// Each call parses the Location afresh; no RouteState is cached.
package hashroute
