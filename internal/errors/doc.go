// Package errors provides coded, actionable errors for the hashnav CLI,
// configuration loader, bridge server, and link stores.
//
// The fragment codec itself never returns errors; everything around it does.
//
// # Categories
//
//   - config: hashnav.json / hashnav.yaml problems
//   - cli: bad command-line input
//   - bridge: websocket and HTTP bridge failures
//   - links: shared-link storage failures
//
// # Usage
//
//	err := errors.New("E101").
//	    WithField("server.address").
//	    WithSuggestion(`Use "host:port", e.g. "localhost:7070"`).
//	    Wrap(cause)
//
//	errors.PrintError(err)
//	// ERROR E101: Invalid configuration value
//	//
//	//   field: server.address
//	//
//	//   Hint: Use "host:port", e.g. "localhost:7070"
package errors
