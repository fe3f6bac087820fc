// Package bridge connects browser tabs to server-side hash navigation.
//
// Each websocket connection becomes a Session. A Session is a
// hashroute.Location: reading it returns the fragment the browser last
// reported, writing it queues a "sethash" message that the thin client
// applies to window.location.hash. Server code therefore navigates a tab
// through the same Navigator API used everywhere else:
//
//	srv := bridge.New(bridge.Config{
//	    OnSession: func(s *bridge.Session) {
//	        s.Navigator().ChangePage("home")
//	    },
//	})
//	http.ListenAndServe(":7070", srv)
//
// The router also serves the thin client at /client.js and a small JSON API
// for parsing, formatting, and sharing fragments.
//
// # Wire Protocol
//
// Messages are JSON text frames with a "type" field.
//
// Client to server:
//
//	{"type":"hello","hash":"home/x=1"}       initial fragment after connect
//	{"type":"hashchange","hash":"home/x=2"}  user navigated
//
// Server to client:
//
//	{"type":"welcome","session":"<id>","hash":""}
//	{"type":"sethash","hash":"home/x=3"}
//	{"type":"error","message":"..."}
//
// Hashes travel without the leading "#".
package bridge
