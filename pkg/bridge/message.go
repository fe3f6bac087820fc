package bridge

// Message types.
const (
	TypeHello      = "hello"
	TypeHashChange = "hashchange"
	TypeWelcome    = "welcome"
	TypeSetHash    = "sethash"
	TypeError      = "error"
)

// Message is a single websocket frame in either direction.
type Message struct {
	Type    string `json:"type"`
	Hash    string `json:"hash"`
	Session string `json:"session,omitempty"`
	Message string `json:"message,omitempty"`
}
