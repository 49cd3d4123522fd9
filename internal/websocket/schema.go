package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

// Event tags every message relayed to a monitoring client.
type Event string

const (
	EventSnapshot  Event = "snapshot"
	EventViolation Event = "violation"
	EventPing      Event = "ping"
	EventError     Event = "error"
)

// PingMessage keeps idle monitor connections alive.
type PingMessage struct {
	Type Event `json:"type"`
}

// ErrorMessage reports a terminal stream error before closing.
type ErrorMessage struct {
	Type  Event  `json:"type"`
	Error string `json:"error"`
}
