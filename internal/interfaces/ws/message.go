package ws

import "encoding/json"

const (
	messageEvent    = "event"
	messageRequest  = "request"
	messageResponse = "response"
)

// message is the envelope of every frame exchanged with the wallet client.
// Events carry the event tag in Event, requests and responses are matched
// by ID.
type message struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Event   string          `json:"event,omitempty"`
	Method  string          `json:"method,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}
