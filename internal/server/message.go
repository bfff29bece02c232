package server

import (
	"encoding/json"

	"github.com/cardroom/blackjackd/internal/blackjack"
)

// Inbound is the client-to-server message envelope. Payload stays raw
// until the type is known; unparseable payloads are dropped silently.
type Inbound struct {
	Type    MessageType     `json:"type"`
	RoomID  string          `json:"roomId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload carries an optional display name.
type JoinPayload struct {
	Name string `json:"name,omitempty"`
}

// BetPayload carries a chip amount.
type BetPayload struct {
	Value int `json:"value"`
}

// ReadyPayload carries the new ready flag.
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// ChatPayload carries a chat line.
type ChatPayload struct {
	Text string `json:"text"`
}

// StateMessage is the full-room snapshot broadcast after any mutation.
type StateMessage struct {
	Type  MessageType         `json:"type"`
	State blackjack.RoomState `json:"state"`
}

// ChatRelayMessage relays a chat line to everyone in a room.
type ChatRelayMessage struct {
	Type    MessageType           `json:"type"`
	Message blackjack.ChatMessage `json:"message"`
}

// ErrorMessage notifies a single client of a rejected request (e.g. a
// full room) before its connection is closed.
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
}
