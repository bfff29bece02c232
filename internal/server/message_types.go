package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeJoin      MessageType = "join"
	MessageTypeLeave     MessageType = "leave"
	MessageTypeChat      MessageType = "chat"
	MessageTypeReady     MessageType = "ready"
	MessageTypeBet       MessageType = "bet"
	MessageTypeClearBet  MessageType = "clearbet"
	MessageTypeInsurance MessageType = "insurance"
	MessageTypeStart     MessageType = "start"
	MessageTypeHit       MessageType = "hit"
	MessageTypeStand     MessageType = "stand"
	MessageTypeDouble    MessageType = "double"

	// Server to client messages
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
