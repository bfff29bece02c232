package blackjack

// Transport delivers outbound events to a single connected player. The
// game core treats it as fire-and-forget: a failed send is logged by the
// caller and never affects delivery to other players or room state.
type Transport interface {
	SendState(state RoomState) error
	SendChat(msg ChatMessage) error
	SendError(code, message string) error
	Close() error
}
