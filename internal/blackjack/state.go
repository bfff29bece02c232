package blackjack

// CardState is the wire form of a card.
type CardState struct {
	ID   string `json:"id"`
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// PlayerState is the public view of a seated player.
type PlayerState struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Stack        int         `json:"stack"`
	Bet          int         `json:"bet"`
	InsuranceBet int         `json:"insuranceBet"`
	Ready        bool        `json:"ready"`
	Cards        []CardState `json:"cards"`
	Status       string      `json:"status"`
	Result       string      `json:"result,omitempty"`
}

// RoomState is the full public snapshot of a room, broadcast to every
// seated player after any mutation. It deliberately omits transports and
// timer internals.
type RoomState struct {
	Code        string        `json:"code"`
	Players     []PlayerState `json:"players"`
	DealerCards []CardState   `json:"dealer"`
	Phase       string        `json:"phase"`
	TurnIdx     int           `json:"turnIdx"`
	MaxPlayers  int           `json:"maxPlayers"`
}

// ChatMessage is a relayed chat line. Chat passes through the room's
// player list but is not part of the game state.
type ChatMessage struct {
	ID         string `json:"id"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

func cardStates(cards []Card) []CardState {
	out := make([]CardState, len(cards))
	for i, c := range cards {
		out[i] = CardState{ID: c.ID, Suit: c.Suit.String(), Rank: c.Rank.String()}
	}
	return out
}

func playerState(p *Player) PlayerState {
	return PlayerState{
		ID:           p.ID,
		Name:         p.Name,
		Stack:        p.Stack,
		Bet:          p.Bet,
		InsuranceBet: p.InsuranceBet,
		Ready:        p.Ready,
		Cards:        cardStates(p.Hand),
		Status:       p.Status.String(),
		Result:       p.Result.String(),
	}
}
