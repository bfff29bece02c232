package blackjack

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Phase identifies where a room is in its round lifecycle. The phase is
// the sole authority for which player actions are currently valid.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseShuffling
	PhaseDealing
	PhaseInsurance
	PhasePlayer
	PhaseDealer
	PhaseResult
)

// String returns the wire representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "LOBBY"
	case PhaseShuffling:
		return "SHUFFLING"
	case PhaseDealing:
		return "DEALING"
	case PhaseInsurance:
		return "INSURANCE"
	case PhasePlayer:
		return "PLAYER"
	case PhaseDealer:
		return "DEALER"
	case PhaseResult:
		return "RESULT"
	default:
		return "UNKNOWN"
	}
}

// ErrRoomFull rejects a join once a room has reached its seat limit.
var ErrRoomFull = errors.New("room is full")

// Room is one independent blackjack table: its players in join order, the
// dealer hand, the shoe, and the current phase. All mutations go through
// the room mutex, so player actions and timer expiries are totally
// ordered per room while separate rooms run fully in parallel.
type Room struct {
	code   string
	cfg    Config
	clock  quartz.Clock
	logger *log.Logger

	mu       sync.Mutex
	players  []*Player
	dealer   Hand
	shoe     *Shoe
	phase    Phase
	turnIdx  int
	timer    *quartz.Timer
	timerGen uint64

	// remaining deal targets for the current DEALING phase; nil entry
	// means the dealer
	dealQueue []*Player
}

// NewRoom creates an empty lobby with a freshly shuffled shoe.
func NewRoom(code string, cfg Config, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Room {
	return &Room{
		code:    code,
		cfg:     cfg,
		clock:   clock,
		logger:  logger.WithPrefix("room").With("code", code),
		shoe:    NewShoe(cfg.Decks, cfg.ReshuffleThreshold, rng),
		phase:   PhaseLobby,
		turnIdx: -1,
	}
}

// Code returns the room's join code.
func (r *Room) Code() string {
	return r.code
}

// Snapshot returns the current public state of the room.
func (r *Room) Snapshot() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() RoomState {
	players := make([]PlayerState, len(r.players))
	for i, p := range r.players {
		players[i] = playerState(p)
	}
	return RoomState{
		Code:        r.code,
		Players:     players,
		DealerCards: cardStates(r.dealer),
		Phase:       r.phase.String(),
		TurnIdx:     r.turnIdx,
		MaxPlayers:  r.cfg.MaxPlayers,
	}
}

// Join seats a new player session. The session starts with the configured
// stack, no bet, and not ready. Sessions joining mid-round hold no cards
// and sit out until the next deal.
func (r *Room) Join(name string, transport Transport) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= r.cfg.MaxPlayers {
		return nil, ErrRoomFull
	}

	if name == "" {
		name = "Player"
	}
	p := &Player{
		ID:        newPlayerID(),
		Name:      name,
		Stack:     r.cfg.InitialStack,
		transport: transport,
	}
	r.players = append(r.players, p)

	r.logger.Info("player joined", "player", p.Name, "seats", fmt.Sprintf("%d/%d", len(r.players), r.cfg.MaxPlayers))
	r.broadcastLocked()
	return p, nil
}

// Leave removes a session from the room and returns true if the room is
// now empty. The last leaver cancels any pending timer; the registry
// deletes the room. If it was the leaver's turn, the turn advances as a
// stand would.
func (r *Room) Leave(p *Player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, other := range r.players {
		if other == p {
			idx = i
			break
		}
	}
	if idx == -1 {
		return len(r.players) == 0
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	r.logger.Info("player left", "player", p.Name, "remaining", len(r.players))

	if len(r.players) == 0 {
		r.cancelTimerLocked()
		return true
	}

	if r.phase == PhasePlayer {
		switch {
		case idx < r.turnIdx:
			r.turnIdx--
		case idx == r.turnIdx:
			r.turnIdx = idx - 1
			r.advanceTurnLocked()
			return false
		}
	}

	r.broadcastLocked()
	return false
}

// Ready toggles a player's ready flag. Lobby only.
func (r *Room) Ready(p *Player, ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby || !r.seatedLocked(p) {
		return
	}
	p.Ready = ready
	r.broadcastLocked()
}

// Bet adds to a player's bet, debiting the stack immediately. Lobby only;
// amounts the stack cannot cover are ignored.
func (r *Room) Bet(p *Player, amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby || !r.seatedLocked(p) {
		return
	}
	if amount <= 0 || p.Stack < amount {
		return
	}
	p.Stack -= amount
	p.Bet += amount
	r.logger.Debug("bet placed", "player", p.Name, "amount", amount, "total", p.Bet)
	r.broadcastLocked()
}

// ClearBet refunds a player's pending bet. Lobby only.
func (r *Room) ClearBet(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby || !r.seatedLocked(p) || p.Bet == 0 {
		return
	}
	p.Stack += p.Bet
	p.Bet = 0
	r.broadcastLocked()
}

// Insurance places an insurance side bet of half the main bet. Only valid
// during the insurance window, once per round, and only if the stack
// covers it.
func (r *Room) Insurance(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseInsurance || !r.seatedLocked(p) || !p.InRound() {
		return
	}
	stake := p.Bet / 2
	if stake <= 0 || p.InsuranceBet > 0 || p.Stack < stake {
		return
	}
	p.Stack -= stake
	p.InsuranceBet = stake
	p.Status = StatusInsured
	r.logger.Debug("insurance bought", "player", p.Name, "stake", stake)
	r.broadcastLocked()

	if r.insuranceSettledLocked() {
		r.enterPlayerPhaseLocked()
	}
}

// Start begins a round once every seated player is ready with a positive
// bet. Any seated player may issue it; otherwise it is a no-op.
func (r *Room) Start(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby || !r.seatedLocked(p) {
		return
	}
	for _, other := range r.players {
		if !other.Ready || other.Bet <= 0 {
			return
		}
	}
	r.logger.Info("round starting", "players", len(r.players))
	r.startRoundLocked()
}

// Hit deals the acting player one more card. Busting ends the turn.
func (r *Room) Hit(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isTurnLocked(p) {
		return
	}
	card, err := r.shoe.Draw()
	if err != nil {
		r.abortRoundLocked(err)
		return
	}
	p.Hand = append(p.Hand, card)
	r.logger.Debug("hit", "player", p.Name, "card", card.String(), "value", p.Hand.Value())
	if p.Hand.IsBust() {
		p.Status = StatusBust
		r.advanceTurnLocked()
		return
	}
	r.broadcastLocked()
}

// Stand ends the acting player's turn.
func (r *Room) Stand(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isTurnLocked(p) {
		return
	}
	p.Status = StatusStood
	r.advanceTurnLocked()
}

// Double doubles the acting player's bet, deals exactly one card, and
// ends the turn. Requires exactly two cards held and a stack covering the
// second stake.
func (r *Room) Double(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isTurnLocked(p) {
		return
	}
	if len(p.Hand) != 2 || p.Stack < p.Bet {
		return
	}
	p.Stack -= p.Bet
	p.Bet *= 2
	card, err := r.shoe.Draw()
	if err != nil {
		r.abortRoundLocked(err)
		return
	}
	p.Hand = append(p.Hand, card)
	if p.Hand.IsBust() {
		p.Status = StatusBust
	} else {
		p.Status = StatusStood
	}
	r.logger.Debug("double down", "player", p.Name, "card", card.String(), "value", p.Hand.Value())
	r.advanceTurnLocked()
}

// Chat relays a chat line to everyone in the room. Chat never touches
// game state.
func (r *Room) Chat(p *Player, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.seatedLocked(p) || text == "" {
		return
	}
	msg := ChatMessage{
		ID:         strconv.FormatInt(r.clock.Now().UnixNano(), 10),
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Text:       text,
		Timestamp:  r.clock.Now().UnixMilli(),
	}
	for _, other := range r.players {
		if err := other.transport.SendChat(msg); err != nil {
			r.logger.Error("failed to send chat", "player", other.Name, "error", err)
		}
	}
}

// seatedLocked reports whether p still holds a seat in this room.
func (r *Room) seatedLocked(p *Player) bool {
	for _, other := range r.players {
		if other == p {
			return true
		}
	}
	return false
}

// isTurnLocked reports whether it is p's turn to act.
func (r *Room) isTurnLocked(p *Player) bool {
	return r.phase == PhasePlayer &&
		r.turnIdx >= 0 && r.turnIdx < len(r.players) &&
		r.players[r.turnIdx] == p
}

// broadcastLocked sends the current snapshot to every seated player. A
// failed send is logged and skipped; it never affects the others.
func (r *Room) broadcastLocked() {
	state := r.snapshotLocked()
	for _, p := range r.players {
		if err := p.transport.SendState(state); err != nil {
			r.logger.Error("failed to send state", "player", p.Name, "error", err)
		}
	}
}

// armTimerLocked schedules fn after d, superseding any pending timer. The
// callback re-enters through the room mutex and checks the generation
// counter, so a timer canceled before it runs is a guaranteed no-op even
// if it already fired.
func (r *Room) armTimerLocked(d time.Duration, fn func()) {
	r.cancelTimerLocked()
	gen := r.timerGen
	r.timer = r.clock.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if gen != r.timerGen {
			return
		}
		r.timer = nil
		fn()
	})
}

// cancelTimerLocked releases the pending timer handle, if any.
func (r *Room) cancelTimerLocked() {
	r.timerGen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// CancelTimers releases any pending timer; used when tearing the room down.
func (r *Room) CancelTimers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelTimerLocked()
}

const playerIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newPlayerID returns a short random session token. There is no identity
// system; the token only needs to be unique enough for display routing.
func newPlayerID() string {
	b := make([]byte, 7)
	for i := range b {
		b[i] = playerIDAlphabet[rand.IntN(len(playerIDAlphabet))]
	}
	return string(b)
}
