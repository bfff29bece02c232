package blackjack

// Status tracks where a player is within the current round.
type Status int

const (
	StatusPlaying Status = iota
	StatusInsured
	StatusStood
	StatusBust
	StatusTimeout
)

// String returns the wire representation of a status
func (s Status) String() string {
	switch s {
	case StatusInsured:
		return "INSURED"
	case StatusStood:
		return "DONE"
	case StatusBust:
		return "BUST"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return ""
	}
}

// Finished reports whether the player can take no further turns this round.
func (s Status) Finished() bool {
	return s == StatusStood || s == StatusBust || s == StatusTimeout
}

// Result is the settled outcome of a player's round.
type Result int

const (
	ResultNone Result = iota
	ResultWin
	ResultLose
	ResultPush
	ResultBlackjack
)

// String returns the wire representation of a result
func (r Result) String() string {
	switch r {
	case ResultWin:
		return "WIN"
	case ResultLose:
		return "LOSE"
	case ResultPush:
		return "PUSH"
	case ResultBlackjack:
		return "BLACKJACK"
	default:
		return ""
	}
}

// Player is a per-connection session seated at a room. Bets are debited
// from the stack the moment they are placed, so the stack never goes
// negative. A session never migrates between rooms.
type Player struct {
	ID           string
	Name         string
	Stack        int
	Bet          int
	InsuranceBet int
	Ready        bool
	Hand         Hand
	Status       Status
	Result       Result

	transport Transport
}

// InRound reports whether the player was dealt into the current round.
// Sessions that join mid-round have empty hands and sit out until the
// next deal.
func (p *Player) InRound() bool {
	return len(p.Hand) > 0
}

// resetRound clears all per-round state ahead of a new deal.
func (p *Player) resetRound() {
	p.Hand = nil
	p.Status = StatusPlaying
	p.Result = ResultNone
}
