package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// settleHands installs the hands directly and runs settlement, bypassing
// the timer-paced walk exercised by the round tests.
func settleHands(t *testing.T, r *Room, p *Player, player, dealer Hand) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Hand = player
	r.dealer = dealer
	r.phase = PhaseDealer
	r.settleLocked()
}

func TestSettleOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		player Hand
		dealer Hand
		result Result
		stack  int // starting from 5000 with a 100 bet staked
	}{
		{
			"bust loses even against dealer bust",
			Hand{card(Spades, Ten), card(Hearts, Ten), card(Clubs, Five)},
			Hand{card(Diamonds, Ten), card(Spades, Nine), card(Hearts, Five)},
			ResultLose, 4900,
		},
		{
			"both naturals push",
			Hand{card(Spades, Ace), card(Hearts, King)},
			Hand{card(Diamonds, Ace), card(Clubs, Queen)},
			ResultPush, 5000,
		},
		{
			"natural pays three to two",
			Hand{card(Spades, Ace), card(Hearts, King)},
			Hand{card(Diamonds, Ten), card(Clubs, Nine)},
			ResultBlackjack, 5150,
		},
		{
			"three-card twenty-one is not a natural against dealer twenty-one",
			Hand{card(Spades, Seven), card(Hearts, Seven), card(Clubs, Seven)},
			Hand{card(Diamonds, Ten), card(Clubs, Ace)},
			ResultLose, 4900,
		},
		{
			"dealer bust pays even money",
			Hand{card(Spades, Ten), card(Hearts, Two)},
			Hand{card(Diamonds, Ten), card(Spades, Nine), card(Hearts, Five)},
			ResultWin, 5100,
		},
		{
			"higher value wins",
			Hand{card(Spades, Ten), card(Hearts, Nine)},
			Hand{card(Diamonds, Ten), card(Clubs, Eight)},
			ResultWin, 5100,
		},
		{
			"equal value pushes",
			Hand{card(Spades, Ten), card(Hearts, Eight)},
			Hand{card(Diamonds, Ten), card(Clubs, Eight)},
			ResultPush, 5000,
		},
		{
			"lower value loses",
			Hand{card(Spades, Ten), card(Hearts, Seven)},
			Hand{card(Diamonds, Ten), card(Clubs, Eight)},
			ResultLose, 4900,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRoom(t, testConfig())
			p, _ := joinPlayer(t, r, "alice")
			r.Bet(p, 100)

			settleHands(t, r, p, tt.player, tt.dealer)

			assert.Equal(t, tt.result, p.Result)
			assert.Equal(t, tt.stack, p.Stack)
			assert.Zero(t, p.Bet, "bets always zero after settlement")
		})
	}
}

func TestSettleInsurancePaidOnDealerNatural(t *testing.T) {
	r, _ := newTestRoom(t, testConfig())
	p, _ := joinPlayer(t, r, "alice")
	r.Bet(p, 100)

	r.mu.Lock()
	p.Stack -= 50
	p.InsuranceBet = 50
	r.mu.Unlock()

	settleHands(t, r, p,
		Hand{card(Spades, Ten), card(Hearts, Nine)},
		Hand{card(Diamonds, Ace), card(Clubs, King)},
	)

	// Main bet loses, insurance pays the stake back tripled: a wash.
	assert.Equal(t, ResultLose, p.Result)
	assert.Equal(t, 5000, p.Stack)
	assert.Zero(t, p.InsuranceBet)
}

func TestSettleInsuranceForfeitWithoutNatural(t *testing.T) {
	r, _ := newTestRoom(t, testConfig())
	p, _ := joinPlayer(t, r, "alice")
	r.Bet(p, 100)

	r.mu.Lock()
	p.Stack -= 50
	p.InsuranceBet = 50
	r.mu.Unlock()

	// Dealer has twenty-one on three cards: not a natural, no payout.
	settleHands(t, r, p,
		Hand{card(Spades, Ten), card(Hearts, Nine)},
		Hand{card(Diamonds, Ace), card(Clubs, Five), card(Spades, Five)},
	)

	assert.Equal(t, ResultLose, p.Result)
	assert.Equal(t, 4850, p.Stack)
	assert.Zero(t, p.InsuranceBet)
}

func TestSettleResultPhaseAndBroadcast(t *testing.T) {
	r, _ := newTestRoom(t, testConfig())
	p, ft := joinPlayer(t, r, "alice")
	r.Bet(p, 100)

	settleHands(t, r, p,
		Hand{card(Spades, Ten), card(Hearts, Nine)},
		Hand{card(Diamonds, Ten), card(Clubs, Eight)},
	)

	state, ok := ft.lastState()
	assert.True(t, ok)
	assert.Equal(t, "RESULT", state.Phase)
	assert.Equal(t, "WIN", state.Players[0].Result)
	assert.Zero(t, state.Players[0].Bet)
}
