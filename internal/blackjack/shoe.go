package blackjack

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmptyShoe is returned when a card is drawn from an exhausted shoe.
// The orchestrator reshuffles between rounds before this can happen, so
// seeing it mid-round is an invariant violation that aborts the round.
var ErrEmptyShoe = errors.New("shoe is empty")

// Shoe is the live draw pile for a room: several 52-card decks shuffled
// together, drawn from the front. Cards drawn during a round are never
// returned mid-round.
type Shoe struct {
	cards     []Card
	decks     int
	threshold int
	rng       *rand.Rand
}

// NewShoe creates a freshly regenerated shoe of the given number of decks.
// threshold is the remaining-card count below which NeedsReshuffle reports
// true at the start of a round.
func NewShoe(decks, threshold int, rng *rand.Rand) *Shoe {
	s := &Shoe{
		decks:     decks,
		threshold: threshold,
		rng:       rng,
	}
	s.Regenerate()
	return s
}

// Draw removes and returns the front card of the shoe.
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrEmptyShoe
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// NeedsReshuffle returns true when too few cards remain for a full round.
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) < s.threshold
}

// Remaining returns the number of cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Regenerate rebuilds the full multi-deck shoe and shuffles it with a
// single Fisher-Yates pass over the whole sequence.
func (s *Shoe) Regenerate() {
	s.cards = make([]Card, 0, s.decks*52)
	for deckNum := 0; deckNum < s.decks; deckNum++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(deckNum, suit, rank))
			}
		}
	}
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}
