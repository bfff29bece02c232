package blackjack

import "strings"

// Hand is an ordered sequence of cards held by a player or the dealer.
// Value is computed on demand; hands only ever grow within a round.
type Hand []Card

// Value returns the blackjack value of the hand. Aces count 11 and are
// softened to 1 one at a time while the total exceeds 21.
func (h Hand) Value() int {
	sum := 0
	aces := 0
	for _, c := range h {
		if c.IsAce() {
			aces++
		}
		sum += c.Rank.BlackjackValue()
	}
	for sum > 21 && aces > 0 {
		sum -= 10
		aces--
	}
	return sum
}

// IsBlackjack returns true for a natural: two cards totalling 21.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

// IsBust returns true if the hand value exceeds 21.
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// String returns the hand as space-separated cards (e.g., "A♠ 10♥")
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
