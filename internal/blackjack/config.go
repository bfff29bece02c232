package blackjack

import "time"

// Config carries the tunable limits and timings for a room. Tests inject
// compressed timings together with a mock clock; production uses
// DefaultConfig.
type Config struct {
	MaxPlayers         int
	InitialStack       int
	Decks              int
	ReshuffleThreshold int

	ShufflePause      time.Duration // SHUFFLING animation before dealing
	DealPace          time.Duration // delay between dealt cards
	TurnTimeout       time.Duration // per-player action countdown
	InsuranceWindow   time.Duration // how long the insurance offer stays open
	DealerRevealPause time.Duration // pause before the dealer starts drawing
	DealerPace        time.Duration // delay between dealer draws
	SettlePause       time.Duration // pause between dealer standing and settlement
	ResultDisplay     time.Duration // how long results stay up before the lobby resets
}

// DefaultConfig returns the house defaults.
func DefaultConfig() Config {
	return Config{
		MaxPlayers:         8,
		InitialStack:       5000,
		Decks:              6,
		ReshuffleThreshold: 52,
		ShufflePause:       2 * time.Second,
		DealPace:           450 * time.Millisecond,
		TurnTimeout:        20 * time.Second,
		InsuranceWindow:    10 * time.Second,
		DealerRevealPause:  time.Second,
		DealerPace:         800 * time.Millisecond,
		SettlePause:        time.Second,
		ResultDisplay:      5 * time.Second,
	}
}
