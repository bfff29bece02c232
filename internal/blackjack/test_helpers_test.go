package blackjack

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/blackjackd/internal/randutil"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// testConfig disables the reshuffle threshold so tests can install a
// crafted shoe without a round-start regenerate wiping it out.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ReshuffleThreshold = 0
	return cfg
}

func newTestRoom(t *testing.T, cfg Config) (*Room, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	return NewRoom("TEST", cfg, clock, randutil.New(42), testLogger()), clock
}

func advance(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(d).MustWait(ctx)
}

// setShoe replaces the room's draw pile with a crafted sequence.
func setShoe(r *Room, cards ...Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shoe.cards = cards
}

// fakeTransport records everything the room pushes at a player.
type fakeTransport struct {
	mu      sync.Mutex
	states  []RoomState
	chats   []ChatMessage
	errors  []string
	failing bool
	closed  bool
}

func (f *fakeTransport) SendState(state RoomState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("transport broken")
	}
	f.states = append(f.states, state)
	return nil
}

func (f *fakeTransport) SendChat(msg ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("transport broken")
	}
	f.chats = append(f.chats, msg)
	return nil
}

func (f *fakeTransport) SendError(code, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, code+": "+message)
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) lastState() (RoomState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.states) == 0 {
		return RoomState{}, false
	}
	return f.states[len(f.states)-1], true
}

func (f *fakeTransport) stateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.states)
}

func (f *fakeTransport) chatCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chats)
}

// card is shorthand for building crafted shoes in tests.
func card(suit Suit, rank Rank) Card {
	return NewCard(0, suit, rank)
}
