package blackjack

import (
	"sync"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestRegistry(t *testing.T, cfg Config) *Registry {
	t.Helper()
	return NewRegistry(cfg, quartz.NewMock(t), 1, testLogger())
}

func TestRegistryCreatesRoomOnFirstJoin(t *testing.T) {
	reg := newTestRegistry(t, testConfig())

	room, p, err := reg.Join("AAAA", "alice", &fakeTransport{})
	require.NoError(t, err)
	assert.Equal(t, "AAAA", room.Code())
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, 1, reg.RoomCount())
	assert.Same(t, room, reg.Get("AAAA"))
}

func TestRegistrySharesRoomByCode(t *testing.T) {
	reg := newTestRegistry(t, testConfig())

	roomA, _, err := reg.Join("AAAA", "alice", &fakeTransport{})
	require.NoError(t, err)
	roomB, _, err := reg.Join("AAAA", "bob", &fakeTransport{})
	require.NoError(t, err)

	assert.Same(t, roomA, roomB)
	assert.Equal(t, 1, reg.RoomCount())
	assert.Len(t, roomA.Snapshot().Players, 2)
}

func TestRegistryIsolatesRoomsByCode(t *testing.T) {
	reg := newTestRegistry(t, testConfig())

	roomA, _, err := reg.Join("AAAA", "alice", &fakeTransport{})
	require.NoError(t, err)
	roomB, _, err := reg.Join("BBBB", "bob", &fakeTransport{})
	require.NoError(t, err)

	assert.NotSame(t, roomA, roomB)
	assert.Equal(t, 2, reg.RoomCount())
	assert.Len(t, roomA.Snapshot().Players, 1)
	assert.Len(t, roomB.Snapshot().Players, 1)
}

func TestRegistryDeletesRoomWhenEmpty(t *testing.T) {
	reg := newTestRegistry(t, testConfig())

	room, alice, err := reg.Join("AAAA", "alice", &fakeTransport{})
	require.NoError(t, err)
	_, bob, err := reg.Join("AAAA", "bob", &fakeTransport{})
	require.NoError(t, err)

	reg.Leave(room, alice)
	assert.Equal(t, 1, reg.RoomCount(), "occupied room survives a leave")

	reg.Leave(room, bob)
	assert.Equal(t, 0, reg.RoomCount())
	assert.Nil(t, reg.Get("AAAA"))
}

func TestRegistryRejoinAfterDeleteGetsFreshRoom(t *testing.T) {
	reg := newTestRegistry(t, testConfig())

	room, p, err := reg.Join("AAAA", "alice", &fakeTransport{})
	require.NoError(t, err)
	reg.Leave(room, p)

	fresh, _, err := reg.Join("AAAA", "alice", &fakeTransport{})
	require.NoError(t, err)
	assert.NotSame(t, room, fresh)
	assert.Len(t, fresh.Snapshot().Players, 1)
}

func TestRegistryFullRoomRejects(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPlayers = 1
	reg := newTestRegistry(t, cfg)

	room, _, err := reg.Join("AAAA", "alice", &fakeTransport{})
	require.NoError(t, err)

	_, _, err = reg.Join("AAAA", "bob", &fakeTransport{})
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Len(t, room.Snapshot().Players, 1)
	assert.Equal(t, 1, reg.RoomCount(), "rejected join must not tear the room down")
}

func TestRegistryConcurrentJoins(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPlayers = 8
	reg := newTestRegistry(t, cfg)

	var mu sync.Mutex
	seated, rejected := 0, 0

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, _, err := reg.Join("AAAA", "player", &fakeTransport{})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rejected++
			} else {
				seated++
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 8, seated)
	assert.Equal(t, 8, rejected)
	assert.Equal(t, 1, reg.RoomCount())
	assert.Len(t, reg.Get("AAAA").Snapshot().Players, 8)
}

func TestRegistryShutdownCancelsTimers(t *testing.T) {
	cfg := testConfig()
	clock := quartz.NewMock(t)
	reg := NewRegistry(cfg, clock, 1, testLogger())

	room, p, err := reg.Join("AAAA", "alice", &fakeTransport{})
	require.NoError(t, err)
	room.Bet(p, 100)
	room.Ready(p, true)
	room.Start(p)
	require.Equal(t, "DEALING", room.Snapshot().Phase)

	reg.Shutdown()

	// The pending deal timer was canceled; time passing deals nothing.
	advance(t, clock, cfg.DealPace)
	assert.Equal(t, "DEALING", room.Snapshot().Phase)
	assert.Len(t, p.Hand, 1)
}
