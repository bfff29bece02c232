package blackjack

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/blackjackd/internal/randutil"
)

// Registry owns the process-wide mapping from room code to room. Rooms
// are created on first join and deleted when their last player leaves.
// Joins and deletions are serialized under the registry mutex so a join
// can never land in a room that is being torn down.
type Registry struct {
	cfg    Config
	clock  quartz.Clock
	logger *log.Logger
	seed   int64

	mu      sync.Mutex
	rooms   map[string]*Room
	created int64
}

// NewRegistry creates an empty registry. seed makes each room's shoe
// deterministic when fixed; pass something time-derived otherwise.
func NewRegistry(cfg Config, clock quartz.Clock, seed int64, logger *log.Logger) *Registry {
	return &Registry{
		cfg:    cfg,
		clock:  clock,
		logger: logger.WithPrefix("registry"),
		seed:   seed,
		rooms:  make(map[string]*Room),
	}
}

// Join seats a player in the room identified by code, creating the room
// on first join. A full room rejects with ErrRoomFull and leaves the
// player collection untouched.
func (reg *Registry) Join(code, name string, transport Transport) (*Room, *Player, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[code]
	if !ok {
		room = NewRoom(code, reg.cfg, reg.clock, randutil.New(reg.seed+reg.created), reg.logger)
		reg.rooms[code] = room
		reg.created++
		reg.logger.Info("room created", "code", code, "rooms", len(reg.rooms))
	}

	player, err := room.Join(name, transport)
	if err != nil {
		if !ok {
			// Never happens today (a fresh room cannot be full), but a
			// failed first join must not leave an empty room behind.
			delete(reg.rooms, code)
		}
		return nil, nil, err
	}
	return room, player, nil
}

// Leave removes the session from its room, deleting the room once empty.
// Disconnects route through here as well.
func (reg *Registry) Leave(room *Room, p *Player) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room.Leave(p) {
		if reg.rooms[room.Code()] == room {
			delete(reg.rooms, room.Code())
			reg.logger.Info("room deleted", "code", room.Code(), "rooms", len(reg.rooms))
		}
	}
}

// Get returns the room for a code, or nil.
func (reg *Registry) Get(code string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.rooms[code]
}

// RoomCount returns the number of live rooms.
func (reg *Registry) RoomCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// Shutdown cancels every room's pending timers. Connection teardown is
// the transport layer's job.
func (reg *Registry) Shutdown() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, room := range reg.rooms {
		room.CancelTimers()
	}
}
