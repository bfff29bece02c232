package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/blackjackd/internal/blackjack"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client. It is the
// player's transport handle: the game core pushes state snapshots, chat
// relays, and errors through it, and inbound actions route from here into
// the player's room.
type Connection struct {
	conn      *websocket.Conn
	send      chan any
	logger    *log.Logger
	registry  *blackjack.Registry
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once

	room   *blackjack.Room
	player *blackjack.Player
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, registry *blackjack.Registry) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:     conn,
		send:     make(chan any, 256),
		logger:   logger.WithPrefix("conn"),
		registry: registry,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendState implements blackjack.Transport
func (c *Connection) SendState(state blackjack.RoomState) error {
	return c.enqueue(StateMessage{Type: MessageTypeState, State: state})
}

// SendChat implements blackjack.Transport
func (c *Connection) SendChat(msg blackjack.ChatMessage) error {
	return c.enqueue(ChatRelayMessage{Type: MessageTypeChat, Message: msg})
}

// SendError implements blackjack.Transport
func (c *Connection) SendError(code, message string) error {
	return c.enqueue(ErrorMessage{Type: MessageTypeError, Code: code, Message: message})
}

// enqueue hands a message to the write pump without blocking the caller.
func (c *Connection) enqueue(msg any) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("attempted to send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) session() (*blackjack.Room, *blackjack.Player) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room, c.player
}

func (c *Connection) setSession(room *blackjack.Room, player *blackjack.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = room
	c.player = player
}

// readPump handles incoming messages from the client. Closing the socket
// is equivalent to issuing leave for the session.
func (c *Connection) readPump() {
	defer func() {
		c.leaveRoom()
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			// Unparseable frames are dropped; only close errors end the pump.
			if _, ok := err.(*json.SyntaxError); ok {
				continue
			}
			if _, ok := err.(*json.UnmarshalTypeError); ok {
				continue
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage routes an inbound event. The dispatcher is total: actions
// that don't match the current phase or turn are no-ops inside the room,
// and unknown types are dropped without surfacing an error.
func (c *Connection) handleMessage(msg *Inbound) {
	c.logger.Debug("received message", "type", msg.Type, "room", msg.RoomID)

	if msg.Type == MessageTypeJoin {
		c.handleJoin(msg)
		return
	}

	room, player := c.session()
	if room == nil || player == nil {
		return
	}

	switch msg.Type {
	case MessageTypeLeave:
		c.leaveRoom()
		_ = c.Close()

	case MessageTypeChat:
		var payload ChatPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		room.Chat(player, strings.TrimSpace(payload.Text))

	case MessageTypeReady:
		var payload ReadyPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		room.Ready(player, payload.Ready)

	case MessageTypeBet:
		var payload BetPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		room.Bet(player, payload.Value)

	case MessageTypeClearBet:
		room.ClearBet(player)

	case MessageTypeInsurance:
		room.Insurance(player)

	case MessageTypeStart:
		room.Start(player)

	case MessageTypeHit:
		room.Hit(player)

	case MessageTypeStand:
		room.Stand(player)

	case MessageTypeDouble:
		room.Double(player)

	default:
		c.logger.Debug("ignoring unknown message type", "type", msg.Type)
	}
}

func (c *Connection) handleJoin(msg *Inbound) {
	if room, _ := c.session(); room != nil {
		return // already seated
	}
	if msg.RoomID == "" {
		return
	}

	var payload JoinPayload
	if len(msg.Payload) > 0 {
		// Optional payload; a bad one just means a default name.
		_ = json.Unmarshal(msg.Payload, &payload)
	}

	room, player, err := c.registry.Join(msg.RoomID, strings.TrimSpace(payload.Name), c)
	if err != nil {
		c.logger.Info("join rejected", "room", msg.RoomID, "error", err)
		_ = c.SendError("room_full", fmt.Sprintf("Room is full! (%s)", msg.RoomID))
		// Give the write pump a beat to flush before tearing down.
		time.AfterFunc(100*time.Millisecond, func() { _ = c.Close() })
		return
	}

	c.setSession(room, player)
}

// leaveRoom detaches the connection's session from its room, if any.
func (c *Connection) leaveRoom() {
	room, player := c.session()
	if room == nil || player == nil {
		return
	}
	c.setSession(nil, nil)
	c.registry.Leave(room, player)
}
