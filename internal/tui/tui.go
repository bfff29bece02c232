package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/cardroom/blackjackd/internal/blackjack"
	"github.com/cardroom/blackjackd/internal/server"
)

// Config holds the connection settings for the interactive client.
type Config struct {
	Server string
	Room   string
	Name   string
}

// Run connects to the server, joins the room, and drives the terminal UI
// until the user quits or the connection drops.
func Run(cfg Config) error {
	if cfg.Name == "" {
		cfg.Name = os.Getenv("USER")
		if cfg.Name == "" {
			cfg.Name = "Player"
		}
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.Server, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Server, err)
	}

	m := newModel(cfg, conn)
	p := tea.NewProgram(m, tea.WithAltScreen())

	go readLoop(conn, p)

	if err := m.sendEvent(server.MessageTypeJoin, server.JoinPayload{Name: cfg.Name}); err != nil {
		_ = conn.Close()
		return err
	}

	_, err = p.Run()
	_ = conn.Close()
	return err
}

// Messages delivered to the bubbletea loop from the socket reader.

type stateMsg blackjack.RoomState

type chatMsg blackjack.ChatMessage

type serverErrMsg string

type disconnectMsg struct{ err error }

// readLoop decodes server frames and forwards them into the program.
func readLoop(conn *websocket.Conn, p *tea.Program) {
	for {
		var env struct {
			Type    string          `json:"type"`
			State   json.RawMessage `json:"state"`
			Message json.RawMessage `json:"message"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			p.Send(disconnectMsg{err: err})
			return
		}

		switch env.Type {
		case "state":
			var state blackjack.RoomState
			if json.Unmarshal(env.State, &state) == nil {
				p.Send(stateMsg(state))
			}
		case "chat":
			var msg blackjack.ChatMessage
			if json.Unmarshal(env.Message, &msg) == nil {
				p.Send(chatMsg(msg))
			}
		case "error":
			var text string
			if json.Unmarshal(env.Message, &text) == nil {
				p.Send(serverErrMsg(text))
			}
		}
	}
}

// Model is the bubbletea model for the blackjack client.
type Model struct {
	cfg  Config
	conn *websocket.Conn

	state    *blackjack.RoomState
	playerID string

	logViewport viewport.Model
	input       textinput.Model
	eventLog    []string

	width       int
	height      int
	initialized bool
	quitting    bool
	lastErr     string
}

func newModel(cfg Config, conn *websocket.Conn) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet 100 | ready | start | hit | stand | double | insurance | clear | or chat"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	return &Model{
		cfg:         cfg,
		conn:        conn,
		logViewport: vp,
		input:       ti,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// sendEvent writes one inbound event to the server. All writes happen on
// the Update goroutine, satisfying gorilla's single-writer rule.
func (m *Model) sendEvent(t server.MessageType, payload any) error {
	msg := server.Inbound{Type: t, RoomID: m.cfg.Room}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		msg.Payload = raw
	}
	return m.conn.WriteJSON(msg)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 4
		m.logViewport.Height = max(3, msg.Height-16)
		m.input.Width = msg.Width - 6
		m.initialized = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			_ = m.sendEvent(server.MessageTypeLeave, nil)
			return m, tea.Quit
		case tea.KeyEnter:
			m.handleCommand(strings.TrimSpace(m.input.Value()))
			m.input.Reset()
		}

	case stateMsg:
		state := blackjack.RoomState(msg)
		m.trackSelf(&state)
		m.logPhaseChange(&state)
		m.state = &state

	case chatMsg:
		m.appendLog(fmt.Sprintf("%s: %s", msg.PlayerName, msg.Text))

	case serverErrMsg:
		m.lastErr = string(msg)
		m.appendLog(ErrorStyle.Render("error: " + string(msg)))

	case disconnectMsg:
		if !m.quitting {
			m.lastErr = "disconnected from server"
		}
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// trackSelf remembers our player ID from the first snapshot that
// contains our display name.
func (m *Model) trackSelf(state *blackjack.RoomState) {
	if m.playerID != "" {
		return
	}
	for _, p := range state.Players {
		if p.Name == m.cfg.Name {
			m.playerID = p.ID
			return
		}
	}
}

func (m *Model) logPhaseChange(state *blackjack.RoomState) {
	if m.state == nil || m.state.Phase != state.Phase {
		m.appendLog(InfoStyle.Render("phase: " + state.Phase))
	}
}

func (m *Model) appendLog(line string) {
	m.eventLog = append(m.eventLog, line)
	if len(m.eventLog) > 200 {
		m.eventLog = m.eventLog[len(m.eventLog)-200:]
	}
	m.logViewport.SetContent(strings.Join(m.eventLog, "\n"))
	m.logViewport.GotoBottom()
}

// handleCommand maps an input line to a game action; anything that isn't
// a recognized command is sent as chat.
func (m *Model) handleCommand(line string) {
	if line == "" {
		return
	}
	fields := strings.Fields(strings.ToLower(line))

	switch fields[0] {
	case "bet":
		if len(fields) == 2 {
			if v, err := strconv.Atoi(fields[1]); err == nil {
				_ = m.sendEvent(server.MessageTypeBet, server.BetPayload{Value: v})
				return
			}
		}
		m.appendLog(ErrorStyle.Render("usage: bet <amount>"))
	case "clear", "clearbet":
		_ = m.sendEvent(server.MessageTypeClearBet, nil)
	case "ready":
		_ = m.sendEvent(server.MessageTypeReady, server.ReadyPayload{Ready: true})
	case "unready":
		_ = m.sendEvent(server.MessageTypeReady, server.ReadyPayload{Ready: false})
	case "start":
		_ = m.sendEvent(server.MessageTypeStart, nil)
	case "hit":
		_ = m.sendEvent(server.MessageTypeHit, nil)
	case "stand":
		_ = m.sendEvent(server.MessageTypeStand, nil)
	case "double":
		_ = m.sendEvent(server.MessageTypeDouble, nil)
	case "insurance":
		_ = m.sendEvent(server.MessageTypeInsurance, nil)
	case "leave", "quit", "exit":
		m.quitting = true
		_ = m.sendEvent(server.MessageTypeLeave, nil)
	default:
		_ = m.sendEvent(server.MessageTypeChat, server.ChatPayload{Text: line})
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.initialized || m.state == nil {
		return InfoStyle.Render(fmt.Sprintf("Connecting to room %s...", m.cfg.Room)) + "\n"
	}

	var b strings.Builder

	header := fmt.Sprintf(" Blackjack — room %s ", m.state.Code)
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("  ")
	b.WriteString(PhaseStyle.Render(m.state.Phase))
	b.WriteString("\n\n")

	b.WriteString(DealerStyle.Render("Dealer: "))
	b.WriteString(renderCards(m.state.DealerCards))
	b.WriteString("\n\n")

	for i, p := range m.state.Players {
		marker := "  "
		if i == m.state.TurnIdx {
			marker = TurnStyle.Render("▶ ")
		}
		self := ""
		if p.ID == m.playerID {
			self = " (you)"
		}
		line := fmt.Sprintf("%s%-12s stack %5d  bet %4d", marker, p.Name+self, p.Stack, p.Bet)
		if p.InsuranceBet > 0 {
			line += fmt.Sprintf("  ins %d", p.InsuranceBet)
		}
		if p.Ready {
			line += "  ready"
		}
		b.WriteString(PlayerInfoStyle.Render(line))
		b.WriteString("  ")
		b.WriteString(renderCards(p.Cards))
		if p.Status != "" {
			b.WriteString("  " + PhaseStyle.Render(p.Status))
		}
		if p.Result != "" {
			b.WriteString("  " + ResultStyle.Render(p.Result))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.logViewport.View())
	b.WriteString("\n")
	if m.lastErr != "" {
		b.WriteString(ErrorStyle.Render(m.lastErr))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("esc/ctrl+c to leave"))

	return b.String()
}

func renderCards(cards []blackjack.CardState) string {
	if len(cards) == 0 {
		return InfoStyle.Render("—")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		text := c.Rank + c.Suit
		if c.Suit == "♥" || c.Suit == "♦" {
			parts[i] = RedCardStyle.Render(text)
		} else {
			parts[i] = BlackCardStyle.Render(text)
		}
	}
	return strings.Join(parts, " ")
}
