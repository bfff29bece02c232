package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/blackjackd/internal/blackjack"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings exposes every room limit and timing as configuration so
// the game core never hardcodes them (and tests can compress the clock).
type GameSettings struct {
	MaxPlayers         int `hcl:"max_players,optional"`
	InitialStack       int `hcl:"initial_stack,optional"`
	Decks              int `hcl:"decks,optional"`
	ReshuffleThreshold int `hcl:"reshuffle_threshold,optional"`

	ShufflePauseMs      int `hcl:"shuffle_pause_ms,optional"`
	DealPaceMs          int `hcl:"deal_pace_ms,optional"`
	TurnTimeoutMs       int `hcl:"turn_timeout_ms,optional"`
	InsuranceWindowMs   int `hcl:"insurance_window_ms,optional"`
	DealerRevealPauseMs int `hcl:"dealer_reveal_pause_ms,optional"`
	DealerPaceMs        int `hcl:"dealer_pace_ms,optional"`
	SettlePauseMs       int `hcl:"settle_pause_ms,optional"`
	ResultDisplayMs     int `hcl:"result_display_ms,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	game := blackjack.DefaultConfig()
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			MaxPlayers:          game.MaxPlayers,
			InitialStack:        game.InitialStack,
			Decks:               game.Decks,
			ReshuffleThreshold:  game.ReshuffleThreshold,
			ShufflePauseMs:      int(game.ShufflePause / time.Millisecond),
			DealPaceMs:          int(game.DealPace / time.Millisecond),
			TurnTimeoutMs:       int(game.TurnTimeout / time.Millisecond),
			InsuranceWindowMs:   int(game.InsuranceWindow / time.Millisecond),
			DealerRevealPauseMs: int(game.DealerRevealPause / time.Millisecond),
			DealerPaceMs:        int(game.DealerPace / time.Millisecond),
			SettlePauseMs:       int(game.SettlePause / time.Millisecond),
			ResultDisplayMs:     int(game.ResultDisplay / time.Millisecond),
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file, falling
// back to defaults when the file does not exist.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills any unset field from the default configuration.
func (c *ServerConfig) applyDefaults() {
	def := DefaultServerConfig()

	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}

	g, d := &c.Game, def.Game
	if g.MaxPlayers == 0 {
		g.MaxPlayers = d.MaxPlayers
	}
	if g.InitialStack == 0 {
		g.InitialStack = d.InitialStack
	}
	if g.Decks == 0 {
		g.Decks = d.Decks
	}
	if g.ReshuffleThreshold == 0 {
		g.ReshuffleThreshold = d.ReshuffleThreshold
	}
	if g.ShufflePauseMs == 0 {
		g.ShufflePauseMs = d.ShufflePauseMs
	}
	if g.DealPaceMs == 0 {
		g.DealPaceMs = d.DealPaceMs
	}
	if g.TurnTimeoutMs == 0 {
		g.TurnTimeoutMs = d.TurnTimeoutMs
	}
	if g.InsuranceWindowMs == 0 {
		g.InsuranceWindowMs = d.InsuranceWindowMs
	}
	if g.DealerRevealPauseMs == 0 {
		g.DealerRevealPauseMs = d.DealerRevealPauseMs
	}
	if g.DealerPaceMs == 0 {
		g.DealerPaceMs = d.DealerPaceMs
	}
	if g.SettlePauseMs == 0 {
		g.SettlePauseMs = d.SettlePauseMs
	}
	if g.ResultDisplayMs == 0 {
		g.ResultDisplayMs = d.ResultDisplayMs
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.MaxPlayers < 1 {
		return fmt.Errorf("max players must be positive")
	}
	if c.Game.InitialStack < 1 {
		return fmt.Errorf("initial stack must be positive")
	}
	if c.Game.Decks < 1 {
		return fmt.Errorf("at least one deck is required")
	}
	if c.Game.ReshuffleThreshold < 0 || c.Game.ReshuffleThreshold > c.Game.Decks*52 {
		return fmt.Errorf("reshuffle threshold must be within shoe size")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameConfig converts the settings into the game core's configuration.
func (c *ServerConfig) GameConfig() blackjack.Config {
	g := c.Game
	return blackjack.Config{
		MaxPlayers:         g.MaxPlayers,
		InitialStack:       g.InitialStack,
		Decks:              g.Decks,
		ReshuffleThreshold: g.ReshuffleThreshold,
		ShufflePause:       time.Duration(g.ShufflePauseMs) * time.Millisecond,
		DealPace:           time.Duration(g.DealPaceMs) * time.Millisecond,
		TurnTimeout:        time.Duration(g.TurnTimeoutMs) * time.Millisecond,
		InsuranceWindow:    time.Duration(g.InsuranceWindowMs) * time.Millisecond,
		DealerRevealPause:  time.Duration(g.DealerRevealPauseMs) * time.Millisecond,
		DealerPace:         time.Duration(g.DealerPaceMs) * time.Millisecond,
		SettlePause:        time.Duration(g.SettlePauseMs) * time.Millisecond,
		ResultDisplay:      time.Duration(g.ResultDisplayMs) * time.Millisecond,
	}
}
