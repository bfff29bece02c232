package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	config := DefaultServerConfig()

	assert.Equal(t, "localhost", config.Server.Address)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "info", config.Server.LogLevel)

	assert.Equal(t, 8, config.Game.MaxPlayers)
	assert.Equal(t, 5000, config.Game.InitialStack)
	assert.Equal(t, 6, config.Game.Decks)
	assert.Equal(t, 52, config.Game.ReshuffleThreshold)
	assert.Equal(t, 450, config.Game.DealPaceMs)
	assert.Equal(t, 20000, config.Game.TurnTimeoutMs)
	assert.Equal(t, 10000, config.Game.InsuranceWindowMs)

	assert.NoError(t, config.Validate())
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	config, err := LoadServerConfig("does-not-exist.hcl")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), config)
}

func TestLoadServerConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjackd.hcl")
	content := `
server {
  address = "0.0.0.0"
  port    = 9090
}

game {
  max_players  = 4
  deal_pace_ms = 100
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadServerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", config.Server.Address)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "info", config.Server.LogLevel, "unset fields fall back to defaults")

	assert.Equal(t, 4, config.Game.MaxPlayers)
	assert.Equal(t, 100, config.Game.DealPaceMs)
	assert.Equal(t, 5000, config.Game.InitialStack)
	assert.Equal(t, 20000, config.Game.TurnTimeoutMs)
}

func TestLoadServerConfigInvalidHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	_, err := LoadServerConfig(path)
	assert.Error(t, err)
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"port too low", func(c *ServerConfig) { c.Server.Port = 0 }},
		{"port too high", func(c *ServerConfig) { c.Server.Port = 70000 }},
		{"no players", func(c *ServerConfig) { c.Game.MaxPlayers = -1 }},
		{"no stack", func(c *ServerConfig) { c.Game.InitialStack = -5 }},
		{"no decks", func(c *ServerConfig) { c.Game.Decks = -1 }},
		{"threshold exceeds shoe", func(c *ServerConfig) { c.Game.ReshuffleThreshold = 6*52 + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultServerConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestGetServerAddress(t *testing.T) {
	config := DefaultServerConfig()
	assert.Equal(t, "localhost:8080", config.GetServerAddress())
}

func TestGameConfigConversion(t *testing.T) {
	config := DefaultServerConfig()
	config.Game.DealPaceMs = 25
	config.Game.TurnTimeoutMs = 1500

	game := config.GameConfig()
	assert.Equal(t, 25*time.Millisecond, game.DealPace)
	assert.Equal(t, 1500*time.Millisecond, game.TurnTimeout)
	assert.Equal(t, 8, game.MaxPlayers)
	assert.Equal(t, 6, game.Decks)
}
