package main

import (
	"context"
	"time"

	"github.com/coder/quartz"

	"github.com/cardroom/blackjackd/cmd/blackjackd/shared"
	"github.com/cardroom/blackjackd/internal/blackjack"
	"github.com/cardroom/blackjackd/internal/server"
)

// ServerCmd contains core server configuration
type ServerCmd struct {
	Addr   string `kong:"help='Server address (overrides config file)'"`
	Config string `kong:"default='blackjackd.hcl',help='HCL configuration file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic shuffle seed (optional)'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}

	addr := c.Addr
	if addr == "" {
		addr = cfg.GetServerAddress()
	}

	gameCfg := cfg.GameConfig()
	registry := blackjack.NewRegistry(gameCfg, quartz.NewReal(), seed, logger)
	srv := server.NewServer(addr, registry, logger)

	logger.Info("starting blackjackd",
		"addr", addr,
		"max_players", gameCfg.MaxPlayers,
		"initial_stack", gameCfg.InitialStack,
		"decks", gameCfg.Decks,
		"turn_timeout", gameCfg.TurnTimeout,
	)

	ctx := shared.SetupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
