package main

import (
	"strings"

	"github.com/cardroom/blackjackd/internal/tui"
)

type ClientCmd struct {
	Server string `kong:"default='ws://localhost:8080/ws',help='WebSocket server URL'"`
	Room   string `kong:"default='lobby',help='Room code to join'"`
	Name   string `kong:"default='',help='Display name (defaults to $USER or \"Player\")'"`
}

func (c *ClientCmd) Run() error {
	return tui.Run(tui.Config{
		Server: strings.TrimSpace(c.Server),
		Room:   strings.TrimSpace(c.Room),
		Name:   strings.TrimSpace(c.Name),
	})
}
