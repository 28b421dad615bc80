package main

import (
	"fmt"
	"log/slog"

	"prepai/internal/config"
	"prepai/internal/daemon"
	"prepai/internal/interviews"
	"prepai/internal/notifications"
)

func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	if err := cfg.ValidateDaemon(); err != nil {
		return nil, err
	}
	store, err := interviews.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open interview store: %w", err)
	}
	d, err := daemon.New(cfg, store, logger, notifications.NewService(cfg))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return d, nil
}
