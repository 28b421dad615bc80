package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"

	"prepai/internal/logging"
	"prepai/internal/testsupport"
)

func TestBuildDaemonServesGateway(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	d, err := buildDaemon(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("buildDaemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + d.Addr() + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, err := os.Stat(cfg.DatabasePath()); err != nil {
		t.Fatalf("expected database at %s: %v", cfg.DatabasePath(), err)
	}
}

func TestBuildDaemonRequiresSecret(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Gateway.JWTSecret = ""

	_, err := buildDaemon(cfg, logging.NewNop())
	if err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Fatalf("expected jwt_secret error, got %v", err)
	}
}
