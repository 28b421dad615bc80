package daemon_test

import (
	"context"
	"net/http"
	"testing"

	"prepai/internal/daemon"
	"prepai/internal/logging"
	"prepai/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status()
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.Address == "" {
		t.Fatal("expected a listening address")
	}

	resp, err := http.Get("http://" + status.Address + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonRequiresSecret(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Gateway.JWTSecret = ""
	store := testsupport.MustOpenStore(t, cfg)
	if _, err := daemon.New(cfg, store, logging.NewNop(), nil); err == nil {
		t.Fatal("expected error without jwt secret")
	}
}
