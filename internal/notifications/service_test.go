package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"prepai/internal/config"
	"prepai/internal/notifications"
)

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newNtfyServer(t *testing.T) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, capturedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), requests...)
	}
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyPersistFailed(context.Background(), "guest_1", errors.New("down")); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("expected nil config to yield noop, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	srv, requests := newNtfyServer(t)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyIdentityFallback(ctx, "sess-9"); err != nil {
		t.Fatalf("NotifyIdentityFallback: %v", err)
	}
	if err := svc.NotifyPersistFailed(ctx, "user-1", errors.New("gateway returned 500")); err != nil {
		t.Fatalf("NotifyPersistFailed: %v", err)
	}
	if err := svc.TestNotification(ctx); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}

	got := requests()
	if len(got) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(got))
	}
	if got[0].title != "PrepAI - Identity Fallback" || !strings.Contains(got[0].body, "sess-9") || got[0].priority != "high" {
		t.Fatalf("unexpected identity payload %+v", got[0])
	}
	if got[1].tags != "prepai,persistence,error" || !strings.Contains(got[1].body, "gateway returned 500") {
		t.Fatalf("unexpected persist payload %+v", got[1])
	}
	if got[2].priority != "low" {
		t.Fatalf("unexpected test payload %+v", got[2])
	}
}

func TestNtfyServiceRespectsToggles(t *testing.T) {
	srv, requests := newNtfyServer(t)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	cfg.Notifications.IdentityFallback = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyIdentityFallback(context.Background(), "sess"); err != nil {
		t.Fatalf("NotifyIdentityFallback: %v", err)
	}
	if n := len(requests()); n != 0 {
		t.Fatalf("expected no requests when disabled, got %d", n)
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	err := notifications.NewService(&cfg).NotifyError(context.Background(), errors.New("boom"), "save")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
