package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"prepai/internal/config"
)

const userAgent = "PrepAI-Go/0.1.0"

// Service defines the notification surface exposed to session and gateway components.
type Service interface {
	NotifyIdentityFallback(ctx context.Context, sessionID string) error
	NotifyPersistFailed(ctx context.Context, userID string, err error) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:         topic,
		client:           &http.Client{Timeout: timeout},
		identityFallback: cfg.Notifications.IdentityFallback,
		persistFailure:   cfg.Notifications.PersistFailure,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint         string
	client           *http.Client
	identityFallback bool
	persistFailure   bool
}

func (n *ntfyService) NotifyIdentityFallback(ctx context.Context, sessionID string) error {
	if !n.identityFallback {
		return nil
	}
	message := "Session finalized without a resolved identity; result saved as guest_error"
	if sessionID = strings.TrimSpace(sessionID); sessionID != "" {
		message = fmt.Sprintf("%s\nSession: %s", message, sessionID)
	}
	return n.send(ctx, payload{
		title:    "PrepAI - Identity Fallback",
		message:  message,
		tags:     []string{"prepai", "identity", "warning"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyPersistFailed(ctx context.Context, userID string, err error) error {
	if !n.persistFailure {
		return nil
	}
	reason := "unknown"
	if err != nil {
		reason = strings.TrimSpace(err.Error())
	}
	return n.send(ctx, payload{
		title:    "PrepAI - Result Not Saved",
		message:  fmt.Sprintf("Interview result for %s was not persisted: %s", strings.TrimSpace(userID), reason),
		tags:     []string{"prepai", "persistence", "error"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "PrepAI - Error",
		message:  builder.String(),
		tags:     []string{"prepai", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "PrepAI - Test",
		message:  "Notification system test",
		tags:     []string{"prepai", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyIdentityFallback(context.Context, string) error     { return nil }
func (noopService) NotifyPersistFailed(context.Context, string, error) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
