package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"prepai/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransport, "visual", "dial", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"visual", "dial", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrValidation, "gateway", "save", "missing userId", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrConflict, "auth", "signup", "User already exists", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrUnauthorized, "auth", "verify", "", nil), http.StatusUnauthorized},
		{services.Wrap(services.ErrForbidden, "gateway", "save", "", nil), http.StatusForbidden},
		{services.Wrap(services.ErrNotFound, "auth", "me", "", nil), http.StatusNotFound},
		{services.Wrap(services.ErrPersistence, "store", "insert", "", errors.New("disk")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := services.HTTPStatus(tt.err); got != tt.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestKind(t *testing.T) {
	err := services.Wrap(services.ErrDecode, "audio", "decode", "bad frame", nil)
	if got := services.Kind(err); got != "decode_error" {
		t.Fatalf("unexpected kind %q", got)
	}
	if got := services.Kind(errors.New("plain")); got != "unknown" {
		t.Fatalf("unexpected kind %q", got)
	}
	if got := services.Kind(nil); got != "" {
		t.Fatalf("unexpected kind for nil %q", got)
	}
}
