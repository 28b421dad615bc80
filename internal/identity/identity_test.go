package identity

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prepai/internal/logging"
	"prepai/internal/services"
)

func unsignedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestUserIDFromTokenPriority(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"nested id", jwt.MapClaims{"user": map[string]any{"id": "a", "_id": "b"}, "userId": "c", "sub": "d", "id": "e"}, "a"},
		{"nested _id", jwt.MapClaims{"user": map[string]any{"_id": "b"}, "userId": "c", "sub": "d"}, "b"},
		{"userId", jwt.MapClaims{"userId": "c", "sub": "d", "id": "e"}, "c"},
		{"sub", jwt.MapClaims{"sub": "d", "id": "e"}, "d"},
		{"id", jwt.MapClaims{"id": "e"}, "e"},
		{"numeric id", jwt.MapClaims{"id": 42}, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserIDFromToken(unsignedToken(t, tt.claims))
			if err != nil {
				t.Fatalf("UserIDFromToken: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserIDFromTokenFailures(t *testing.T) {
	for _, token := range []string{"", "not.a.token", unsignedToken(t, jwt.MapClaims{"name": "x"})} {
		if _, err := UserIDFromToken(token); !errors.Is(err, services.ErrIdentity) {
			t.Fatalf("token %q: expected identity error, got %v", token, err)
		}
	}
}

func TestResolveGuestReusedWithinScope(t *testing.T) {
	store := NewMemoryStorage()
	first := NewResolver(store, "tab-1", logging.NewNop())
	first.now = func() time.Time { return time.UnixMilli(1700000000123) }

	id1, err := first.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id1.UserID != "guest_1700000000123" || !id1.Guest() {
		t.Fatalf("unexpected identity %+v", id1)
	}

	second := NewResolver(store, "tab-1", logging.NewNop())
	second.now = func() time.Time { return time.UnixMilli(1800000000000) }
	id2, err := second.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id2.UserID != id1.UserID {
		t.Fatalf("expected guest reuse, got %q then %q", id1.UserID, id2.UserID)
	}

	other := NewResolver(store, "tab-2", logging.NewNop())
	other.now = func() time.Time { return time.UnixMilli(1800000000000) }
	id3, err := other.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id3.UserID == id1.UserID {
		t.Fatal("expected a distinct guest id for another scope")
	}
}

func TestResolvePrefersToken(t *testing.T) {
	store := NewMemoryStorage()
	r := NewResolver(store, "tab", logging.NewNop())
	if _, err := r.Login(unsignedToken(t, jwt.MapClaims{"user": map[string]any{"id": "user-9"}})); err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.UserID != "user-9" || id.Source != SourceToken {
		t.Fatalf("unexpected identity %+v", id)
	}

	if err := r.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	id, err = r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.HasPrefix(id.UserID, GuestPrefix) {
		t.Fatalf("expected guest after logout, got %q", id.UserID)
	}
}

func TestResolveFallsBackOnMalformedToken(t *testing.T) {
	store := NewMemoryStorage()
	_ = store.SetToken("garbage")
	id, err := NewResolver(store, "tab", logging.NewNop()).Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !id.Guest() {
		t.Fatalf("expected guest identity, got %+v", id)
	}
}

func TestActiveUserIDChecksExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    string
		wantErr bool
	}{
		{"valid", jwt.MapClaims{"user": map[string]any{"id": "42"}, "exp": now.Add(time.Hour).Unix()}, "42", false},
		{"expired", jwt.MapClaims{"user": map[string]any{"id": "42"}, "exp": now.Add(-time.Hour).Unix()}, "", true},
		{"expires now", jwt.MapClaims{"user": map[string]any{"id": "42"}, "exp": now.Unix()}, "", true},
		{"no exp", jwt.MapClaims{"user": map[string]any{"id": "42"}}, "42", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ActiveUserID(unsignedToken(t, tt.claims), now)
			if tt.wantErr {
				if !errors.Is(err, services.ErrIdentity) || !errors.Is(err, jwt.ErrTokenExpired) {
					t.Fatalf("expected expired identity error, got %q, %v", got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ActiveUserID = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestResolveFallsBackOnExpiredToken(t *testing.T) {
	store := NewMemoryStorage()
	expired := unsignedToken(t, jwt.MapClaims{
		"user": map[string]any{"id": "42"},
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	if err := store.SetToken(expired); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	r := NewResolver(store, "tab", logging.NewNop())
	id, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !id.Guest() || !strings.HasPrefix(id.UserID, GuestPrefix) {
		t.Fatalf("expected guest identity for expired credential, got %+v", id)
	}
	if _, err := r.Login(expired); err == nil {
		t.Fatal("expected Login to reject an expired token")
	}
}

func TestBoltStoragePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.db")
	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	if err := store.SetToken("tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := store.SetGuestID("tab", "guest_1"); err != nil {
		t.Fatalf("SetGuestID: %v", err)
	}
	store.Close()

	store, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	if tok, _ := store.Token(); tok != "tok" {
		t.Fatalf("expected token, got %q", tok)
	}
	if id, _ := store.GuestID("tab"); id != "guest_1" {
		t.Fatalf("expected guest id, got %q", id)
	}
	if err := store.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if tok, _ := store.Token(); tok != "" {
		t.Fatalf("expected cleared token, got %q", tok)
	}
}
