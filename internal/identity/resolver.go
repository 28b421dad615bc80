package identity

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"prepai/internal/logging"
	"prepai/internal/services"
)

const (
	// GuestPrefix starts every locally generated identity.
	GuestPrefix = "guest_"
	// ErrorSentinel is recorded when no identity could be resolved at all.
	ErrorSentinel = "guest_error"
)

// Source describes where a resolved identity came from.
type Source string

const (
	SourceToken Source = "token"
	SourceGuest Source = "guest"
)

// Identity is a resolved user id.
type Identity struct {
	UserID string
	Source Source
}

// Guest reports whether the identity was generated locally.
func (i Identity) Guest() bool {
	return i.Source == SourceGuest
}

// Resolver resolves identities against a Storage within one tab scope.
type Resolver struct {
	store  Storage
	scope  string
	now    func() time.Time
	logger *slog.Logger
}

// NewResolver returns a resolver for scope. An empty scope uses TabScope.
func NewResolver(store Storage, scope string, logger *slog.Logger) *Resolver {
	if strings.TrimSpace(scope) == "" {
		scope = TabScope()
	}
	return &Resolver{
		store:  store,
		scope:  scope,
		now:    time.Now,
		logger: logging.NewComponentLogger(logger, "identity"),
	}
}

// TabScope identifies the terminal session the client runs in. Every command
// started from the same shell shares the scope, so its guest id survives
// across sessions but not across terminals.
func TabScope() string {
	return "ppid-" + strconv.Itoa(os.Getppid())
}

// Resolve returns the token identity when a usable credential is stored,
// otherwise the scope's guest identity, generating and storing one when absent.
// An error means no identity could be produced.
func (r *Resolver) Resolve() (Identity, error) {
	token, err := r.store.Token()
	if err != nil {
		r.logger.Warn("credential lookup failed", logging.Error(err))
	} else if token != "" {
		id, err := ActiveUserID(token, r.now())
		if err == nil {
			return Identity{UserID: id, Source: SourceToken}, nil
		}
		logging.WarnWithContext(r.logger, "stored credential unusable", "identity_token_invalid",
			logging.Error(err),
			logging.String(logging.FieldImpact, "session is recorded under a guest id"),
			logging.String(logging.FieldErrorHint, "run prepai login again"),
		)
	}

	guest, err := r.store.GuestID(r.scope)
	if err != nil {
		return Identity{}, services.Wrap(services.ErrIdentity, "identity", "resolve", "read guest id", err)
	}
	if guest != "" {
		return Identity{UserID: guest, Source: SourceGuest}, nil
	}
	guest = fmt.Sprintf("%s%d", GuestPrefix, r.now().UnixMilli())
	if err := r.store.SetGuestID(r.scope, guest); err != nil {
		return Identity{}, services.Wrap(services.ErrIdentity, "identity", "resolve", "store guest id", err)
	}
	r.logger.Info("generated guest identity", logging.String(logging.FieldUserID, guest), logging.String("scope", r.scope))
	return Identity{UserID: guest, Source: SourceGuest}, nil
}

// Login stores token after checking that it carries a user id and is still valid.
func (r *Resolver) Login(token string) (string, error) {
	id, err := ActiveUserID(token, r.now())
	if err != nil {
		return "", err
	}
	if err := r.store.SetToken(token); err != nil {
		return "", fmt.Errorf("store credential: %w", err)
	}
	return id, nil
}

// Logout removes the stored credential. Guest ids are kept.
func (r *Resolver) Logout() error {
	return r.store.ClearToken()
}

// Token returns the stored credential, if any.
func (r *Resolver) Token() string {
	token, err := r.store.Token()
	if err != nil {
		return ""
	}
	return token
}
