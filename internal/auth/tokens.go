package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prepai/internal/services"
)

// DefaultTTL is the lifetime of issued tokens when none is configured.
const DefaultTTL = time.Hour

// ClaimUser is the nested user object carried by a token.
type ClaimUser struct {
	ID string `json:"id"`
}

// Claims is the token payload.
type Claims struct {
	User ClaimUser `json:"user"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. An empty secret is a configuration error.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "auth", "new issuer", "jwt secret is empty", nil)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for userID.
func (i *Issuer) Issue(userID string) (string, error) {
	now := i.now()
	claims := Claims{
		User: ClaimUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its user ID.
func (i *Issuer) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", services.Wrap(services.ErrUnauthorized, "auth", "verify", "No token, authorization denied", nil)
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		msg := "Token is not valid"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Token has expired"
		}
		return "", services.Wrap(services.ErrUnauthorized, "auth", "verify", msg, err)
	}
	if !parsed.Valid || claims.User.ID == "" {
		return "", services.Wrap(services.ErrUnauthorized, "auth", "verify", "Token is not valid", nil)
	}
	return claims.User.ID, nil
}
