package identity

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prepai/internal/services"
)

// claimPaths lists the payload locations checked for a user id, in priority order.
var claimPaths = [][]string{
	{"user", "id"},
	{"user", "_id"},
	{"userId"},
	{"sub"},
	{"id"},
}

// UserIDFromToken decodes the payload of token and returns the first user id
// found along claimPaths. The signature and expiry are not checked.
func UserIDFromToken(token string) (string, error) {
	claims, err := decodeClaims(token)
	if err != nil {
		return "", err
	}
	return userIDFromClaims(claims)
}

// ActiveUserID is UserIDFromToken for a credential that must not have expired
// at now. Tokens without an exp claim never expire.
func ActiveUserID(token string, now time.Time) (string, error) {
	claims, err := decodeClaims(token)
	if err != nil {
		return "", err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return "", services.Wrap(services.ErrIdentity, "identity", "decode token", "malformed exp claim", err)
	}
	if exp != nil && !now.Before(exp.Time) {
		return "", services.Wrap(services.ErrIdentity, "identity", "decode token",
			"token expired at "+exp.Time.UTC().Format(time.RFC3339), jwt.ErrTokenExpired)
	}
	return userIDFromClaims(claims)
}

func decodeClaims(token string) (jwt.MapClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrIdentity, "identity", "decode token", "token is empty", nil)
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, services.Wrap(services.ErrIdentity, "identity", "decode token", "malformed token", err)
	}
	return claims, nil
}

func userIDFromClaims(claims jwt.MapClaims) (string, error) {
	for _, path := range claimPaths {
		if id := lookup(claims, path); id != "" {
			return id, nil
		}
	}
	return "", services.Wrap(services.ErrIdentity, "identity", "decode token", "no user id in payload", nil)
}

func lookup(claims map[string]any, path []string) string {
	var current any = claims
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = obj[key]
		if !ok {
			return ""
		}
	}
	switch v := current.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
