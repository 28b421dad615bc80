package daemon

import (
	"net/http"
	"strings"

	"prepai/internal/identity"
	"prepai/internal/services"
)

// bearerToken extracts the credential from either the Authorization header or
// the legacy x-auth-token header.
func bearerToken(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get("x-auth-token"))
}

// requireUser rejects requests without a valid token and stores the token's
// user id on the request context.
func (s *apiServer) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.issuer.Verify(bearerToken(r))
		if err != nil {
			s.fail(w, r, err, "authorize", "Token is not valid")
			return
		}
		next(w, r.WithContext(services.WithUserID(r.Context(), userID)))
	}
}

// authorizeSubject decides whether the caller may read or write records of
// subject. A valid token must name subject. Without one, guest identities are
// accepted when guest saves are enabled.
func (s *apiServer) authorizeSubject(r *http.Request, subject string) error {
	token := bearerToken(r)
	if token != "" {
		userID, err := s.issuer.Verify(token)
		if err == nil {
			if userID != subject {
				return services.Wrap(services.ErrForbidden, "api", "authorize", "token does not match userId", nil)
			}
			return nil
		}
	}
	if s.allowGuest && strings.HasPrefix(subject, identity.GuestPrefix) {
		return nil
	}
	return services.Wrap(services.ErrUnauthorized, "api", "authorize", "authentication required", nil)
}
