package jwtverify

import (
	"context"
	"net/http"
	"strings"

	commonhttp "github.com/AlibekovAA/bearer-auth/internal/common/http"
	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
)

type contextKey string

const claimsKey contextKey = "jwt_claims"

type TokenVerifier interface {
	Verify(tokenString string) (Claims, error)
}

// Middleware rejects requests without a valid bearer token. Every failure
// produces the same response; the reason is only logged.
func Middleware(verifier TokenVerifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_auth_failed",
					"path":   r.URL.Path,
					"reason": "missing_bearer",
				}).Warn("jwt auth failed: missing or invalid authorization header")
				commonhttp.WriteUnauthenticated(w, r)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_auth_failed",
					"path":   r.URL.Path,
				}).Warnf("jwt auth failed: %v", err)
				commonhttp.WriteUnauthenticated(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(raw, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}
