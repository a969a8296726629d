package jwt

import (
	"context"
	"net/http"
	"strings"

	"groupchat/internal/pkg/logx"
)

type contextKey string

// contextClaimsKey stores the resolved *Claims in the request context.
const contextClaimsKey contextKey = "auth_claims"

// SessionCookieName is the cookie carrying the credential for browser
// sessions that cannot set an Authorization header.
const SessionCookieName = "session_token"

// ResolveCredential extracts the bearer credential from a request. There is
// exactly one resolution order, shared by the HTTP middleware and the
// WebSocket handler:
//
//  1. Authorization: Bearer <token> header
//  2. "token" query parameter (WebSocket dials cannot set headers)
//  3. session cookie
//
// An empty string means no credential was presented.
func ResolveCredential(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// IdentityExtractorMiddleware resolves and validates the request credential,
// storing the claims in the context on success. Missing or invalid
// credentials leave the request anonymous rather than rejecting it; handlers
// that require identity check the context themselves.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ResolveCredential(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := ParseToken(tokenString, secretKey)
			if err != nil {
				logx.Warn("Invalid or expired credential, treating request as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext returns the authenticated claims, or nil for an
// anonymous request.
func GetClaimsFromContext(r *http.Request) *Claims {
	claims, ok := r.Context().Value(contextClaimsKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
