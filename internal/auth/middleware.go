package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// context.WithValue takes any value as the key. A package-private key type
// means no other package can read or shadow the user id we store — only this
// package can construct a contextKey.
type contextKey string

const userIDKey contextKey = "userID"

// CookieName is the HttpOnly cookie the login handler stores the JWT in for
// browser clients. API clients use the Authorization header instead.
const CookieName = "token"

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It extracts the JWT (Bearer header first, cookie as fallback), validates
// it, and stores the user id in the request context. Without a valid token
// the chain stops with 401 Unauthorized.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the user identity if a valid token is present, but
// does NOT block the request if it's missing or invalid.
//
// Used on read routes like GET /snippets where anonymous access is allowed
// but the handlers still want to know who is asking when someone is.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID > 0 {
				ctx := context.WithValue(r.Context(), userIDKey, userID)
				r = r.WithContext(ctx)
			}
			// Always continue — no 401 even with no token
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's id from the request
// context.
//
// Returns (0, false) if the request is anonymous.
//
// Usage in handlers:
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // anonymous requester
//	}
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// extractUserID finds and validates the JWT on a request.
// Shared by RequireAuth and OptionalAuth.
//
// Lookup order:
//  1. Authorization: Bearer <token>  (API clients)
//  2. "token" HttpOnly cookie       (browser clients, set by /auth/login)
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok {
			return tokens.Validate(strings.TrimSpace(raw))
		}
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie — no token anywhere, the request is anonymous
		return 0, err
	}

	return tokens.Validate(cookie.Value)
}
