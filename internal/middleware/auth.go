// Package middleware holds the HTTP middleware shared by every route group.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mindgames/backend/internal/auth"
	"github.com/mindgames/backend/internal/models"
)

// Auth methods stored under the "auth_method" context key.
const (
	MethodBearer = "bearer"
	MethodCookie = "cookie"
)

// credentials extracts a token from the Authorization header, falling back to
// the access token cookie.
func credentials(r *http.Request) (token, method string) {
	if h := r.Header.Get("Authorization"); h != "" {
		if parts := strings.SplitN(h, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1]), MethodBearer
		}
		return "", ""
	}
	if c, err := r.Cookie(auth.AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, MethodCookie
	}
	return "", ""
}

func withUser(r *http.Request, userID int64, method string) *http.Request {
	ctx := context.WithValue(r.Context(), "user_id", userID)
	ctx = context.WithValue(ctx, "auth_method", method)
	return r.WithContext(ctx)
}

// Auth rejects requests without a valid token.
func Auth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, method := credentials(r)
			if raw == "" {
				writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
				return
			}
			userID, err := tokens.Parse(raw)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid or expired token"})
				return
			}
			next.ServeHTTP(w, withUser(r, userID, method))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present and otherwise
// serves the request anonymously.
func OptionalAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, method := credentials(r); raw != "" {
				if userID, err := tokens.Parse(raw); err == nil {
					r = withUser(r, userID, method)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
