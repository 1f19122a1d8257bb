package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/mindgames/backend/internal/auth"
	"github.com/mindgames/backend/internal/models"
	"github.com/mindgames/backend/internal/session"
)

const CSRFHeader = "X-CSRF-Token"

// CSRF guards cookie-authenticated mutations. The X-CSRF-Token header must
// match the token stored for the caller's session cookie. Bearer requests and
// safe methods pass through. Must run after Auth.
func CSRF(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if method, _ := r.Context().Value("auth_method").(string); method != MethodCookie {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(CSRFHeader)
			c, err := r.Cookie(auth.SessionCookie)
			if header == "" || err != nil {
				writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "CSRF token missing"})
				return
			}
			want, err := sessions.Get(r.Context(), c.Value)
			if err != nil || subtle.ConstantTimeCompare([]byte(want), []byte(header)) != 1 {
				writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "CSRF token invalid"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
