package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/models"
	"github.com/mindgames/backend/internal/session"
)

// Cookie names shared with the middleware.
const (
	AccessTokenCookie = "access_token"
	SessionCookie     = "session_id"
)

type Handler struct {
	store        *Store
	tokens       *Tokens
	sessions     session.Store
	sessionTTL   time.Duration
	cookieSecure bool
	log          *logger.Logger
}

type Options struct {
	SessionTTL   time.Duration
	CookieSecure bool
}

func NewHandler(store *Store, tokens *Tokens, sessions session.Store, opts Options, log *logger.Logger) *Handler {
	return &Handler{
		store:        store,
		tokens:       tokens,
		sessions:     sessions,
		sessionTTL:   opts.SessionTTL,
		cookieSecure: opts.CookieSecure,
		log:          log,
	}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// ValidateRegistration normalizes req in place.
func ValidateRegistration(req *models.RegisterRequest) string {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.CountryCode = strings.ToUpper(strings.TrimSpace(req.CountryCode))

	switch {
	case !models.ValidUsername(req.Username):
		return "Username must be 3-20 letters, digits or underscores"
	case len(req.Password) < 8:
		return "Password must be at least 8 characters"
	case req.Email != "" && !strings.Contains(req.Email, "@"):
		return "Invalid email address"
	case len(req.CountryCode) > 8:
		return "Invalid country code"
	}
	return ""
}

// ── Accounts ────────────────────────────────────────────

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if msg := ValidateRegistration(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username, req.Email, string(hashedPassword), req.CountryCode)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "That username or email is already registered"})
			return
		}
		h.log.Error("register failed", "username", req.Username, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create account"})
		return
	}

	h.issue(w, user, req.Remember, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Username and password are required"})
		return
	}

	user, hashedPassword, err := h.store.GetCredentials(r.Context(), req.Username)
	if errors.Is(err, models.ErrUserNotFound) {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid username or password"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid username or password"})
		return
	}

	h.issue(w, user, req.Remember, http.StatusOK)
}

// issue signs a token, sets it as a cookie and writes the auth response.
// Without remember the cookie lasts for the browser session only.
func (h *Handler) issue(w http.ResponseWriter, user *models.User, remember bool, status int) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	cookie := &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(h.tokens.TTL().Seconds())
	}
	http.SetCookie(w, cookie)

	writeJSON(w, status, models.AuthResponse{Token: token, User: *user})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		MaxAge:   -1,
	})
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), c.Value); err != nil {
			h.log.Warn("session delete failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.store.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update profile"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ── CSRF ────────────────────────────────────────────────

// IssueCSRF returns the CSRF token bound to the caller's session cookie,
// starting a new session when there is none.
func (h *Handler) IssueCSRF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sid := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		sid = c.Value
	}
	if sid != "" {
		if token, err := h.sessions.Get(ctx, sid); err == nil {
			writeJSON(w, http.StatusOK, models.CSRFResponse{CSRFToken: token})
			return
		}
	} else {
		sid = uuid.NewString()
	}

	token := uuid.NewString()
	if err := h.sessions.Set(ctx, sid, token, h.sessionTTL); err != nil {
		h.log.Error("csrf store failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to issue CSRF token"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, models.CSRFResponse{CSRFToken: token})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
