package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/models"
	"github.com/mindgames/backend/internal/session"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	raw, err := tokens.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := tokens.Parse(raw)
	if err != nil || got != 42 {
		t.Errorf("Parse = %d, %v; want 42, nil", got, err)
	}
}

func TestTokensRejectsOtherSecretAndExpiry(t *testing.T) {
	issued := NewTokens("secret-a", time.Hour)
	raw, _ := issued.Issue(7)

	if _, err := NewTokens("secret-b", time.Hour).Parse(raw); err != ErrInvalidToken {
		t.Errorf("Parse with wrong secret = %v, want ErrInvalidToken", err)
	}

	later := NewTokens("secret-a", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Parse(raw); err != ErrInvalidToken {
		t.Errorf("Parse after expiry = %v, want ErrInvalidToken", err)
	}

	if _, err := issued.Parse("not-a-token"); err != ErrInvalidToken {
		t.Errorf("Parse(garbage) = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		req     models.RegisterRequest
		wantErr bool
	}{
		{models.RegisterRequest{Username: "player_1", Password: "longenough"}, false},
		{models.RegisterRequest{Username: "  spaced_ok  ", Password: "longenough", Email: "A@B.COM"}, false},
		{models.RegisterRequest{Username: "ab", Password: "longenough"}, true},
		{models.RegisterRequest{Username: "bad-name", Password: "longenough"}, true},
		{models.RegisterRequest{Username: "abcdefghijklmnopqrstu", Password: "longenough"}, true},
		{models.RegisterRequest{Username: "player_1", Password: "short"}, true},
		{models.RegisterRequest{Username: "player_1", Password: "longenough", Email: "nope"}, true},
	}
	for _, tt := range tests {
		req := tt.req
		msg := ValidateRegistration(&req)
		if (msg != "") != tt.wantErr {
			t.Errorf("ValidateRegistration(%+v) = %q, wantErr %v", tt.req, msg, tt.wantErr)
		}
	}

	req := models.RegisterRequest{Username: " player ", Password: "longenough", Email: " Me@X.Org ", CountryCode: "gb"}
	ValidateRegistration(&req)
	if req.Username != "player" || req.Email != "me@x.org" || req.CountryCode != "GB" {
		t.Errorf("normalized = %+v", req)
	}
}

func TestIssueCSRFReusesSession(t *testing.T) {
	h := NewHandler(nil, NewTokens("s", time.Hour), session.NewMemoryStore(),
		Options{SessionTTL: time.Hour}, logger.Nop())

	rec := httptest.NewRecorder()
	h.IssueCSRF(rec, httptest.NewRequest(http.MethodGet, "/api/v1/csrf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var first models.CSRFResponse
	json.NewDecoder(rec.Body).Decode(&first)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie {
		t.Fatalf("cookies = %v, want one %s", cookies, SessionCookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/csrf", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.IssueCSRF(rec, req)

	var second models.CSRFResponse
	json.NewDecoder(rec.Body).Decode(&second)
	if first.CSRFToken == "" || first.CSRFToken != second.CSRFToken {
		t.Errorf("tokens = %q, %q; want the same non-empty token", first.CSRFToken, second.CSRFToken)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	h := NewHandler(nil, NewTokens("s", time.Hour), session.NewMemoryStore(), Options{}, logger.Nop())

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"username":"x","password":"longenough"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
