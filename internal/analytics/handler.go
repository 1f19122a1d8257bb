package analytics

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mindgames/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// resolve writes the error response itself and returns nil on failure.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) *models.User {
	viewerID, hasViewer := getUserID(r)
	user, err := h.service.ResolveProfile(r.Context(), mux.Vars(r)["username"], viewerID, hasViewer)
	switch {
	case err == nil:
		return user
	case errors.Is(err, models.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
	case errors.Is(err, ErrPrivateProfile):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Profile is private"})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load profile"})
	}
	return nil
}

// ── Profile Pages ───────────────────────────────────────

func (h *Handler) GetProfileMetrics(w http.ResponseWriter, r *http.Request) {
	user := h.resolve(w, r)
	if user == nil {
		return
	}

	metrics, err := h.service.ProfileMetrics(r.Context(), user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to compute metrics"})
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *Handler) GetProfileAchievements(w http.ResponseWriter, r *http.Request) {
	user := h.resolve(w, r)
	if user == nil {
		return
	}

	resp, err := h.service.ProfileAchievements(r.Context(), user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get achievements"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMyInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	insights, err := h.service.Insights(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to compute insights"})
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
