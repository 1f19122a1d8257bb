package coach

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mindgames/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMyCoach handles GET /api/v1/profile/me/coach.
func (h *Handler) GetMyCoach(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Tips(r.Context(), userID)
	switch {
	case errors.Is(err, ErrDisabled):
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Coach is not available"})
		return
	case err != nil:
		h.service.log.Error("coach failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to generate tips"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
