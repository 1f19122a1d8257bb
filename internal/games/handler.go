package games

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mindgames/backend/internal/models"
)

// maxBodyBytes bounds submission payloads; the largest is a 200 entry
// memory log with click telemetry.
const maxBodyBytes = 1 << 20

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

// player returns the caller's id, or Guest when logged out.
func player(r *http.Request) int64 {
	if uid, ok := getUserID(r); ok {
		return uid
	}
	return Guest
}

// submitStatus is 201 when a score row was stored.
func submitStatus(userID int64) int {
	if userID == Guest {
		return http.StatusOK
	}
	return http.StatusCreated
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

func writeSubmitError(w http.ResponseWriter, err error) {
	if IsValidationError(err) {
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save score"})
}

// ── Submissions ─────────────────────────────────────────

func (h *Handler) SubmitReaction(w http.ResponseWriter, r *http.Request) {
	userID := player(r)

	var req models.ReactionSubmission
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.service.SubmitReaction(r.Context(), userID, req)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, submitStatus(userID), resp)
}

func (h *Handler) SubmitMemory(w http.ResponseWriter, r *http.Request) {
	userID := player(r)

	var req models.MemorySubmission
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.service.SubmitMemory(r.Context(), userID, req)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, submitStatus(userID), resp)
}

func (h *Handler) SubmitMathRound1(w http.ResponseWriter, r *http.Request) {
	h.submitMathRound(w, r, 1)
}

// SubmitMathRound serves /games/math/round/{index}, index 2 or 3.
func (h *Handler) SubmitMathRound(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || (index != 2 && index != 3) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Unknown round"})
		return
	}
	h.submitMathRound(w, r, index)
}

func (h *Handler) submitMathRound(w http.ResponseWriter, r *http.Request, index int) {
	userID := player(r)

	var req models.MathRoundSubmission
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.service.SubmitMathRound(r.Context(), userID, index, req)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, submitStatus(userID), resp)
}

func (h *Handler) SubmitMathSession(w http.ResponseWriter, r *http.Request) {
	userID := player(r)

	var req models.MathSessionSubmission
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.service.SubmitMathSession(r.Context(), userID, req)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, submitStatus(userID), resp)
}

// ── Leaderboards ────────────────────────────────────────

func (h *Handler) ReactionLeaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ReactionLeaderboard(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) MemoryLeaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.MemoryLeaderboard(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Round1Leaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.service.Round1Leaderboard(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}
	writeJSON(w, http.StatusOK, models.LeaderboardResponse[models.MathLeaderboardEntry]{Scores: scores})
}

func (h *Handler) MixedLeaderboard(w http.ResponseWriter, r *http.Request) {
	var roundIndex *int
	if idx := intQueryParam(r.URL.Query(), "round_index", 0); idx > 0 {
		roundIndex = &idx
	}

	scores, err := h.service.MixedLeaderboard(r.Context(), roundIndex)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}
	writeJSON(w, http.StatusOK, models.LeaderboardResponse[models.MathLeaderboardEntry]{Scores: scores})
}

func (h *Handler) Distribution(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.service.Distribution(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load distribution"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"buckets": buckets})
}

func (h *Handler) BestScores(w http.ResponseWriter, r *http.Request) {
	best, err := h.service.BestScores(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		if IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load best scores"})
		return
	}
	writeJSON(w, http.StatusOK, best)
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
