package models

import (
	"encoding/json"
	"time"
)

// ── Submission Requests ───────────────────────────────────

type ReactionSubmission struct {
	AnswerRecord []RawAnswer `json:"answerRecord"`
}

type MemorySubmission struct {
	QuestionLog []RawQuestion `json:"questionLog"`
}

type MathRoundSubmission struct {
	CorrectCount      int                 `json:"correct_count"`
	WrongCount        int                 `json:"wrong_count"`
	AvgTimeMs         float64             `json:"avg_time_ms"`
	MinTimeMs         float64             `json:"min_time_ms"`
	TotalQuestions    int                 `json:"total_questions,omitempty"`
	PerQuestionTimes  []PerQuestionTiming `json:"per_question_times,omitempty"`
	PerQuestion       []PerQuestionTiming `json:"per_question,omitempty"`
	AvgTimeByOperator map[string]float64  `json:"avg_time_by_operator,omitempty"`
}

// Timings returns whichever per-question list the client filled.
func (m MathRoundSubmission) Timings() []PerQuestionTiming {
	if len(m.PerQuestion) > 0 {
		return m.PerQuestion
	}
	return m.PerQuestionTimes
}

type MathSessionSubmission struct {
	Round1ScoreID int64 `json:"round1_score_id"`
	Round2ScoreID int64 `json:"round2_score_id"`
	Round3ScoreID int64 `json:"round3_score_id"`
	CombinedScore int   `json:"combined_score"`
}

// ── Stored Rows ───────────────────────────────────────────

type ReactionScore struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Score         float64   `json:"score"`
	AverageTimeMs float64   `json:"average_time_ms"`
	FastestTimeMs float64   `json:"fastest_time_ms"`
	SlowestTimeMs float64   `json:"slowest_time_ms"`
	Accuracy      float64   `json:"accuracy"`
	CreatedAt     time.Time `json:"created_at"`
}

type MemoryScore struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	TotalScore  float64         `json:"total_score"`
	Round1Score float64         `json:"round1_score"`
	Round2Score float64         `json:"round2_score"`
	Round3Score float64         `json:"round3_score"`
	RawPayload  json.RawMessage `json:"raw_payload,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type MathRoundScore struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	RoundIndex     int             `json:"round_index"`
	Score          int             `json:"score"`
	CorrectCount   int             `json:"correct_count"`
	WrongCount     int             `json:"wrong_count"`
	AvgTimeMs      float64         `json:"avg_time_ms"`
	MinTimeMs      float64         `json:"min_time_ms"`
	TotalQuestions int             `json:"total_questions"`
	IsValid        bool            `json:"is_valid"`
	RawPayload     json.RawMessage `json:"raw_payload,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type MathSessionScore struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Round1ScoreID int64     `json:"round1_score_id"`
	Round2ScoreID int64     `json:"round2_score_id"`
	Round3ScoreID *int64    `json:"round3_score_id,omitempty"`
	CombinedScore int       `json:"combined_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// ── Submission Responses ──────────────────────────────────

type ReactionResponse struct {
	Status          string         `json:"status"`
	ScoreResult     ReactionResult `json:"score_result"`
	NewAchievements []string       `json:"new_achievements"`
	Message         string         `json:"message,omitempty"`
}

// ReactionResult is the reaction scorer's breakdown. Accuracy is 0-100.
type ReactionResult struct {
	FinalScore         float64 `json:"final_score"`
	AverageTime        float64 `json:"average_time"`
	Accuracy           float64 `json:"accuracy"`
	SpeedBonus         float64 `json:"speed_bonus"`
	FastestTimeBonus   float64 `json:"fastest_time_bonus"`
	SlowestTimePenalty float64 `json:"slowest_time_penalty"`
	StreakPenalty      float64 `json:"streak_penalty"`
	FastestTime        float64 `json:"fastest_time"`
	SlowestTime        float64 `json:"slowest_time"`
	PenaltyMessage     string  `json:"penalty_message"`
}

// MemoryResult is the memory scorer's breakdown. Scores may be negative.
type MemoryResult struct {
	Total         float64 `json:"total"`
	Round1        float64 `json:"round1"`
	Round2        float64 `json:"round2"`
	Round3        float64 `json:"round3"`
	NearMisses    int     `json:"near_misses"`
	GuessCount    int     `json:"guess_count"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	AvgIntervalMs float64 `json:"avg_interval_ms"`
}

type MemoryResponse struct {
	Status          string   `json:"status"`
	FinalScore      float64  `json:"final_score"`
	Round1Score     float64  `json:"round1_score"`
	Round2Score     float64  `json:"round2_score"`
	Round3Score     float64  `json:"round3_score"`
	NearMisses      int      `json:"near_misses"`
	GuessCount      int      `json:"guess_count"`
	AvgDurationMs   float64  `json:"avg_duration_ms"`
	AvgIntervalMs   float64  `json:"avg_interval_ms"`
	NewAchievements []string `json:"new_achievements"`
	Message         string   `json:"message,omitempty"`
}

type MathRoundResponse struct {
	Status          string   `json:"status"`
	ScoreID         *int64   `json:"score_id"`
	RoundIndex      int      `json:"round_index"`
	Score           int      `json:"score"`
	CorrectCount    int      `json:"correct_count"`
	WrongCount      int      `json:"wrong_count"`
	AvgTimeMs       float64  `json:"avg_time_ms"`
	MinTimeMs       float64  `json:"min_time_ms"`
	IsValid         bool     `json:"is_valid"`
	NewAchievements []string `json:"new_achievements"`
	Message         string   `json:"message,omitempty"`
}

type MathSessionResponse struct {
	Status          string   `json:"status"`
	SessionID       *int64   `json:"session_id"`
	CombinedScore   int      `json:"combined_score"`
	NewAchievements []string `json:"new_achievements"`
	Message         string   `json:"message,omitempty"`
}

// ── Leaderboards ──────────────────────────────────────────

type ReactionLeaderboardEntry struct {
	Username    string    `json:"username"`
	CountryCode *string   `json:"country_code"`
	BestScore   float64   `json:"best_score"`
	AvgTimeMs   *float64  `json:"avg_time_ms"`
	LastPlayed  time.Time `json:"last_played"`
}

type MemoryLeaderboardEntry struct {
	Username    string    `json:"username"`
	CountryCode *string   `json:"country_code"`
	BestTotal   float64   `json:"best_total"`
	BestRound1  float64   `json:"best_round1"`
	BestRound2  float64   `json:"best_round2"`
	BestRound3  float64   `json:"best_round3"`
	LastPlayed  time.Time `json:"last_played"`
}

type MathLeaderboardEntry struct {
	Username     string    `json:"username"`
	Score        int       `json:"score"`
	CorrectCount int       `json:"correct_count"`
	WrongCount   int       `json:"wrong_count"`
	AvgTimeMs    *float64  `json:"avg_time_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

type LeaderboardResponse[T any] struct {
	Scores      []T     `json:"scores"`
	LastUpdated *string `json:"last_updated,omitempty"`
}

type ScoreBucket struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Count int `json:"count"`
}

type BestScores struct {
	Username       string   `json:"username"`
	ReactionBest   *float64 `json:"reaction_best"`
	MemoryBest     *float64 `json:"memory_best"`
	ArithmeticBest *int     `json:"arithmetic_best"`
}
