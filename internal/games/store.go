package games

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mindgames/backend/internal/database"
	"github.com/mindgames/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Score Inserts (transaction-bound) ───────────────────

func (s *Store) InsertReaction(ctx context.Context, q database.Querier, userID int64, r models.ReactionResult, accuracy float64) (int64, time.Time, error) {
	var id int64
	var createdAt time.Time
	err := q.QueryRowContext(ctx,
		`INSERT INTO reaction_scores
		    (user_id, score, average_time_ms, fastest_time_ms, slowest_time_ms, accuracy)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		userID, r.FinalScore, r.AverageTime, r.FastestTime, r.SlowestTime, accuracy,
	).Scan(&id, &createdAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("insert reaction score: %w", err)
	}
	return id, createdAt, nil
}

type memoryPayload struct {
	NearMisses    int                       `json:"near_misses"`
	GuessCount    int                       `json:"guess_count"`
	AvgDurationMs float64                   `json:"avg_duration_ms"`
	AvgIntervalMs float64                   `json:"avg_interval_ms"`
	QuestionLog   []models.QuestionLogEntry `json:"question_log"`
}

func (s *Store) InsertMemory(ctx context.Context, q database.Querier, userID int64, r models.MemoryResult, log []models.QuestionLogEntry) (int64, time.Time, error) {
	payload, err := json.Marshal(memoryPayload{
		NearMisses:    r.NearMisses,
		GuessCount:    r.GuessCount,
		AvgDurationMs: r.AvgDurationMs,
		AvgIntervalMs: r.AvgIntervalMs,
		QuestionLog:   log,
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("marshal memory payload: %w", err)
	}

	var id int64
	var createdAt time.Time
	err = q.QueryRowContext(ctx,
		`INSERT INTO memory_scores
		    (user_id, total_score, round1_score, round2_score, round3_score, raw_payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		userID, r.Total, r.Round1, r.Round2, r.Round3, payload,
	).Scan(&id, &createdAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("insert memory score: %w", err)
	}
	return id, createdAt, nil
}

// MemoryRunningTotal sums every stored memory total for the user.
func (s *Store) MemoryRunningTotal(ctx context.Context, q database.Querier, userID int64) (float64, error) {
	var total float64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_score), 0) FROM memory_scores WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("memory running total: %w", err)
	}
	return total, nil
}

type mathRoundPayload struct {
	models.MathRoundSubmission
	Score   int  `json:"score"`
	IsValid bool `json:"is_valid"`
}

// InsertMathRound stores round 1 in its own table and rounds 2 and 3 in the
// mixed table.
func (s *Store) InsertMathRound(ctx context.Context, q database.Querier, userID int64, row *models.MathRoundScore, sub models.MathRoundSubmission) error {
	payload, err := json.Marshal(mathRoundPayload{MathRoundSubmission: sub, Score: row.Score, IsValid: row.IsValid})
	if err != nil {
		return fmt.Errorf("marshal math payload: %w", err)
	}

	if row.RoundIndex == 1 {
		err = q.QueryRowContext(ctx,
			`INSERT INTO math_round1_scores
			    (user_id, score, correct_count, wrong_count, avg_time_ms, min_time_ms, is_valid, raw_payload)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, created_at`,
			userID, row.Score, row.CorrectCount, row.WrongCount, row.AvgTimeMs, row.MinTimeMs, row.IsValid, payload,
		).Scan(&row.ID, &row.CreatedAt)
	} else {
		err = q.QueryRowContext(ctx,
			`INSERT INTO math_mixed_scores
			    (user_id, round_index, score, correct_count, wrong_count, avg_time_ms, min_time_ms,
			     total_questions, is_valid, raw_payload)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id, created_at`,
			userID, row.RoundIndex, row.Score, row.CorrectCount, row.WrongCount, row.AvgTimeMs, row.MinTimeMs,
			row.TotalQuestions, row.IsValid, payload,
		).Scan(&row.ID, &row.CreatedAt)
	}
	if err != nil {
		return fmt.Errorf("insert math round %d: %w", row.RoundIndex, err)
	}
	row.UserID = userID
	return nil
}

// OwnsRounds reports whether the referenced round rows belong to userID.
func (s *Store) OwnsRounds(ctx context.Context, q database.Querier, userID int64, sub models.MathSessionSubmission) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM math_round1_scores WHERE id = $2 AND user_id = $1)
		    AND EXISTS (SELECT 1 FROM math_mixed_scores WHERE id = $3 AND user_id = $1)
		    AND ($4::BIGINT IS NULL OR EXISTS (SELECT 1 FROM math_mixed_scores WHERE id = $4 AND user_id = $1))`,
		userID, sub.Round1ScoreID, sub.Round2ScoreID, nullableID(sub.Round3ScoreID),
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check session rounds: %w", err)
	}
	return ok, nil
}

func nullableID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

func (s *Store) InsertMathSession(ctx context.Context, q database.Querier, userID int64, sub models.MathSessionSubmission) (*models.MathSessionScore, error) {
	row := &models.MathSessionScore{
		UserID:        userID,
		Round1ScoreID: sub.Round1ScoreID,
		Round2ScoreID: sub.Round2ScoreID,
		Round3ScoreID: nullableID(sub.Round3ScoreID),
		CombinedScore: sub.CombinedScore,
	}
	err := q.QueryRowContext(ctx,
		`INSERT INTO math_session_scores
		    (user_id, round1_score_id, round2_score_id, round3_score_id, combined_score)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		userID, row.Round1ScoreID, row.Round2ScoreID, row.Round3ScoreID, row.CombinedScore,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert math session: %w", err)
	}
	return row, nil
}
