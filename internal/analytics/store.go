package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mindgames/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// ── Per-Game Summaries ──────────────────────────────────

func (s *Store) ReactionMetrics(ctx context.Context, userID int64) (models.ReactionMetrics, error) {
	var avg, best, worst, acc, bestScore, mean sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(average_time_ms), MIN(fastest_time_ms), MAX(slowest_time_ms),
		        AVG(accuracy), MAX(score), AVG(score)
		 FROM reaction_scores WHERE user_id = $1`,
		userID,
	).Scan(&avg, &best, &worst, &acc, &bestScore, &mean)
	if err != nil {
		return models.ReactionMetrics{}, fmt.Errorf("reaction metrics: %w", err)
	}
	return models.ReactionMetrics{
		AvgReactionMs:   nullFloat(avg),
		BestReactionMs:  nullFloat(best),
		WorstReactionMs: nullFloat(worst),
		Accuracy:        nullFloat(acc),
		BestScore:       nullFloat(bestScore),
		MeanScore:       nullFloat(mean),
	}, nil
}

func (s *Store) MemoryMetrics(ctx context.Context, userID int64) (models.MemoryMetrics, error) {
	var best, avg, r1, r2, r3 sql.NullFloat64
	var m models.MemoryMetrics
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(total_score), AVG(total_score),
		        AVG(round1_score), AVG(round2_score), AVG(round3_score), COUNT(*)
		 FROM memory_scores WHERE user_id = $1`,
		userID,
	).Scan(&best, &avg, &r1, &r2, &r3, &m.Sessions)
	if err != nil {
		return m, fmt.Errorf("memory metrics: %w", err)
	}
	m.BestTotalScore = nullFloat(best)
	m.AvgTotalScore = nullFloat(avg)
	m.AvgRound1Score = nullFloat(r1)
	m.AvgRound2Score = nullFloat(r2)
	m.AvgRound3Score = nullFloat(r3)
	return m, nil
}

// Row filters for the three arithmetic rounds.
const (
	round1Source = `math_round1_scores WHERE user_id = $1`
	round2Source = `math_mixed_scores WHERE user_id = $1 AND (round_index = 2 OR round_index IS NULL)`
	round3Source = `math_mixed_scores WHERE user_id = $1 AND round_index = 3`
)

func (s *Store) mathRound(ctx context.Context, source string, userID int64) (models.MathRoundMetrics, error) {
	var best sql.NullInt64
	var correct, wrong int
	var avgTime sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(score), COALESCE(SUM(correct_count), 0), COALESCE(SUM(wrong_count), 0), AVG(avg_time_ms)
		 FROM `+source,
		userID,
	).Scan(&best, &correct, &wrong, &avgTime)
	if err != nil {
		return models.MathRoundMetrics{}, err
	}
	return models.MathRoundMetrics{
		Best:     nullInt(best),
		Accuracy: MathAccuracy(correct, wrong),
		QPM:      QuestionsPerMinute(nullFloat(avgTime)),
	}, nil
}

// MathAccuracy is nil when nothing was answered.
func MathAccuracy(correct, wrong int) *float64 {
	total := correct + wrong
	if total == 0 {
		return nil
	}
	v := float64(correct) / float64(total)
	return &v
}

// QuestionsPerMinute is nil for a missing or non-positive average.
func QuestionsPerMinute(avgTimeMs *float64) *float64 {
	if avgTimeMs == nil || *avgTimeMs <= 0 {
		return nil
	}
	v := 60000 / *avgTimeMs
	return &v
}

func (s *Store) MathMetrics(ctx context.Context, userID int64) (models.MathMetrics, error) {
	var m models.MathMetrics
	var err error
	if m.Round1, err = s.mathRound(ctx, round1Source, userID); err != nil {
		return m, fmt.Errorf("math round1 metrics: %w", err)
	}
	if m.Round2, err = s.mathRound(ctx, round2Source, userID); err != nil {
		return m, fmt.Errorf("math round2 metrics: %w", err)
	}
	if m.Round3, err = s.mathRound(ctx, round3Source, userID); err != nil {
		return m, fmt.Errorf("math round3 metrics: %w", err)
	}

	var sessionBest sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT
		    COALESCE((SELECT SUM(correct_count + wrong_count) FROM math_round1_scores WHERE user_id = $1), 0)
		  + COALESCE((SELECT SUM(correct_count + wrong_count) FROM math_mixed_scores WHERE user_id = $1), 0)
		  + COALESCE((SELECT SUM(correct_count + wrong_count) FROM math_scores WHERE user_id = $1), 0),
		    (SELECT COUNT(*) FROM math_round1_scores WHERE user_id = $1)
		  + (SELECT COUNT(*) FROM math_mixed_scores WHERE user_id = $1)
		  + (SELECT COUNT(*) FROM math_session_scores WHERE user_id = $1),
		    (SELECT MAX(combined_score) FROM math_session_scores WHERE user_id = $1)`,
		userID,
	).Scan(&m.TotalQuestions, &m.TotalMathSessions, &sessionBest)
	if err != nil {
		return m, fmt.Errorf("math totals: %w", err)
	}
	m.SessionBestCombined = nullInt(sessionBest)
	return m, nil
}

func (s *Store) GlobalMetrics(ctx context.Context, userID int64) (models.GlobalMetrics, error) {
	var g models.GlobalMetrics
	err := s.db.QueryRowContext(ctx,
		`WITH activity AS (
		     SELECT created_at FROM reaction_scores WHERE user_id = $1
		     UNION ALL SELECT created_at FROM memory_scores WHERE user_id = $1
		     UNION ALL SELECT created_at FROM math_round1_scores WHERE user_id = $1
		     UNION ALL SELECT created_at FROM math_mixed_scores WHERE user_id = $1
		     UNION ALL SELECT created_at FROM math_scores WHERE user_id = $1
		     UNION ALL SELECT created_at FROM math_session_scores WHERE user_id = $1
		 )
		 SELECT COUNT(*), COUNT(DISTINCT DATE(created_at AT TIME ZONE 'UTC')) FROM activity`,
		userID,
	).Scan(&g.TotalRounds, &g.SessionsPlayed)
	if err != nil {
		return g, fmt.Errorf("global metrics: %w", err)
	}
	if g.SessionsPlayed > 0 {
		g.AvgRoundsPerSession = float64(g.TotalRounds) / float64(g.SessionsPlayed)
	}
	return g, nil
}

// ── Insight Samples ─────────────────────────────────────

func (s *Store) recentReaction(ctx context.Context, userID int64) ([]reactionSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT score, average_time_ms, accuracy FROM reaction_scores
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, reactionInsightWindow,
	)
	if err != nil {
		return nil, fmt.Errorf("recent reaction: %w", err)
	}
	defer rows.Close()

	var out []reactionSample
	for rows.Next() {
		var r reactionSample
		if err := rows.Scan(&r.Score, &r.AverageTimeMs, &r.Accuracy); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) recentMemory(ctx context.Context, userID int64) ([]memorySample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT total_score, round1_score, round2_score, round3_score FROM memory_scores
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, memoryInsightWindow,
	)
	if err != nil {
		return nil, fmt.Errorf("recent memory: %w", err)
	}
	defer rows.Close()

	var out []memorySample
	for rows.Next() {
		var m memorySample
		if err := rows.Scan(&m.Total, &m.Round1, &m.Round2, &m.Round3); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// recentMathTimings decodes the stored submission payloads of one math
// table and returns their per-question timings plus the table's best score.
func (s *Store) recentMathTimings(ctx context.Context, table string, userID int64) ([][]models.PerQuestionTiming, *int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT raw_payload FROM `+table+`
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, mathInsightWindow,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("recent %s: %w", table, err)
	}
	defer rows.Close()

	var timings [][]models.PerQuestionTiming
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, nil, err
		}
		if len(raw) == 0 {
			continue
		}
		var sub models.MathRoundSubmission
		if err := json.Unmarshal(raw, &sub); err != nil {
			// Old rows may carry payloads in another shape.
			continue
		}
		timings = append(timings, sub.Timings())
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var best sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(score) FROM `+table+` WHERE user_id = $1`, userID).Scan(&best); err != nil {
		return nil, nil, fmt.Errorf("best %s: %w", table, err)
	}
	return timings, nullInt(best), nil
}
