package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mindgames/backend/internal/models"
)

const (
	mathLeaderboardLimit = 20
	distributionWidth    = 20
)

// lastUpdated formats the newest created_at of table as a date.
func (s *Store) lastUpdated(ctx context.Context, table string) (*string, error) {
	var latest sql.NullTime
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(created_at) FROM `+table).Scan(&latest); err != nil {
		return nil, err
	}
	if !latest.Valid {
		return nil, nil
	}
	day := latest.Time.UTC().Format("2006-01-02")
	return &day, nil
}

// ── Reaction & Memory ───────────────────────────────────

func (s *Store) ReactionLeaderboard(ctx context.Context) (*models.LeaderboardResponse[models.ReactionLeaderboardEntry], error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.username, u.country_code, MAX(r.score), AVG(r.average_time_ms), MAX(r.created_at)
		 FROM reaction_scores r
		 JOIN users u ON u.id = r.user_id
		 GROUP BY u.username, u.country_code
		 ORDER BY MAX(r.score) DESC`)
	if err != nil {
		return nil, fmt.Errorf("reaction leaderboard: %w", err)
	}
	defer rows.Close()

	resp := &models.LeaderboardResponse[models.ReactionLeaderboardEntry]{Scores: []models.ReactionLeaderboardEntry{}}
	for rows.Next() {
		var e models.ReactionLeaderboardEntry
		var avg sql.NullFloat64
		if err := rows.Scan(&e.Username, &e.CountryCode, &e.BestScore, &avg, &e.LastPlayed); err != nil {
			return nil, fmt.Errorf("scan reaction entry: %w", err)
		}
		if avg.Valid {
			e.AvgTimeMs = &avg.Float64
		}
		resp.Scores = append(resp.Scores, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if resp.LastUpdated, err = s.lastUpdated(ctx, "reaction_scores"); err != nil {
		return nil, fmt.Errorf("reaction last updated: %w", err)
	}
	return resp, nil
}

func (s *Store) MemoryLeaderboard(ctx context.Context) (*models.LeaderboardResponse[models.MemoryLeaderboardEntry], error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.username, u.country_code, MAX(m.total_score),
		        MAX(m.round1_score), MAX(m.round2_score), MAX(m.round3_score), MAX(m.created_at)
		 FROM memory_scores m
		 JOIN users u ON u.id = m.user_id
		 GROUP BY u.username, u.country_code
		 ORDER BY MAX(m.total_score) DESC`)
	if err != nil {
		return nil, fmt.Errorf("memory leaderboard: %w", err)
	}
	defer rows.Close()

	resp := &models.LeaderboardResponse[models.MemoryLeaderboardEntry]{Scores: []models.MemoryLeaderboardEntry{}}
	for rows.Next() {
		var e models.MemoryLeaderboardEntry
		if err := rows.Scan(&e.Username, &e.CountryCode, &e.BestTotal,
			&e.BestRound1, &e.BestRound2, &e.BestRound3, &e.LastPlayed); err != nil {
			return nil, fmt.Errorf("scan memory entry: %w", err)
		}
		resp.Scores = append(resp.Scores, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if resp.LastUpdated, err = s.lastUpdated(ctx, "memory_scores"); err != nil {
		return nil, fmt.Errorf("memory last updated: %w", err)
	}
	return resp, nil
}

// ── Arithmetic ──────────────────────────────────────────

func scanMathEntries(rows *sql.Rows) ([]models.MathLeaderboardEntry, error) {
	defer rows.Close()
	entries := []models.MathLeaderboardEntry{}
	for rows.Next() {
		var e models.MathLeaderboardEntry
		var avg sql.NullFloat64
		if err := rows.Scan(&e.Username, &e.Score, &e.CorrectCount, &e.WrongCount, &avg, &e.CreatedAt); err != nil {
			return nil, err
		}
		if avg.Valid {
			e.AvgTimeMs = &avg.Float64
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Round1Leaderboard(ctx context.Context) ([]models.MathLeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.username, s.score, s.correct_count, s.wrong_count, s.avg_time_ms, s.created_at
		 FROM math_round1_scores s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.is_valid = TRUE
		 ORDER BY s.score DESC, s.created_at ASC
		 LIMIT $1`,
		mathLeaderboardLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("round1 leaderboard: %w", err)
	}
	return scanMathEntries(rows)
}

// MixedLeaderboard filters by round when roundIndex is set. Rows stored
// without a round index count as round 2.
func (s *Store) MixedLeaderboard(ctx context.Context, roundIndex *int) ([]models.MathLeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.username, s.score, s.correct_count, s.wrong_count, s.avg_time_ms, s.created_at
		 FROM math_mixed_scores s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.is_valid = TRUE
		   AND ($1::INT IS NULL OR s.round_index = $1 OR (s.round_index IS NULL AND $1 = 2))
		 ORDER BY s.score DESC, s.created_at ASC
		 LIMIT $2`,
		roundIndex, mathLeaderboardLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("mixed leaderboard: %w", err)
	}
	return scanMathEntries(rows)
}

// Distribution buckets valid round 1 scores by fixed width.
func (s *Store) Distribution(ctx context.Context) ([]models.ScoreBucket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT FLOOR(score::NUMERIC / $1)::INT AS bucket, COUNT(*)
		 FROM math_round1_scores
		 WHERE is_valid = TRUE
		 GROUP BY bucket
		 ORDER BY bucket`,
		distributionWidth,
	)
	if err != nil {
		return nil, fmt.Errorf("score distribution: %w", err)
	}
	defer rows.Close()

	buckets := []models.ScoreBucket{}
	for rows.Next() {
		var bucket, count int
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, err
		}
		buckets = append(buckets, NewBucket(bucket, count))
	}
	return buckets, rows.Err()
}

// NewBucket covers [index*width, index*width+width-1].
func NewBucket(index, count int) models.ScoreBucket {
	lo := index * distributionWidth
	return models.ScoreBucket{Min: lo, Max: lo + distributionWidth - 1, Count: count}
}

// ── Best Scores ─────────────────────────────────────────

// BestScores returns all-null bests for an unknown username.
func (s *Store) BestScores(ctx context.Context, username string) (*models.BestScores, error) {
	best := &models.BestScores{Username: username}

	var userID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return best, nil
	}
	if err != nil {
		return nil, fmt.Errorf("best scores user: %w", err)
	}

	var reaction, memory sql.NullFloat64
	var arithmetic int
	err = s.db.QueryRowContext(ctx,
		`SELECT (SELECT MAX(score) FROM reaction_scores WHERE user_id = $1),
		        (SELECT MAX(total_score) FROM memory_scores WHERE user_id = $1),
		        GREATEST(
		            COALESCE((SELECT MAX(score) FROM math_round1_scores WHERE user_id = $1), 0),
		            COALESCE((SELECT MAX(score) FROM math_mixed_scores WHERE user_id = $1), 0),
		            COALESCE((SELECT MAX(score) FROM math_scores WHERE user_id = $1), 0),
		            COALESCE((SELECT MAX(combined_score) FROM math_session_scores WHERE user_id = $1), 0)
		        )`,
		userID,
	).Scan(&reaction, &memory, &arithmetic)
	if err != nil {
		return nil, fmt.Errorf("best scores: %w", err)
	}

	if reaction.Valid {
		best.ReactionBest = &reaction.Float64
	}
	if memory.Valid {
		best.MemoryBest = &memory.Float64
	}
	if arithmetic != 0 {
		best.ArithmeticBest = &arithmetic
	}
	return best, nil
}
