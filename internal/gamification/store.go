package gamification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mindgames/backend/internal/database"
	"github.com/mindgames/backend/internal/models"
)

// ── History (transaction-bound) ─────────────────────────

// PGHistory implements History against Postgres.
type PGHistory struct {
	q database.Querier
}

func NewHistory(q database.Querier) *PGHistory {
	return &PGHistory{q: q}
}

func (h *PGHistory) AchievementIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := h.q.QueryContext(ctx, `SELECT id, code FROM achievements`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var code string
		if err := rows.Scan(&id, &code); err != nil {
			return nil, err
		}
		ids[code] = id
	}
	return ids, rows.Err()
}

func (h *PGHistory) TotalRounds(ctx context.Context, userID int64) (int, error) {
	var total int
	err := h.q.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM reaction_scores WHERE user_id = $1)
		      + (SELECT COUNT(*) FROM memory_scores WHERE user_id = $1)
		      + (SELECT COUNT(*) FROM math_round1_scores WHERE user_id = $1)
		      + (SELECT COUNT(*) FROM math_mixed_scores WHERE user_id = $1)
		      + (SELECT COUNT(*) FROM math_scores WHERE user_id = $1)`,
		userID,
	).Scan(&total)
	return total, err
}

func (h *PGHistory) MathQuestionTotal(ctx context.Context, userID int64) (int, error) {
	var total int
	err := h.q.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT SUM(correct_count + wrong_count) FROM math_scores WHERE user_id = $1), 0)
		      + COALESCE((SELECT SUM(correct_count + wrong_count) FROM math_round1_scores WHERE user_id = $1), 0)
		      + COALESCE((SELECT SUM(correct_count + wrong_count) FROM math_mixed_scores WHERE user_id = $1), 0)`,
		userID,
	).Scan(&total)
	return total, err
}

func (h *PGHistory) PlayedAllGames(ctx context.Context, userID int64) (bool, error) {
	var all bool
	err := h.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reaction_scores WHERE user_id = $1)
		    AND EXISTS (SELECT 1 FROM memory_scores WHERE user_id = $1)
		    AND EXISTS (SELECT 1 FROM math_round1_scores WHERE user_id = $1)
		    AND EXISTS (SELECT 1 FROM math_mixed_scores WHERE user_id = $1)`,
		userID,
	).Scan(&all)
	return all, err
}

func (h *PGHistory) ActivityDays(ctx context.Context, userID int64, limit int) ([]time.Time, error) {
	rows, err := h.q.QueryContext(ctx,
		`SELECT DISTINCT day FROM (
		     SELECT DATE(created_at AT TIME ZONE 'UTC') AS day FROM reaction_scores WHERE user_id = $1
		     UNION SELECT DATE(created_at AT TIME ZONE 'UTC') FROM memory_scores WHERE user_id = $1
		     UNION SELECT DATE(created_at AT TIME ZONE 'UTC') FROM math_round1_scores WHERE user_id = $1
		     UNION SELECT DATE(created_at AT TIME ZONE 'UTC') FROM math_mixed_scores WHERE user_id = $1
		     UNION SELECT DATE(created_at AT TIME ZONE 'UTC') FROM math_scores WHERE user_id = $1
		     UNION SELECT DATE(created_at AT TIME ZONE 'UTC') FROM math_session_scores WHERE user_id = $1
		 ) d
		 ORDER BY day DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (h *PGHistory) RecentSessionScores(ctx context.Context, userID int64, limit int) ([]int, error) {
	rows, err := h.q.QueryContext(ctx,
		`SELECT combined_score FROM math_session_scores
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		scores = append(scores, v)
	}
	return scores, rows.Err()
}

func (h *PGHistory) Award(ctx context.Context, userID, achievementID int64) (bool, error) {
	res, err := h.q.ExecContext(ctx,
		`INSERT INTO user_achievements (user_id, achievement_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── Catalog & Listings ──────────────────────────────────

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SeedCatalog inserts any catalog entries missing from the achievements
// table. Existing rows are left untouched.
func (s *Store) SeedCatalog(ctx context.Context) (int, error) {
	inserted := 0
	for _, def := range Catalog {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO achievements (code, name, description, category)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (code) DO NOTHING`,
			def.Code, def.Name, def.Description, def.Category,
		)
		if err != nil {
			return inserted, fmt.Errorf("seed %s: %w", def.Code, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (s *Store) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, description, category FROM achievements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var list []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.Category); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (s *Store) GetUserAchievements(ctx context.Context, userID int64) ([]models.UserAchievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.code, a.name, a.description, a.category, ua.earned_at
		 FROM user_achievements ua
		 JOIN achievements a ON a.id = ua.achievement_id
		 WHERE ua.user_id = $1
		 ORDER BY ua.earned_at DESC, a.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get user achievements: %w", err)
	}
	defer rows.Close()

	var list []models.UserAchievement
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.Code, &ua.Name, &ua.Description, &ua.Category, &ua.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan user achievement: %w", err)
		}
		list = append(list, ua)
	}
	return list, rows.Err()
}
