package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/mindgames/backend/internal/models"
)

// History is the cumulative per-user data the rules read, plus the award
// write. Implementations must see the score row inserted just before
// Evaluate, so they are normally bound to the caller's transaction.
type History interface {
	AchievementIDs(ctx context.Context) (map[string]int64, error)
	TotalRounds(ctx context.Context, userID int64) (int, error)
	MathQuestionTotal(ctx context.Context, userID int64) (int, error)
	PlayedAllGames(ctx context.Context, userID int64) (bool, error)
	// ActivityDays returns distinct UTC activity days, newest first.
	ActivityDays(ctx context.Context, userID int64, limit int) ([]time.Time, error)
	// RecentSessionScores returns combined session scores, newest first.
	RecentSessionScores(ctx context.Context, userID int64, limit int) ([]int, error)
	// Award reports whether a new row was written.
	Award(ctx context.Context, userID, achievementID int64) (bool, error)
}

// LoadStats reads everything Rules look at for one submission.
func LoadStats(ctx context.Context, h History, userID int64, gameType string, sc models.ScoreContext) (Stats, error) {
	s := Stats{GameType: gameType, Score: sc}
	var err error

	if s.TotalRounds, err = h.TotalRounds(ctx, userID); err != nil {
		return s, fmt.Errorf("total rounds: %w", err)
	}
	if s.MathQuestions, err = h.MathQuestionTotal(ctx, userID); err != nil {
		return s, fmt.Errorf("math questions: %w", err)
	}
	if s.PlayedAllGames, err = h.PlayedAllGames(ctx, userID); err != nil {
		return s, fmt.Errorf("played all games: %w", err)
	}

	days, err := h.ActivityDays(ctx, userID, StreakWindow)
	if err != nil {
		return s, fmt.Errorf("activity days: %w", err)
	}
	s.StreakDays = ConsecutiveDays(days)

	if gameType == models.GameMathSession {
		if s.RecentSessions, err = h.RecentSessionScores(ctx, userID, 2); err != nil {
			return s, fmt.Errorf("recent sessions: %w", err)
		}
	}
	return s, nil
}

// Evaluate checks every rule for the submission just written and awards
// the ones that hold. It returns only the codes that were newly earned;
// re-running it for the same state awards nothing.
func Evaluate(ctx context.Context, h History, userID int64, gameType string, sc models.ScoreContext) ([]string, error) {
	stats, err := LoadStats(ctx, h, userID, gameType, sc)
	if err != nil {
		return nil, err
	}

	codes := Qualified(stats)
	if len(codes) == 0 {
		return nil, nil
	}

	ids, err := h.AchievementIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("achievement ids: %w", err)
	}

	var awarded []string
	for _, code := range codes {
		id, ok := ids[code]
		if !ok {
			// Not seeded; nothing to award against.
			continue
		}
		isNew, err := h.Award(ctx, userID, id)
		if err != nil {
			return awarded, fmt.Errorf("award %s: %w", code, err)
		}
		if isNew {
			awarded = append(awarded, code)
		}
	}
	return awarded, nil
}
