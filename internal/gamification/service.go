package gamification

import (
	"context"
	"database/sql"

	"github.com/mindgames/backend/internal/database"
	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/metrics"
	"github.com/mindgames/backend/internal/models"
)

type Service struct {
	store *Store
	log   *logger.Logger
}

func NewService(store *Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// ── Evaluation ──────────────────────────────────────────

// EvaluateInTx runs the achievement rules inside tx, after the caller has
// inserted the score row. A failure rolls back only the achievement work
// so the score still commits; it is logged and reported as no awards.
func (s *Service) EvaluateInTx(ctx context.Context, tx *sql.Tx, userID int64, gameType string, sc models.ScoreContext) []string {
	var awarded []string
	err := database.Savepoint(ctx, tx, "achievements", func() error {
		var err error
		awarded, err = Evaluate(ctx, NewHistory(tx), userID, gameType, sc)
		return err
	})
	if err != nil {
		s.log.Error("achievement evaluation failed",
			"user_id", userID, "game", gameType, "error", err)
		metrics.RecordEvaluationFailure()
		return nil
	}

	for _, code := range awarded {
		metrics.RecordAchievementAwarded(code)
	}
	if len(awarded) > 0 {
		s.log.Info("achievements awarded", "user_id", userID, "codes", awarded)
	}
	return awarded
}

// Events converts awarded codes into push notifications.
func Events(codes []string) []models.AchievementEvent {
	events := make([]models.AchievementEvent, 0, len(codes))
	for _, code := range codes {
		def, ok := Lookup(code)
		if !ok {
			continue
		}
		events = append(events, models.AchievementEvent{
			Type:     "achievement",
			Code:     def.Code,
			Name:     def.Name,
			Category: def.Category,
		})
	}
	return events
}

// ── Listings ────────────────────────────────────────────

func (s *Service) Seed(ctx context.Context) error {
	n, err := s.store.SeedCatalog(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("seeded achievements", "count", n)
	}
	return nil
}

func (s *Service) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	return s.store.ListAchievements(ctx)
}

// GetAchievements splits the catalog into what userID has earned and what
// is still locked.
func (s *Service) GetAchievements(ctx context.Context, userID int64) (*models.AchievementsResponse, error) {
	all, err := s.store.ListAchievements(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := s.store.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SplitEarned(all, earned), nil
}

// SplitEarned keeps catalog order for the locked list.
func SplitEarned(all []models.Achievement, earned []models.UserAchievement) *models.AchievementsResponse {
	have := make(map[string]bool, len(earned))
	for _, ua := range earned {
		have[ua.Code] = true
	}

	resp := &models.AchievementsResponse{
		Earned: earned,
		Locked: []models.Achievement{},
	}
	if resp.Earned == nil {
		resp.Earned = []models.UserAchievement{}
	}
	for _, a := range all {
		if !have[a.Code] {
			resp.Locked = append(resp.Locked, a)
		}
	}
	return resp
}
