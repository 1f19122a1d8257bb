package analytics

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/mindgames/backend/internal/models"
)

// ErrPrivateProfile hides a profile the viewer may not see.
var ErrPrivateProfile = errors.New("profile is private")

// UserLookup resolves public usernames.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Achievements lists a user's earned and locked badges.
type Achievements interface {
	GetAchievements(ctx context.Context, userID int64) (*models.AchievementsResponse, error)
}

type Service struct {
	store        *Store
	users        UserLookup
	achievements Achievements
}

func NewService(store *Store, users UserLookup, achievements Achievements) *Service {
	return &Service{store: store, users: users, achievements: achievements}
}

// ── Profile Metrics ─────────────────────────────────────

// ProfileMetrics reads the four summaries concurrently and derives the
// radar from them.
func (s *Service) ProfileMetrics(ctx context.Context, userID int64) (*models.ProfileMetrics, error) {
	var m models.ProfileMetrics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		m.Reaction, err = s.store.ReactionMetrics(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		m.Memory, err = s.store.MemoryMetrics(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		m.Math, err = s.store.MathMetrics(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		m.Global, err = s.store.GlobalMetrics(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.Radar = BuildRadar(&m)
	return &m, nil
}

// ── Insights ────────────────────────────────────────────

func (s *Service) Insights(ctx context.Context, userID int64) (*models.Insights, error) {
	var (
		reaction []reactionSample
		memory   []memorySample
		r1, r2   [][]models.PerQuestionTiming
		r1Best   *int
		r2Best   *int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		reaction, err = s.store.recentReaction(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		memory, err = s.store.recentMemory(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		r1, r1Best, err = s.store.recentMathTimings(gctx, "math_round1_scores", userID)
		return err
	})
	g.Go(func() (err error) {
		r2, r2Best, err = s.store.recentMathTimings(gctx, "math_mixed_scores", userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.Insights{
		Reaction: ReactionInsightsFrom(reaction),
		Memory:   MemoryInsightsFrom(memory),
		Math: models.MathInsights{
			Round1: MathRoundInsightsFrom(r1, r1Best),
			Round2: MathRoundInsightsFrom(r2, r2Best),
		},
	}, nil
}

// ── Visibility ──────────────────────────────────────────

// ResolveProfile returns the owner of username when viewerID may see it.
// Private profiles are reported as ErrPrivateProfile to everyone but
// their owner.
func (s *Service) ResolveProfile(ctx context.Context, username string, viewerID int64, hasViewer bool) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !CanView(user, viewerID, hasViewer) {
		return nil, ErrPrivateProfile
	}
	return user, nil
}

func CanView(owner *models.User, viewerID int64, hasViewer bool) bool {
	return owner.IsPublic || (hasViewer && viewerID == owner.ID)
}

func (s *Service) ProfileAchievements(ctx context.Context, userID int64) (*models.AchievementsResponse, error) {
	return s.achievements.GetAchievements(ctx, userID)
}
