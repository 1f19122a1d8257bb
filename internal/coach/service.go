// Package coach turns a player's profile metrics into short training tips
// using an LLM.
package coach

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/models"
)

var ErrDisabled = errors.New("coach disabled")

// Profiles supplies the numbers the prompt is built from.
type Profiles interface {
	ProfileMetrics(ctx context.Context, userID int64) (*models.ProfileMetrics, error)
	Insights(ctx context.Context, userID int64) (*models.Insights, error)
}

// Model names the backend for the response.
type Model interface {
	LLMClient
	Model() string
}

type Service struct {
	llm      Model
	profiles Profiles
	log      *logger.Logger
}

// NewService returns a coach backed by llm. A nil llm yields a disabled coach.
func NewService(llm Model, profiles Profiles, log *logger.Logger) *Service {
	return &Service{llm: llm, profiles: profiles, log: log.With("component", "coach")}
}

func (s *Service) Enabled() bool {
	return s != nil && s.llm != nil
}

func (s *Service) Tips(ctx context.Context, userID int64) (*models.CoachResponse, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	var (
		metrics  *models.ProfileMetrics
		insights *models.Insights
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		metrics, err = s.profiles.ProfileMetrics(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		insights, err = s.profiles.Insights(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	resp, err := s.llm.Generate(ctx, SystemPrompt(), BuildUserPrompt(metrics, insights))
	if err != nil {
		return nil, fmt.Errorf("generate tips: %w", err)
	}

	tips, err := ParseTips(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse tips: %w", err)
	}
	if repetitive(tips) {
		s.log.Warn("coach tips overlap heavily", "user_id", userID)
	}

	s.log.Debug("coach tips generated", "user_id", userID,
		"prompt_tokens", resp.PromptTokens, "output_tokens", resp.OutputTokens)

	return &models.CoachResponse{Tips: tips, Model: s.llm.Model()}, nil
}
