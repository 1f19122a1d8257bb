package games

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mindgames/backend/internal/database"
	"github.com/mindgames/backend/internal/gamification"
	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/metrics"
	"github.com/mindgames/backend/internal/models"
	"github.com/mindgames/backend/internal/scoring"
)

// Evaluator awards achievements inside the score transaction.
type Evaluator interface {
	EvaluateInTx(ctx context.Context, tx *sql.Tx, userID int64, gameType string, sc models.ScoreContext) []string
}

// Publisher pushes messages to a user's live connections.
type Publisher interface {
	Publish(userID int64, msg interface{})
}

type Service struct {
	db        *sql.DB
	store     *Store
	evaluator Evaluator
	publisher Publisher
	log       *logger.Logger
}

// Guest is the user id of a logged-out player. Guest submissions are
// validated and scored but never stored or evaluated.
const Guest int64 = 0

func NewService(db *sql.DB, store *Store, evaluator Evaluator, publisher Publisher, log *logger.Logger) *Service {
	return &Service{db: db, store: store, evaluator: evaluator, publisher: publisher, log: log}
}

func (s *Service) reject(game string, err error) error {
	if IsValidationError(err) {
		metrics.RecordScoreRejected(game)
	}
	return err
}

// committed runs after a score transaction commits.
func (s *Service) committed(userID int64, game string, awarded []string) []string {
	metrics.RecordScoreSubmitted(game)
	s.log.Debug("score stored", "user_id", userID, "game", game, "new_achievements", len(awarded))
	if s.publisher != nil {
		for _, ev := range gamification.Events(awarded) {
			s.publisher.Publish(userID, ev)
		}
	}
	if awarded == nil {
		return []string{}
	}
	return awarded
}

// ── Reaction ────────────────────────────────────────────

func (s *Service) SubmitReaction(ctx context.Context, userID int64, sub models.ReactionSubmission) (*models.ReactionResponse, error) {
	records, err := ValidateAnswerRecord(sub.AnswerRecord)
	if err != nil {
		return nil, s.reject(models.GameReaction, err)
	}
	result := scoring.ScoreReaction(records)
	if err := checkReactionResult(result); err != nil {
		return nil, s.reject(models.GameReaction, err)
	}

	if userID == Guest {
		return &models.ReactionResponse{
			Status:          "success",
			ScoreResult:     result,
			NewAchievements: []string{},
			Message:         "Login to save your reaction score",
		}, nil
	}

	// Stored and evaluated as a fraction; the response keeps the percentage.
	accuracy := scoring.AccuracyFraction(result.Accuracy)
	avg := result.AverageTime

	var awarded []string
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, createdAt, err := s.store.InsertReaction(ctx, tx, userID, result, accuracy)
		if err != nil {
			return err
		}
		awarded = s.evaluator.EvaluateInTx(ctx, tx, userID, models.GameReaction, models.ScoreContext{
			AverageTimeMs: &avg,
			Accuracy:      &accuracy,
			CreatedAt:     createdAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.ReactionResponse{
		Status:          "success",
		ScoreResult:     result,
		NewAchievements: s.committed(userID, models.GameReaction, awarded),
	}, nil
}

// ── Memory ──────────────────────────────────────────────

func (s *Service) SubmitMemory(ctx context.Context, userID int64, sub models.MemorySubmission) (*models.MemoryResponse, error) {
	entries, err := ValidateQuestionLog(sub.QuestionLog)
	if err != nil {
		return nil, s.reject(models.GameMemory, err)
	}
	result, err := floorMemory(scoring.ScoreMemory(entries))
	if err != nil {
		return nil, s.reject(models.GameMemory, err)
	}

	resp := &models.MemoryResponse{
		Status:        "success",
		FinalScore:    result.Total,
		Round1Score:   result.Round1,
		Round2Score:   result.Round2,
		Round3Score:   result.Round3,
		NearMisses:    result.NearMisses,
		GuessCount:    result.GuessCount,
		AvgDurationMs: result.AvgDurationMs,
		AvgIntervalMs: result.AvgIntervalMs,
	}
	if userID == Guest {
		resp.NewAchievements = []string{}
		resp.Message = "Login to save your memory score"
		return resp, nil
	}

	var awarded []string
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, createdAt, err := s.store.InsertMemory(ctx, tx, userID, result, entries)
		if err != nil {
			return err
		}
		total, err := s.store.MemoryRunningTotal(ctx, tx, userID)
		if err != nil {
			return err
		}
		awarded = s.evaluator.EvaluateInTx(ctx, tx, userID, models.GameMemory, models.ScoreContext{
			RunningTotal: total,
			CreatedAt:    createdAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.NewAchievements = s.committed(userID, models.GameMemory, awarded)
	return resp, nil
}

// ── Arithmetic ──────────────────────────────────────────

func mathGameType(roundIndex int) string {
	switch roundIndex {
	case 2:
		return models.GameMathRound2
	case 3:
		return models.GameMathRound3
	}
	return models.GameMathRound1
}

// SubmitMathRound stores one arithmetic round; roundIndex is 1, 2 or 3.
func (s *Service) SubmitMathRound(ctx context.Context, userID int64, roundIndex int, sub models.MathRoundSubmission) (*models.MathRoundResponse, error) {
	game := mathGameType(roundIndex)
	if err := ValidateMathRound(sub); err != nil {
		return nil, s.reject(game, err)
	}

	score := scoring.ArithmeticScore(sub.CorrectCount, sub.WrongCount, sub.Timings())
	if err := EnforceRange(float64(score), -2000, 50000, "Score"); err != nil {
		return nil, s.reject(game, err)
	}

	row := &models.MathRoundScore{
		RoundIndex:     roundIndex,
		Score:          score,
		CorrectCount:   sub.CorrectCount,
		WrongCount:     sub.WrongCount,
		AvgTimeMs:      sub.AvgTimeMs,
		MinTimeMs:      sub.MinTimeMs,
		TotalQuestions: sub.TotalQuestions,
		IsValid:        scoring.IsValidRound(sub.MinTimeMs),
	}
	if row.TotalQuestions == 0 {
		row.TotalQuestions = sub.CorrectCount + sub.WrongCount
	}

	resp := &models.MathRoundResponse{
		Status:       "success",
		RoundIndex:   roundIndex,
		Score:        row.Score,
		CorrectCount: row.CorrectCount,
		WrongCount:   row.WrongCount,
		AvgTimeMs:    row.AvgTimeMs,
		MinTimeMs:    row.MinTimeMs,
		IsValid:      row.IsValid,
	}
	if userID == Guest {
		resp.NewAchievements = []string{}
		resp.Message = fmt.Sprintf("Login to save your Round %d score", roundIndex)
		return resp, nil
	}

	var awarded []string
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.store.InsertMathRound(ctx, tx, userID, row, sub); err != nil {
			return err
		}
		awarded = s.evaluator.EvaluateInTx(ctx, tx, userID, game, models.ScoreContext{
			AvgTimeMs:    row.AvgTimeMs,
			CorrectCount: row.CorrectCount,
			WrongCount:   row.WrongCount,
			CreatedAt:    row.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.ScoreID = &row.ID
	resp.NewAchievements = s.committed(userID, game, awarded)
	return resp, nil
}

func (s *Service) SubmitMathSession(ctx context.Context, userID int64, sub models.MathSessionSubmission) (*models.MathSessionResponse, error) {
	if err := ValidateMathSession(sub); err != nil {
		return nil, s.reject(models.GameMathSession, err)
	}
	if userID == Guest {
		return &models.MathSessionResponse{
			Status:          "success",
			CombinedScore:   sub.CombinedScore,
			NewAchievements: []string{},
			Message:         "Login to save your math session",
		}, nil
	}

	var row *models.MathSessionScore
	var awarded []string
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		owns, err := s.store.OwnsRounds(ctx, tx, userID, sub)
		if err != nil {
			return err
		}
		if !owns {
			return invalid("Round scores not found")
		}
		if row, err = s.store.InsertMathSession(ctx, tx, userID, sub); err != nil {
			return err
		}
		awarded = s.evaluator.EvaluateInTx(ctx, tx, userID, models.GameMathSession, models.ScoreContext{
			CreatedAt: row.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, s.reject(models.GameMathSession, err)
	}

	return &models.MathSessionResponse{
		Status:          "success",
		SessionID:       &row.ID,
		CombinedScore:   row.CombinedScore,
		NewAchievements: s.committed(userID, models.GameMathSession, awarded),
	}, nil
}

// ── Leaderboards ────────────────────────────────────────

func (s *Service) ReactionLeaderboard(ctx context.Context) (*models.LeaderboardResponse[models.ReactionLeaderboardEntry], error) {
	return s.store.ReactionLeaderboard(ctx)
}

func (s *Service) MemoryLeaderboard(ctx context.Context) (*models.LeaderboardResponse[models.MemoryLeaderboardEntry], error) {
	return s.store.MemoryLeaderboard(ctx)
}

func (s *Service) Round1Leaderboard(ctx context.Context) ([]models.MathLeaderboardEntry, error) {
	return s.store.Round1Leaderboard(ctx)
}

func (s *Service) MixedLeaderboard(ctx context.Context, roundIndex *int) ([]models.MathLeaderboardEntry, error) {
	return s.store.MixedLeaderboard(ctx, roundIndex)
}

func (s *Service) Distribution(ctx context.Context) ([]models.ScoreBucket, error) {
	return s.store.Distribution(ctx)
}

func (s *Service) BestScores(ctx context.Context, username string) (*models.BestScores, error) {
	if !models.ValidUsername(username) {
		return nil, invalid("Invalid username")
	}
	return s.store.BestScores(ctx, username)
}
