package games

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mindgames/backend/internal/database"
	"github.com/mindgames/backend/internal/database/dbtest"
	"github.com/mindgames/backend/internal/gamification"
	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/models"
)

type recordingPublisher struct {
	msgs []interface{}
}

func (p *recordingPublisher) Publish(_ int64, msg interface{}) {
	p.msgs = append(p.msgs, msg)
}

// failingEvaluator breaks its savepoint the way a bad achievement query would.
type failingEvaluator struct{}

func (failingEvaluator) EvaluateInTx(ctx context.Context, tx *sql.Tx, _ int64, _ string, _ models.ScoreContext) []string {
	database.Savepoint(ctx, tx, "achievements", func() error {
		_, err := tx.ExecContext(ctx, `SELECT * FROM no_such_table`)
		return err
	})
	return nil
}

func setupService(t *testing.T, eval Evaluator) (*Service, *sql.DB, int64, *recordingPublisher) {
	t.Helper()
	db := dbtest.Open(t)
	ctx := context.Background()

	if _, err := gamification.NewStore(db).SeedCatalog(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var userID int64
	if err := db.QueryRow(`INSERT INTO users (username, password_hash) VALUES ('player_one', 'x') RETURNING id`).Scan(&userID); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if eval == nil {
		eval = gamification.NewService(gamification.NewStore(db), logger.Nop())
	}
	pub := &recordingPublisher{}
	return NewService(db, NewStore(db), eval, pub, logger.Nop()), db, userID, pub
}

func perfectRound(n int) models.ReactionSubmission {
	sub := models.ReactionSubmission{}
	for i := 0; i < n; i++ {
		sub.AnswerRecord = append(sub.AnswerRecord, models.RawAnswer{ReactionTime: fptr(240), IsCorrect: bptr(true)})
	}
	return sub
}

func TestSubmitReactionAwardsAndStoresFraction(t *testing.T) {
	svc, db, userID, pub := setupService(t, nil)
	ctx := context.Background()

	resp, err := svc.SubmitReaction(ctx, userID, perfectRound(5))
	if err != nil {
		t.Fatalf("SubmitReaction: %v", err)
	}
	if resp.ScoreResult.Accuracy != 100 {
		t.Errorf("response accuracy = %v, want 100", resp.ScoreResult.Accuracy)
	}

	var stored float64
	if err := db.QueryRow(`SELECT accuracy FROM reaction_scores WHERE user_id = $1`, userID).Scan(&stored); err != nil {
		t.Fatalf("read accuracy: %v", err)
	}
	if stored != 1 {
		t.Errorf("stored accuracy = %v, want 1", stored)
	}

	want := map[string]bool{
		gamification.ReactionPerfectRound: true,
		gamification.ReactionSub300:       true,
		gamification.ReactionSub250:       true,
	}
	for _, code := range resp.NewAchievements {
		delete(want, code)
	}
	if len(want) != 0 {
		t.Errorf("NewAchievements = %v, missing %v", resp.NewAchievements, want)
	}
	if len(pub.msgs) != len(resp.NewAchievements) {
		t.Errorf("published %d events, want %d", len(pub.msgs), len(resp.NewAchievements))
	}

	again, err := svc.SubmitReaction(ctx, userID, perfectRound(5))
	if err != nil {
		t.Fatalf("second SubmitReaction: %v", err)
	}
	for _, code := range again.NewAchievements {
		if code == gamification.ReactionPerfectRound {
			t.Errorf("%s awarded twice", code)
		}
	}
}

func TestSubmitReactionNinetyEightPercentIsNotPerfect(t *testing.T) {
	svc, _, userID, _ := setupService(t, nil)

	sub := perfectRound(49)
	sub.AnswerRecord = append(sub.AnswerRecord, models.RawAnswer{ReactionTime: fptr(240), IsCorrect: bptr(false)})
	resp, err := svc.SubmitReaction(context.Background(), userID, sub)
	if err != nil {
		t.Fatalf("SubmitReaction: %v", err)
	}
	for _, code := range resp.NewAchievements {
		if code == gamification.ReactionPerfectRound {
			t.Errorf("98%% round awarded %s", code)
		}
	}
}

func TestEvaluationFailureStillCommitsScore(t *testing.T) {
	svc, db, userID, _ := setupService(t, failingEvaluator{})

	resp, err := svc.SubmitReaction(context.Background(), userID, perfectRound(3))
	if err != nil {
		t.Fatalf("SubmitReaction: %v", err)
	}
	if len(resp.NewAchievements) != 0 {
		t.Errorf("NewAchievements = %v, want none", resp.NewAchievements)
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM reaction_scores WHERE user_id = $1`, userID).Scan(&n)
	if n != 1 {
		t.Errorf("stored %d reaction rows, want 1", n)
	}
}

func TestMathSessionComeback(t *testing.T) {
	svc, _, userID, _ := setupService(t, nil)
	ctx := context.Background()

	round := models.MathRoundSubmission{CorrectCount: 10, WrongCount: 1, AvgTimeMs: 2000, MinTimeMs: 800}
	r1, err := svc.SubmitMathRound(ctx, userID, 1, round)
	if err != nil {
		t.Fatalf("round1: %v", err)
	}
	r2, err := svc.SubmitMathRound(ctx, userID, 2, round)
	if err != nil {
		t.Fatalf("round2: %v", err)
	}
	if r1.Score != 98 || !r1.IsValid {
		t.Errorf("round1 = %+v, want score 98 and valid", r1)
	}

	first, err := svc.SubmitMathSession(ctx, userID, models.MathSessionSubmission{
		Round1ScoreID: *r1.ScoreID, Round2ScoreID: *r2.ScoreID, CombinedScore: 100,
	})
	if err != nil {
		t.Fatalf("first session: %v", err)
	}
	for _, code := range first.NewAchievements {
		if code == gamification.Comeback {
			t.Errorf("first session awarded %s", code)
		}
	}

	second, err := svc.SubmitMathSession(ctx, userID, models.MathSessionSubmission{
		Round1ScoreID: *r1.ScoreID, Round2ScoreID: *r2.ScoreID, CombinedScore: 130,
	})
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	found := false
	for _, code := range second.NewAchievements {
		found = found || code == gamification.Comeback
	}
	if !found {
		t.Errorf("second session NewAchievements = %v, want %s", second.NewAchievements, gamification.Comeback)
	}
}

func TestMathSessionRejectsForeignRounds(t *testing.T) {
	svc, _, userID, _ := setupService(t, nil)
	_, err := svc.SubmitMathSession(context.Background(), userID, models.MathSessionSubmission{
		Round1ScoreID: 999, Round2ScoreID: 998, CombinedScore: 10,
	})
	if !IsValidationError(err) {
		t.Errorf("SubmitMathSession(unknown rounds) = %v, want validation error", err)
	}
}

func TestGuestSubmissionLeavesNoRows(t *testing.T) {
	svc, db, _, pub := setupService(t, nil)
	ctx := context.Background()

	resp, err := svc.SubmitReaction(ctx, Guest, perfectRound(5))
	if err != nil {
		t.Fatalf("SubmitReaction: %v", err)
	}
	if len(resp.NewAchievements) != 0 || resp.Message == "" {
		t.Errorf("guest response = %+v, want no achievements and a login message", resp)
	}

	var scores, awards int
	db.QueryRow(`SELECT COUNT(*) FROM reaction_scores`).Scan(&scores)
	db.QueryRow(`SELECT COUNT(*) FROM user_achievements`).Scan(&awards)
	if scores != 0 || awards != 0 {
		t.Errorf("guest left %d scores and %d awards, want none", scores, awards)
	}
	if len(pub.msgs) != 0 {
		t.Errorf("guest published %d events, want 0", len(pub.msgs))
	}
}
