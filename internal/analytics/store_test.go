package analytics

import (
	"context"
	"database/sql"
	"math"
	"testing"

	"github.com/mindgames/backend/internal/database/dbtest"
	"github.com/mindgames/backend/internal/models"
)

func insertUser(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow(`INSERT INTO users (username, password_hash) VALUES ($1, 'x') RETURNING id`, name).Scan(&id); err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
	return id
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
}

func insertID(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow(query, args...).Scan(&id); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return id
}

func near(got *float64, want float64) bool {
	return got != nil && math.Abs(*got-want) < 1e-9
}

func TestProfileMetricsFreshUser(t *testing.T) {
	db := dbtest.Open(t)
	userID := insertUser(t, db, "newcomer")
	svc := NewService(NewStore(db), fakeUsers{}, nil)

	m, err := svc.ProfileMetrics(context.Background(), userID)
	if err != nil {
		t.Fatalf("ProfileMetrics: %v", err)
	}

	r := m.Reaction
	if r.AvgReactionMs != nil || r.BestReactionMs != nil || r.WorstReactionMs != nil ||
		r.Accuracy != nil || r.BestScore != nil || r.MeanScore != nil {
		t.Errorf("reaction = %+v, want all null", r)
	}
	mem := m.Memory
	if mem.BestTotalScore != nil || mem.AvgTotalScore != nil || mem.AvgRound1Score != nil ||
		mem.AvgRound2Score != nil || mem.AvgRound3Score != nil || mem.Sessions != 0 {
		t.Errorf("memory = %+v, want all null", mem)
	}
	for i, round := range []models.MathRoundMetrics{m.Math.Round1, m.Math.Round2, m.Math.Round3} {
		if round.Best != nil || round.Accuracy != nil || round.QPM != nil {
			t.Errorf("math round %d = %+v, want all null", i+1, round)
		}
	}
	if m.Math.TotalQuestions != 0 || m.Math.TotalMathSessions != 0 || m.Math.SessionBestCombined != nil {
		t.Errorf("math totals = %+v, want zero", m.Math)
	}
	if m.Global != (models.GlobalMetrics{}) {
		t.Errorf("global = %+v, want zero", m.Global)
	}
	if m.Radar != (models.Radar{}) {
		t.Errorf("radar = %+v, want zero", m.Radar)
	}
}

func TestProfileMetricsSeededHistory(t *testing.T) {
	db := dbtest.Open(t)
	userID := insertUser(t, db, "regular")
	other := insertUser(t, db, "bystander")

	// Day one: 2026-01-05 UTC
	mustExec(t, db, `INSERT INTO reaction_scores
		(user_id, score, average_time_ms, fastest_time_ms, slowest_time_ms, accuracy, created_at)
		VALUES ($1, 900, 300, 250, 400, 1.0, '2026-01-05 10:00:00+00')`, userID)
	mustExec(t, db, `INSERT INTO memory_scores
		(user_id, total_score, round1_score, round2_score, round3_score, created_at)
		VALUES ($1, 120, 30, 40, 50, '2026-01-05 10:05:00+00')`, userID)
	mustExec(t, db, `INSERT INTO math_scores
		(user_id, score, correct_count, wrong_count, avg_time_ms, min_time_ms, created_at)
		VALUES ($1, 40, 4, 1, 2500, 900, '2026-01-05 10:10:00+00')`, userID)

	// Day two: late on 2026-01-06 UTC
	mustExec(t, db, `INSERT INTO reaction_scores
		(user_id, score, average_time_ms, fastest_time_ms, slowest_time_ms, accuracy, created_at)
		VALUES ($1, 700, 400, 300, 600, 0.5, '2026-01-06 23:30:00+00')`, userID)
	round1 := insertID(t, db, `INSERT INTO math_round1_scores
		(user_id, score, correct_count, wrong_count, avg_time_ms, min_time_ms, created_at)
		VALUES ($1, 100, 8, 2, 1500, 400, '2026-01-06 23:40:00+00') RETURNING id`, userID)

	// Day three: 2026-01-07 UTC, written with a local offset that still reads 01-06
	round2 := insertID(t, db, `INSERT INTO math_mixed_scores
		(user_id, round_index, score, correct_count, wrong_count, avg_time_ms, min_time_ms, total_questions, created_at)
		VALUES ($1, NULL, 80, 6, 4, 2000, 500, 10, '2026-01-06 20:30:00-05') RETURNING id`, userID)
	mustExec(t, db, `INSERT INTO math_mixed_scores
		(user_id, round_index, score, correct_count, wrong_count, avg_time_ms, min_time_ms, total_questions, created_at)
		VALUES ($1, 2, 90, 9, 1, 1000, 450, 10, '2026-01-07 02:00:00+00')`, userID)
	mustExec(t, db, `INSERT INTO math_mixed_scores
		(user_id, round_index, score, correct_count, wrong_count, avg_time_ms, min_time_ms, total_questions, created_at)
		VALUES ($1, 3, 50, 5, 5, 3000, 800, 10, '2026-01-07 02:10:00+00')`, userID)
	mustExec(t, db, `INSERT INTO math_session_scores
		(user_id, round1_score_id, round2_score_id, combined_score, created_at)
		VALUES ($1, $2, $3, 220, '2026-01-07 02:20:00+00')`, userID, round1, round2)

	// Someone else's round must not leak in.
	mustExec(t, db, `INSERT INTO reaction_scores
		(user_id, score, average_time_ms, fastest_time_ms, slowest_time_ms, accuracy, created_at)
		VALUES ($1, 5000, 150, 100, 200, 1.0, '2026-01-08 10:00:00+00')`, other)

	svc := NewService(NewStore(db), fakeUsers{}, nil)
	m, err := svc.ProfileMetrics(context.Background(), userID)
	if err != nil {
		t.Fatalf("ProfileMetrics: %v", err)
	}

	r := m.Reaction
	if !near(r.AvgReactionMs, 350) || !near(r.BestReactionMs, 250) || !near(r.WorstReactionMs, 600) {
		t.Errorf("reaction times = %v/%v/%v, want 350/250/600", r.AvgReactionMs, r.BestReactionMs, r.WorstReactionMs)
	}
	if !near(r.Accuracy, 0.75) || !near(r.BestScore, 900) || !near(r.MeanScore, 800) {
		t.Errorf("reaction accuracy/best/mean = %v/%v/%v, want 0.75/900/800", r.Accuracy, r.BestScore, r.MeanScore)
	}

	if m.Memory.Sessions != 1 || !near(m.Memory.BestTotalScore, 120) || !near(m.Memory.AvgRound3Score, 50) {
		t.Errorf("memory = %+v, want 1 session best 120", m.Memory)
	}

	tests := []struct {
		name     string
		got      models.MathRoundMetrics
		best     int
		accuracy float64
		qpm      float64
	}{
		{"round1", m.Math.Round1, 100, 0.8, 40},
		// NULL round_index rows count as round 2.
		{"round2", m.Math.Round2, 90, 0.75, 40},
		{"round3", m.Math.Round3, 50, 0.5, 20},
	}
	for _, tt := range tests {
		if tt.got.Best == nil || *tt.got.Best != tt.best {
			t.Errorf("%s best = %v, want %d", tt.name, tt.got.Best, tt.best)
		}
		if !near(tt.got.Accuracy, tt.accuracy) {
			t.Errorf("%s accuracy = %v, want %v", tt.name, tt.got.Accuracy, tt.accuracy)
		}
		if !near(tt.got.QPM, tt.qpm) {
			t.Errorf("%s qpm = %v, want %v", tt.name, tt.got.QPM, tt.qpm)
		}
	}

	// round1 + mixed + session rows; legacy math_scores rows are not sessions.
	if m.Math.TotalMathSessions != 5 {
		t.Errorf("total_math_sessions = %d, want 5", m.Math.TotalMathSessions)
	}
	if m.Math.TotalQuestions != 45 {
		t.Errorf("total_questions = %d, want 45", m.Math.TotalQuestions)
	}
	if m.Math.SessionBestCombined == nil || *m.Math.SessionBestCombined != 220 {
		t.Errorf("session_best_combined = %v, want 220", m.Math.SessionBestCombined)
	}

	if m.Global.TotalRounds != 9 || m.Global.SessionsPlayed != 3 || m.Global.AvgRoundsPerSession != 3 {
		t.Errorf("global = %+v, want 9 rounds over 3 UTC days", m.Global)
	}

	want := models.Radar{
		ProcessingSpeed: 75, // (800-350)/600
		Accuracy:        75,
		WorkingMemory:   80, // 120/150
		Consistency:     10, // 5/50
		Engagement:      45, // 3 days*5 + 3 rounds/day*10
	}
	if m.Radar != want {
		t.Errorf("radar = %+v, want %+v", m.Radar, want)
	}
}
