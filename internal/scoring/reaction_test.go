package scoring

import (
	"math"
	"testing"

	"github.com/mindgames/backend/internal/models"
)

func answers(pairs ...interface{}) []models.AnswerRecord {
	var out []models.AnswerRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.AnswerRecord{
			ReactionTimeMs: float64(pairs[i].(int)),
			IsCorrect:      pairs[i+1].(bool),
		})
	}
	return out
}

func TestScoreReactionSingleCorrect(t *testing.T) {
	got := ScoreReaction(answers(200, true))

	want := models.ReactionResult{
		FinalScore:       7.5,
		AverageTime:      200,
		Accuracy:         100,
		SpeedBonus:       5,
		FastestTimeBonus: 1.5,
		FastestTime:      200,
		SlowestTime:      200,
		PenaltyMessage:   MessageNoPenalty,
	}
	if got != want {
		t.Errorf("ScoreReaction([200 ok]) = %+v, want %+v", got, want)
	}
}

func TestScoreReactionIncorrectStreak(t *testing.T) {
	got := ScoreReaction(answers(400, false, 400, false, 400, false, 400, true))

	if got.StreakPenalty != 3 {
		t.Errorf("StreakPenalty = %v, want 3", got.StreakPenalty)
	}
	// avg = 1600/1, speed = -2 * 1000/1600
	if got.AverageTime != 1600 {
		t.Errorf("AverageTime = %v, want 1600", got.AverageTime)
	}
	if got.SpeedBonus != -1.25 {
		t.Errorf("SpeedBonus = %v, want -1.25", got.SpeedBonus)
	}
	if got.FinalScore != -6.25 {
		t.Errorf("FinalScore = %v, want -6.25", got.FinalScore)
	}
	if got.Accuracy != 25 {
		t.Errorf("Accuracy = %v, want 25", got.Accuracy)
	}
	if got.PenaltyMessage != MessageStreakPenalty {
		t.Errorf("PenaltyMessage = %q, want %q", got.PenaltyMessage, MessageStreakPenalty)
	}
}

func TestScoreReactionEmpty(t *testing.T) {
	got := ScoreReaction(nil)
	want := models.ReactionResult{PenaltyMessage: MessageNoPenalty}
	if got != want {
		t.Errorf("ScoreReaction(nil) = %+v, want %+v", got, want)
	}
}

func TestScoreReactionAllIncorrect(t *testing.T) {
	got := ScoreReaction(answers(300, false, 350, false))
	if got.AverageTime != 0 || got.SpeedBonus != 0 {
		t.Errorf("no correct answers: AverageTime=%v SpeedBonus=%v, want 0, 0", got.AverageTime, got.SpeedBonus)
	}
	if got.FinalScore != -4 {
		t.Errorf("FinalScore = %v, want -4 (-2 answers, -2 streak)", got.FinalScore)
	}
}

func TestScoreReactionSlowestPenalty(t *testing.T) {
	got := ScoreReaction(answers(1000, true, 250, true))
	if got.SlowestTimePenalty != 2 {
		t.Errorf("SlowestTimePenalty = %v, want 2", got.SlowestTimePenalty)
	}
	if got.FastestTimeBonus != 1.2 {
		t.Errorf("FastestTimeBonus = %v, want 1.2", got.FastestTimeBonus)
	}
}

// The stored average divides the time of every answer by the correct count.
func TestScoreReactionAverageCountsAllTimes(t *testing.T) {
	records := answers(200, true, 400, false)
	if got := ScoreReaction(records).AverageTime; got != 600 {
		t.Errorf("AverageTime = %v, want 600", got)
	}
}

func TestCorrectOnlyAverage(t *testing.T) {
	records := answers(200, true, 400, false, 300, true)
	if got := CorrectOnlyAverage(records); got != 250 {
		t.Errorf("CorrectOnlyAverage = %v, want 250", got)
	}
	if got := CorrectOnlyAverage(answers(500, false)); got != 0 {
		t.Errorf("CorrectOnlyAverage(no correct) = %v, want 0", got)
	}
}

func TestReactionStreakPenalty(t *testing.T) {
	tests := []struct {
		name    string
		records []models.AnswerRecord
		want    int
	}{
		{"none", answers(300, true, 300, true), 0},
		{"single miss", answers(300, false, 300, true, 300, false), 0},
		{"two in a row", answers(300, false, 300, false, 300, true), 2},
		{"longest wins", answers(300, false, 300, false, 300, true, 300, false, 300, false, 300, false), 3},
	}
	for _, tt := range tests {
		if got := ReactionStreakPenalty(tt.records); got != tt.want {
			t.Errorf("%s: ReactionStreakPenalty = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestScoreReactionBounds(t *testing.T) {
	records := make([]models.AnswerRecord, 0, 200)
	for i := 0; i < 200; i++ {
		records = append(records, models.AnswerRecord{ReactionTimeMs: float64(80 + i*24), IsCorrect: i%3 != 0})
	}
	got := ScoreReaction(records)
	if got.Accuracy < 0 || got.Accuracy > 100 {
		t.Errorf("Accuracy = %v, want within [0,100]", got.Accuracy)
	}
	if math.IsInf(got.FinalScore, 0) || math.IsNaN(got.FinalScore) {
		t.Errorf("FinalScore = %v, want finite", got.FinalScore)
	}
}

func TestAccuracyFraction(t *testing.T) {
	if got := AccuracyFraction(99.5); got != 0.995 {
		t.Errorf("AccuracyFraction(99.5) = %v, want 0.995", got)
	}
}
