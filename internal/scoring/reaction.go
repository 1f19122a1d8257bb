// Package scoring turns validated game telemetry into score breakdowns.
// Every function here is total over its input: empty or degenerate input
// yields zero values, never an error.
package scoring

import (
	"math"

	"github.com/mindgames/backend/internal/models"
)

const (
	MessageStreakPenalty = "Penalized for a streak of incorrect answers."
	MessageNoPenalty     = "Great job! No penalty for consecutive incorrect answers."
)

// ScoreReaction scores an ordered reaction-game answer record.
//
// AverageTime divides the summed reaction time of every record by the number
// of correct answers. Stored history was produced with this ratio, so it is
// kept; CorrectOnlyAverage gives the per-correct-answer mean.
func ScoreReaction(records []models.AnswerRecord) models.ReactionResult {
	total := len(records)
	correct := 0
	var sum, fastest, slowest float64
	for i, r := range records {
		if r.IsCorrect {
			correct++
		}
		sum += r.ReactionTimeMs
		if i == 0 || r.ReactionTimeMs < fastest {
			fastest = r.ReactionTimeMs
		}
		if i == 0 || r.ReactionTimeMs > slowest {
			slowest = r.ReactionTimeMs
		}
	}
	incorrect := total - correct

	var average float64
	if correct > 0 {
		average = sum / float64(correct)
	}

	var speedBonus float64
	if average > 0 {
		speedBonus = float64(correct-incorrect) * (1000 / average)
	}

	var fastestBonus float64
	if fastest > 0 && fastest < 300 {
		fastestBonus = 300 / fastest
	}

	var slowestPenalty float64
	if slowest > 500 {
		slowestPenalty = slowest / 500
	}

	streakPenalty := float64(ReactionStreakPenalty(records))

	final := float64(correct-incorrect) + speedBonus + fastestBonus - slowestPenalty - streakPenalty

	var accuracy float64
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	message := MessageNoPenalty
	if streakPenalty > 0 {
		message = MessageStreakPenalty
	}

	return models.ReactionResult{
		FinalScore:         Round2(final),
		AverageTime:        Round2(average),
		Accuracy:           Round2(accuracy),
		SpeedBonus:         Round2(speedBonus),
		FastestTimeBonus:   Round2(fastestBonus),
		SlowestTimePenalty: Round2(slowestPenalty),
		StreakPenalty:      Round2(streakPenalty),
		FastestTime:        Round2(fastest),
		SlowestTime:        Round2(slowest),
		PenaltyMessage:     message,
	}
}

// ReactionStreakPenalty returns the longest run of consecutive incorrect
// answers, or 0 when that run is a single miss or none.
func ReactionStreakPenalty(records []models.AnswerRecord) int {
	longest, current := 0, 0
	for _, r := range records {
		if r.IsCorrect {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	if longest <= 1 {
		return 0
	}
	return longest
}

// CorrectOnlyAverage is the mean reaction time over correct answers only.
func CorrectOnlyAverage(records []models.AnswerRecord) float64 {
	var sum float64
	n := 0
	for _, r := range records {
		if r.IsCorrect {
			sum += r.ReactionTimeMs
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return Round2(sum / float64(n))
}

// AccuracyFraction converts the scorer's 0-100 accuracy to the 0-1 fraction
// used in storage and achievement rules.
func AccuracyFraction(percent float64) float64 {
	return percent / 100
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
