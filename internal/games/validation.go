package games

import (
	"errors"
	"fmt"
	"math"

	"github.com/mindgames/backend/internal/models"
)

// ValidationError rejects a submission with a client-facing message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err rejects client input.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Submission limits.
const (
	maxAnswerRecords   = 200
	minReactionTimeMs  = 80
	maxReactionTimeMs  = 5000
	maxQuestionLog     = 200
	maxSequenceLength  = 25
	maxMathCount       = 200
	maxTotalQuestions  = 300
	maxTimingEntries   = 400
	maxCombinedSession = 200000
)

// EnforceRange rejects values that are non-finite or outside [lo, hi].
func EnforceRange(v, lo, hi float64, label string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
		return invalid("%s must be between %v and %v", label, lo, hi)
	}
	return nil
}

// ── Reaction ────────────────────────────────────────────

func ValidateAnswerRecord(raw []models.RawAnswer) ([]models.AnswerRecord, error) {
	if len(raw) < 1 || len(raw) > maxAnswerRecords {
		return nil, invalid("Invalid answer record length")
	}
	records := make([]models.AnswerRecord, len(raw))
	for i, a := range raw {
		if a.ReactionTime == nil || *a.ReactionTime < minReactionTimeMs || *a.ReactionTime > maxReactionTimeMs {
			return nil, invalid("Reaction times must be between %d and %d ms", minReactionTimeMs, maxReactionTimeMs)
		}
		if a.IsCorrect == nil {
			return nil, invalid("Each answer must include correctness")
		}
		records[i] = models.AnswerRecord{ReactionTimeMs: *a.ReactionTime, IsCorrect: *a.IsCorrect}
	}
	return records, nil
}

func checkReactionResult(r models.ReactionResult) error {
	checks := []struct {
		v      float64
		lo, hi float64
		label  string
	}{
		{r.FinalScore, -5000, 20000, "Final score"},
		{r.AverageTime, 0, 5000, "Average time"},
		{r.FastestTime, 50, 5000, "Fastest time"},
		{r.SlowestTime, 50, 5000, "Slowest time"},
		{r.Accuracy, 0, 100, "Accuracy"},
	}
	for _, c := range checks {
		if err := EnforceRange(c.v, c.lo, c.hi, c.label); err != nil {
			return err
		}
	}
	return nil
}

// ── Memory ──────────────────────────────────────────────

func ValidateQuestionLog(raw []models.RawQuestion) ([]models.QuestionLogEntry, error) {
	if len(raw) < 1 || len(raw) > maxQuestionLog {
		return nil, invalid("Invalid question log length")
	}
	log := make([]models.QuestionLogEntry, len(raw))
	for i, q := range raw {
		if q.Round == nil || *q.Round < 1 || *q.Round > 3 {
			return nil, invalid("Round must be between 1 and 3")
		}
		if q.SequenceLength == nil || *q.SequenceLength < 1 || *q.SequenceLength > maxSequenceLength {
			return nil, invalid("Sequence length out of bounds")
		}
		if q.Attempts == nil || *q.Attempts < 1 {
			return nil, invalid("Attempts must be at least 1")
		}
		if q.WasCorrect == nil {
			return nil, invalid("Each question must include correctness")
		}
		targets := q.Targets
		if len(targets) == 0 {
			targets = q.TargetCells
		}
		for _, t := range targets {
			if len(t) < 2 {
				return nil, invalid("Targets must be coordinates")
			}
		}
		log[i] = models.QuestionLogEntry{
			Round:          *q.Round,
			SequenceLength: *q.SequenceLength,
			Attempts:       *q.Attempts,
			WasCorrect:     *q.WasCorrect,
			Targets:        targets,
			Clicks:         q.Clicks,
		}
	}
	return log, nil
}

// floorMemory clamps negative round scores to zero and checks the stored
// bounds.
func floorMemory(r models.MemoryResult) (models.MemoryResult, error) {
	r.Total = math.Max(0, r.Total)
	r.Round1 = math.Max(0, r.Round1)
	r.Round2 = math.Max(0, r.Round2)
	r.Round3 = math.Max(0, r.Round3)

	if err := EnforceRange(r.Total, 0, 200000, "Total score"); err != nil {
		return r, err
	}
	for i, v := range []float64{r.Round1, r.Round2, r.Round3} {
		if err := EnforceRange(v, 0, 80000, fmt.Sprintf("Round %d score", i+1)); err != nil {
			return r, err
		}
	}
	return r, nil
}

// ── Arithmetic ──────────────────────────────────────────

func ValidateMathRound(sub models.MathRoundSubmission) error {
	if sub.CorrectCount < 0 || sub.WrongCount < 0 {
		return invalid("Counts must be non-negative")
	}
	if sub.CorrectCount > maxMathCount || sub.WrongCount > maxMathCount || sub.TotalQuestions > maxTotalQuestions {
		return invalid("Counts too large")
	}
	answered := sub.CorrectCount + sub.WrongCount
	if answered > 0 && sub.TotalQuestions > 0 && sub.TotalQuestions != answered {
		return invalid("Total questions mismatch")
	}
	if len(sub.PerQuestion) > maxTimingEntries || len(sub.PerQuestionTimes) > maxTimingEntries {
		return invalid("Too many per-question entries")
	}
	if err := EnforceRange(sub.AvgTimeMs, 0, 10000, "Average time"); err != nil {
		return err
	}
	return EnforceRange(sub.MinTimeMs, 50, 5000, "Minimum time")
}

func ValidateMathSession(sub models.MathSessionSubmission) error {
	if sub.Round1ScoreID <= 0 || sub.Round2ScoreID <= 0 {
		return invalid("Round IDs required")
	}
	if sub.CombinedScore < 0 || sub.CombinedScore > maxCombinedSession {
		return invalid("Combined score out of range")
	}
	return nil
}
