package scoring

import "github.com/mindgames/backend/internal/models"

// ArithmeticScore is correct*10 - wrong*2 minus every retry beyond the first
// wrong attempt on each question. Timing never affects the score.
func ArithmeticScore(correct, wrong int, perQuestion []models.PerQuestionTiming) int {
	return correct*10 - wrong*2 - RetryPenalty(perQuestion)
}

// RetryPenalty sums max(0, wrong_attempts-1) over all questions.
func RetryPenalty(perQuestion []models.PerQuestionTiming) int {
	penalty := 0
	for _, q := range perQuestion {
		if q.WrongAttempts > 1 {
			penalty += q.WrongAttempts - 1
		}
	}
	return penalty
}

// IsValidRound flags rounds whose fastest answer is implausibly quick.
func IsValidRound(minTimeMs float64) bool {
	return minTimeMs >= 150
}

// SummarizeTimings averages answer time per question kind across rounds,
// skipping timed-out questions and entries without a kind or time. The
// overall average is nil when nothing qualified.
func SummarizeTimings(rounds [][]models.PerQuestionTiming) (map[string]float64, *float64) {
	totals := map[string]float64{}
	counts := map[string]int{}
	var overall float64
	n := 0
	for _, questions := range rounds {
		for _, q := range questions {
			if q.TimedOut || q.TimeMs == nil {
				continue
			}
			kind := q.Kind()
			if kind == "" {
				continue
			}
			totals[kind] += *q.TimeMs
			counts[kind]++
			overall += *q.TimeMs
			n++
		}
	}
	avgs := make(map[string]float64, len(totals))
	for kind, total := range totals {
		avgs[kind] = total / float64(counts[kind])
	}
	if n == 0 {
		return avgs, nil
	}
	avg := overall / float64(n)
	return avgs, &avg
}
