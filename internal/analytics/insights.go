package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/mindgames/backend/internal/models"
	"github.com/mindgames/backend/internal/scoring"
)

// Number of recent rows each insight block looks at.
const (
	reactionInsightWindow = 25
	memoryInsightWindow   = 25
	mathInsightWindow     = 50
)

type reactionSample struct {
	Score         float64
	AverageTimeMs float64
	Accuracy      float64
}

type memorySample struct {
	Total  float64
	Round1 float64
	Round2 float64
	Round3 float64
}

func round1dp(v float64) float64 { return math.Round(v*10) / 10 }
func round2dp(v float64) float64 { return math.Round(v*100) / 100 }

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ── Reaction ────────────────────────────────────────────

func ReactionInsightsFrom(rows []reactionSample) models.ReactionInsights {
	if len(rows) == 0 {
		return models.ReactionInsights{
			Strengths:  []string{"Play a round to unlock insights."},
			Weaknesses: []string{},
		}
	}

	best := rows[0].Score
	var sumTime, sumAcc float64
	for _, r := range rows {
		best = math.Max(best, r.Score)
		sumTime += r.AverageTimeMs
		sumAcc += r.Accuracy
	}
	n := float64(len(rows))
	avgTime := sumTime / n
	avgAcc := sumAcc / n

	timeFactor := clampFloat(380/math.Max(avgTime, 1), 0.25, 1)
	cognitive := int(math.RoundToEven((avgAcc*0.6 + timeFactor*0.4) * 100))

	strengths := []string{}
	weaknesses := []string{}
	if avgAcc >= 0.9 {
		strengths = append(strengths, "Precise clicking accuracy")
	} else if avgAcc < 0.8 {
		weaknesses = append(weaknesses, "Accuracy drops on harder rounds")
	}
	if avgTime <= 260 {
		strengths = append(strengths, "Lightning-fast reactions")
	} else if avgTime > 420 {
		weaknesses = append(weaknesses, "Improve reaction speed under pressure")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Steady performance across attempts")
	}

	avgOut := round1dp(avgTime)
	accOut := round1dp(avgAcc * 100)
	return models.ReactionInsights{
		BestScore:      &best,
		AverageTimeMs:  &avgOut,
		Accuracy:       &accOut,
		CognitiveScore: &cognitive,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
	}
}

// ── Memory ──────────────────────────────────────────────

func MemoryInsightsFrom(rows []memorySample) models.MemoryInsights {
	if len(rows) == 0 {
		return models.MemoryInsights{
			Strengths:  []string{"Play a memory round to see insights."},
			Weaknesses: []string{},
		}
	}

	best := rows[0].Total
	var sum, r1, r2, r3 float64
	for _, r := range rows {
		best = math.Max(best, r.Total)
		sum += r.Total
		r1 += r.Round1
		r2 += r.Round2
		r3 += r.Round3
	}
	n := float64(len(rows))
	avg := sum / n
	rounds := [3]float64{round2dp(r1 / n), round2dp(r2 / n), round2dp(r3 / n)}

	normalized := clampFloat(avg/30*100, 0, 100)
	cognitive := int(math.RoundToEven(normalized + math.Min(10, best)))

	// Ties resolve to the lowest round number.
	strongest, weakest := 0, 0
	for i := 1; i < len(rounds); i++ {
		if rounds[i] > rounds[strongest] {
			strongest = i
		}
		if rounds[i] < rounds[weakest] {
			weakest = i
		}
	}

	strengths := []string{fmt.Sprintf("Strongest in round %d patterns", strongest+1)}
	weaknesses := []string{}
	if rounds[weakest] < rounds[strongest] {
		weaknesses = append(weaknesses, fmt.Sprintf("Round %d needs more repetition", weakest+1))
	}
	if avg >= best*0.9 {
		strengths = append(strengths, "Consistent memory recall")
	} else if avg < best*0.6 {
		weaknesses = append(weaknesses, "Work on sustaining peak memory scores")
	}

	bestOut := round2dp(best)
	avgOut := round2dp(avg)
	return models.MemoryInsights{
		BestTotal:    &bestOut,
		AverageTotal: &avgOut,
		RoundAverages: &models.RoundAverages{
			Round1: rounds[0],
			Round2: rounds[1],
			Round3: rounds[2],
		},
		CognitiveScore: &cognitive,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
	}
}

// ── Math ────────────────────────────────────────────────

// MathRoundInsightsFrom summarizes per-question timings in seconds.
func MathRoundInsightsFrom(timings [][]models.PerQuestionTiming, best *int) models.MathRoundInsights {
	avgs, overall := scoring.SummarizeTimings(timings)

	kinds := make([]string, 0, len(avgs))
	for k := range avgs {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	out := models.MathRoundInsights{
		BestScore: best,
		Averages:  make([]models.CategoryTime, 0, len(kinds)),
	}
	for _, k := range kinds {
		out.Averages = append(out.Averages, models.CategoryTime{Type: k, AvgTimeS: round2dp(avgs[k] / 1000)})
	}
	if overall != nil && *overall != 0 {
		s := round2dp(*overall / 1000)
		out.OverallAvg = &s
	}
	return out
}
