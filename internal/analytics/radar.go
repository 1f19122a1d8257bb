package analytics

import (
	"math"

	"github.com/mindgames/backend/internal/models"
)

// Radar scaling bounds.
const (
	fastReactionMs        = 200.0
	slowReactionMs        = 800.0
	memoryCeiling         = 150.0
	mathSessionCeiling    = 50.0
	engagementPerDay      = 5.0
	engagementPerRoundAvg = 10.0
)

// ClampScore rounds half to even and clamps into [0,100].
func ClampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.RoundToEven(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

// ScaleInverse maps best to 100 and worst to 0, so lower inputs score
// higher. A nil value scores 0.
func ScaleInverse(v *float64, best, worst float64) int {
	if v == nil {
		return 0
	}
	return ClampScore((worst - *v) / (worst - best) * 100)
}

// ScaleLinear maps 0 to 0 and ceiling to 100. A nil value scores 0.
func ScaleLinear(v *float64, ceiling float64) int {
	if v == nil || ceiling <= 0 {
		return 0
	}
	return ClampScore(*v / ceiling * 100)
}

// BuildRadar derives the five skill axes from the per-game summaries.
func BuildRadar(m *models.ProfileMetrics) models.Radar {
	var accuracy *float64
	if m.Reaction.Accuracy != nil {
		pct := *m.Reaction.Accuracy * 100
		accuracy = &pct
	}
	sessions := float64(m.Math.TotalMathSessions)
	engagement := float64(m.Global.SessionsPlayed)*engagementPerDay +
		m.Global.AvgRoundsPerSession*engagementPerRoundAvg

	return models.Radar{
		ProcessingSpeed: ScaleInverse(m.Reaction.AvgReactionMs, fastReactionMs, slowReactionMs),
		Accuracy:        ScaleLinear(accuracy, 100),
		WorkingMemory:   ScaleLinear(m.Memory.BestTotalScore, memoryCeiling),
		Consistency:     ScaleLinear(&sessions, mathSessionCeiling),
		Engagement:      ClampScore(engagement),
	}
}
