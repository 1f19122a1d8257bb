package coach

import (
	"fmt"
	"strings"

	"github.com/mindgames/backend/internal/models"
)

// Radar axes the model may target.
var axes = []string{"processing_speed", "accuracy", "working_memory", "consistency", "engagement"}

func SystemPrompt() string {
	return `You are a friendly cognitive-training coach for a site with three minigames:
a reaction-time click test, a grid memory game with three rounds, and timed mental arithmetic.

Given a player's statistics, reply with exactly three short, concrete training tips.
Each tip targets one of these axes: ` + strings.Join(axes, ", ") + `.
Prefer the player's weakest axes. Do not give medical advice.

Respond with JSON only, in this shape:
{"tips": [{"axis": "...", "title": "...", "detail": "..."}]}
Titles are at most 6 words. Details are one or two sentences.`
}

func fmtOpt(v *float64, unit string) string {
	if v == nil {
		return "no data"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

func fmtOptInt(v *int) string {
	if v == nil {
		return "no data"
	}
	return fmt.Sprintf("%d", *v)
}

// BuildUserPrompt renders the player's metrics and insights as plain text.
func BuildUserPrompt(m *models.ProfileMetrics, ins *models.Insights) string {
	var b strings.Builder

	b.WriteString("RADAR (0-100)\n")
	fmt.Fprintf(&b, "- processing_speed: %d\n", m.Radar.ProcessingSpeed)
	fmt.Fprintf(&b, "- accuracy: %d\n", m.Radar.Accuracy)
	fmt.Fprintf(&b, "- working_memory: %d\n", m.Radar.WorkingMemory)
	fmt.Fprintf(&b, "- consistency: %d\n", m.Radar.Consistency)
	fmt.Fprintf(&b, "- engagement: %d\n", m.Radar.Engagement)

	b.WriteString("\nREACTION\n")
	fmt.Fprintf(&b, "- average reaction: %s\n", fmtOpt(m.Reaction.AvgReactionMs, " ms"))
	fmt.Fprintf(&b, "- best reaction: %s\n", fmtOpt(m.Reaction.BestReactionMs, " ms"))
	if m.Reaction.Accuracy != nil {
		fmt.Fprintf(&b, "- accuracy: %.0f%%\n", *m.Reaction.Accuracy*100)
	}

	b.WriteString("\nMEMORY\n")
	fmt.Fprintf(&b, "- best total: %s\n", fmtOpt(m.Memory.BestTotalScore, ""))
	fmt.Fprintf(&b, "- sessions: %d\n", m.Memory.Sessions)

	b.WriteString("\nARITHMETIC\n")
	fmt.Fprintf(&b, "- round 1 best: %s, questions per minute: %s\n",
		fmtOptInt(m.Math.Round1.Best), fmtOpt(m.Math.Round1.QPM, ""))
	fmt.Fprintf(&b, "- total questions answered: %d\n", m.Math.TotalQuestions)

	fmt.Fprintf(&b, "\nACTIVITY\n- sessions played: %d\n- rounds per session: %.1f\n",
		m.Global.SessionsPlayed, m.Global.AvgRoundsPerSession)

	if ins != nil {
		notes := append(append([]string{}, ins.Reaction.Weaknesses...), ins.Memory.Weaknesses...)
		if len(notes) > 0 {
			b.WriteString("\nOBSERVED WEAKNESSES\n")
			for _, n := range notes {
				fmt.Fprintf(&b, "- %s\n", n)
			}
		}
		if slow := slowestCategory(ins.Math.Round1); slow != nil {
			fmt.Fprintf(&b, "\nSlowest arithmetic category: %s (%.1f s)\n", slow.Type, slow.AvgTimeS)
		}
	}

	b.WriteString("\nGive three tips.")
	return b.String()
}

func slowestCategory(r models.MathRoundInsights) *models.CategoryTime {
	var slow *models.CategoryTime
	for i := range r.Averages {
		if slow == nil || r.Averages[i].AvgTimeS > slow.AvgTimeS {
			slow = &r.Averages[i]
		}
	}
	return slow
}
