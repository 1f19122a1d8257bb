package analytics

import (
	"testing"

	"github.com/mindgames/backend/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{50.5, 50},
		{51.5, 52},
		{49.4, 49},
		{-3, 0},
		{130, 100},
		{100.4, 100},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestScaleInverse(t *testing.T) {
	tests := []struct {
		in   *float64
		want int
	}{
		{fp(200), 100},
		{fp(800), 0},
		{fp(500), 50},
		{fp(650), 25},
		{fp(100), 100},
		{fp(1200), 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := ScaleInverse(tt.in, 200, 800); got != tt.want {
			t.Errorf("ScaleInverse(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestScaleLinear(t *testing.T) {
	if got := ScaleLinear(fp(75), 150); got != 50 {
		t.Errorf("ScaleLinear(75, 150) = %d, want 50", got)
	}
	if got := ScaleLinear(fp(300), 150); got != 100 {
		t.Errorf("ScaleLinear(300, 150) = %d, want 100", got)
	}
	if got := ScaleLinear(nil, 150); got != 0 {
		t.Errorf("ScaleLinear(nil, 150) = %d, want 0", got)
	}
}

func TestBuildRadar(t *testing.T) {
	m := &models.ProfileMetrics{
		Reaction: models.ReactionMetrics{AvgReactionMs: fp(350), Accuracy: fp(0.875)},
		Memory:   models.MemoryMetrics{BestTotalScore: fp(90)},
		Math:     models.MathMetrics{TotalMathSessions: 10},
		Global:   models.GlobalMetrics{SessionsPlayed: 4, TotalRounds: 10, AvgRoundsPerSession: 2.5},
	}
	want := models.Radar{
		ProcessingSpeed: 75,
		Accuracy:        88,
		WorkingMemory:   60,
		Consistency:     20,
		Engagement:      45,
	}
	if got := BuildRadar(m); got != want {
		t.Errorf("BuildRadar = %+v, want %+v", got, want)
	}
}

func TestBuildRadarNoHistory(t *testing.T) {
	if got := BuildRadar(&models.ProfileMetrics{}); got != (models.Radar{}) {
		t.Errorf("BuildRadar(empty) = %+v, want all zero", got)
	}
}

func TestBuildRadarEngagementCaps(t *testing.T) {
	m := &models.ProfileMetrics{Global: models.GlobalMetrics{SessionsPlayed: 30, AvgRoundsPerSession: 4}}
	if got := BuildRadar(m).Engagement; got != 100 {
		t.Errorf("Engagement = %d, want 100", got)
	}
}

func TestMathAccuracyAndQPM(t *testing.T) {
	if got := MathAccuracy(0, 0); got != nil {
		t.Errorf("MathAccuracy(0, 0) = %v, want nil", *got)
	}
	if got := MathAccuracy(3, 1); got == nil || *got != 0.75 {
		t.Errorf("MathAccuracy(3, 1) = %v, want 0.75", got)
	}
	if got := QuestionsPerMinute(fp(0)); got != nil {
		t.Errorf("QuestionsPerMinute(0) = %v, want nil", *got)
	}
	if got := QuestionsPerMinute(nil); got != nil {
		t.Errorf("QuestionsPerMinute(nil) = %v, want nil", *got)
	}
	if got := QuestionsPerMinute(fp(1200)); got == nil || *got != 50 {
		t.Errorf("QuestionsPerMinute(1200) = %v, want 50", got)
	}
}
