package scoring

import (
	"testing"

	"github.com/mindgames/backend/internal/models"
)

func TestArithmeticScore(t *testing.T) {
	tests := []struct {
		name           string
		correct, wrong int
		perQuestion    []models.PerQuestionTiming
		want           int
	}{
		{"retries", 10, 2, []models.PerQuestionTiming{{WrongAttempts: 3}}, 94},
		{"no timings", 5, 0, nil, 50},
		{"single wrong attempt is free", 3, 1, []models.PerQuestionTiming{{WrongAttempts: 1}, {WrongAttempts: 0}}, 28},
		{"summed across questions", 0, 4, []models.PerQuestionTiming{{WrongAttempts: 2}, {WrongAttempts: 4}}, -12},
		{"empty", 0, 0, nil, 0},
	}
	for _, tt := range tests {
		if got := ArithmeticScore(tt.correct, tt.wrong, tt.perQuestion); got != tt.want {
			t.Errorf("%s: ArithmeticScore(%d, %d) = %d, want %d", tt.name, tt.correct, tt.wrong, got, tt.want)
		}
	}
}

func TestIsValidRound(t *testing.T) {
	if IsValidRound(149.9) {
		t.Errorf("IsValidRound(149.9) = true, want false")
	}
	if !IsValidRound(150) {
		t.Errorf("IsValidRound(150) = false, want true")
	}
}

func ms(v float64) *float64 { return &v }

func TestSummarizeTimings(t *testing.T) {
	round := []models.PerQuestionTiming{
		{Operator: "+", TimeMs: ms(1000)},
		{Operator: "+", TimeMs: ms(3000)},
		{Category: "times_table", Operator: "*", TimeMs: ms(1500)},
		{Operator: "-", TimeMs: ms(9000), TimedOut: true},
		{Operator: "/"},
		{TimeMs: ms(700)},
	}
	avgs, overall := SummarizeTimings([][]models.PerQuestionTiming{round})

	if avgs["+"] != 2000 {
		t.Errorf("avg[+] = %v, want 2000", avgs["+"])
	}
	if avgs["times_table"] != 1500 {
		t.Errorf("avg[times_table] = %v, want 1500", avgs["times_table"])
	}
	if _, ok := avgs["-"]; ok {
		t.Errorf("timed out question was averaged")
	}
	if overall == nil || *overall != 5500.0/3 {
		t.Errorf("overall = %v, want %v", overall, 5500.0/3)
	}

	if _, none := SummarizeTimings(nil); none != nil {
		t.Errorf("overall for no rounds = %v, want nil", *none)
	}
}
