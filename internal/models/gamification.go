package models

import "time"

// ── Game Types ────────────────────────────────────────────

const (
	GameReaction    = "reaction"
	GameMemory      = "memory"
	GameMathRound1  = "math_round1"
	GameMathRound2  = "math_round2"
	GameMathRound3  = "math_round3"
	GameMathLegacy  = "math"
	GameMathSession = "math_session"
)

// IsMathRound reports whether gameType is a single arithmetic round.
func IsMathRound(gameType string) bool {
	switch gameType {
	case GameMathRound1, GameMathRound2, GameMathRound3, GameMathLegacy:
		return true
	}
	return false
}

// ── Achievement Categories ────────────────────────────────

const (
	CategoryVolume      = "Volume"
	CategorySkill       = "Skill"
	CategoryConsistency = "Consistency"
	CategoryExploration = "Exploration"
	CategoryEasterEgg   = "Easter Egg"
)

// ── Achievements ──────────────────────────────────────────

type Achievement struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type UserAchievement struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	EarnedAt    time.Time `json:"earned_at"`
}

// AchievementsResponse splits the catalog into a user's earned and locked
// badges.
type AchievementsResponse struct {
	Earned []UserAchievement `json:"earned"`
	Locked []Achievement     `json:"locked"`
}

// ScoreContext carries the fields of a just-stored score that the
// achievement rules look at. Zero values mean "not applicable".
type ScoreContext struct {
	AverageTimeMs *float64
	// Accuracy is a 0-1 fraction.
	Accuracy     *float64
	RunningTotal float64
	AvgTimeMs    float64
	CorrectCount int
	WrongCount   int
	CreatedAt    time.Time
}

// AchievementEvent is pushed to connected clients when a badge unlocks.
type AchievementEvent struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
