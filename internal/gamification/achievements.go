package gamification

import "github.com/mindgames/backend/internal/models"

// AchievementDef defines a single achievement.
type AchievementDef struct {
	Code        string
	Name        string
	Description string
	Category    string
}

const (
	Play10Games          = "PLAY_10_GAMES"
	Play50Games          = "PLAY_50_GAMES"
	Play100Games         = "PLAY_100_GAMES"
	Math100Qs            = "MATH_100_QS"
	Math1000Qs           = "MATH_1000_QS"
	ReactionSub300       = "REACTION_SUB_300_MS"
	ReactionSub250       = "REACTION_SUB_250_MS"
	ReactionPerfectRound = "REACTION_PERFECT_ROUND"
	Memory1KTotal        = "MEMORY_1K_TOTAL"
	Math50QPM            = "MATH_50_QPM"
	MathPerfectRound     = "MATH_PERFECT_ROUND"
	Streak3Days          = "STREAK_3_DAYS"
	Streak7Days          = "STREAK_7_DAYS"
	PlayedAllGames       = "PLAYED_ALL_GAMES"
	NightOwl             = "NIGHT_OWL"
	EarlyBird            = "EARLY_BIRD"
	Tilt5Wrong           = "TILT_5_WRONG"
	Comeback             = "COMEBACK"
)

// Catalog is seeded into the achievements table on first start.
var Catalog = []AchievementDef{
	{Play10Games, "Getting Started", "Play 10 total rounds across any game.", models.CategoryVolume},
	{Play50Games, "On a Roll", "Play 50 total rounds across any game.", models.CategoryVolume},
	{Play100Games, "Centurion", "Play 100 total rounds across any game.", models.CategoryVolume},
	{Math100Qs, "Mathlete", "Answer 100 math questions in total.", models.CategoryVolume},
	{Math1000Qs, "Number Cruncher", "Answer 1000 math questions in total.", models.CategoryVolume},

	{ReactionSub300, "Quick Reflexes", "Average reaction speed under 300ms.", models.CategorySkill},
	{ReactionSub250, "Lightning Fast", "Average reaction speed under 250ms.", models.CategorySkill},
	{ReactionPerfectRound, "Perfect Response", "Near-perfect accuracy on a reaction round.", models.CategorySkill},
	{Memory1KTotal, "Memory Master", "Accumulate 1000 total memory points.", models.CategorySkill},
	{Math50QPM, "Mental Velocity", "Average 50 questions per minute in maths.", models.CategorySkill},
	{MathPerfectRound, "Flawless Maths", "Finish a maths round without a mistake.", models.CategorySkill},

	{Streak3Days, "Three Day Streak", "Play on three consecutive days.", models.CategoryConsistency},
	{Streak7Days, "Seven Day Streak", "Play on seven consecutive days.", models.CategoryConsistency},

	{PlayedAllGames, "Explorer", "Try every game type at least once.", models.CategoryExploration},

	{NightOwl, "Night Owl", "Play between 01:00 and 04:00 UTC.", models.CategoryEasterEgg},
	{EarlyBird, "Early Bird", "Play before 06:00 UTC.", models.CategoryEasterEgg},
	{Tilt5Wrong, "Tilt-Proof", "Keep going despite 5+ wrong maths answers.", models.CategoryEasterEgg},
	{Comeback, "Comeback Kid", "Bounce back with a 20%+ improvement over your last maths session.", models.CategoryEasterEgg},
}

var catalogByCode = func() map[string]AchievementDef {
	m := make(map[string]AchievementDef, len(Catalog))
	for _, def := range Catalog {
		m[def.Code] = def
	}
	return m
}()

// Lookup returns the catalog entry for code.
func Lookup(code string) (AchievementDef, bool) {
	def, ok := catalogByCode[code]
	return def, ok
}
