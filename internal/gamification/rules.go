package gamification

import "github.com/mindgames/backend/internal/models"

// Stats is everything the rules need, read once per evaluation.
type Stats struct {
	GameType string
	Score    models.ScoreContext

	TotalRounds    int
	MathQuestions  int
	PlayedAllGames bool
	StreakDays     int
	// RecentSessions holds the newest combined session scores, newest
	// first. Only loaded for math_session submissions.
	RecentSessions []int
}

// Rule awards Code whenever Applies holds. Rules are independent.
type Rule struct {
	Code    string
	Applies func(Stats) bool
}

func atLeastRounds(n int) func(Stats) bool {
	return func(s Stats) bool { return s.TotalRounds >= n }
}

func atLeastMathQuestions(n int) func(Stats) bool {
	return func(s Stats) bool { return s.MathQuestions >= n }
}

func atLeastStreak(n int) func(Stats) bool {
	return func(s Stats) bool { return s.StreakDays >= n }
}

// reactionUnder reports a reaction submission whose average beat limit.
// An average of 0 means no correct answers and never qualifies.
func reactionUnder(limit float64) func(Stats) bool {
	return func(s Stats) bool {
		avg := s.Score.AverageTimeMs
		return s.GameType == models.GameReaction && avg != nil && *avg > 0 && *avg < limit
	}
}

func mathRound(pred func(models.ScoreContext) bool) func(Stats) bool {
	return func(s Stats) bool {
		return models.IsMathRound(s.GameType) && pred(s.Score)
	}
}

func hourUTC(pred func(h int) bool) func(Stats) bool {
	return func(s Stats) bool {
		return !s.Score.CreatedAt.IsZero() && pred(s.Score.CreatedAt.UTC().Hour())
	}
}

// Rules is evaluated in full on every submission.
var Rules = []Rule{
	{Play10Games, atLeastRounds(10)},
	{Play50Games, atLeastRounds(50)},
	{Play100Games, atLeastRounds(100)},
	{Math100Qs, atLeastMathQuestions(100)},
	{Math1000Qs, atLeastMathQuestions(1000)},

	{ReactionSub300, reactionUnder(300)},
	{ReactionSub250, reactionUnder(250)},
	{ReactionPerfectRound, func(s Stats) bool {
		acc := s.Score.Accuracy
		return s.GameType == models.GameReaction && acc != nil && *acc >= 0.99
	}},
	{Memory1KTotal, func(s Stats) bool {
		return s.GameType == models.GameMemory && s.Score.RunningTotal >= 1000
	}},
	{MathPerfectRound, mathRound(func(sc models.ScoreContext) bool {
		return sc.WrongCount == 0 && sc.CorrectCount > 0
	})},
	{Math50QPM, mathRound(func(sc models.ScoreContext) bool {
		return sc.AvgTimeMs > 0 && 60000/sc.AvgTimeMs >= 50
	})},
	{Tilt5Wrong, mathRound(func(sc models.ScoreContext) bool {
		return sc.WrongCount >= 5
	})},

	{Streak3Days, atLeastStreak(3)},
	{Streak7Days, atLeastStreak(7)},
	{PlayedAllGames, func(s Stats) bool { return s.PlayedAllGames }},

	{NightOwl, hourUTC(func(h int) bool { return h >= 1 && h < 4 })},
	{EarlyBird, hourUTC(func(h int) bool { return h < 6 })},
	{Comeback, func(s Stats) bool {
		if s.GameType != models.GameMathSession || len(s.RecentSessions) < 2 {
			return false
		}
		newer, older := s.RecentSessions[0], s.RecentSessions[1]
		return newer != 0 && older != 0 && float64(newer) > float64(older)*1.2
	}},
}

// Qualified returns the code of every rule that holds for s, in rule order.
func Qualified(s Stats) []string {
	var codes []string
	for _, r := range Rules {
		if r.Applies(s) {
			codes = append(codes, r.Code)
		}
	}
	return codes
}
