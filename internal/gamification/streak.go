package gamification

import "time"

// StreakWindow is how many distinct recent activity days are inspected.
const StreakWindow = 14

// ConsecutiveDays counts the run of consecutive calendar days ending at the
// most recent one. days must be distinct and ordered newest first.
func ConsecutiveDays(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		if civilDay(days[i-1]).Sub(civilDay(days[i])) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
