package scoring

import (
	"sort"

	"github.com/mindgames/backend/internal/models"
)

type cell struct{ x, y int }

// ScoreMemory scores a memory-game question log across three rounds.
func ScoreMemory(log []models.QuestionLogEntry) models.MemoryResult {
	var rounds [4]float64
	var res models.MemoryResult
	var durations, intervals []float64

	for _, entry := range log {
		if entry.Round < 1 || entry.Round > 3 {
			continue
		}

		targets := targetCells(entry.Targets)
		best := -1
		var times []float64

		for _, click := range entry.Clicks {
			if !click.X.Valid || !click.Y.Valid {
				continue
			}
			res.GuessCount++

			if len(targets) > 0 {
				d := nearest(cell{click.X.Int(), click.Y.Int()}, targets)
				if best < 0 || d < best {
					best = d
				}
			}
			if t, ok := click.Timestamp(); ok {
				times = append(times, t)
			}
		}

		partial := 0.0
		switch best {
		case 1:
			partial = 0.5
			res.NearMisses++
		case 2:
			partial = 0.25
		}

		rounds[entry.Round] += baseMemoryScore(entry) + partial

		if len(times) > 0 {
			sort.Float64s(times)
			durations = append(durations, times[len(times)-1]-times[0])
			for i := 1; i < len(times); i++ {
				intervals = append(intervals, times[i]-times[i-1])
			}
		}
	}

	res.Round1, res.Round2, res.Round3 = rounds[1], rounds[2], rounds[3]
	res.Total = res.Round1 + res.Round2 + res.Round3
	res.AvgDurationMs = mean(durations)
	res.AvgIntervalMs = mean(intervals)
	return res
}

// baseMemoryScore: +2 first-try correct, +1 correct after retries, -1 wrong.
func baseMemoryScore(entry models.QuestionLogEntry) float64 {
	if !entry.WasCorrect {
		return -1
	}
	if entry.Attempts <= 1 {
		return 2
	}
	return 1
}

func targetCells(raw [][]models.Lenient) []cell {
	cells := make([]cell, 0, len(raw))
	for _, t := range raw {
		if len(t) < 2 || !t[0].Valid || !t[1].Valid {
			continue
		}
		cells = append(cells, cell{t[0].Int(), t[1].Int()})
	}
	return cells
}

// nearest returns the Manhattan distance from c to the closest target.
func nearest(c cell, targets []cell) int {
	best := -1
	for _, t := range targets {
		d := abs(c.x-t.x) + abs(c.y-t.y)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
