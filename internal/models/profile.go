package models

// ── Profile Metrics ───────────────────────────────────────
// Pointer fields are null when the user has no rows to aggregate.

type ReactionMetrics struct {
	AvgReactionMs   *float64 `json:"avg_reaction_ms"`
	BestReactionMs  *float64 `json:"best_reaction_ms"`
	WorstReactionMs *float64 `json:"worst_reaction_ms"`
	// Accuracy is the mean stored fraction (0-1).
	Accuracy  *float64 `json:"accuracy"`
	BestScore *float64 `json:"best_score"`
	MeanScore *float64 `json:"mean_score"`
}

type MemoryMetrics struct {
	BestTotalScore *float64 `json:"best_total_score"`
	AvgTotalScore  *float64 `json:"avg_total_score"`
	AvgRound1Score *float64 `json:"avg_round1_score"`
	AvgRound2Score *float64 `json:"avg_round2_score"`
	AvgRound3Score *float64 `json:"avg_round3_score"`
	Sessions       int      `json:"sessions"`
}

type MathRoundMetrics struct {
	Best     *int     `json:"best"`
	Accuracy *float64 `json:"accuracy"`
	QPM      *float64 `json:"qpm"`
}

type MathMetrics struct {
	Round1              MathRoundMetrics `json:"round1"`
	Round2              MathRoundMetrics `json:"round2"`
	Round3              MathRoundMetrics `json:"round3"`
	TotalQuestions      int              `json:"total_questions"`
	TotalMathSessions   int              `json:"total_math_sessions"`
	SessionBestCombined *int             `json:"session_best_combined"`
}

type GlobalMetrics struct {
	SessionsPlayed      int     `json:"sessions_played"`
	TotalRounds         int     `json:"total_rounds"`
	AvgRoundsPerSession float64 `json:"avg_rounds_per_session"`
}

// Radar holds five axes, each an integer in [0,100].
type Radar struct {
	ProcessingSpeed int `json:"processing_speed"`
	Accuracy        int `json:"accuracy"`
	WorkingMemory   int `json:"working_memory"`
	Consistency     int `json:"consistency"`
	Engagement      int `json:"engagement"`
}

type ProfileMetrics struct {
	Reaction ReactionMetrics `json:"reaction"`
	Memory   MemoryMetrics   `json:"memory"`
	Math     MathMetrics     `json:"math"`
	Global   GlobalMetrics   `json:"global"`
	Radar    Radar           `json:"radar"`
}

// ── Insights ──────────────────────────────────────────────

type ReactionInsights struct {
	BestScore      *float64 `json:"best_score"`
	AverageTimeMs  *float64 `json:"average_time_ms"`
	Accuracy       *float64 `json:"accuracy"`
	CognitiveScore *int     `json:"cognitive_score"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
}

type RoundAverages struct {
	Round1 float64 `json:"1"`
	Round2 float64 `json:"2"`
	Round3 float64 `json:"3"`
}

type MemoryInsights struct {
	BestTotal      *float64       `json:"best_total"`
	AverageTotal   *float64       `json:"average_total"`
	RoundAverages  *RoundAverages `json:"round_averages"`
	CognitiveScore *int           `json:"cognitive_score"`
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
}

type CategoryTime struct {
	Type     string  `json:"type"`
	AvgTimeS float64 `json:"avg_time_s"`
}

type MathRoundInsights struct {
	BestScore  *int           `json:"best_score"`
	OverallAvg *float64       `json:"overall_avg"`
	Averages   []CategoryTime `json:"averages"`
}

type MathInsights struct {
	Round1 MathRoundInsights `json:"round1"`
	Round2 MathRoundInsights `json:"round2"`
}

type Insights struct {
	Reaction ReactionInsights `json:"reaction"`
	Memory   MemoryInsights   `json:"memory"`
	Math     MathInsights     `json:"math"`
}

// CoachTip is one training suggestion aimed at a radar axis.
type CoachTip struct {
	Axis   string `json:"axis"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type CoachResponse struct {
	Tips  []CoachTip `json:"tips"`
	Model string     `json:"model"`
}
