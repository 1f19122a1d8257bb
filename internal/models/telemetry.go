package models

import (
	"bytes"
	"strconv"
)

// ── Reaction Telemetry ────────────────────────────────────

// AnswerRecord is one validated reaction-game attempt.
type AnswerRecord struct {
	ReactionTimeMs float64
	IsCorrect      bool
}

// RawAnswer is an answer as sent by the client, before validation.
type RawAnswer struct {
	ReactionTime *float64 `json:"reactionTime"`
	IsCorrect    *bool    `json:"isCorrect"`
}

// ── Memory Telemetry ──────────────────────────────────────

// Lenient is a number that tolerates malformed client input. Quoted numerals
// parse; anything else leaves Valid false instead of failing the payload.
type Lenient struct {
	Value float64
	Valid bool
}

func (l *Lenient) UnmarshalJSON(b []byte) error {
	*l = ParseLenient(b)
	return nil
}

func (l Lenient) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, l.Value, 'f', -1, 64), nil
}

// ParseLenient decodes a raw JSON scalar into a Lenient.
func ParseLenient(b []byte) Lenient {
	b = bytes.TrimSpace(b)
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = bytes.TrimSpace(b[1 : len(b)-1])
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return Lenient{}
	}
	return Lenient{Value: v, Valid: true}
}

// Int truncates toward zero.
func (l Lenient) Int() int {
	return int(l.Value)
}

func Num(v float64) Lenient {
	return Lenient{Value: v, Valid: true}
}

type Click struct {
	X      Lenient `json:"x"`
	Y      Lenient `json:"y"`
	TMs    Lenient `json:"tMs"`
	TimeMs Lenient `json:"timeMs"`
}

// Timestamp returns tMs, falling back to timeMs.
func (c Click) Timestamp() (float64, bool) {
	if c.TMs.Valid {
		return c.TMs.Value, true
	}
	if c.TimeMs.Valid {
		return c.TimeMs.Value, true
	}
	return 0, false
}

// QuestionLogEntry is one memory-game question.
type QuestionLogEntry struct {
	Round          int         `json:"round"`
	SequenceLength int         `json:"sequenceLength"`
	Attempts       int         `json:"attempts"`
	WasCorrect     bool        `json:"wasCorrect"`
	Targets        [][]Lenient `json:"targets"`
	Clicks         []Click     `json:"clicks"`
}

// RawQuestion is a memory question as sent by the client.
type RawQuestion struct {
	Round          *int        `json:"round"`
	SequenceLength *int        `json:"sequenceLength"`
	Attempts       *int        `json:"attempts"`
	WasCorrect     *bool       `json:"wasCorrect"`
	Targets        [][]Lenient `json:"targets"`
	TargetCells    [][]Lenient `json:"targetCells"`
	Clicks         []Click     `json:"clicks"`
}

// ── Arithmetic Telemetry ──────────────────────────────────

type PerQuestionTiming struct {
	Category      string   `json:"category,omitempty"`
	Operator      string   `json:"operator,omitempty"`
	TimeMs        *float64 `json:"time_ms,omitempty"`
	WrongAttempts int      `json:"wrong_attempts"`
	TimedOut      bool     `json:"timed_out"`
}

// Kind returns the category, falling back to the operator.
func (p PerQuestionTiming) Kind() string {
	if p.Category != "" {
		return p.Category
	}
	return p.Operator
}
