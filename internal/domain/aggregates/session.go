package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var SessionAggregateContract = Contract{
	Name:   "Progress.SessionAggregate",
	Writes: []string{"study_session", "study_session_lesson", "study_session_word", "user_stats"},
	Notes:  "Opens and closes timed study sessions; closing bumps user_stats.total_sessions in the same tx.",
}

// SessionAggregate owns study session lifecycle writes.
//
// End returns CodeConflict when the session was already closed.
type SessionAggregate interface {
	Aggregate

	Start(ctx context.Context, in StartSessionInput) (StartSessionResult, error)
	End(ctx context.Context, in EndSessionInput) (EndSessionResult, error)
}

type StartSessionInput struct {
	UserID uuid.UUID
	At     time.Time
}

type StartSessionResult struct {
	SessionID uuid.UUID `json:"session_id"`
	StartTime time.Time `json:"start_time"`
}

type EndSessionInput struct {
	UserID          uuid.UUID
	SessionID       uuid.UUID
	LessonIDs       []uuid.UUID
	WordIDs         []uuid.UUID
	AverageAccuracy float64
	At              time.Time
}

type EndSessionResult struct {
	SessionID       uuid.UUID `json:"session_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	AverageAccuracy float64   `json:"average_accuracy"`
	LessonCount     int       `json:"lesson_count"`
	WordCount       int       `json:"word_count"`
	TotalSessions   int       `json:"total_sessions"`
}
