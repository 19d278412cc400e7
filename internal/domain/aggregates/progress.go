package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var ProgressAggregateContract = Contract{
	Name:   "Progress.AttemptAggregate",
	Writes: []string{"word_mastery", "lesson_progress", "block_progress", "user_achievement", "daily_progress", "user_stats"},
	Notes:  "Owns the attempt cascade: word mastery, lesson and block progress, achievements, " +
		"daily rollup and user stats commit together or not at all.",
}

// ProgressAggregate records answer attempts and everything derived from them.
//
// Write failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type ProgressAggregate interface {
	Aggregate

	RecordAttempt(ctx context.Context, in RecordAttemptInput) (RecordAttemptResult, error)
}

type RecordAttemptInput struct {
	UserID           uuid.UUID
	WordID           uuid.UUID
	LessonID         *uuid.UUID
	IsCorrect        bool
	TimeSpentSeconds int
	At               time.Time
}

type MasterySnapshot struct {
	WordID        uuid.UUID `json:"word_id"`
	CorrectCount  int       `json:"correct_count"`
	TotalAttempts int       `json:"total_attempts"`
	IsLearned     bool      `json:"is_learned"`
	Accuracy      float64   `json:"accuracy"`
}

type EarnedAchievement struct {
	AchievementID uuid.UUID `json:"achievement_id"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	EarnedAt      time.Time `json:"earned_at"`
}

type RecordAttemptResult struct {
	Mastery         MasterySnapshot     `json:"mastery"`
	MasteryCreated  bool                `json:"mastery_created"`
	BecameLearned   bool                `json:"became_learned"`
	LessonID        uuid.UUID           `json:"lesson_id"`
	LessonAccuracy  float64             `json:"lesson_accuracy"`
	LessonCompleted bool                `json:"lesson_completed"`
	BlockID         uuid.UUID           `json:"block_id"`
	BlockCompleted  bool                `json:"block_completed"`
	NewAchievements []EarnedAchievement `json:"new_achievements"`
	CurrentStreak   int                 `json:"current_streak"`
	RecordedAt      time.Time           `json:"recorded_at"`
}
