package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var BlockTestAggregateContract = Contract{
	Name:   "Progress.BlockTestAggregate",
	Writes: []string{"user_block_test", "block_progress", "user_achievement"},
	Notes:  "Gates a block's test behind lesson completion, scores submissions, and on pass completes " +
		"the block and opens progress for the next one.",
}

// BlockTestAggregate owns block test start and submission.
//
// Start returns CodeForbidden (reason block_test_locked) while any active
// lesson of the block is incomplete.
type BlockTestAggregate interface {
	Aggregate

	Start(ctx context.Context, in StartBlockTestInput) (StartBlockTestResult, error)
	Submit(ctx context.Context, in SubmitBlockTestInput) (SubmitBlockTestResult, error)
}

type StartBlockTestInput struct {
	UserID  uuid.UUID
	BlockID uuid.UUID
}

// TestWord is a sampled quiz item. It never carries the translation.
type TestWord struct {
	ID            uuid.UUID `json:"id"`
	Term          string    `json:"term"`
	Transcription string    `json:"transcription,omitempty"`
	AudioURL      string    `json:"audio_url,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
}

type StartBlockTestResult struct {
	TestID       uuid.UUID  `json:"test_id"`
	BlockID      uuid.UUID  `json:"block_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PassingScore int        `json:"passing_score"`
	Words        []TestWord `json:"words"`
}

// SubmitBlockTestInput.Answers is keyed by word id as sent by the client.
type SubmitBlockTestInput struct {
	UserID  uuid.UUID
	TestID  uuid.UUID
	Answers map[string]string
	At      time.Time
}

type SubmitBlockTestResult struct {
	TestID          uuid.UUID           `json:"test_id"`
	BlockID         uuid.UUID           `json:"block_id"`
	Score           float64             `json:"score"`
	CorrectAnswers  int                 `json:"correct_answers"`
	TotalQuestions  int                 `json:"total_questions"`
	PassingScore    int                 `json:"passing_score"`
	IsPassed        bool                `json:"is_passed"`
	BlockCompleted  bool                `json:"block_completed"`
	NextBlockID     *uuid.UUID          `json:"next_block_id,omitempty"`
	NewAchievements []EarnedAchievement `json:"new_achievements"`
	CompletedAt     time.Time           `json:"completed_at"`
}
