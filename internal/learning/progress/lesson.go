package progress

import (
	"time"

	"github.com/google/uuid"
)

// WordState is one active word of a lesson as seen by a user. Words without
// a mastery row have zero attempts and contribute accuracy 0.
type WordState struct {
	WordID    uuid.UUID
	Accuracy  float64
	IsLearned bool
}

type LessonState struct {
	IsCompleted      bool
	CompletedAt      *time.Time
	Accuracy         float64
	TimeSpentMinutes int
}

type LessonOutcome struct {
	State        LessonState
	CompletedNow bool
}

// RecomputeLesson derives lesson progress from the active words. Completion
// is sticky: a later unlearned word never clears it.
func RecomputeLesson(prev LessonState, words []WordState, addedMinutes int, now time.Time) LessonOutcome {
	next := prev
	if addedMinutes > 0 {
		next.TimeSpentMinutes += addedMinutes
	}

	accs := make([]float64, 0, len(words))
	allLearned := len(words) > 0
	for _, w := range words {
		accs = append(accs, w.Accuracy)
		if !w.IsLearned {
			allLearned = false
		}
	}
	next.Accuracy = mean(accs)

	out := LessonOutcome{State: next}
	if !prev.IsCompleted && allLearned {
		at := now.UTC()
		out.State.IsCompleted = true
		out.State.CompletedAt = &at
		out.CompletedNow = true
	}
	return out
}
