package progress

import "time"

type BlockState struct {
	IsCompleted      bool
	CompletedAt      *time.Time
	LessonsCompleted int
	TotalLessons     int
	OverallAccuracy  float64
}

type BlockOutcome struct {
	State        BlockState
	CompletedNow bool
}

// RecomputeBlock refreshes counters from live data. activeLessons is the
// current count of active lessons; completedAccuracies holds one entry per
// completed lesson record of the user in the block.
func RecomputeBlock(prev BlockState, activeLessons int, completedAccuracies []float64, now time.Time) BlockOutcome {
	next := prev
	next.TotalLessons = activeLessons
	next.LessonsCompleted = len(completedAccuracies)
	next.OverallAccuracy = Round(mean(completedAccuracies), 1)

	if next.TotalLessons > 0 && next.LessonsCompleted >= next.TotalLessons {
		return CompleteBlock(next, now)
	}
	return BlockOutcome{State: next}
}

// CompleteBlock marks the block done, keeping the first completion stamp.
func CompleteBlock(prev BlockState, now time.Time) BlockOutcome {
	if prev.IsCompleted {
		return BlockOutcome{State: prev}
	}
	next := prev
	at := now.UTC()
	next.IsCompleted = true
	next.CompletedAt = &at
	return BlockOutcome{State: next, CompletedNow: true}
}
