package progress

const (
	LearnedMinAttempts = 3
	LearnedMinAccuracy = 80
)

// MasteryState is the counter part of a word_mastery row.
type MasteryState struct {
	CorrectCount  int
	TotalAttempts int
	IsLearned     bool
}

// Accuracy returns correct/total as a percentage, 0 before the first attempt.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func (s MasteryState) Accuracy() float64 {
	return Accuracy(s.CorrectCount, s.TotalAttempts)
}

// MeetsLearnedThreshold compares in integers so 4/5 is exactly 80%.
func MeetsLearnedThreshold(correct, total int) bool {
	if total < LearnedMinAttempts {
		return false
	}
	return correct*100 >= LearnedMinAccuracy*total
}

// ApplyAttempt counts one answer. Once learned, a word stays learned.
func ApplyAttempt(prev MasteryState, correct bool) MasteryState {
	next := prev
	next.TotalAttempts++
	if correct {
		next.CorrectCount++
	}
	if !next.IsLearned && MeetsLearnedThreshold(next.CorrectCount, next.TotalAttempts) {
		next.IsLearned = true
	}
	return next
}
