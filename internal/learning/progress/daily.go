package progress

import "time"

type DailyState struct {
	WordsLearned       int
	LessonsCompleted   int
	TimeStudiedMinutes int
	Accuracy           float64
}

type DailyAttempt struct {
	IsCorrect        bool
	MasteryCreated   bool
	LessonCompleted  bool
	TimeSpentSeconds int
	// TodayAccuracies covers every mastery row of the user reviewed today,
	// including the one just updated.
	TodayAccuracies []float64
}

// RecordDaily folds one attempt into today's rollup. words_learned counts a
// first attempt that was correct, not a word reaching learned status.
func RecordDaily(prev DailyState, a DailyAttempt) DailyState {
	next := prev
	if a.IsCorrect && a.MasteryCreated {
		next.WordsLearned++
	}
	if a.LessonCompleted {
		next.LessonsCompleted++
	}
	next.TimeStudiedMinutes += MinutesFromSeconds(a.TimeSpentSeconds)
	next.Accuracy = mean(a.TodayAccuracies)
	return next
}

// MinutesFromSeconds floors to whole minutes.
func MinutesFromSeconds(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return seconds / 60
}

// CalendarDay returns the calendar day of t in loc, as midnight UTC. This is
// the value stored in daily_progress.date.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayStart returns the instant local midnight begins in loc for a calendar
// day as produced by CalendarDay.
func DayStart(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}

// DayBounds returns the instants [start, end) of t's calendar day in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
