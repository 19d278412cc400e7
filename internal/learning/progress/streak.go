package progress

import "time"

type StreakState struct {
	Current    int
	Longest    int
	LastActive *time.Time
}

// AdvanceStreak records activity at now. Days are calendar days in loc.
func AdvanceStreak(prev StreakState, now time.Time, loc *time.Location) StreakState {
	next := prev
	today := CalendarDay(now, loc)
	at := now.UTC()
	next.LastActive = &at

	switch {
	case prev.LastActive == nil || prev.Current <= 0:
		next.Current = 1
	default:
		last := CalendarDay(*prev.LastActive, loc)
		switch days := int(today.Sub(last).Hours() / 24); {
		case days <= 0:
			// same day, or a clock that went backwards
		case days == 1:
			next.Current = prev.Current + 1
		default:
			next.Current = 1
		}
	}
	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	return next
}
