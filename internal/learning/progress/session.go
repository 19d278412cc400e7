package progress

import "time"

// SessionDurationMinutes floors the elapsed time to whole minutes.
func SessionDurationMinutes(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// ValidAccuracy reports whether a client-reported accuracy is a percentage.
func ValidAccuracy(v float64) bool {
	return v >= 0 && v <= 100
}

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// TimesOfDay lists buckets in display order.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Evening, Night}

// TimeOfDayOf buckets the local hour: morning 6-12, afternoon 12-18,
// evening 18-24, night 0-6.
func TimeOfDayOf(t time.Time, loc *time.Location) TimeOfDay {
	if loc == nil {
		loc = time.UTC
	}
	switch h := t.In(loc).Hour(); {
	case h >= 6 && h < 12:
		return Morning
	case h >= 12 && h < 18:
		return Afternoon
	case h >= 18:
		return Evening
	default:
		return Night
	}
}
