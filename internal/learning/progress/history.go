package progress

import "time"

// Percentage returns part/total*100 rounded to two decimals, 0 for an empty total.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, 2)
}

// MeanAccuracy averages percentages and rounds to one decimal.
func MeanAccuracy(vals []float64) float64 {
	return Round(mean(vals), 1)
}

// ChartDays returns the last n calendar days ending at today's calendar day
// (see CalendarDay), oldest first.
func ChartDays(now time.Time, n int, loc *time.Location) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	today := CalendarDay(now, loc)
	out := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, today.AddDate(0, 0, -i))
	}
	return out
}

// FavoriteTime picks the bucket with the most minutes. Ties go to the
// earlier bucket in TimesOfDay; with no minutes at all it is Evening.
func FavoriteTime(dist map[TimeOfDay]int) TimeOfDay {
	best := Evening
	bestMinutes := 0
	for _, tod := range TimesOfDay {
		if m := dist[tod]; m > bestMinutes {
			best, bestMinutes = tod, m
		}
	}
	return best
}
