package dateutil

import "time"

// ActivityDay returns the 1-based activity day of now, counted in calendar
// days of start's location. Days before start are <= 0.
func ActivityDay(start, now time.Time) int {
	loc := start.Location()
	s := truncateDay(start)
	n := truncateDay(now.In(loc))

	days := 0
	if n.Before(s) {
		for d := n; d.Before(s); d = d.AddDate(0, 0, 1) {
			days--
		}
	} else {
		for d := s; d.Before(n); d = d.AddDate(0, 0, 1) {
			days++
		}
	}

	return days + 1
}

// IsDayAccessible reports whether day is within [1, totalDays] and has
// already started.
func IsDayAccessible(day int, start, now time.Time, totalDays int) bool {
	return day >= 1 && day <= totalDays && day <= ActivityDay(start, now)
}

// DateOfDay returns the midnight starting the given activity day.
func DateOfDay(start time.Time, day int) time.Time {
	return truncateDay(start).AddDate(0, 0, day-1)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
