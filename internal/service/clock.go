package service

import "time"

// All dates and times are naive wall-clock values; time.UTC is used as
// the fixed location so comparisons stay zone-free.

// combineDateTime joins a calendar date with a wall-clock time.
func combineDateTime(date, clock time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0,
		time.UTC,
	)
}

// monthWindow returns the inclusive bounds of the calendar month
// containing t: the 1st at 00:00:00 through the last day at 23:59:59.
func monthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}
