package services

import "time"

// dateOnly truncates a time to its UTC calendar date. All availability logic
// compares calendar dates, never instants; normalizing to UTC keeps the
// comparison meaningful when the clock runs in another location.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
