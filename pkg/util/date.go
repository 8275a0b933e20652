package util

import "time"

// TrailingWindow returns the UTC range [now-days, now].
func TrailingWindow(now time.Time, days int) (time.Time, time.Time) {
	to := now.UTC()
	return to.AddDate(0, 0, -days), to
}

// CalendarDate returns the calendar date of t as observed in loc, at midnight UTC.
// A nil loc means UTC.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
