package utils

import "time"

const (
	// DateLayout is the calendar-date key format used across the stores.
	DateLayout = "2006-01-02"
	// DisplayDateLayout is the human readable date shown on leave requests.
	DisplayDateLayout = "02 Jan 2006"
)

// DateKey formats t as a calendar date in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// DisplayDate formats t for display in loc.
func DisplayDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayDateLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" date as midnight UTC.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// LastNDays returns n date keys ending at now (inclusive), newest first.
func LastNDays(now time.Time, loc *time.Location, n int) []string {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	days := make([]string, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, local.AddDate(0, 0, -i).Format(DateLayout))
	}
	return days
}
