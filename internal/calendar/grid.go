package calendar

import "time"

const gridDays = 42 // 6 weeks of 7 days, the fixed month-view page size

// MonthGrid returns the 42 consecutive days shown for ref's month, starting
// at the Sunday on or before the first of the month, in UTC.
func MonthGrid(ref time.Time) []time.Time {
	first := time.Date(ref.UTC().Year(), ref.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]time.Time, gridDays)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// ColorIndex maps an event id to a stable bucket in [0, n), so an event
// keeps the same display color across renders and clients.
func ColorIndex(eventID string, n int) int {
	if n <= 0 {
		return 0
	}
	var hash int32
	for _, c := range eventID {
		hash = (hash << 5) - hash + int32(c)
	}
	v := int64(hash)
	if v < 0 {
		v = -v
	}
	return int(v % int64(n))
}
