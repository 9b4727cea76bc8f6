package analysis

import "time"

// All day and hour bucketing is done in the user's profile timezone. A
// metric recorded 2024-01-15T05:30 in Tokyo belongs to hour 5 of
// 2024-01-15 no matter what instant that is in UTC.

func localDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

func localHour(t time.Time, loc *time.Location) int {
	return t.In(loc).Hour()
}
