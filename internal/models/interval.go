package models

import "time"

// NextOccurrence advances t by one recurrence interval using calendar
// arithmetic, so a monthly series due January 15 comes due February 15
// regardless of month length quirks in between.
func NextOccurrence(t time.Time, interval string) time.Time {
	switch interval {
	case IntervalDaily:
		return t.AddDate(0, 0, 1)
	case IntervalWeekly:
		return t.AddDate(0, 0, 7)
	case IntervalMonthly:
		return t.AddDate(0, 1, 0)
	case IntervalYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}
