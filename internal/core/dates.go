package core

import "time"

// Calendar helpers used by the aggregation layer and the budget utilization
// math. A period is the half-open interval [start, end): a date belongs to a
// period when start <= date < end. Weeks start on Monday.

// DateOnly truncates a time to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the start of the calendar month containing t and the
// start of the following month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// YearBounds returns the start of the calendar year containing t and the
// start of the following year.
func YearBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// WeekBounds returns the Monday 00:00 starting the week containing t and the
// following Monday.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := DateOnly(t)
	// time.Weekday has Sunday == 0.
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// PeriodBounds returns the bounds of the period of the given kind containing t.
func PeriodBounds(p BudgetPeriod, t time.Time) (time.Time, time.Time) {
	switch p {
	case Weekly:
		return WeekBounds(t)
	case Yearly:
		return YearBounds(t)
	default:
		return MonthBounds(t)
	}
}

// ShiftPeriod moves a period start backward (negative n) or forward by whole
// periods of the given kind.
func ShiftPeriod(p BudgetPeriod, start time.Time, n int) time.Time {
	switch p {
	case Weekly:
		return start.AddDate(0, 0, 7*n)
	case Yearly:
		return start.AddDate(n, 0, 0)
	default:
		return start.AddDate(0, n, 0)
	}
}

// InRange reports whether d falls inside [start, end). Dates are compared at
// day granularity so a transaction stamped anywhere on the last day of a
// month still counts for that month.
func InRange(d, start, end time.Time) bool {
	day := DateOnly(d)
	return !day.Before(start) && day.Before(end)
}

// PeriodLabel formats a period start for series output.
func PeriodLabel(p BudgetPeriod, start time.Time) string {
	switch p {
	case Weekly:
		return start.Format("2006-01-02")
	case Yearly:
		return start.Format("2006")
	default:
		return start.Format("2006-01")
	}
}
