package core

import (
	"testing"
	"time"
)

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(date(2025, 1, 17))
	if !start.Equal(date(2025, 1, 1)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(date(2025, 2, 1)) {
		t.Fatalf("end = %v", end)
	}

	// First and last days of the month are inside the range.
	if !InRange(date(2025, 1, 1), start, end) {
		t.Fatal("first day should be in range")
	}
	if !InRange(date(2025, 1, 31), start, end) {
		t.Fatal("last day should be in range")
	}
	if InRange(date(2025, 2, 1), start, end) {
		t.Fatal("next month should not be in range")
	}
	if InRange(date(2024, 12, 31), start, end) {
		t.Fatal("previous month should not be in range")
	}
}

func TestWeekBoundsMondayStart(t *testing.T) {
	// 2025-01-15 is a Wednesday; the week starts Monday 2025-01-13.
	start, end := WeekBounds(date(2025, 1, 15))
	if !start.Equal(date(2025, 1, 13)) {
		t.Fatalf("start = %v, want Monday 2025-01-13", start)
	}
	if !end.Equal(date(2025, 1, 20)) {
		t.Fatalf("end = %v, want 2025-01-20", end)
	}

	// A Sunday belongs to the week that started the previous Monday.
	start, _ = WeekBounds(date(2025, 1, 19))
	if !start.Equal(date(2025, 1, 13)) {
		t.Fatalf("sunday week start = %v, want 2025-01-13", start)
	}

	// A Monday starts its own week.
	start, _ = WeekBounds(date(2025, 1, 13))
	if !start.Equal(date(2025, 1, 13)) {
		t.Fatalf("monday week start = %v, want itself", start)
	}
}

func TestShiftPeriod(t *testing.T) {
	start := date(2025, 3, 1)
	if got := ShiftPeriod(Monthly, start, -2); !got.Equal(date(2025, 1, 1)) {
		t.Fatalf("monthly shift = %v", got)
	}
	if got := ShiftPeriod(Weekly, date(2025, 1, 13), 1); !got.Equal(date(2025, 1, 20)) {
		t.Fatalf("weekly shift = %v", got)
	}
	if got := ShiftPeriod(Yearly, date(2025, 1, 1), -1); !got.Equal(date(2024, 1, 1)) {
		t.Fatalf("yearly shift = %v", got)
	}
}

func TestInRangeIgnoresTimeOfDay(t *testing.T) {
	start, end := MonthBounds(date(2025, 1, 10))
	late := time.Date(2025, 1, 31, 23, 45, 0, 0, time.UTC)
	if !InRange(late, start, end) {
		t.Fatal("late evening on the last day should still count")
	}
}
