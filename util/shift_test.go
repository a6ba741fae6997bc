package util

import (
	"testing"
	"time"
)

func TestShiftOnDate(t *testing.T) {
	day := time.Date(2024, 3, 11, 14, 22, 51, 0, time.Local)
	start, err := ShiftOnDate("09:00", day)
	if err != nil {
		t.Errorf("Unable to parse shift: %v", err)
	}
	if start.Hour() != 9 || start.Minute() != 0 {
		t.Errorf("Expected 09:00, got %s", start.Format(TimeFormat))
	}
	if start.Year() != 2024 || start.Month() != 3 || start.Day() != 11 {
		t.Errorf("Shift start lost the date portion: %s", start)
	}
	if _, err := ShiftOnDate("9 o'clock", day); err == nil {
		t.Errorf("Expected malformed shift to error")
	}
}

func TestMinutesEarly(t *testing.T) {
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)
	shiftStart, _ := ShiftOnDate("09:00", day)

	checks := []struct {
		clockIn  string
		expected int
	}{
		{"08:15", 45},
		{"08:30", 30},
		{"08:45", 15},
		{"09:00", 0},
		{"10:30", 0},
	}
	for _, check := range checks {
		at, _ := ShiftOnDate(check.clockIn, day)
		if got := MinutesEarly(at, shiftStart); got != check.expected {
			t.Errorf("MinutesEarly at %s: got %d, expected %d", check.clockIn, got, check.expected)
		}
	}
}

func TestMinutesOvertime(t *testing.T) {
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)
	shiftEnd, _ := ShiftOnDate("17:00", day)

	checks := []struct {
		clockOut string
		expected int
	}{
		{"16:30", 0},
		{"17:00", 0},
		{"17:15", 15},
		{"17:16", 16},
		{"19:00", 120},
	}
	for _, check := range checks {
		at, _ := ShiftOnDate(check.clockOut, day)
		if got := MinutesOvertime(at, shiftEnd); got != check.expected {
			t.Errorf("MinutesOvertime at %s: got %d, expected %d", check.clockOut, got, check.expected)
		}
	}
}
