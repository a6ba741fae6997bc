package util

import (
	"fmt"
	"time"
)

// Formats for attendance dates and times as stored and presented.
const (
	DateFormat  = "2006-01-02"
	TimeFormat  = "15:04:05"
	ShiftFormat = "15:04"
)

// ShiftOnDate combines a shift boundary given as HH:MM with the date portion
// of day, in day's location.
func ShiftOnDate(shift string, day time.Time) (time.Time, error) {
	parsed, err := time.Parse(ShiftFormat, shift)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed shift time %s: %v", shift, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}

// MinutesEarly reports how many whole minutes t precedes the shift start, or
// zero when t is at or after it.
func MinutesEarly(t time.Time, shiftStart time.Time) int {
	if !t.Before(shiftStart) {
		return 0
	}
	return int(shiftStart.Sub(t) / time.Minute)
}

// MinutesOvertime reports how many whole minutes t exceeds the shift end, or
// zero when t is at or before it.
func MinutesOvertime(t time.Time, shiftEnd time.Time) int {
	if !t.After(shiftEnd) {
		return 0
	}
	return int(t.Sub(shiftEnd) / time.Minute)
}

// DateString renders t in the storage date format.
func DateString(t time.Time) string {
	return t.Format(DateFormat)
}

// TimeString renders t in the storage clock time format.
func TimeString(t time.Time) string {
	return t.Format(TimeFormat)
}
