package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/oversight/internal/constants"
)

const secondsPerDay = 24 * 60 * 60

// StartOfDay truncates t to midnight of its calendar day in loc.
// Every entry read and write goes through this function so that the stored
// day key and lookups agree. A nil loc means time.Local.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayKey returns the persisted YYYY-MM-DD key for the calendar day containing t.
func DayKey(t time.Time, loc *time.Location) string {
	return StartOfDay(t, loc).Format(constants.DateFormat)
}

// ParseDay parses a date string (YYYY-MM-DD) as the start of that day in loc.
func ParseDay(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", dateStr)
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DaysBetween returns the signed number of calendar days from a to b.
// Only the year/month/day components are compared, so days that are 23 or 25
// hours long because of DST still count as one.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int((db.Unix() - da.Unix()) / secondsPerDay)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
