// File: timex.go
// Title: Core Time Utilities
// Description: Day boundaries, slot alignment, parsing and formatting used by
//              the business-time engine, its configuration and the CLI.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time utilities
// - 2025-07-26 v0.1.1: Added FormatDurationCompact, European date parsing
// - 2026-10-19 v0.2.0: Slot alignment and weekday parsing for constraints

package timex

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Common time formats
const (
	ISO8601          = "2006-01-02T15:04:05Z07:00"
	ISO8601DateTime  = "2006-01-02T15:04:05"
	BusinessDate     = "2006-01-02"
	BusinessDateTime = "2006-01-02 15:04:05"
	ShortDateTime    = "2006-01-02 15:04"
	ClockTime        = "15:04"
	DisplayDateTime  = "Mon 2006-01-02 15:04"
)

// Day is the nominal length of a calendar day
const Day = 24 * time.Hour

// ===============================
// Day Boundaries
// ===============================

// StartOfDay returns local midnight of t's calendar day
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfNextDay returns local midnight of the day after t.
// Across DST changes the day may be 23 or 25 hours long.
func StartOfNextDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ===============================
// Slot Alignment
// ===============================

// FloorToStep aligns t down to the step grid of its calendar day.
// Steps longer than a day fall back to time.Truncate.
func FloorToStep(t time.Time, step time.Duration) time.Time {
	if step <= 0 {
		return t
	}
	if step > Day {
		return t.Truncate(step)
	}
	sod := StartOfDay(t)
	offset := t.Sub(sod)
	return sod.Add(offset / step * step)
}

// NextBoundary returns the first step boundary strictly after t.
// The grid restarts at every local midnight, so a step that does not
// divide the day ends its last slot at midnight.
func NextBoundary(t time.Time, step time.Duration) time.Time {
	next := FloorToStep(t, step).Add(step)
	if step <= Day {
		return Min(next, StartOfNextDay(t))
	}
	return next
}

// PreviousBoundary returns the last step boundary strictly before t
func PreviousBoundary(t time.Time, step time.Duration) time.Time {
	return FloorToStep(t.Add(-time.Nanosecond), step)
}

// IsAligned reports whether t lies on the step grid of its day
func IsAligned(t time.Time, step time.Duration) bool {
	return FloorToStep(t, step).Equal(t)
}

// Min returns the earlier of two times
func Min(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// Max returns the later of two times
func Max(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// ===============================
// Parsing Functions
// ===============================

// Parse parses value using the common formats, interpreting zone-less
// values in loc (time.Local when loc is nil)
func Parse(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}

	formats := []string{
		ISO8601DateTime,
		BusinessDateTime,
		ShortDateTime,
		"2006-01-02T15:04",
		BusinessDate,
		"02.01.2006 15:04",
		"02.01.2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time string: %s", value)
}

// ParseClock parses "15:04" or "15:04:05" into an offset from midnight
func ParseClock(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	if value == "24:00" {
		return Day, nil
	}
	return 0, fmt.Errorf("unable to parse clock time: %s", value)
}

// ParseDuration parses Go durations and business-friendly forms like "3 days"
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty duration string")
	}
	if strings.HasPrefix(value, "-") {
		return 0, fmt.Errorf("negative durations are not supported: %s", value)
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}

	parts := strings.Fields(strings.ToLower(value))
	if len(parts) == 2 {
		if num, err := strconv.ParseFloat(parts[0], 64); err == nil {
			unit := strings.TrimSuffix(parts[1], "s")
			switch unit {
			case "second", "sec":
				return time.Duration(num * float64(time.Second)), nil
			case "minute", "min":
				return time.Duration(num * float64(time.Minute)), nil
			case "hour", "hr":
				return time.Duration(num * float64(time.Hour)), nil
			case "day":
				return time.Duration(num * float64(Day)), nil
			case "week":
				return time.Duration(num * float64(7*Day)), nil
			}
		}
	}

	return 0, fmt.Errorf("unable to parse duration string: %s", value)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday, "so": time.Sunday,
	"mon": time.Monday, "monday": time.Monday, "mo": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "di": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "mi": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "do": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "fr": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "sa": time.Saturday,
}

// ParseWeekday parses English names and German two-letter abbreviations
func ParseWeekday(value string) (time.Weekday, error) {
	if wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(value))]; ok {
		return wd, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday: %s", value)
}

// ===============================
// Formatting Functions
// ===============================

// FormatDurationCompact formats a duration compactly (1d 2h 30m)
func FormatDurationCompact(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	if d < 0 {
		return "-" + FormatDurationCompact(-d)
	}

	var parts []string
	if days := d / Day; days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
		d -= days * Day
	}
	if hours := d / time.Hour; hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
		d -= hours * time.Hour
	}
	if minutes := d / time.Minute; minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
		d -= minutes * time.Minute
	}
	if seconds := d / time.Second; seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
		d -= seconds * time.Second
	}
	if ms := d / time.Millisecond; ms > 0 {
		parts = append(parts, fmt.Sprintf("%dms", ms))
	}

	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}
