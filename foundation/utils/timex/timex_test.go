// File: timex_test.go
// Title: Time Utilities Tests
// Description: Tests for day boundaries, slot alignment, parsing and formatting.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial test implementation with comprehensive coverage
// - 2026-10-19 v0.2.0: Slot alignment and clock parsing tests

package timex

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 15, hour, minute, 0, 0, time.UTC)
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(at(15, 30))
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
	if next := StartOfNextDay(at(15, 30)); !next.Equal(want.AddDate(0, 0, 1)) {
		t.Errorf("StartOfNextDay() = %v", next)
	}
}

func TestSlotAlignment(t *testing.T) {
	testCases := []struct {
		name  string
		input time.Time
		step  time.Duration
		floor time.Time
		next  time.Time
		prev  time.Time
	}{
		{"unaligned hour", at(10, 37), time.Hour, at(10, 0), at(11, 0), at(10, 0)},
		{"aligned hour", at(10, 0), time.Hour, at(10, 0), at(11, 0), at(9, 0)},
		{"quarter hour", at(10, 37), 15 * time.Minute, at(10, 30), at(10, 45), at(10, 30)},
		{"midnight", at(0, 0), time.Hour, at(0, 0), at(1, 0), at(0, 0).Add(-time.Hour)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FloorToStep(tc.input, tc.step); !got.Equal(tc.floor) {
				t.Errorf("FloorToStep() = %v, want %v", got, tc.floor)
			}
			if got := NextBoundary(tc.input, tc.step); !got.Equal(tc.next) {
				t.Errorf("NextBoundary() = %v, want %v", got, tc.next)
			}
			if got := PreviousBoundary(tc.input, tc.step); !got.Equal(tc.prev) {
				t.Errorf("PreviousBoundary() = %v, want %v", got, tc.prev)
			}
		})
	}
}

func TestBoundariesRestartAtMidnight(t *testing.T) {
	step := 7 * time.Hour
	last := at(21, 0)
	if got := FloorToStep(at(22, 30), step); !got.Equal(last) {
		t.Errorf("FloorToStep() = %v, want %v", got, last)
	}
	midnight := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	if got := NextBoundary(at(22, 30), step); !got.Equal(midnight) {
		t.Errorf("NextBoundary() = %v, want %v", got, midnight)
	}
	if got := PreviousBoundary(midnight, step); !got.Equal(last) {
		t.Errorf("PreviousBoundary() = %v, want %v", got, last)
	}
}

func TestFloorToStepHalfHourZone(t *testing.T) {
	india := time.FixedZone("IST", 5*3600+1800)
	input := time.Date(2024, 3, 15, 10, 20, 0, 0, india)

	got := FloorToStep(input, time.Hour)
	want := time.Date(2024, 3, 15, 10, 0, 0, 0, india)
	if !got.Equal(want) {
		t.Errorf("FloorToStep() = %v, want %v", got, want)
	}
	if !IsAligned(want, time.Hour) {
		t.Error("local wall-clock hour should be aligned")
	}
}

func TestParse(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	testCases := []struct {
		name    string
		input   string
		wantErr bool
		want    time.Time
	}{
		{"RFC3339", "2024-03-15T10:00:00Z", false, time.Date(2024, 3, 15, 11, 0, 0, 0, berlin)},
		{"date time", "2024-03-15 10:00", false, time.Date(2024, 3, 15, 10, 0, 0, 0, berlin)},
		{"date", "2024-03-15", false, time.Date(2024, 3, 15, 0, 0, 0, 0, berlin)},
		{"european", "15.03.2024 10:00", false, time.Date(2024, 3, 15, 10, 0, 0, 0, berlin)},
		{"empty", "", true, time.Time{}},
		{"garbage", "friday-ish", true, time.Time{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input, berlin)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.input, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("Parse(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	testCases := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"09:00", 9 * time.Hour, false},
		{"17:30", 17*time.Hour + 30*time.Minute, false},
		{"08:15:30", 8*time.Hour + 15*time.Minute + 30*time.Second, false},
		{"24:00", Day, false},
		{"25:00", 0, true},
	}
	for _, tc := range testCases {
		got, err := ParseClock(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"1h30m", 90 * time.Minute, false},
		{"3 hours", 3 * time.Hour, false},
		{"2 days", 48 * time.Hour, false},
		{"1 week", 7 * Day, false},
		{"-1h", 0, true},
		{"", 0, true},
		{"soon", 0, true},
	}
	for _, tc := range testCases {
		got, err := ParseDuration(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	for input, want := range map[string]time.Weekday{
		"mon": time.Monday, "Friday": time.Friday, "SA": time.Saturday, "do": time.Thursday,
	} {
		got, err := ParseWeekday(input)
		if err != nil || got != want {
			t.Errorf("ParseWeekday(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseWeekday("funday"); err == nil {
		t.Error("ParseWeekday(funday) should fail")
	}
}

func TestFormatDurationCompact(t *testing.T) {
	testCases := []struct {
		input time.Duration
		want  string
	}{
		{0, "0s"},
		{7 * time.Hour, "7h"},
		{26*time.Hour + 30*time.Minute, "1d 2h 30m"},
		{-90 * time.Minute, "-1h 30m"},
		{1500 * time.Millisecond, "1s 500ms"},
	}
	for _, tc := range testCases {
		if got := FormatDurationCompact(tc.input); got != tc.want {
			t.Errorf("FormatDurationCompact(%v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMinMaxSameDay(t *testing.T) {
	a, b := at(9, 0), at(17, 0)
	if !Min(a, b).Equal(a) || !Max(a, b).Equal(b) {
		t.Error("Min/Max returned wrong values")
	}
	if !SameDay(a, b) {
		t.Error("SameDay should be true")
	}
	if SameDay(a, a.AddDate(0, 0, 1)) {
		t.Error("SameDay should be false across days")
	}
}
