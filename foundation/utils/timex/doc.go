// Package timex provides the calendar helpers the business-time engine steps with.
//
// Package: timex
// Title: Time Utilities for Business-Time Arithmetic
// Description: Day boundaries, precision-slot alignment, lenient parsing of
//              instants and durations, weekday names and compact duration
//              formatting. time.Time stays the source of truth for calendar
//              facts; this package never models timezones itself.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time operations
// - 2026-10-19 v0.2.0: Reduced to engine helpers, added slot alignment
//
// Slot alignment:
//
// The engine samples time in precision-sized slots. FloorToStep and
// NextBoundary align an instant to the slot grid of its own calendar day
// (local midnight), so a one-hour precision lines up with wall-clock hours
// even in zones with half-hour offsets:
//
//   timex.FloorToStep(t, time.Hour)   // 10:37 -> 10:00
//   timex.NextBoundary(t, time.Hour)  // 10:37 -> 11:00, 10:00 -> 11:00
package timex
