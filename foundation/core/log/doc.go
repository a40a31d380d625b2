// Package log provides structured logging for werktag.
//
// Package: log
// Title: werktag Structured Logging
// Description: Leveled, structured logger with JSON, text, console and logfmt
//              output. Loggers are immutable: With* methods return clones, so
//              an engine can carry its own named logger without affecting the
//              caller's. Integrates with foundation/core/error to log coded
//              errors at a level derived from their severity.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Removed async buffering and user context
//
// Usage:
//   import wtlog "github.com/msto63/werktag/foundation/core/log"
//
//   logger := wtlog.NewWithConfig(wtlog.Config{Level: wtlog.LevelDebug, Format: wtlog.FormatText})
//   logger.Info("engine configured", wtlog.Fields{"precision": "1h"})
//
//   timer := logger.StartTimer("add")
//   defer timer.Stop()
package log
