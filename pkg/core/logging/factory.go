// ============================================================================
// werktag - Business Time Engine
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// Author:      msto63
// Created:     2025-12-06
// Modified:    2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	wtlog "github.com/msto63/werktag/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: json)
	Format string

	// Output writer (default: stderr)
	Output io.Writer

	// Additional outputs
	AdditionalOutputs []io.Writer

	// Record caller information
	EnableCaller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "json",
	}
}

// NewLogger creates a new foundation logger
func NewLogger(cfg LoggerConfig) *wtlog.Logger {
	level, err := wtlog.ParseLevel(cfg.Level)
	if err != nil {
		level = wtlog.LevelInfo
	}

	format, err := wtlog.ParseFormat(cfg.Format)
	if err != nil || cfg.Format == "" {
		format = wtlog.FormatJSON
	}

	// stdout carries command results; logs go to stderr
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return wtlog.NewWithConfig(wtlog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.ServiceName,
		EnableCaller: cfg.EnableCaller,
	})
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *wtlog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}
