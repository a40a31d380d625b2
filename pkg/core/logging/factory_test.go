package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	wtlog "github.com/msto63/werktag/foundation/core/log"
)

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("werktag")

	if cfg.ServiceName != "werktag" {
		t.Errorf("ServiceName = %v, want werktag", cfg.ServiceName)
	}
	if cfg.Level != "info" {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %v, want json", cfg.Format)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected wtlog.Level
	}{
		{"trace", wtlog.LevelTrace},
		{"debug", wtlog.LevelDebug},
		{"info", wtlog.LevelInfo},
		{"warn", wtlog.LevelWarn},
		{"warning", wtlog.LevelWarn},
		{"error", wtlog.LevelError},
		{"", wtlog.LevelInfo},
		{"unknown", wtlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(LoggerConfig{ServiceName: "test", Level: tt.level, Output: &bytes.Buffer{}})
			if got := logger.GetLevel(); got != tt.expected {
				t.Errorf("GetLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewLogger_Outputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName:       "test",
		Level:             "debug",
		Format:            "logfmt",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Debug("engine ready", wtlog.Fields{"precision": "1h"})

	for name, buf := range map[string]*bytes.Buffer{"primary": &primary, "extra": &extra} {
		if !strings.Contains(buf.String(), "engine ready") {
			t.Errorf("%s output missing message: %q", name, buf.String())
		}
		if !strings.Contains(buf.String(), `precision="1h"`) {
			t.Errorf("%s output missing field: %q", name, buf.String())
		}
	}
}

func TestNewSimpleLogger(t *testing.T) {
	logger := NewSimpleLogger("werktag")
	if logger == nil {
		t.Fatal("NewSimpleLogger() returned nil")
	}
	if logger.Name() != "werktag" {
		t.Errorf("Name() = %v, want werktag", logger.Name())
	}
}
