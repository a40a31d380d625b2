// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, context fields, formatters,
//              timers and coded-error integration.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive logger tests
// - 2026-10-19 v0.2.0: Coverage for NewNop and severity-based LogError

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	wterror "github.com/msto63/werktag/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf, Name: "test"}), &buf
}

func TestNewWithConfig(t *testing.T) {
	logger, _ := newBufferLogger(LevelError, FormatText)

	if logger.GetLevel() != LevelError {
		t.Errorf("level = %v, want %v", logger.GetLevel(), LevelError)
	}
	if logger.Name() != "test" {
		t.Errorf("name = %q, want test", logger.Name())
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Audit("always")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "always") {
		t.Errorf("output misses messages: %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger.WithRequestID("req-1").Debug("add completed", Fields{"iterations": 12})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if decoded["message"] != "add completed" {
		t.Errorf("message = %v", decoded["message"])
	}
	if decoded["request_id"] != "req-1" {
		t.Errorf("request_id = %v", decoded["request_id"])
	}
	if decoded["iterations"] != float64(12) {
		t.Errorf("iterations = %v", decoded["iterations"])
	}
	if decoded["logger"] != "test" {
		t.Errorf("logger = %v", decoded["logger"])
	}
}

func TestWithFieldsIsImmutable(t *testing.T) {
	base, buf := newBufferLogger(LevelInfo, FormatLogfmt)
	derived := base.WithFields(Fields{"engine": "default"})

	base.Info("base")
	if strings.Contains(buf.String(), "engine=") {
		t.Errorf("base logger picked up derived fields: %q", buf.String())
	}

	buf.Reset()
	derived.Info("derived")
	if !strings.Contains(buf.String(), `engine="default"`) {
		t.Errorf("derived logger lost fields: %q", buf.String())
	}
}

func TestLogErrorUsesSeverity(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"low", wterror.New("bad").WithCode(wterror.CodeInvalidConfig), "info"},
		{"medium", wterror.New("limit").WithCode(wterror.CodeIterationLimit), "warn"},
		{"high", wterror.New("db").WithCode(wterror.CodeDatabaseError), "error"},
		{"plain", errors.New("plain"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)

			var decoded map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("invalid JSON %q: %v", buf.String(), err)
			}
			if decoded["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", decoded["level"], tt.wantLevel)
			}
		})
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	timer := logger.StartTimer("diff").WithField("iterations", 24)
	if !timer.IsRunning() {
		t.Fatal("timer should be running")
	}
	timer.Stop()
	if timer.IsRunning() {
		t.Error("timer should be stopped")
	}
	if timer.Stop() != 0 {
		t.Error("second Stop should return 0")
	}

	out := buf.String()
	if !strings.Contains(out, "diff completed") || !strings.Contains(out, "iterations=24") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.IsLevelEnabled(LevelError) {
		t.Error("nop logger should not enable error level")
	}
	logger.Error("nothing")
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("warning"); err != nil || l != LevelWarn {
		t.Errorf("ParseLevel(warning) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
	if f, err := ParseFormat("logfmt"); err != nil || f != FormatLogfmt {
		t.Errorf("ParseFormat(logfmt) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
