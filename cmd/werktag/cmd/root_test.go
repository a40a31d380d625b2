package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	wterror "github.com/msto63/werktag/foundation/core/error"
)

// run executes the CLI against a UTC Monday-Friday 09:00-17:00 config
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	holidays := filepath.Join(dir, "holidays.yaml")
	os.WriteFile(holidays, []byte("holidays:\n  - date: 2024-03-29\n    name: Good Friday\n"), 0644)

	path := filepath.Join(dir, "werktag.toml")
	content := "[general]\nlog_level = \"error\"\n\n[engine]\nlocation = \"UTC\"\n\n[holidays]\nfiles = [\"holidays.yaml\"]\ndatabase = \"" + filepath.Join(dir, "holidays.db") + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	t.Cleanup(func() {
		cfgFile = ""
		periodsFilter, daysFilter = "all", "all"
		deadlineWeekdays, deadlineHours, deadlineExpr = nil, "", ""
		passedList, derive = false, false
	})

	err := Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"check open", []string{"check", "2024-03-15 10:00"}, []string{"business time"}},
		{"check weekend", []string{"check", "2024-03-16 10:00"}, []string{"not business time", "the weekend"}},
		{"check holiday", []string{"check", "2024-03-29 10:00"}, []string{"Good Friday"}},
		{"add day", []string{"add", "2024-03-15 10:00", "1d"}, []string{"Mon 2024-03-18 10:00"}},
		{"add hours", []string{"add", "2024-03-15 10:00", "36h"}, []string{"Thu 2024-03-21 14:00"}},
		{"sub duration", []string{"sub", "2024-03-18 10:00", "90m"}, []string{"Fri 2024-03-15 16:30"}},
		{"diff", []string{"diff", "2024-03-15 10:00", "2024-03-16 10:00"}, []string{"hours: 7", "days:  0 (0.875)"}},
		{"periods", []string{"periods", "2024-03-15 10:00", "2024-03-18 12:00"}, []string{"outside business hours", "10h open"}},
		{"days", []string{"days", "2024-03-15 10:00", "2024-03-19 00:00", "--only", "non-business"}, []string{"the weekend", "2024-03-16"}},
		{"next deadline", []string{"next", "2024-03-15 16:00", "--weekdays", "fri", "--hours", "15:00-16:00"}, []string{"Fri 2024-03-22 15:00"}},
		{"prev business", []string{"prev", "2024-03-18 09:00"}, []string{"Fri 2024-03-15 16:00"}},
		{"passed list", []string{"passed", "2024-03-01 00:00", "2024-03-31 00:00", "--weekdays", "fri", "--hours", "15:00-16:00", "--list"}, []string{"5 occurrence(s)"}},
		{"daylength", []string{"daylength", "2024-03-15"}, []string{"09:00 - 17:00", "8h"}},
		{"holidays list", []string{"holidays", "list", "--year", "2024"}, []string{"Good Friday", "file"}},
		{"holidays import", []string{"holidays", "import"}, []string{"imported", "1 holiday(s)"}},
		{"status", []string{"status"}, []string{"healthy", "holiday_database", "holiday_files", "engine"}},
		{"version", []string{"version"}, []string{"werktag v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output of %v missing %q:\n%s", tt.args, want, out)
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad time", []string{"check", "tomorrowish"}},
		{"bad amount", []string{"add", "2024-03-15 10:00", "lots"}},
		{"huge amount", []string{"add", "2024-03-15 10:00", "1e12h"}},
		{"infinite amount", []string{"add", "2024-03-15 10:00", "infd"}},
		{"reversed range", []string{"diff", "2024-03-18 10:00", "2024-03-15 10:00"}},
		{"bad filter", []string{"periods", "2024-03-15 10:00", "2024-03-18 10:00", "--only", "some"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in    string
		unit  string
		value float64
	}{
		{"3d", "days", 3},
		{"1.5d", "days", 1.5},
		{"2 days", "days", 2},
		{"36h", "hours", 36},
		{"2.5h", "hours", 2.5},
		{"90m", "duration", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := parseAmount(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if a.unit != tt.unit {
				t.Errorf("unit = %q, want %q", a.unit, tt.unit)
			}
			if got := a.days + a.hours; got != tt.value {
				t.Errorf("value = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "werktag.prom")
	path := filepath.Join(dir, "werktag.yaml")
	content := "general:\n  log_level: error\nengine:\n  location: UTC\nmetrics:\n  enabled: true\n  textfile: " + prom + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--config", path, "add", "2024-03-15 10:00", "2h"})
	t.Cleanup(func() { cfgFile = "" })

	if err := Execute(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("textfile not written: %v", err)
	}
	if !strings.Contains(string(data), `werktag_operations_total{code="OK",operation="add"} 1`) {
		t.Errorf("textfile missing add counter:\n%s", data)
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"input", wterror.New("invalid time").WithCode(wterror.CodeInvalidInput), []string{"error:", "invalid time", "code: INVALID_INPUT (low)"}},
		{"limit", wterror.New("Iteration limit of 3 reached.").WithCode(wterror.CodeIterationLimit), []string{"code: ITERATION_LIMIT (medium)"}},
		{"database", wterror.New("locked").WithCode(wterror.CodeDatabaseError), []string{"code: DATABASE_ERROR (high)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("printError() = %q, missing %q", buf.String(), want)
				}
			}
		})
	}
}

func TestCommandFailureIsLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "werktag.toml")
	content := "[general]\nlog_level = \"error\"\nlog_format = \"logfmt\"\n\n[engine]\nlocation = \"UTC\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"--config", path, "check", "tomorrowish"})
	t.Cleanup(func() { cfgFile = "" })

	if err := Execute(); err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"command failed", "INVALID_INPUT"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut.String())
		}
	}
}
