package metrics

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/msto63/werktag/pkg/businesstime"
)

func TestCollectorObservesEngine(t *testing.T) {
	c := NewCollector("werktag")
	e := businesstime.New(businesstime.WithObserver(c))

	friday := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	if _, err := e.AddBusinessDay(friday); err != nil {
		t.Fatal(err)
	}
	if err := e.SetIterationLimit(3); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddBusinessHours(friday, 36); err == nil {
		t.Fatal("expected iteration limit")
	}

	if got := testutil.ToFloat64(c.operations.WithLabelValues("add", "OK")); got != 1 {
		t.Errorf("successful adds = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.operations.WithLabelValues("add", "ITERATION_LIMIT")); got != 1 {
		t.Errorf("failed adds = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.iterations); n != 1 {
		t.Errorf("iteration series = %d, want 1", n)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector("test")
	c.ObserveOperation("diff", 12, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`test_operations_total{code="OK",operation="diff"} 1`,
		`test_operation_iterations_sum{operation="diff"} 12`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollectorWriteTextfile(t *testing.T) {
	c := NewCollector("werktag")
	c.ObserveOperation("next_occurrence", 3, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "werktag.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `werktag_operations_total{code="OK",operation="next_occurrence"} 1`) {
		t.Errorf("textfile missing counter:\n%s", data)
	}

	if err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}
