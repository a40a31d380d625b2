package businesstime

import (
	"testing"
	"time"

	"github.com/msto63/werktag/pkg/constraint"
)

// fridayCutoff holds every Friday from 15:00 to 16:00
func fridayCutoff(opts ...Option) *Deadline {
	return New(opts...).Deadline(constraint.WeekDays(time.Friday), constraint.BetweenHoursOfDay(15, 16))
}

func TestNextOccurrenceFrom(t *testing.T) {
	d := fridayCutoff()

	tests := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{"same day", fri10, at(15, 15, 0)},
		{"unaligned ref", at(15, 14, 30), at(15, 15, 0)},
		{"after cutoff", at(15, 16, 0), at(22, 15, 0)},
		{"from monday", mon10, at(22, 15, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.NextOccurrenceFrom(tt.ref)
			if err != nil {
				t.Fatal(err)
			}
			mustEqual(t, "NextOccurrenceFrom()", got, tt.want)
		})
	}
}

func TestNextOccurrenceExcludesRef(t *testing.T) {
	d := fridayCutoff()
	ref := at(15, 15, 0)

	if ok, _ := d.Engine().IsBusinessTime(ref); !ok {
		t.Fatal("deadline should hold at ref")
	}
	got, err := d.NextOccurrenceFrom(ref)
	if err != nil {
		t.Fatal(err)
	}
	mustEqual(t, "NextOccurrenceFrom(ref)", got, at(22, 15, 0))
}

func TestPreviousOccurrenceFrom(t *testing.T) {
	d := fridayCutoff()

	got, err := d.PreviousOccurrenceFrom(at(15, 15, 30))
	if err != nil {
		t.Fatal(err)
	}
	mustEqual(t, "PreviousOccurrenceFrom(Fri 15:30)", got, at(15, 15, 0))

	got, err = d.PreviousOccurrenceFrom(at(15, 15, 0))
	if err != nil {
		t.Fatal(err)
	}
	mustEqual(t, "PreviousOccurrenceFrom(Fri 15:00)", got, at(8, 15, 0))
}

func TestHasPassedToday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"after cutoff", at(15, 16, 30), true},
		{"at cutoff", at(15, 15, 0), false},
		{"inside cutoff", at(15, 15, 1), true},
		{"morning", fri10, false},
		{"other day", at(14, 20, 0), false},
		{"midnight", at(16, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			d := fridayCutoff(WithClock(func() time.Time { return now }))
			got, err := d.HasPassedToday()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("HasPassedToday() at %s = %v, want %v", now, got, tt.want)
			}
		})
	}
}

func TestHasPassedBetween(t *testing.T) {
	d := fridayCutoff()

	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"monday to thursday", at(11, 0, 0), at(14, 23, 0), false},
		{"end inclusive", at(11, 0, 0), at(15, 15, 0), true},
		{"single instant", at(15, 15, 0), at(15, 15, 0), true},
		{"start inside window", at(15, 15, 30), at(15, 15, 45), false},
		{"whole week", at(11, 0, 0), at(18, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.HasPassedBetween(tt.a, tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("HasPassedBetween() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := d.HasPassedBetween(mon10, fri10); !IsDegenerateRange(err) {
		t.Errorf("HasPassedBetween(b < a) error = %v, want DEGENERATE_RANGE", err)
	}
}

func TestOccurrencesBetween(t *testing.T) {
	d := fridayCutoff()

	got, err := d.OccurrencesBetween(at(1, 0, 0), at(31, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{at(1, 15, 0), at(8, 15, 0), at(15, 15, 0), at(22, 15, 0), at(29, 15, 0)}
	if len(got) != len(want) {
		t.Fatalf("OccurrencesBetween() = %v, want %v", got, want)
	}
	for i := range want {
		mustEqual(t, "occurrence", got[i], want[i])
	}
}

func TestOccurrencesCountRisingEdgesOnly(t *testing.T) {
	d := fridayCutoff()
	if err := d.Engine().SetPrecision(30 * time.Minute); err != nil {
		t.Fatal(err)
	}

	got, err := d.OccurrencesBetween(at(15, 15, 30), at(22, 23, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("OccurrencesBetween() = %v, want only the next Friday", got)
	}
	mustEqual(t, "occurrence", got[0], at(22, 15, 0))
}

func TestDeadlineConstraintSets(t *testing.T) {
	e := New()
	if err := e.SetIterationLimit(500); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Deadline().NextOccurrenceFrom(fri10); !IsIterationLimit(err) {
		t.Errorf("empty Deadline().NextOccurrenceFrom() error = %v, want ITERATION_LIMIT", err)
	}

	got, err := e.AsDeadline().NextOccurrenceFrom(at(15, 16, 0))
	if err != nil {
		t.Fatal(err)
	}
	mustEqual(t, "AsDeadline().NextOccurrenceFrom(Fri 16:00)", got, at(18, 9, 0))
}

func TestDeadlineSharesEngineSettings(t *testing.T) {
	e := New()
	if err := e.SetIterationLimit(10); err != nil {
		t.Fatal(err)
	}

	d := e.Deadline(constraint.WeekDays(time.Friday), constraint.BetweenHoursOfDay(15, 16))
	if d.Engine().IterationLimit() != 10 {
		t.Errorf("IterationLimit() = %d, want 10", d.Engine().IterationLimit())
	}
	if _, err := d.NextOccurrenceFrom(mon10); !IsIterationLimit(err) {
		t.Errorf("NextOccurrenceFrom() error = %v, want ITERATION_LIMIT", err)
	}
	if len(e.Constraints()) != 2 || e.Constraints()[0].Label() != constraint.LabelWeekend {
		t.Error("deriving a deadline changed the engine's constraints")
	}

	cfg := NewConfig().SetConstraints(constraint.WeekDays(time.Friday), constraint.BetweenHoursOfDay(15, 16))
	got, err := NewDeadline(cfg).NextOccurrenceFrom(fri10)
	if err != nil {
		t.Fatal(err)
	}
	mustEqual(t, "NewDeadline().NextOccurrenceFrom()", got, at(15, 15, 0))
}
