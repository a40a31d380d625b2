package holiday

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	wterror "github.com/msto63/werktag/foundation/core/error"
	"github.com/msto63/werktag/pkg/businesstime"
	"github.com/msto63/werktag/pkg/constraint"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(SQLiteConfig{Path: filepath.Join(t.TempDir(), "db", "holidays.db")})
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreImportAndLookup(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	n, err := store.Import(ctx, "de", testCalendar())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Import() = %d, want 3", n)
	}

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"fixed", time.Date(2024, time.March, 29, 12, 0, 0, 0, time.UTC), "Good Friday"},
		{"annual", date(2029, time.December, 25), "Christmas Day"},
		{"none", date(2024, time.March, 30), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok, err := store.Lookup(ctx, "de", tt.t)
			if err != nil {
				t.Fatal(err)
			}
			if ok != (tt.want != "") || h.Name != tt.want {
				t.Errorf("Lookup() = %+v, %v, want %q", h, ok, tt.want)
			}
		})
	}

	if _, ok, _ := store.Lookup(ctx, "fr", date(2029, time.December, 25)); ok {
		t.Error("calendars must be separate")
	}
}

func TestSQLiteStoreFixedBeatsAnnual(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.Add(ctx, "de", Holiday{Date: date(2000, time.May, 1), Name: "Labour Day", Annual: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "de", Holiday{Date: date(2025, time.May, 1), Name: "Special Day"}); err != nil {
		t.Fatal(err)
	}

	if h, _, _ := store.Lookup(ctx, "de", date(2025, time.May, 1)); h.Name != "Special Day" {
		t.Errorf("Lookup() = %q, want the fixed holiday", h.Name)
	}
	if h, _, _ := store.Lookup(ctx, "de", date(2026, time.May, 1)); h.Name != "Labour Day" || !h.Annual {
		t.Errorf("Lookup() = %+v, want the annual holiday", h)
	}

	removed, err := store.Remove(ctx, "de", date(2025, time.May, 1))
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("Remove() = %d, want 2", removed)
	}
}

func TestSQLiteStoreCalendars(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.Import(ctx, "de", testCalendar()); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "at", Holiday{Date: date(2000, time.October, 26), Name: "Nationalfeiertag", Annual: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "at", Holiday{Date: date(2000, time.October, 26)}); !wterror.HasCode(err, wterror.CodeInvalidInput) {
		t.Errorf("Add() without name error = %v", err)
	}

	names, err := store.Calendars(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if names["de"] != 3 || names["at"] != 1 {
		t.Errorf("Calendars() = %v", names)
	}

	cal, err := store.Calendar(ctx, "de")
	if err != nil {
		t.Fatal(err)
	}
	if cal.Len() != 3 || cal.Name() != "de" {
		t.Errorf("Calendar() = %q with %d holidays", cal.Name(), cal.Len())
	}
}

func TestSQLiteStoreConstraint(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if _, err := store.Import(ctx, "de", testCalendar()); err != nil {
		t.Fatal(err)
	}

	cfg := businesstime.NewConfig().SetConstraints(
		constraint.Except(constraint.Always(), store.Constraint("de")),
		constraint.WeekDays(),
		constraint.BetweenHoursOfDay(9, 17),
	)
	e := businesstime.NewEngine(cfg)

	ok, label, err := e.Explain(time.Date(2024, time.March, 29, 10, 0, 0, 0, time.UTC))
	if err != nil || ok || label != "Good Friday" {
		t.Errorf("Explain() = %v, %q, %v", ok, label, err)
	}

	store.Close()
	_, err = e.IsBusinessTime(time.Date(2024, time.March, 28, 10, 0, 0, 0, time.UTC))
	if !wterror.HasCode(err, wterror.CodeDatabaseError) {
		t.Errorf("IsBusinessTime() on closed store error = %v, want DATABASE_ERROR", err)
	}
}
