package constraint

import (
	"errors"
	"testing"
	"time"
)

var (
	friday10   = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	friday20   = time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)
	saturday10 = time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC)
)

func constant(label string, v bool) Constraint {
	return Func(label, func(time.Time) bool { return v })
}

type failingSource struct {
	err error
}

func (s failingSource) Evaluate(time.Time) (bool, error) {
	return false, s.err
}

func TestCombinators(t *testing.T) {
	yes, no := constant("yes", true), constant("no", false)

	tests := []struct {
		name string
		c    Constraint
		want bool
	}{
		{"empty and", And(), true},
		{"empty or", Or(), false},
		{"and all true", And(yes, yes), true},
		{"and one false", And(yes, no), false},
		{"or one true", Or(no, yes), true},
		{"or all false", Or(no, no), false},
		{"not true", Not(yes), false},
		{"not false", Not(no), true},
		{"except no exceptions", Except(yes), true},
		{"except matching", Except(yes, no, yes), false},
		{"except none matching", Except(yes, no, no), true},
		{"except false base", Except(no), false},
		{"zero value", Constraint{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.c.Evaluate(friday10)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
			if tt.c.IsBusinessTime(friday10) != tt.want {
				t.Errorf("IsBusinessTime() disagrees with Evaluate()")
			}
		})
	}
}

func TestExceptIsSugar(t *testing.T) {
	c := Except(constant("base", true), constant("holiday", true))

	if c.Kind() != KindAnd {
		t.Fatalf("Kind() = %v, want and", c.Kind())
	}
	children := c.Children()
	if len(children) != 2 || children[1].Kind() != KindNot {
		t.Fatalf("unexpected shape %s", c)
	}
	if inner := children[1].Children(); len(inner) != 1 || inner[0].Kind() != KindOr {
		t.Errorf("negated node should be an or, got %s", c)
	}
}

func TestSourceErrorsPropagateUnchanged(t *testing.T) {
	boom := errors.New("holiday service unavailable")
	src := FromSource(failingSource{err: boom})

	for name, c := range map[string]Constraint{
		"leaf":   src,
		"not":    Not(src),
		"and":    And(constant("yes", true), src),
		"or":     Or(constant("no", false), src),
		"except": Except(constant("yes", true), src),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := c.Evaluate(friday10); err != boom {
				t.Errorf("Evaluate() error = %v, want %v", err, boom)
			}
			if _, _, err := c.Explain(friday10); err != boom {
				t.Errorf("Explain() error = %v, want %v", err, boom)
			}
			if c.IsBusinessTime(friday10) {
				t.Error("IsBusinessTime() should be false on error")
			}
		})
	}
}

func TestShortCircuitDoesNotChangeResult(t *testing.T) {
	calls := 0
	counting := Func("counting", func(time.Time) bool {
		calls++
		return true
	})

	if ok, _ := And(constant("no", false), counting).Evaluate(friday10); ok {
		t.Error("And() should be false")
	}
	if ok, _ := Or(constant("yes", true), counting).Evaluate(friday10); !ok {
		t.Error("Or() should be true")
	}
	if calls != 0 {
		t.Errorf("children evaluated %d times after decision", calls)
	}
}

func TestExplain(t *testing.T) {
	defaults := And(WeekDays(), BetweenHoursOfDay(9, 17))
	holiday := Func("Good Friday", func(t time.Time) bool { return t.Day() == 15 })

	tests := []struct {
		name      string
		c         Constraint
		at        time.Time
		wantOK    bool
		wantLabel string
	}{
		{"weekend first", defaults, saturday10, false, LabelWeekend},
		{"evening", defaults, friday20, false, LabelOutsideHours},
		{"open", defaults, friday10, true, ""},
		{"holiday exception", Except(defaults, holiday), friday10, false, "Good Friday"},
		{"node label overrides", Except(defaults, holiday).WithLabel("closed"), friday10, false, "closed"},
		{"failing or uses first child", Or(constant("a", false), constant("b", false)), friday10, false, "a"},
		{"holding or uses holding child", Or(constant("a", false), constant("b", true)), friday10, true, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, label, err := tt.c.Explain(tt.at)
			if err != nil {
				t.Fatalf("Explain() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("Explain() ok = %v, want %v", ok, tt.wantOK)
			}
			if label != tt.wantLabel {
				t.Errorf("Explain() label = %q, want %q", label, tt.wantLabel)
			}
		})
	}
}

type namedDays map[int]string

func (n namedDays) IsBusinessTime(t time.Time) bool {
	_, ok := n[t.Day()]
	return ok
}

func (n namedDays) Describe(t time.Time) string {
	return n[t.Day()]
}

func TestExplainUsesDescriber(t *testing.T) {
	c := Except(Always(), Leaf(namedDays{16: "Founders Day"}))

	ok, label, err := c.Explain(saturday10)
	if err != nil {
		t.Fatal(err)
	}
	if ok || label != "Founders Day" {
		t.Errorf("Explain() = %v, %q; want false, Founders Day", ok, label)
	}
}

func TestString(t *testing.T) {
	c := Except(WeekDays(), Never())
	want := "and(the weekend, not(or(never business time)))"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestChildrenIsCopy(t *testing.T) {
	c := And(constant("a", true))
	children := c.Children()
	children[0] = constant("b", false)

	if ok, _ := c.Evaluate(friday10); !ok {
		t.Error("mutating Children() result changed the constraint")
	}
}
