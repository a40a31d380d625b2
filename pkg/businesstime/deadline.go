package businesstime

import (
	"time"

	"github.com/msto63/werktag/foundation/utils/timex"
	"github.com/msto63/werktag/pkg/constraint"
)

// Deadline reads a constraint set as a recurring event: it occurs at
// every precision boundary where all constraints hold. Occurrences are
// found by probing boundaries, never by closed-form date arithmetic.
type Deadline struct {
	engine *Engine
}

// NewDeadline creates a deadline from the constraints of cfg
func NewDeadline(cfg *Config, opts ...Option) *Deadline {
	return &Deadline{engine: NewEngine(cfg, opts...)}
}

// Deadline creates a deadline from exactly the given constraints, reusing
// the engine's precision, limits and options. Like an empty engine, a
// deadline without constraints never occurs.
func (e *Engine) Deadline(constraints ...constraint.Constraint) *Deadline {
	cfg := e.Config.Clone().SetConstraints(constraints...)
	return &Deadline{engine: e.derive(cfg)}
}

// AsDeadline reads the engine's own constraint set as a deadline
func (e *Engine) AsDeadline() *Deadline {
	return &Deadline{engine: e}
}

// Engine returns the engine evaluating the deadline
func (d *Deadline) Engine() *Engine {
	return d.engine
}

// NextOccurrenceFrom returns the first boundary strictly after ref at
// which the deadline holds. ref itself is never returned, even when the
// deadline holds there.
func (d *Deadline) NextOccurrenceFrom(ref time.Time) (time.Time, error) {
	e := d.engine
	var result time.Time
	err := e.track("next_occurrence", func(c *counter) error {
		for cursor := e.slotEnd(ref); ; cursor = e.slotEnd(cursor) {
			if err := c.tick(); err != nil {
				return err
			}
			ok, err := e.classify(cursor)
			if err != nil {
				return err
			}
			if ok {
				result = cursor
				return nil
			}
		}
	})
	return result, err
}

// PreviousOccurrenceFrom returns the last boundary strictly before ref at
// which the deadline holds
func (d *Deadline) PreviousOccurrenceFrom(ref time.Time) (time.Time, error) {
	e := d.engine
	var result time.Time
	err := e.track("previous_occurrence", func(c *counter) error {
		for cursor := e.slotStart(ref); ; cursor = e.slotStart(cursor) {
			if err := c.tick(); err != nil {
				return err
			}
			ok, err := e.classify(cursor)
			if err != nil {
				return err
			}
			if ok {
				result = cursor
				return nil
			}
		}
	})
	return result, err
}

// HasPassedToday reports whether the deadline occurred between local
// midnight and now, now excluded
func (d *Deadline) HasPassedToday() (bool, error) {
	e := d.engine
	now := e.now()
	start := timex.StartOfDay(now)

	var found bool
	err := e.track("has_passed_today", func(c *counter) error {
		for cursor := e.slotStart(now); !cursor.Before(start); cursor = e.slotStart(cursor) {
			if err := c.tick(); err != nil {
				return err
			}
			ok, err := e.classify(cursor)
			if err != nil {
				return err
			}
			if ok {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

// HasPassedBetween reports whether the deadline occurs at any boundary in [a, b]
func (d *Deadline) HasPassedBetween(a, b time.Time) (bool, error) {
	occurrences, err := d.probe("has_passed_between", a, b, true)
	return len(occurrences) > 0, err
}

// OccurrencesBetween lists the boundaries in [a, b] at which the deadline
// starts to hold, i.e. where it holds and did not hold one slot earlier
func (d *Deadline) OccurrencesBetween(a, b time.Time) ([]time.Time, error) {
	return d.probe("occurrences_between", a, b, false)
}

// probe walks the boundaries of [a, b]. With first set it stops at the
// first boundary that holds; otherwise it collects rising edges.
func (d *Deadline) probe(operation string, a, b time.Time, first bool) ([]time.Time, error) {
	if b.Before(a) {
		return nil, degenerateRange(operation, a, b)
	}
	e := d.engine

	var out []time.Time
	err := e.track(operation, func(c *counter) error {
		cursor := a
		if !timex.IsAligned(cursor, e.precision) {
			cursor = e.slotEnd(cursor)
		}

		previous := false
		if !first {
			var err error
			if previous, err = e.classify(e.slotStart(cursor)); err != nil {
				return err
			}
		}

		for ; !cursor.After(b); cursor = e.slotEnd(cursor) {
			if err := c.tick(); err != nil {
				return err
			}
			ok, err := e.classify(cursor)
			if err != nil {
				return err
			}
			if ok && first {
				out = append(out, cursor)
				return nil
			}
			if ok && !previous {
				out = append(out, cursor)
			}
			previous = ok
		}
		return nil
	})
	return out, err
}
