// ============================================================================
// werktag - Business Time Engine
// ============================================================================
//
// Package:     holiday
// Description: Holiday calendars and their constraint leaves
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package holiday provides holiday calendars that plug into constraint
// trees. A calendar leaf holds on holidays and names the holiday, so it is
// usually combined as an exception:
//
//	constraint.Except(constraint.Always(), cal.Constraint())
//
// Calendars can be built in code, loaded from YAML or TOML files, kept in
// SQLite or fetched from a public holiday API.
package holiday

import (
	"sort"
	"sync"
	"time"

	wterror "github.com/msto63/werktag/foundation/core/error"
	"github.com/msto63/werktag/pkg/constraint"
)

const (
	dateKey   = "2006-01-02"
	annualKey = "01-02"
)

// Holiday is a named calendar date. Annual holidays repeat on the same
// month and day every year.
type Holiday struct {
	Date   time.Time `json:"date"`
	Name   string    `json:"name"`
	Annual bool      `json:"annual,omitempty"`
}

func (h Holiday) key() string {
	if h.Annual {
		return h.Date.Format(annualKey)
	}
	return h.Date.Format(dateKey)
}

// in returns the occurrence of h in the given year and location
func (h Holiday) in(year int, loc *time.Location) Holiday {
	return Holiday{
		Date:   time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, loc),
		Name:   h.Name,
		Annual: h.Annual,
	}
}

func validate(h Holiday) error {
	if h.Name == "" {
		return wterror.New("holiday name must not be empty").
			WithCode(wterror.CodeInvalidInput).
			WithDetail("date", h.Date.Format(dateKey))
	}
	if h.Date.IsZero() {
		return wterror.Newf("holiday %q has no date", h.Name).
			WithCode(wterror.CodeInvalidInput)
	}
	return nil
}

// Calendar is a thread-safe set of holidays. Dates are matched against the
// calendar date of an instant in the instant's own location.
type Calendar struct {
	mu     sync.RWMutex
	name   string
	fixed  map[string]Holiday
	annual map[string]Holiday
}

// NewCalendar creates a calendar. Invalid holidays are skipped; use Add to
// see why a holiday was rejected.
func NewCalendar(name string, holidays ...Holiday) *Calendar {
	c := &Calendar{
		name:   name,
		fixed:  make(map[string]Holiday),
		annual: make(map[string]Holiday),
	}
	for _, h := range holidays {
		_ = c.Add(h)
	}
	return c
}

// Name returns the calendar name
func (c *Calendar) Name() string {
	return c.name
}

// Add adds or replaces the holiday on h's date
func (c *Calendar) Add(h Holiday) error {
	if err := validate(h); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if h.Annual {
		c.annual[h.key()] = h
	} else {
		c.fixed[h.key()] = h
	}
	return nil
}

// Remove deletes the fixed and annual holidays on date's calendar day.
// It reports whether anything was removed.
func (c *Calendar) Remove(date time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	fixed, annual := date.Format(dateKey), date.Format(annualKey)
	_, hadFixed := c.fixed[fixed]
	_, hadAnnual := c.annual[annual]
	delete(c.fixed, fixed)
	delete(c.annual, annual)
	return hadFixed || hadAnnual
}

// Lookup returns the holiday on t's calendar date. Fixed holidays take
// precedence over annual ones.
func (c *Calendar) Lookup(t time.Time) (Holiday, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if h, ok := c.fixed[t.Format(dateKey)]; ok {
		return h, true
	}
	if h, ok := c.annual[t.Format(annualKey)]; ok {
		return h.in(t.Year(), t.Location()), true
	}
	return Holiday{}, false
}

// Between lists the holidays from the date of from through the date of to,
// annual holidays expanded into each year
func (c *Calendar) Between(from, to time.Time) []Holiday {
	var out []Holiday
	loc := from.Location()
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)

	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		if h, ok := c.Lookup(day); ok {
			out = append(out, h)
		}
	}
	return out
}

// All returns every holiday, fixed ones by date followed by annual ones by
// month and day
func (c *Calendar) All() []Holiday {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fixed := make([]Holiday, 0, len(c.fixed))
	for _, h := range c.fixed {
		fixed = append(fixed, h)
	}
	sort.Slice(fixed, func(i, j int) bool { return fixed[i].Date.Before(fixed[j].Date) })

	annual := make([]Holiday, 0, len(c.annual))
	for _, h := range c.annual {
		annual = append(annual, h)
	}
	sort.Slice(annual, func(i, j int) bool { return annual[i].key() < annual[j].key() })

	return append(fixed, annual...)
}

// Len returns the number of holidays
func (c *Calendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fixed) + len(c.annual)
}

// Merge adds all holidays of other, replacing those on the same date
func (c *Calendar) Merge(other *Calendar) {
	for _, h := range other.All() {
		_ = c.Add(h)
	}
}

// Constraint returns a leaf that holds on the calendar's holidays and is
// described by the holiday name. Later changes to the calendar are seen
// by the leaf.
func (c *Calendar) Constraint() constraint.Constraint {
	return constraint.Leaf(calendarPredicate{c})
}

type calendarPredicate struct {
	c *Calendar
}

func (p calendarPredicate) IsBusinessTime(t time.Time) bool {
	_, ok := p.c.Lookup(t)
	return ok
}

func (p calendarPredicate) Describe(t time.Time) string {
	h, _ := p.c.Lookup(t)
	return h.Name
}
