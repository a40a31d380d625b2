package constraint

import (
	"fmt"
	"time"

	"github.com/msto63/werktag/foundation/utils/timex"
)

// Default labels of the built-in leaves
const (
	LabelWeekend       = "the weekend"
	LabelOutsideHours  = "outside business hours"
	LabelClosureDay    = "a closure day"
	LabelNeverBusiness = "never business time"
)

// WeekDays holds on the given weekdays, Monday to Friday when none are given
func WeekDays(days ...time.Weekday) Constraint {
	if len(days) == 0 {
		days = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	}
	var set weekdaySet
	for _, d := range days {
		set[d%7] = true
	}
	return Leaf(set).WithLabel(LabelWeekend)
}

type weekdaySet [7]bool

func (s weekdaySet) IsBusinessTime(t time.Time) bool {
	return s[t.Weekday()]
}

// BetweenHoursOfDay holds from the start of hour from until the start of
// hour to. Hours are clamped to [0, 24]; from > to wraps past midnight.
func BetweenHoursOfDay(from, to int) Constraint {
	clamp := func(h int) time.Duration {
		if h < 0 {
			h = 0
		}
		if h > 24 {
			h = 24
		}
		return time.Duration(h) * time.Hour
	}
	return BetweenClock(clamp(from), clamp(to))
}

// BetweenTimesOfDay is BetweenHoursOfDay with clock strings such as "09:30"
func BetweenTimesOfDay(from, to string) (Constraint, error) {
	f, err := timex.ParseClock(from)
	if err != nil {
		return Constraint{}, err
	}
	t, err := timex.ParseClock(to)
	if err != nil {
		return Constraint{}, err
	}
	return BetweenClock(f, t), nil
}

// BetweenClock holds while the wall-clock offset into the day lies in [from, to)
func BetweenClock(from, to time.Duration) Constraint {
	return Leaf(clockWindow{from: from, to: to}).WithLabel(LabelOutsideHours)
}

type clockWindow struct {
	from, to time.Duration
}

func (w clockWindow) IsBusinessTime(t time.Time) bool {
	offset := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())

	if w.from <= w.to {
		return offset >= w.from && offset < w.to
	}
	return offset >= w.from || offset < w.to
}

// Dates holds on the calendar days of the given dates, each taken in its
// own location. Combine with Except to close otherwise open days.
func Dates(dates ...time.Time) Constraint {
	set := make(dateSet, len(dates))
	for _, d := range dates {
		set[d.Format(timex.BusinessDate)] = struct{}{}
	}
	return Leaf(set).WithLabel(LabelClosureDay)
}

type dateSet map[string]struct{}

func (s dateSet) IsBusinessTime(t time.Time) bool {
	_, ok := s[t.Format(timex.BusinessDate)]
	return ok
}

// Always holds for every instant
func Always() Constraint {
	return Func("always", func(time.Time) bool { return true })
}

// Never holds for no instant
func Never() Constraint {
	return Func(LabelNeverBusiness, func(time.Time) bool { return false })
}

// ParseWeekDays parses names such as "mon" or "Friday" into a WeekDays leaf
func ParseWeekDays(names ...string) (Constraint, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, err := timex.ParseWeekday(name)
		if err != nil {
			return Constraint{}, fmt.Errorf("weekday %q: %w", name, err)
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return Constraint{}, fmt.Errorf("no weekdays given")
	}
	return WeekDays(days...), nil
}
