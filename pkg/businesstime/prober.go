package businesstime

import (
	"fmt"
	"math"
	"time"

	wtlog "github.com/msto63/werktag/foundation/core/log"
	"github.com/msto63/werktag/foundation/utils/timex"
)

// AddBusinessDuration returns the instant at which amount of business time
// has elapsed after start. A negative amount subtracts. The last slot may be
// used partially; the result is never rounded up to the slot end.
func (e *Engine) AddBusinessDuration(start time.Time, amount time.Duration) (time.Time, error) {
	if amount == 0 {
		return start, nil
	}
	if amount == math.MinInt64 {
		return time.Time{}, amountOutOfRange("add", amount.String())
	}
	if amount < 0 {
		return e.SubBusinessDuration(start, -amount)
	}

	var result time.Time
	err := e.track("add", func(c *counter) error {
		cursor, remaining := start, amount
		for {
			if err := c.tick(); err != nil {
				return err
			}
			next := e.slotEnd(cursor)
			ok, err := e.classify(cursor)
			if err != nil {
				return err
			}
			if ok {
				slot := next.Sub(cursor)
				if remaining <= slot {
					result = cursor.Add(remaining)
					return nil
				}
				remaining -= slot
			}
			cursor = next
		}
	})
	return result, err
}

// SubBusinessDuration returns the instant amount of business time before start
func (e *Engine) SubBusinessDuration(start time.Time, amount time.Duration) (time.Time, error) {
	if amount == 0 {
		return start, nil
	}
	if amount == math.MinInt64 {
		return time.Time{}, amountOutOfRange("sub", amount.String())
	}
	if amount < 0 {
		return e.AddBusinessDuration(start, -amount)
	}

	var result time.Time
	err := e.track("sub", func(c *counter) error {
		cursor, remaining := start, amount
		for {
			if err := c.tick(); err != nil {
				return err
			}
			prev := e.slotStart(cursor)
			ok, err := e.classify(prev)
			if err != nil {
				return err
			}
			if ok {
				slot := cursor.Sub(prev)
				if remaining <= slot {
					result = cursor.Add(-remaining)
					return nil
				}
				remaining -= slot
			}
			cursor = prev
		}
	})
	return result, err
}

// AddBusinessHours adds n hours of business time
func (e *Engine) AddBusinessHours(start time.Time, n float64) (time.Time, error) {
	d, err := scale("add", time.Hour, n)
	if err != nil {
		return time.Time{}, err
	}
	return e.AddBusinessDuration(start, d)
}

// SubBusinessHours subtracts n hours of business time
func (e *Engine) SubBusinessHours(start time.Time, n float64) (time.Time, error) {
	d, err := scale("sub", time.Hour, n)
	if err != nil {
		return time.Time{}, err
	}
	return e.SubBusinessDuration(start, d)
}

// AddBusinessHour adds one hour of business time
func (e *Engine) AddBusinessHour(start time.Time) (time.Time, error) {
	return e.AddBusinessHours(start, 1)
}

// SubBusinessHour subtracts one hour of business time
func (e *Engine) SubBusinessHour(start time.Time) (time.Time, error) {
	return e.SubBusinessHours(start, 1)
}

// AddBusinessDays adds n business days, each BusinessDayLength of business time
func (e *Engine) AddBusinessDays(start time.Time, n float64) (time.Time, error) {
	d, err := scale("add", e.businessDayLength, n)
	if err != nil {
		return time.Time{}, err
	}
	return e.AddBusinessDuration(start, d)
}

// SubBusinessDays subtracts n business days
func (e *Engine) SubBusinessDays(start time.Time, n float64) (time.Time, error) {
	d, err := scale("sub", e.businessDayLength, n)
	if err != nil {
		return time.Time{}, err
	}
	return e.SubBusinessDuration(start, d)
}

// AddBusinessDay adds one business day
func (e *Engine) AddBusinessDay(start time.Time) (time.Time, error) {
	return e.AddBusinessDays(start, 1)
}

// SubBusinessDay subtracts one business day
func (e *Engine) SubBusinessDay(start time.Time) (time.Time, error) {
	return e.SubBusinessDays(start, 1)
}

// DiffInBusinessDuration returns the business time in [a, b).
// b before a is rejected with DEGENERATE_RANGE.
func (e *Engine) DiffInBusinessDuration(a, b time.Time) (time.Duration, error) {
	if b.Before(a) {
		return 0, degenerateRange("diff", a, b)
	}
	if a.Equal(b) {
		return 0, nil
	}

	var total time.Duration
	err := e.track("diff", func(c *counter) error {
		var err error
		total, err = e.businessBetween(c, a, b)
		return err
	})
	return total, err
}

// DiffInBusinessHours returns the whole business hours in [a, b)
func (e *Engine) DiffInBusinessHours(a, b time.Time) (int, error) {
	d, err := e.DiffInBusinessDuration(a, b)
	return int(d / time.Hour), err
}

// DiffInPartialBusinessHours returns the business hours in [a, b) as a fraction
func (e *Engine) DiffInPartialBusinessHours(a, b time.Time) (float64, error) {
	d, err := e.DiffInBusinessDuration(a, b)
	return d.Hours(), err
}

// DiffInBusinessDays returns the whole business days in [a, b). A day
// counts only once a full BusinessDayLength of business time has elapsed.
func (e *Engine) DiffInBusinessDays(a, b time.Time) (int, error) {
	d, err := e.DiffInBusinessDuration(a, b)
	return int(d / e.businessDayLength), err
}

// DiffInPartialBusinessDays returns the business days in [a, b) as a fraction
func (e *Engine) DiffInPartialBusinessDays(a, b time.Time) (float64, error) {
	d, err := e.DiffInBusinessDuration(a, b)
	return float64(d) / float64(e.businessDayLength), err
}

// StartOfBusinessDay returns the first business instant on t's calendar day
func (e *Engine) StartOfBusinessDay(t time.Time) (time.Time, error) {
	var result time.Time
	err := e.track("start_of_business_day", func(c *counter) error {
		periods, err := e.decompose(c, timex.StartOfDay(t), timex.StartOfNextDay(t), false)
		if err != nil {
			return err
		}
		for _, p := range periods {
			if p.BusinessTime {
				result = p.Start
				return nil
			}
		}
		return noBusinessTime("start_of_business_day", t)
	})
	return result, err
}

// EndOfBusinessDay returns the end of the last business slot on t's calendar day
func (e *Engine) EndOfBusinessDay(t time.Time) (time.Time, error) {
	var result time.Time
	err := e.track("end_of_business_day", func(c *counter) error {
		periods, err := e.decompose(c, timex.StartOfDay(t), timex.StartOfNextDay(t), false)
		if err != nil {
			return err
		}
		for i := len(periods) - 1; i >= 0; i-- {
			if periods[i].BusinessTime {
				result = periods[i].End
				return nil
			}
		}
		return noBusinessTime("end_of_business_day", t)
	})
	return result, err
}

// BusinessDurationOn returns the business time on t's calendar day
func (e *Engine) BusinessDurationOn(t time.Time) (time.Duration, error) {
	var total time.Duration
	err := e.track("business_duration_on", func(c *counter) error {
		var err error
		total, err = e.businessBetween(c, timex.StartOfDay(t), timex.StartOfNextDay(t))
		return err
	})
	return total, err
}

// IsBusinessDay reports whether t's calendar day holds a whole business day
func (e *Engine) IsBusinessDay(t time.Time) (bool, error) {
	d, err := e.BusinessDurationOn(t)
	if err != nil {
		return false, err
	}
	return d >= e.businessDayLength, nil
}

// DeriveBusinessDayLength decomposes ref's calendar day, sets the business
// day length to the sum of its business periods and returns it. A day
// without business time is rejected with NOT_FOUND and leaves the
// configuration unchanged.
func (e *Engine) DeriveBusinessDayLength(ref time.Time) (time.Duration, error) {
	day, err := e.Period(timex.StartOfDay(ref), timex.StartOfNextDay(ref))
	if err != nil {
		return 0, err
	}
	d, err := day.BusinessDuration()
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, noBusinessTime("derive_business_day_length", ref)
	}
	if err := e.SetBusinessDayLength(d); err != nil {
		return 0, err
	}
	e.logger.Debug("business day length derived", wtlog.Fields{
		"reference": ref.Format(timex.BusinessDate),
		"length":    d,
	})
	return d, nil
}

// NextBusinessTime returns t if it is business time, otherwise the start
// of the next business slot
func (e *Engine) NextBusinessTime(t time.Time) (time.Time, error) {
	var result time.Time
	err := e.track("next_business_time", func(c *counter) error {
		cursor := t
		for {
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
			cursor = e.slotEnd(cursor)
		}
	})
	return result, err
}

// PreviousBusinessTime returns the end of the most recent business slot
// at or before t; t itself when the slot before t is business time
func (e *Engine) PreviousBusinessTime(t time.Time) (time.Time, error) {
	var result time.Time
	err := e.track("previous_business_time", func(c *counter) error {
		cursor := t
		for {
			if err := c.tick(); err != nil {
				return err
			}
			prev := e.slotStart(cursor)
			ok, err := e.classify(prev)
			if err != nil {
				return err
			}
			if ok {
				result = cursor
				return nil
			}
			cursor = prev
		}
	})
	return result, err
}

// businessBetween sums the business slots of [a, b), shortening the last slot to b
func (e *Engine) businessBetween(c *counter, a, b time.Time) (time.Duration, error) {
	var total time.Duration
	for cursor := a; cursor.Before(b); {
		if err := c.tick(); err != nil {
			return 0, err
		}
		next := timex.Min(e.slotEnd(cursor), b)
		ok, err := e.classify(cursor)
		if err != nil {
			return 0, err
		}
		if ok {
			total += next.Sub(cursor)
		}
		cursor = next
	}
	return total, nil
}

// scale returns n units as a duration. Products that are not finite or do
// not fit a time.Duration are rejected with INVALID_INPUT.
func scale(operation string, unit time.Duration, n float64) (time.Duration, error) {
	v := math.Round(float64(unit) * n)
	if math.IsNaN(v) || v >= math.MaxInt64 || v <= math.MinInt64 {
		return 0, amountOutOfRange(operation, fmt.Sprintf("%g × %s", n, unit))
	}
	return time.Duration(v), nil
}
