package businesstime

import (
	"time"

	"github.com/msto63/werktag/foundation/utils/timex"
)

// Period is a half-open run [Start, End) of constant classification.
// Non-business periods carry the label of the constraint that failed at
// their first instant.
type Period struct {
	Start        time.Time
	End          time.Time
	BusinessTime bool
	Label        string
}

// Duration returns End - Start
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Day is the part of one calendar day that lies inside a TimePeriod
type Day struct {
	Date             time.Time // local midnight
	Start            time.Time
	End              time.Time
	BusinessDuration time.Duration
	// BusinessDay is set once BusinessDuration reaches the business day length
	BusinessDay bool
	Fraction    float64
	// Label names the constraint responsible for most of the day's
	// non-business time; empty for business days
	Label string
}

// TimePeriod decomposes the range [start, end) into business and
// non-business time. Results are computed on every call.
type TimePeriod struct {
	engine *Engine
	start  time.Time
	end    time.Time
}

// NewTimePeriod creates a period over [start, end) evaluated with cfg.
// An end before start is rejected with DEGENERATE_RANGE.
func NewTimePeriod(cfg *Config, start, end time.Time, opts ...Option) (*TimePeriod, error) {
	return NewEngine(cfg, opts...).Period(start, end)
}

// Period creates a period over [start, end) evaluated with the engine's configuration
func (e *Engine) Period(start, end time.Time) (*TimePeriod, error) {
	if end.Before(start) {
		return nil, degenerateRange("period", start, end)
	}
	return &TimePeriod{engine: e, start: start, end: end}, nil
}

// Start returns the start of the range
func (tp *TimePeriod) Start() time.Time { return tp.start }

// End returns the end of the range
func (tp *TimePeriod) End() time.Time { return tp.end }

// Periods returns the maximal runs of constant classification, in order,
// covering [start, end) without gaps or overlaps
func (tp *TimePeriod) Periods() ([]Period, error) {
	var periods []Period
	err := tp.engine.track("periods", func(c *counter) error {
		var err error
		periods, err = tp.engine.decompose(c, tp.start, tp.end, true)
		return err
	})
	return periods, err
}

// BusinessPeriods returns the business runs of the range
func (tp *TimePeriod) BusinessPeriods() ([]Period, error) {
	return tp.filter(true)
}

// NonBusinessPeriods returns the non-business runs of the range
func (tp *TimePeriod) NonBusinessPeriods() ([]Period, error) {
	return tp.filter(false)
}

// BusinessDuration returns the total business time of the range
func (tp *TimePeriod) BusinessDuration() (time.Duration, error) {
	return tp.sum(true)
}

// NonBusinessDuration returns the total non-business time of the range
func (tp *TimePeriod) NonBusinessDuration() (time.Duration, error) {
	return tp.sum(false)
}

// Days buckets the range by calendar day
func (tp *TimePeriod) Days() ([]Day, error) {
	var days []Day
	err := tp.engine.track("days", func(c *counter) error {
		segments, err := tp.engine.segments(c, tp.start, tp.end, true)
		if err != nil {
			return err
		}
		days = tp.engine.bucket(segments)
		return nil
	})
	return days, err
}

// BusinessDays returns the days holding a whole business day
func (tp *TimePeriod) BusinessDays() ([]Day, error) {
	return tp.days(func(d Day) bool { return d.BusinessDay })
}

// NonBusinessDays returns the days that do not hold a whole business day
func (tp *TimePeriod) NonBusinessDays() ([]Day, error) {
	return tp.days(func(d Day) bool { return !d.BusinessDay })
}

// PartialBusinessDays returns the days holding any business time
func (tp *TimePeriod) PartialBusinessDays() ([]Day, error) {
	return tp.days(func(d Day) bool { return d.BusinessDuration > 0 })
}

func (tp *TimePeriod) filter(business bool) ([]Period, error) {
	periods, err := tp.Periods()
	if err != nil {
		return nil, err
	}
	var out []Period
	for _, p := range periods {
		if p.BusinessTime == business {
			out = append(out, p)
		}
	}
	return out, nil
}

func (tp *TimePeriod) sum(business bool) (time.Duration, error) {
	periods, err := tp.filter(business)
	if err != nil {
		return 0, err
	}
	var total time.Duration
	for _, p := range periods {
		total += p.Duration()
	}
	return total, nil
}

func (tp *TimePeriod) days(keep func(Day) bool) ([]Day, error) {
	all, err := tp.Days()
	if err != nil {
		return nil, err
	}
	var out []Day
	for _, d := range all {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// segments walks [a, b) slot by slot and returns runs of constant
// classification and label. Without labels only the classification is
// computed.
func (e *Engine) segments(c *counter, a, b time.Time, labels bool) ([]Period, error) {
	var out []Period
	for cursor := a; cursor.Before(b); {
		if err := c.tick(); err != nil {
			return nil, err
		}
		next := timex.Min(e.slotEnd(cursor), b)

		var (
			ok    bool
			label string
			err   error
		)
		if labels {
			ok, label, err = e.explain(cursor)
		} else {
			ok, err = e.classify(cursor)
		}
		if err != nil {
			return nil, err
		}

		if n := len(out); n > 0 && out[n-1].BusinessTime == ok && out[n-1].Label == label {
			out[n-1].End = next
		} else {
			out = append(out, Period{Start: cursor, End: next, BusinessTime: ok, Label: label})
		}
		cursor = next
	}
	return out, nil
}

// decompose merges segments into maximal runs; a run keeps the label of
// its first instant
func (e *Engine) decompose(c *counter, a, b time.Time, labels bool) ([]Period, error) {
	segments, err := e.segments(c, a, b, labels)
	if err != nil {
		return nil, err
	}
	var out []Period
	for _, s := range segments {
		if n := len(out); n > 0 && out[n-1].BusinessTime == s.BusinessTime {
			out[n-1].End = s.End
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type dayLabels struct {
	order []string
	total map[string]time.Duration
}

func (l *dayLabels) add(label string, d time.Duration) {
	if l.total == nil {
		l.total = make(map[string]time.Duration)
	}
	if _, seen := l.total[label]; !seen {
		l.order = append(l.order, label)
	}
	l.total[label] += d
}

func (l *dayLabels) dominant() string {
	best := ""
	var bestDur time.Duration
	for _, label := range l.order {
		if l.total[label] > bestDur {
			best, bestDur = label, l.total[label]
		}
	}
	return best
}

// bucket splits labelled segments at local midnights into days
func (e *Engine) bucket(segments []Period) []Day {
	var (
		days   []Day
		labels []dayLabels
	)
	for _, s := range segments {
		for start := s.Start; start.Before(s.End); {
			end := timex.Min(timex.StartOfNextDay(start), s.End)
			date := timex.StartOfDay(start)

			n := len(days)
			if n == 0 || !days[n-1].Date.Equal(date) {
				days = append(days, Day{Date: date, Start: start})
				labels = append(labels, dayLabels{})
				n++
			}
			day := &days[n-1]
			day.End = end
			if s.BusinessTime {
				day.BusinessDuration += end.Sub(start)
			} else {
				labels[n-1].add(s.Label, end.Sub(start))
			}
			start = end
		}
	}

	for i := range days {
		d := &days[i]
		d.Fraction = float64(d.BusinessDuration) / float64(e.businessDayLength)
		d.BusinessDay = d.BusinessDuration >= e.businessDayLength
		if !d.BusinessDay {
			d.Label = labels[i].dominant()
		}
	}
	return days
}
