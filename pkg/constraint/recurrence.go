package constraint

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Recurrence holds for length after every occurrence of an RFC 5545 rule,
// e.g. "FREQ=WEEKLY;BYDAY=SA;BYHOUR=10" with a length of 4h opens four
// hours every Saturday morning. Occurrences are computed from dtstart in
// dtstart's location.
func Recurrence(rule string, dtstart time.Time, length time.Duration) (Constraint, error) {
	if length <= 0 {
		return Constraint{}, fmt.Errorf("recurrence %q: length must be positive, got %v", rule, length)
	}
	rr, err := rrule.StrToRRule(rule)
	if err != nil {
		return Constraint{}, fmt.Errorf("recurrence %q: %w", rule, err)
	}
	rr.DTStart(dtstart)

	return Leaf(&recurrence{rule: rr, length: length}).WithLabel(rule), nil
}

type recurrence struct {
	rule   *rrule.RRule
	length time.Duration
}

func (r *recurrence) IsBusinessTime(t time.Time) bool {
	occ := r.rule.Before(t, true)
	if occ.IsZero() {
		return false
	}
	return t.Sub(occ) < r.length
}
