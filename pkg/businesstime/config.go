package businesstime

import (
	"time"

	wterror "github.com/msto63/werktag/foundation/core/error"
	"github.com/msto63/werktag/pkg/constraint"
)

// Defaults of a new configuration
const (
	DefaultPrecision         = time.Hour
	DefaultIterationLimit    = 100000
	DefaultBusinessDayLength = 8 * time.Hour
	DefaultOpeningHour       = 9
	DefaultClosingHour       = 17
)

// Config holds the constraint set and stepping parameters of an engine.
// Setters replace a field entirely and validate eagerly.
type Config struct {
	constraints       []constraint.Constraint
	precision         time.Duration
	iterationLimit    int
	businessDayLength time.Duration
}

// DefaultConstraints returns Monday to Friday, 09:00 to 17:00
func DefaultConstraints() []constraint.Constraint {
	return []constraint.Constraint{
		constraint.WeekDays(),
		constraint.BetweenHoursOfDay(DefaultOpeningHour, DefaultClosingHour),
	}
}

// NewConfig returns a configuration with the default constraints,
// one hour precision and an eight hour business day
func NewConfig() *Config {
	return &Config{
		constraints:       DefaultConstraints(),
		precision:         DefaultPrecision,
		iterationLimit:    DefaultIterationLimit,
		businessDayLength: DefaultBusinessDayLength,
	}
}

// SetConstraints replaces the constraint set. The constraints are AND-ed
// in the given order; with no constraints nothing is business time.
func (c *Config) SetConstraints(constraints ...constraint.Constraint) *Config {
	c.constraints = append([]constraint.Constraint(nil), constraints...)
	return c
}

// SetPrecision sets the slot length used when walking time
func (c *Config) SetPrecision(precision time.Duration) error {
	if precision <= 0 {
		return invalidConfig("precision", precision)
	}
	c.precision = precision
	return nil
}

// SetIterationLimit sets the maximum number of slots a single operation may visit
func (c *Config) SetIterationLimit(limit int) error {
	if limit < 1 {
		return invalidConfig("iteration_limit", limit)
	}
	c.iterationLimit = limit
	return nil
}

// SetBusinessDayLength sets the amount of business time that makes up one business day
func (c *Config) SetBusinessDayLength(length time.Duration) error {
	if length <= 0 {
		return invalidConfig("business_day_length", length)
	}
	c.businessDayLength = length
	return nil
}

// Constraints returns a copy of the constraint set
func (c *Config) Constraints() []constraint.Constraint {
	return append([]constraint.Constraint(nil), c.constraints...)
}

// Precision returns the slot length
func (c *Config) Precision() time.Duration { return c.precision }

// IterationLimit returns the iteration limit
func (c *Config) IterationLimit() int { return c.iterationLimit }

// BusinessDayLength returns the length of one business day
func (c *Config) BusinessDayLength() time.Duration { return c.businessDayLength }

// Clone returns an independent copy
func (c *Config) Clone() *Config {
	clone := *c
	clone.constraints = c.Constraints()
	return &clone
}

func invalidConfig(field string, value interface{}) error {
	return wterror.Newf("invalid %s: %v must be positive", field, value).
		WithCode(wterror.CodeInvalidConfig).
		WithDetail("field", field).
		WithDetail("value", value)
}
