package businesstime

import (
	"time"

	wterror "github.com/msto63/werktag/foundation/core/error"
	wtlog "github.com/msto63/werktag/foundation/core/log"
	"github.com/msto63/werktag/foundation/utils/timex"
)

// LabelNoConstraints labels time of an engine without constraints
const LabelNoConstraints = "no constraints configured"

// Observer receives one call per completed engine operation
type Observer interface {
	ObserveOperation(operation string, iterations int, elapsed time.Duration, err error)
}

// Engine runs business-time operations against a Config.
// The embedded Config is shared, not copied: engines, deadlines and
// periods built from the same Config see its changes.
type Engine struct {
	*Config

	logger   *wtlog.Logger
	observer Observer
	now      func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger for operation timings
func WithLogger(logger *wtlog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver sets an observer, e.g. a metrics collector
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// WithClock replaces time.Now, used by HasPassedToday
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine with a fresh default configuration
func New(opts ...Option) *Engine {
	return NewEngine(NewConfig(), opts...)
}

// NewEngine creates an engine operating on cfg
func NewEngine(cfg *Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = NewConfig()
	}
	e := &Engine{
		Config: cfg,
		logger: wtlog.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// derive returns an engine sharing options but operating on cfg
func (e *Engine) derive(cfg *Config) *Engine {
	return &Engine{Config: cfg, logger: e.logger, observer: e.observer, now: e.now}
}

// Logger returns the engine's logger
func (e *Engine) Logger() *wtlog.Logger {
	return e.logger
}

// IsBusinessTime reports whether t is business time: every configured
// constraint holds at t. Errors of constraint sources are returned unchanged.
func (e *Engine) IsBusinessTime(t time.Time) (bool, error) {
	return e.classify(t)
}

// Explain classifies t and returns the label of the first failing constraint
func (e *Engine) Explain(t time.Time) (bool, string, error) {
	return e.explain(t)
}

func (e *Engine) classify(t time.Time) (bool, error) {
	if len(e.constraints) == 0 {
		return false, nil
	}
	for _, c := range e.constraints {
		ok, err := c.Evaluate(t)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (e *Engine) explain(t time.Time) (bool, string, error) {
	if len(e.constraints) == 0 {
		return false, LabelNoConstraints, nil
	}
	for _, c := range e.constraints {
		ok, label, err := c.Explain(t)
		if err != nil {
			return false, "", err
		}
		if !ok {
			return false, label, nil
		}
	}
	return true, "", nil
}

// slotEnd and slotStart bound the precision slot after or before cursor
func (e *Engine) slotEnd(cursor time.Time) time.Time {
	return timex.NextBoundary(cursor, e.precision)
}

func (e *Engine) slotStart(cursor time.Time) time.Time {
	return timex.PreviousBoundary(cursor, e.precision)
}

// counter bounds the loop of one operation
type counter struct {
	operation string
	limit     int
	n         int
}

func (c *counter) tick() error {
	c.n++
	if c.n > c.limit {
		return iterationLimitError(c.limit, c.operation)
	}
	return nil
}

// track runs fn with a fresh iteration counter, logs its timing and
// reports it to the observer
func (e *Engine) track(operation string, fn func(c *counter) error) error {
	c := &counter{operation: operation, limit: e.iterationLimit}
	timer := e.logger.StartTimer(operation)

	err := fn(c)

	timer.WithField("iterations", c.n)
	var elapsed time.Duration
	if err != nil {
		elapsed = timer.StopWithError(err)
	} else {
		elapsed = timer.Stop()
	}
	if e.observer != nil {
		e.observer.ObserveOperation(operation, c.n, elapsed, err)
	}
	return err
}

func iterationLimitError(limit int, operation string) error {
	return wterror.Newf("Iteration limit of %d reached.", limit).
		WithCode(wterror.CodeIterationLimit).
		WithOperation(operation).
		WithDetail("limit", limit)
}

func degenerateRange(operation string, start, end time.Time) error {
	return wterror.Newf("range end %s is before start %s",
		end.Format(time.RFC3339), start.Format(time.RFC3339)).
		WithCode(wterror.CodeDegenerateRange).
		WithOperation(operation)
}

func amountOutOfRange(operation, amount string) error {
	return wterror.Newf("amount %s is out of range", amount).
		WithCode(wterror.CodeInvalidInput).
		WithOperation(operation).
		WithDetail("amount", amount)
}

func noBusinessTime(operation string, day time.Time) error {
	return wterror.Newf("no business time on %s", day.Format(timex.BusinessDate)).
		WithCode(wterror.CodeNotFound).
		WithOperation(operation).
		WithDetail("date", day.Format(timex.BusinessDate))
}

// IsIterationLimit reports whether err is an ITERATION_LIMIT error
func IsIterationLimit(err error) bool {
	return wterror.HasCode(err, wterror.CodeIterationLimit)
}

// IsDegenerateRange reports whether err is a DEGENERATE_RANGE error
func IsDegenerateRange(err error) bool {
	return wterror.HasCode(err, wterror.CodeDegenerateRange)
}

// IsNotFound reports whether err is a NOT_FOUND error
func IsNotFound(err error) bool {
	return wterror.HasCode(err, wterror.CodeNotFound)
}

// IsInvalidConfig reports whether err is an INVALID_CONFIG error
func IsInvalidConfig(err error) bool {
	return wterror.HasCode(err, wterror.CodeInvalidConfig)
}
