package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	wterror "github.com/msto63/werktag/foundation/core/error"
	wtlog "github.com/msto63/werktag/foundation/core/log"
	"github.com/msto63/werktag/foundation/utils/timex"
	"github.com/msto63/werktag/pkg/businesstime"
	"github.com/msto63/werktag/pkg/constraint"
	"github.com/msto63/werktag/pkg/core/health"
	"github.com/msto63/werktag/pkg/core/metrics"
	"github.com/msto63/werktag/pkg/core/version"
	"github.com/msto63/werktag/pkg/holiday"
)

// Runtime is an engine built from a Config together with the holiday
// sources backing it
type Runtime struct {
	Config   *Config
	Engine   *businesstime.Engine
	Location *time.Location
	Logger   *wtlog.Logger

	// Calendar merges all holiday files; nil without files
	Calendar *holiday.Calendar
	Store    *holiday.SQLiteStore
	Remote   *holiday.RemoteProvider
	Metrics  *metrics.Collector
}

// NewRuntime opens the configured holiday sources and builds the engine.
// Holiday and closure exceptions come first in the constraint order, so
// closed days are explained by the holiday name.
func NewRuntime(cfg *Config, logger *wtlog.Logger, opts ...businesstime.Option) (*Runtime, error) {
	if cfg == nil {
		cfg = Default()
	}
	if logger == nil {
		logger = wtlog.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, invalid("engine.location", cfg.Engine.Location, err)
	}
	rt := &Runtime{Config: cfg, Location: loc, Logger: logger}

	if err := rt.openHolidays(); err != nil {
		rt.Close()
		return nil, err
	}

	constraints, err := rt.constraints()
	if err != nil {
		rt.Close()
		return nil, err
	}

	bcfg := businesstime.NewConfig().SetConstraints(constraints...)
	if err := errors.Join(
		bcfg.SetPrecision(cfg.Engine.Precision.Duration),
		bcfg.SetIterationLimit(cfg.Engine.IterationLimit),
		bcfg.SetBusinessDayLength(cfg.Engine.BusinessDayLength.Duration),
	); err != nil {
		rt.Close()
		return nil, err
	}

	opts = append([]businesstime.Option{businesstime.WithLogger(logger.WithName("engine"))}, opts...)
	if cfg.Metrics.Enabled {
		rt.Metrics = metrics.NewCollector(cfg.Metrics.Namespace)
		opts = append(opts, businesstime.WithObserver(rt.Metrics))
	}
	rt.Engine = businesstime.NewEngine(bcfg, opts...)

	logger.Debug("engine configured", wtlog.Fields{
		"constraints": len(constraints),
		"precision":   cfg.Engine.Precision.Duration.String(),
		"location":    loc.String(),
	})
	return rt, nil
}

func (rt *Runtime) openHolidays() error {
	h := rt.Config.Holidays

	for _, path := range h.Files {
		cal, err := holiday.LoadFile(path, rt.Location)
		if err != nil {
			return err
		}
		if rt.Calendar == nil {
			rt.Calendar = holiday.NewCalendar(cal.Name())
		}
		rt.Calendar.Merge(cal)
		rt.Logger.Debug("holiday file loaded", wtlog.Fields{"path": path, "holidays": cal.Len()})
	}

	if h.Database != "" {
		store, err := holiday.OpenSQLiteStore(holiday.SQLiteConfig{Path: h.Database})
		if err != nil {
			return wterror.Wrap(err, "failed to open holiday database").
				WithCode(wterror.CodeDatabaseError).
				WithDetail("path", h.Database)
		}
		rt.Store = store
	}

	if h.Remote.Enabled {
		rt.Remote = holiday.NewRemoteProvider(holiday.RemoteConfig{
			BaseURL:   h.Remote.BaseURL,
			Country:   h.Remote.Country,
			Timeout:   h.Remote.Timeout.Duration,
			RateLimit: h.Remote.RateLimit,
			Burst:     h.Remote.Burst,
			CacheTTL:  h.Remote.CacheTTL.Duration,
		}, rt.Logger.WithName("holidays"))
	}
	return nil
}

func (rt *Runtime) constraints() ([]constraint.Constraint, error) {
	e := rt.Config.Engine
	var out []constraint.Constraint

	var exceptions []constraint.Constraint
	if rt.Calendar != nil {
		exceptions = append(exceptions, rt.Calendar.Constraint())
	}
	if rt.Store != nil {
		exceptions = append(exceptions, rt.Store.Constraint(rt.Config.Holidays.Calendar))
	}
	if rt.Remote != nil {
		exceptions = append(exceptions, rt.Remote.Constraint())
	}
	if len(e.Closures) > 0 {
		dates := make([]time.Time, 0, len(e.Closures))
		for _, s := range e.Closures {
			d, err := timex.Parse(s, rt.Location)
			if err != nil {
				return nil, invalid("engine.closures", s, err)
			}
			dates = append(dates, d)
		}
		exceptions = append(exceptions, constraint.Dates(dates...))
	}
	if len(exceptions) > 0 {
		closed := constraint.Except(constraint.Always(), exceptions...)
		if e.Memoize > 0 {
			closed = constraint.Memoize(closed, e.Memoize)
		}
		out = append(out, closed)
	}

	weekdays, err := constraint.ParseWeekDays(e.WeekDays...)
	if err != nil {
		return nil, invalid("engine.weekdays", e.WeekDays, err)
	}
	out = append(out, weekdays)

	windows := make([]constraint.Constraint, 0, len(e.Hours))
	for _, h := range e.Hours {
		from, to, err := parseHours(h)
		if err != nil {
			return nil, invalid("engine.hours", h, err)
		}
		windows = append(windows, constraint.BetweenClock(from, to))
	}
	if len(windows) == 1 {
		out = append(out, windows[0])
	} else {
		out = append(out, constraint.Or(windows...).WithLabel(constraint.LabelOutsideHours))
	}

	for _, expr := range e.Expressions {
		c, err := constraint.Expression(expr)
		if err != nil {
			return nil, invalid("engine.expressions", expr, err)
		}
		out = append(out, c)
	}

	for _, r := range e.Recurrences {
		start := time.Date(2000, time.January, 1, 0, 0, 0, 0, rt.Location)
		if r.Start != "" {
			if start, err = timex.Parse(r.Start, rt.Location); err != nil {
				return nil, invalid("engine.recurrences.start", r.Start, err)
			}
		}
		c, err := constraint.Recurrence(r.Rule, start, r.Length.Duration)
		if err != nil {
			return nil, invalid("engine.recurrences", r.Rule, err)
		}
		if r.Exclude {
			c = constraint.Not(c)
		}
		out = append(out, c)
	}

	return out, nil
}

// ImportHolidays copies the holiday files into the database under the
// configured calendar name and returns the number of holidays written
func (rt *Runtime) ImportHolidays(ctx context.Context) (int, error) {
	if rt.Store == nil {
		return 0, wterror.New("no holiday database configured").
			WithCode(wterror.CodeMissingConfig).
			WithDetail("field", "holidays.database")
	}
	if rt.Calendar == nil {
		return 0, nil
	}
	return rt.Store.Import(ctx, rt.Config.Holidays.Calendar, rt.Calendar)
}

// Health returns a registry checking the engine and every configured
// holiday source. The remote API is optional and only degrades the report.
func (rt *Runtime) Health() *health.Registry {
	r := health.NewRegistry(rt.Config.General.Name, version.Engine)

	r.Register(health.ErrorCheck("engine", false, func(ctx context.Context) (string, error) {
		now := time.Now().In(rt.Location)
		ok, label, err := rt.Engine.Explain(now)
		if err != nil {
			return "", err
		}
		if ok {
			return "open at " + now.Format(timex.DisplayDateTime), nil
		}
		return "closed at " + now.Format(timex.DisplayDateTime) + ": " + label, nil
	}))

	if rt.Calendar != nil {
		r.Register(health.ErrorCheck("holiday_files", false, func(ctx context.Context) (string, error) {
			return fmt.Sprintf("%d holiday(s) from %d file(s)", rt.Calendar.Len(), len(rt.Config.Holidays.Files)), nil
		}))
	}
	if rt.Store != nil {
		r.Register(health.ErrorCheck("holiday_database", false, func(ctx context.Context) (string, error) {
			counts, err := rt.Store.Calendars(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d holiday(s) in calendar %q", counts[rt.Config.Holidays.Calendar], rt.Config.Holidays.Calendar), nil
		}))
	}
	if rt.Remote != nil {
		r.Register(health.ErrorCheck("holiday_remote", true, func(ctx context.Context) (string, error) {
			cal, err := rt.Remote.Holidays(ctx, time.Now().In(rt.Location).Year())
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d holiday(s) for %s", cal.Len(), rt.Config.Holidays.Remote.Country), nil
		}))
	}
	return r
}

// Close releases the holiday database
func (rt *Runtime) Close() error {
	if rt.Store != nil {
		return rt.Store.Close()
	}
	return nil
}
