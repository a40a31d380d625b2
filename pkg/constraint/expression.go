package constraint

import (
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/msto63/werktag/foundation/utils/timex"
)

// Expression compiles a CEL expression into a leaf. The expression sees
// the instant's wall-clock fields as variables and must yield a bool:
//
//	year, month, day, weekday (0 = Sunday), hour, minute, second, yearday  int
//	date  string  "2006-01-02"
//	clock string  "15:04"
//
// Example: `weekday == 6 && hour >= 10 && hour < 14`.
func Expression(expr string) (Constraint, error) {
	env, err := cel.NewEnv(
		cel.Variable("year", cel.IntType),
		cel.Variable("month", cel.IntType),
		cel.Variable("day", cel.IntType),
		cel.Variable("weekday", cel.IntType),
		cel.Variable("hour", cel.IntType),
		cel.Variable("minute", cel.IntType),
		cel.Variable("second", cel.IntType),
		cel.Variable("yearday", cel.IntType),
		cel.Variable("date", cel.StringType),
		cel.Variable("clock", cel.StringType),
	)
	if err != nil {
		return Constraint{}, fmt.Errorf("expression environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return Constraint{}, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return Constraint{}, fmt.Errorf("expression %q yields %s, want bool", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return Constraint{}, fmt.Errorf("program %q: %w", expr, err)
	}

	return FromSource(&expressionSource{expr: expr, prg: prg}).WithLabel(expr), nil
}

type expressionSource struct {
	expr string
	prg  cel.Program
}

func (s *expressionSource) Evaluate(t time.Time) (bool, error) {
	out, _, err := s.prg.Eval(map[string]any{
		"year":    int64(t.Year()),
		"month":   int64(t.Month()),
		"day":     int64(t.Day()),
		"weekday": int64(t.Weekday()),
		"hour":    int64(t.Hour()),
		"minute":  int64(t.Minute()),
		"second":  int64(t.Second()),
		"yearday": int64(t.YearDay()),
		"date":    t.Format(timex.BusinessDate),
		"clock":   t.Format(timex.ClockTime),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", s.expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q returned %T", s.expr, out.Value())
	}
	return b, nil
}
