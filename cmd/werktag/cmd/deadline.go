package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/werktag/pkg/businesstime"
	"github.com/msto63/werktag/pkg/constraint"
)

var (
	deadlineWeekdays []string
	deadlineHours    string
	deadlineExpr     string
	passedList       bool
)

var nextCmd = &cobra.Command{
	Use:   "next <time>",
	Short: "Finds the next occurrence of a deadline after an instant",
	Long: `Without deadline flags the configured business time is used, so
next reports the next boundary at which business time holds.

  werktag next now --weekdays fri --hours 15:00-16:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOccurrence(cmd, args, true)
	},
}

var prevCmd = &cobra.Command{
	Use:   "prev <time>",
	Short: "Finds the previous occurrence of a deadline before an instant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOccurrence(cmd, args, false)
	},
}

var passedCmd = &cobra.Command{
	Use:   "passed [<from> <to>]",
	Short: "Reports whether a deadline passed today or within a range",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or <from> <to>")
		}
		return nil
	},
	RunE: runPassed,
}

func init() {
	for _, c := range []*cobra.Command{nextCmd, prevCmd, passedCmd} {
		c.Flags().StringSliceVar(&deadlineWeekdays, "weekdays", nil, "weekdays of the deadline, e.g. mon,fri")
		c.Flags().StringVar(&deadlineHours, "hours", "", "time window of the deadline, e.g. 15:00-16:00")
		c.Flags().StringVar(&deadlineExpr, "expr", "", "CEL condition of the deadline, e.g. 'day == 1'")
		rootCmd.AddCommand(c)
	}
	passedCmd.Flags().BoolVar(&passedList, "list", false, "list every occurrence within the range")
}

// deadline builds the deadline from flags, or from the engine's own rules
func deadline() (*businesstime.Deadline, error) {
	var constraints []constraint.Constraint

	if len(deadlineWeekdays) > 0 {
		c, err := constraint.ParseWeekDays(deadlineWeekdays...)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	if deadlineHours != "" {
		from, to, ok := strings.Cut(deadlineHours, "-")
		if !ok {
			return nil, fmt.Errorf("expected FROM-TO hours, got %q", deadlineHours)
		}
		c, err := constraint.BetweenTimesOfDay(strings.TrimSpace(from), strings.TrimSpace(to))
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	if deadlineExpr != "" {
		c, err := constraint.Expression(deadlineExpr)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}

	if len(constraints) == 0 {
		return rt.Engine.AsDeadline(), nil
	}
	return rt.Engine.Deadline(constraints...), nil
}

func runOccurrence(cmd *cobra.Command, args []string, next bool) error {
	ref, err := parseTime(args[0])
	if err != nil {
		return err
	}
	d, err := deadline()
	if err != nil {
		return err
	}

	var at time.Time
	if next {
		at, err = d.NextOccurrenceFrom(ref)
	} else {
		at, err = d.PreviousOccurrenceFrom(ref)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatTime(at))
	return nil
}

func runPassed(cmd *cobra.Command, args []string) error {
	d, err := deadline()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		passed, err := d.HasPassedToday()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, yesNo(passed, "passed today", "not yet passed today"))
		return nil
	}

	a, b, err := parseRange(args)
	if err != nil {
		return err
	}

	if passedList {
		occurrences, err := d.OccurrencesBetween(a, b)
		if err != nil {
			return err
		}
		for _, o := range occurrences {
			fmt.Fprintln(out, formatTime(o))
		}
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d occurrence(s)", len(occurrences))))
		return nil
	}

	passed, err := d.HasPassedBetween(a, b)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, yesNo(passed, "passed within range", "not passed within range"))
	return nil
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return businessStyle.Render(yes)
	}
	return closedStyle.Render(no)
}
