package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/werktag/foundation/utils/timex"
)

var diffCmd = &cobra.Command{
	Use:   "diff <from> <to>",
	Short: "Measures the business time between two instants",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, b, err := parseRange(args)
	if err != nil {
		return err
	}

	e := rt.Engine
	d, err := e.DiffInBusinessDuration(a, b)
	if err != nil {
		return err
	}
	wholeHours, err := e.DiffInBusinessHours(a, b)
	if err != nil {
		return err
	}
	hours, err := e.DiffInPartialBusinessHours(a, b)
	if err != nil {
		return err
	}
	wholeDays, err := e.DiffInBusinessDays(a, b)
	if err != nil {
		return err
	}
	days, err := e.DiffInPartialBusinessDays(a, b)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", headerStyle.Render("business time:"), timex.FormatDurationCompact(d))
	fmt.Fprintf(out, "  hours: %d (%.4g)\n", wholeHours, hours)
	fmt.Fprintf(out, "  days:  %d (%.4g) %s\n", wholeDays, days,
		mutedStyle.Render(fmt.Sprintf("at %s per day", e.BusinessDayLength())))
	return nil
}
