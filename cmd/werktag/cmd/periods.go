package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/werktag/foundation/utils/timex"
	"github.com/msto63/werktag/pkg/businesstime"
)

var (
	periodsFilter string
	daysFilter    string
)

var periodsCmd = &cobra.Command{
	Use:   "periods <from> <to>",
	Short: "Splits a range into business and non-business periods",
	Args:  cobra.ExactArgs(2),
	RunE:  runPeriods,
}

var daysCmd = &cobra.Command{
	Use:   "days <from> <to>",
	Short: "Lists the calendar days of a range with their business time",
	Args:  cobra.ExactArgs(2),
	RunE:  runDays,
}

func init() {
	periodsCmd.Flags().StringVar(&periodsFilter, "only", "all", "all, business or non-business")
	daysCmd.Flags().StringVar(&daysFilter, "only", "all", "all, business, non-business or partial")
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(daysCmd)
}

func newPeriod(args []string) (*businesstime.TimePeriod, error) {
	a, b, err := parseRange(args)
	if err != nil {
		return nil, err
	}
	return rt.Engine.Period(a, b)
}

func runPeriods(cmd *cobra.Command, args []string) error {
	p, err := newPeriod(args)
	if err != nil {
		return err
	}

	var periods []businesstime.Period
	switch periodsFilter {
	case "business":
		periods, err = p.BusinessPeriods()
	case "non-business":
		periods, err = p.NonBusinessPeriods()
	case "all":
		periods, err = p.Periods()
	default:
		return fmt.Errorf("unknown filter %q", periodsFilter)
	}
	if err != nil {
		return err
	}

	t := newTable("Start", "End", "Duration", "Status", "Reason")
	business := make([]bool, 0, len(periods))
	for _, period := range periods {
		state := "closed"
		if period.BusinessTime {
			state = "open"
		}
		t.Row(formatTime(period.Start), formatTime(period.End),
			timex.FormatDurationCompact(period.Duration()), state, period.Label)
		business = append(business, period.BusinessTime)
	}
	fmt.Fprintln(cmd.OutOrStdout(), styleRows(t, business).Render())

	total, err := p.BusinessDuration()
	if err != nil {
		return err
	}
	closed, err := p.NonBusinessDuration()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s open, %s closed\n",
		headerStyle.Render("total:"), timex.FormatDurationCompact(total), timex.FormatDurationCompact(closed))
	return nil
}

func runDays(cmd *cobra.Command, args []string) error {
	p, err := newPeriod(args)
	if err != nil {
		return err
	}

	var days []businesstime.Day
	switch daysFilter {
	case "business":
		days, err = p.BusinessDays()
	case "non-business":
		days, err = p.NonBusinessDays()
	case "partial":
		days, err = p.PartialBusinessDays()
	case "all":
		days, err = p.Days()
	default:
		return fmt.Errorf("unknown filter %q", daysFilter)
	}
	if err != nil {
		return err
	}

	t := newTable("Date", "Business time", "Fraction", "Whole day", "Reason")
	business := make([]bool, 0, len(days))
	for _, d := range days {
		whole := ""
		if d.BusinessDay {
			whole = "yes"
		}
		t.Row(d.Date.Format("Mon 2006-01-02"), timex.FormatDurationCompact(d.BusinessDuration),
			fmt.Sprintf("%.3f", d.Fraction), whole, d.Label)
		business = append(business, d.BusinessDuration > 0)
	}
	fmt.Fprintln(cmd.OutOrStdout(), styleRows(t, business).Render())
	return nil
}
