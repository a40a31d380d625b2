package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/werktag/foundation/utils/timex"
)

var daylengthCmd = &cobra.Command{
	Use:   "daylength <date>",
	Short: "Shows the business hours of a day",
	Long: `Shows when business time starts and ends on the given day and how
much of it there is. With --derive the day's business time becomes the
business-day length used by day arithmetic.`,
	Args: cobra.ExactArgs(1),
	RunE: runDaylength,
}

var derive bool

func init() {
	daylengthCmd.Flags().BoolVar(&derive, "derive", false, "use this day as reference for the business-day length")
	rootCmd.AddCommand(daylengthCmd)
}

func runDaylength(cmd *cobra.Command, args []string) error {
	t, err := parseTime(args[0])
	if err != nil {
		return err
	}
	e := rt.Engine
	out := cmd.OutOrStdout()

	open, err := e.IsBusinessDay(t)
	if err != nil {
		return err
	}
	total, err := e.BusinessDurationOn(t)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintf(out, "%s  %s\n", t.Format("Mon 2006-01-02"), closedStyle.Render("no business time"))
		return nil
	}

	start, err := e.StartOfBusinessDay(t)
	if err != nil {
		return err
	}
	end, err := e.EndOfBusinessDay(t)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s  %s - %s  %s\n", t.Format("Mon 2006-01-02"),
		start.Format("15:04"), end.Format("15:04"), timex.FormatDurationCompact(total))
	if !open {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  shorter than a business day of %s", e.BusinessDayLength())))
	}

	if derive {
		length, err := e.DeriveBusinessDayLength(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", headerStyle.Render("business day length:"), length)
	}
	return nil
}
