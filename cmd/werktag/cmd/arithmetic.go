package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	wterror "github.com/msto63/werktag/foundation/core/error"
	"github.com/msto63/werktag/foundation/utils/timex"
)

var addCmd = &cobra.Command{
	Use:   "add <time> <amount>",
	Short: "Adds business time to an instant",
	Long: `Moves forward by an amount of business time.

Amounts:
  3d, 1.5d, "2 days"   business days of the configured length
  36h, 2.5h            business hours
  90m, 1h30m           any Go duration`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShift(cmd, args, true)
	},
}

var subCmd = &cobra.Command{
	Use:   "sub <time> <amount>",
	Short: "Subtracts business time from an instant",
	Long:  `Moves backward by an amount of business time. Amounts as for add.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShift(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(subCmd)
}

// amount is a parsed amount argument
type amount struct {
	days     float64
	hours    float64
	duration time.Duration
	unit     string
}

func parseAmount(value string) (amount, error) {
	v := strings.ToLower(strings.TrimSpace(value))

	for _, suffix := range []string{" days", " day", "d"} {
		if num, ok := strings.CutSuffix(v, suffix); ok {
			if n, err := strconv.ParseFloat(strings.TrimSpace(num), 64); err == nil && n >= 0 {
				return amount{days: n, unit: "days"}, nil
			}
		}
	}
	if num, ok := strings.CutSuffix(v, "h"); ok {
		if n, err := strconv.ParseFloat(num, 64); err == nil && n >= 0 {
			return amount{hours: n, unit: "hours"}, nil
		}
	}
	d, err := timex.ParseDuration(v)
	if err != nil {
		return amount{}, wterror.Wrap(err, "invalid amount").
			WithCode(wterror.CodeInvalidInput).
			WithDetail("value", value)
	}
	return amount{duration: d, unit: "duration"}, nil
}

func runShift(cmd *cobra.Command, args []string, forward bool) error {
	start, err := parseTime(args[0])
	if err != nil {
		return err
	}
	a, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	e := rt.Engine
	var result time.Time
	switch {
	case a.unit == "days" && forward:
		result, err = e.AddBusinessDays(start, a.days)
	case a.unit == "days":
		result, err = e.SubBusinessDays(start, a.days)
	case a.unit == "hours" && forward:
		result, err = e.AddBusinessHours(start, a.hours)
	case a.unit == "hours":
		result, err = e.SubBusinessHours(start, a.hours)
	case forward:
		result, err = e.AddBusinessDuration(start, a.duration)
	default:
		result, err = e.SubBusinessDuration(start, a.duration)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatTime(result))
	return nil
}
