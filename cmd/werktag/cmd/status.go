package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/werktag/pkg/core/health"
)

var statusTimeout time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Checks the engine and its holiday sources",
	Long: `Checks the configured engine and every holiday source it consults.
An unreachable holiday API only degrades the status; a broken
holiday database makes it unhealthy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := rt.Health().CheckWithTimeout(statusTimeout)

		t := newTable("Component", "Status", "Time", "Message")
		ok := make([]bool, 0, len(report.Checks))
		for _, c := range report.Checks {
			t.Row(c.Name, string(c.Status), c.Duration.Round(time.Microsecond).String(), c.Message)
			ok = append(ok, c.Status == health.StatusHealthy)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(report.String()))
		fmt.Fprintln(out, styleRows(t, ok))

		if report.Status == health.StatusUnhealthy {
			return fmt.Errorf("%s is unhealthy", report.Name)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 10*time.Second, "deadline for all checks")
	rootCmd.AddCommand(statusCmd)
}
