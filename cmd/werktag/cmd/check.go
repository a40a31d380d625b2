package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <time>",
	Short: "Reports whether an instant is business time",
	Long: `Classifies one instant and names the rule that decided it,
e.g. "the weekend", "outside business hours" or a holiday name.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	t, err := parseTime(args[0])
	if err != nil {
		return err
	}

	ok, label, err := rt.Engine.Explain(t)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s", formatTime(t), status(ok))
	if label != "" {
		fmt.Fprintf(out, " %s", mutedStyle.Render("("+label+")"))
	}
	fmt.Fprintln(out)
	return nil
}
