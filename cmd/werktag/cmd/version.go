package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/werktag/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Shows the version",
	Annotations: map[string]string{"engine": "none"},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "werktag v%s\n", version.Platform)
		fmt.Fprintf(out, "  Engine:     %s\n", version.ComponentVersion("engine"))
		fmt.Fprintf(out, "  Holidays:   %s\n", version.ComponentVersion("holidays"))
		fmt.Fprintf(out, "  Git Commit: %s\n", version.Commit)
		fmt.Fprintf(out, "  Build Date: %s\n", version.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
