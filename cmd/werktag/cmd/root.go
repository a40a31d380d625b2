package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	wterror "github.com/msto63/werktag/foundation/core/error"
	wtlog "github.com/msto63/werktag/foundation/core/log"
	"github.com/msto63/werktag/foundation/utils/timex"
	"github.com/msto63/werktag/pkg/core/config"
	"github.com/msto63/werktag/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool

	// rt is built before every command that needs an engine
	rt *config.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "werktag",
	Short: "werktag - business time arithmetic",
	Long: `werktag answers business-time questions: is this instant inside
business hours, what instant lies N business hours after another,
how much business time lies between two instants, and when does a
recurring deadline occur.

Times are given as "2024-03-15 10:00", "2024-03-15T10:00:00Z",
"15.03.2024 10:00" or "now". The rules come from the config file
(--config, $WERKTAG_CONFIG or ./configs/werktag.toml); without one
Monday to Friday 09:00-17:00 is used.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if rt != nil {
		if err != nil {
			rt.Logger.ErrorWithErr("command failed", err, wtlog.Fields{"args": os.Args[1:]})
		}
		if path := rt.Config.Metrics.Textfile; rt.Metrics != nil && path != "" {
			if werr := rt.Metrics.WriteTextfile(path); werr != nil {
				rt.Logger.WarnWithErr("metrics not written", werr, wtlog.Fields{"path": path})
			}
		}
		rt.Close()
		rt = nil
	}
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $WERKTAG_CONFIG or ./configs/werktag.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine operations to stderr")
}

// setup loads the configuration and builds the runtime
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations["engine"] == "none" {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lcfg := logging.DefaultLoggerConfig("werktag")
	lcfg.Level = cfg.General.LogLevel
	lcfg.Format = cfg.General.LogFormat
	lcfg.Output = cmd.ErrOrStderr()
	if verbose {
		lcfg.Level = "debug"
	}
	logger := logging.NewLogger(lcfg).WithRequestID(uuid.New().String())

	rt, err = config.NewRuntime(cfg, logger)
	return err
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	cfg, err := config.LoadFromEnv()
	if wterror.HasCode(err, wterror.CodeMissingConfig) && os.Getenv(config.EnvConfig) == "" {
		return config.Default(), nil
	}
	return cfg, err
}

// parseTime reads a time argument in the configured location
func parseTime(value string) (time.Time, error) {
	if strings.EqualFold(value, "now") {
		return time.Now().In(rt.Location), nil
	}
	t, err := timex.Parse(value, rt.Location)
	if err != nil {
		return time.Time{}, wterror.Wrap(err, "invalid time").
			WithCode(wterror.CodeInvalidInput).
			WithDetail("value", value)
	}
	return t, nil
}

func parseRange(args []string) (time.Time, time.Time, error) {
	a, err := parseTime(args[0])
	if err != nil {
		return a, a, err
	}
	b, err := parseTime(args[1])
	return a, b, err
}

func formatTime(t time.Time) string {
	return t.Format(timex.DisplayDateTime)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error:"), err)
	if code := wterror.GetCode(err); code != wterror.CodeUnknown {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  code: %s (%s)", code, wterror.GetSeverity(err))))
	}
}
