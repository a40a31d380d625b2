package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	wterror "github.com/msto63/werktag/foundation/core/error"
	wtlog "github.com/msto63/werktag/foundation/core/log"
	"github.com/msto63/werktag/pkg/holiday"
)

var (
	holidayYear   int
	holidayRemote bool
	holidayFile   string
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "Manages holiday calendars",
}

var holidaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the holidays of a year from every configured source",
	RunE:  runHolidaysList,
}

var holidaysImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Copies holidays into the holiday database",
	Long: `Copies the configured holiday files, a single --file or, with
--remote, the public holidays of --year into the database configured
under [holidays] database.`,
	RunE: runHolidaysImport,
}

var holidaysExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Writes the holiday database calendar to a YAML or TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHolidaysExport,
}

func init() {
	holidaysListCmd.Flags().IntVar(&holidayYear, "year", time.Now().Year(), "year to list")
	holidaysImportCmd.Flags().IntVar(&holidayYear, "year", time.Now().Year(), "year to fetch with --remote")
	holidaysImportCmd.Flags().BoolVar(&holidayRemote, "remote", false, "import from the public holiday API")
	holidaysImportCmd.Flags().StringVar(&holidayFile, "file", "", "import a single holiday file")

	holidaysCmd.AddCommand(holidaysListCmd, holidaysImportCmd, holidaysExportCmd)
	rootCmd.AddCommand(holidaysCmd)
}

func runHolidaysList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	from := time.Date(holidayYear, time.January, 1, 0, 0, 0, 0, rt.Location)
	to := time.Date(holidayYear, time.December, 31, 0, 0, 0, 0, rt.Location)

	t := newTable("Date", "Name", "Source")
	rows := 0
	add := func(source string, holidays []holiday.Holiday) {
		for _, h := range holidays {
			t.Row(h.Date.Format("Mon 2006-01-02"), h.Name, source)
			rows++
		}
	}

	if rt.Calendar != nil {
		add("file", rt.Calendar.Between(from, to))
	}
	if rt.Store != nil {
		cal, err := rt.Store.Calendar(ctx, rt.Config.Holidays.Calendar)
		if err != nil {
			return err
		}
		add("database", cal.Between(from, to))
	}
	if rt.Remote != nil {
		cal, err := rt.Remote.Holidays(ctx, holidayYear)
		if err != nil {
			return err
		}
		add("remote", cal.Between(from, to))
	}

	if rows == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("no holidays configured"))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), styleRows(t, nil).Render())
	return nil
}

func runHolidaysImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	if rt.Store == nil {
		return wterror.New("no holiday database configured").
			WithCode(wterror.CodeMissingConfig).
			WithDetail("field", "holidays.database")
	}
	name := rt.Config.Holidays.Calendar

	var (
		n   int
		err error
	)
	switch {
	case holidayFile != "":
		var cal *holiday.Calendar
		if cal, err = holiday.LoadFile(holidayFile, rt.Location); err != nil {
			return err
		}
		n, err = rt.Store.Import(ctx, name, cal)
	case holidayRemote:
		if rt.Remote == nil {
			return wterror.New("remote holidays are disabled").
				WithCode(wterror.CodeMissingConfig).
				WithDetail("field", "holidays.remote.enabled")
		}
		var cal *holiday.Calendar
		if cal, err = rt.Remote.Holidays(ctx, holidayYear); err != nil {
			return err
		}
		n, err = rt.Store.Import(ctx, name, cal)
	default:
		n, err = rt.ImportHolidays(ctx)
	}
	if err != nil {
		return err
	}

	rt.Logger.Info("holidays imported", wtlog.Fields{"calendar": name, "count": n})
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d holiday(s) into %q\n", businessStyle.Render("imported"), n, name)
	return nil
}

func runHolidaysExport(cmd *cobra.Command, args []string) error {
	if rt.Store == nil {
		return wterror.New("no holiday database configured").
			WithCode(wterror.CodeMissingConfig).
			WithDetail("field", "holidays.database")
	}
	cal, err := rt.Store.Calendar(cmd.Context(), rt.Config.Holidays.Calendar)
	if err != nil {
		return err
	}
	if err := holiday.WriteFile(args[0], cal); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d holiday(s) to %s\n", cal.Len(), args[0])
	return nil
}
