package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/klokku/okc/internal/utils"
	"github.com/klokku/okc/pkg/bundle"
	"github.com/klokku/okc/pkg/daterange"
	"github.com/klokku/okc/pkg/hours"
	"github.com/spf13/cobra"
)

func newHoursCmd(loadApp appLoader) *cobra.Command {
	var req hours.Request
	var format string

	cmd := &cobra.Command{
		Use:   "hours [query]",
		Short: "Calculate hours spent on an epic or bundle from calendar events",
		Long: `Sums the duration of calendar events whose title contains the query.

Without a query the events are matched against a bundle: the one named with --bundle,
or one picked from the bundles in progress. The spent days of the bundle (hours / 7,
rounded) can then be saved back after confirmation. Use "*" to match every event.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.Query = strings.TrimSpace(args[0])
			}
			if _, err := daterange.ParseTimespan(req.Timespan); err != nil {
				return err
			}
			parsedFormat, err := hours.ParseFormat(format)
			if err != nil {
				return err
			}
			req.Format = parsedFormat

			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			req.StartDate = defaultStartDate(req, app)

			outcome, err := app.Hours.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), outcome, req.Format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.BundleName, "bundle", "b", "", "Bundle name to search for and update")
	cmd.Flags().StringVarP(&req.StartDate, "start-date", "s", "", "Start date (YYYY-MM-DD), defaults to hours.defaultLookbackDays ago")
	cmd.Flags().StringVarP(&req.EndDate, "end-date", "e", "", "End date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVarP(&req.Timespan, "timespan", "t", "", "Relative range: "+timespanNames())
	cmd.Flags().BoolVarP(&req.Verbose, "verbose", "v", false, "Show the matching events")
	cmd.Flags().StringVar(&req.CalendarId, "calendar", "", "Calendar ID, defaults to google.calendarId")
	cmd.Flags().StringVarP(&format, "output", "o", string(hours.FormatText), "Output format: text or csv")
	return cmd
}

// defaultStartDate fills the start of plain queries that have no other way to start.
func defaultStartDate(req hours.Request, app *App) string {
	if req.StartDate != "" || req.Timespan != "" || req.Query == "" {
		return req.StartDate
	}
	days := app.Config.Hours.DefaultLookbackDays
	if days <= 0 {
		return req.StartDate
	}
	return utils.Today(app.Clock).AddDate(0, 0, -days).Format(utils.DateLayout)
}

// printOutcome adds the bundle status to a text report. Having no bundle in progress is
// already logged by the workflow.
func printOutcome(out io.Writer, outcome hours.Outcome, format hours.Format) {
	if outcome.NoBundles || outcome.Bundle == nil || format == hours.FormatCsv {
		return
	}
	fmt.Fprintln(out, bundleLine(outcome.Bundle))
	if outcome.Saved {
		fmt.Fprintln(out, StyleGreen.Render("Saved"))
	} else {
		fmt.Fprintln(out, StyleDim.Render("Not saved"))
	}
}

func bundleLine(b *bundle.Bundle) string {
	line := fmt.Sprintf("%s: %g of %g days spent", b.Name, b.SpentDays(), b.EstimatedDays)
	if b.Exceeded() {
		return StyleRed.Render(line + " (exceeded)")
	}
	return StyleGreen.Render(line)
}

func timespanNames() string {
	names := make([]string, 0, len(daterange.Timespans))
	for _, ts := range daterange.Timespans {
		names = append(names, string(ts))
	}
	return strings.Join(names, ", ")
}
