package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCalendarsCmd(loadApp appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "List the calendars usable with --calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			calendars, err := app.Calendars.ListCalendars(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(calendars))
			for _, c := range calendars {
				primary := ""
				if c.Primary {
					primary = StyleGreen.Render("primary")
				}
				rows = append(rows, []string{c.ID, c.Summary, primary})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Summary", ""}, rows))
			return nil
		},
	}
}
