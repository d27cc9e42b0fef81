package cli

import (
	"fmt"
	"strconv"

	"github.com/klokku/okc/internal/utils"
	"github.com/klokku/okc/pkg/bundle"
	"github.com/spf13/cobra"
)

func newBundlesCmd(loadApp appLoader) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "bundles",
		Short: "List bundles with their spent and estimated days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := bundle.ParseStatus(status)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if app.Bundles == nil {
				return app.Config.ValidateNotion()
			}

			bundles, err := bundle.ListAllByStatus(cmd.Context(), app.Bundles, parsed, app.Config.Notion.PageSize)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(bundles) == 0 {
				fmt.Fprintln(out, StyleDim.Render("No bundles found"))
				return nil
			}

			rows := make([][]string, 0, len(bundles))
			for _, b := range bundles {
				exceeded := StyleGreen.Render("no")
				if b.Exceeded() {
					exceeded = StyleRed.Render("yes")
				}
				rows = append(rows, []string{
					b.Name,
					b.StartDate.Format(utils.DateLayout),
					strconv.FormatFloat(b.SpentDays(), 'g', -1, 64),
					strconv.FormatFloat(b.EstimatedDays, 'g', -1, 64),
					exceeded,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Start", "Spent", "Estimated", "Exceeded"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(bundle.StatusInProgress), "Bundle status to list")
	return cmd
}
