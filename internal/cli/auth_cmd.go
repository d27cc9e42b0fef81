package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(loadApp appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Long: `Runs the OAuth consent flow for the client in credentials.json and stores the
resulting token next to it. Not needed when a service account key is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if err := app.Login.Run(cmd.Context()); err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}
			return nil
		},
	}
}
