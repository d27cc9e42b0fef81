package cli

import (
	"context"
	"io"

	"github.com/klokku/okc/internal/config"
	"github.com/klokku/okc/internal/utils"
	"github.com/klokku/okc/pkg/bundle"
	"github.com/klokku/okc/pkg/google"
	"github.com/klokku/okc/pkg/hours"
	"github.com/spf13/cobra"
)

type CalendarLister interface {
	ListCalendars(ctx context.Context) ([]google.CalendarItem, error)
}

type LoginRunner interface {
	Run(ctx context.Context) error
}

// App holds the services used by the commands. Bundles is nil when Notion is not configured.
type App struct {
	Config    config.Application
	Clock     utils.Clock
	Hours     hours.Service
	Bundles   bundle.Store
	Calendars CalendarLister
	Login     LoginRunner
}

// Loader builds the App once the --config flag is known. Reports go to out and interactive
// prompts to prompts, so redirected reports stay clean.
type Loader func(configPath string, out, prompts io.Writer) (*App, error)

// NewRootCmd creates the top-level "okc" command and registers all subcommands.
func NewRootCmd(load Loader, version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "okc",
		Short:         "Sum the calendar hours spent on epics and bundles",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file (JSON or YAML)")

	loadApp := func(cmd *cobra.Command) (*App, error) {
		return load(configPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	root.AddCommand(
		newHoursCmd(loadApp),
		newAuthCmd(loadApp),
		newBundlesCmd(loadApp),
		newCalendarsCmd(loadApp),
	)
	return root
}

type appLoader func(cmd *cobra.Command) (*App, error)
