package app

import (
	"io"
	"os"

	"github.com/klokku/okc/internal/cli"
	"github.com/klokku/okc/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

// Application wires configuration and services behind the command tree.
type Application struct {
	root *cobra.Command
	in   *os.File
}

// NewApplication constructs the command tree, ready to Run(). Configuration is read when
// a command runs, once the --config flag is known.
func NewApplication() *Application {
	a := &Application{in: os.Stdin}
	a.root = cli.NewRootCmd(a.load, version)
	return a
}

// Run executes the command named by the process arguments.
func (a *Application) Run() error {
	return a.root.Execute()
}

func (a *Application) load(configPath string, out, prompts io.Writer) (*cli.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" && os.Getenv("LOG_LEVEL") == "" {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Warnf("ignoring invalid logLevel %q: %v", cfg.LogLevel, err)
		} else {
			log.SetLevel(level)
		}
	}
	log.Debugf("Loaded configuration from %s", configPath)

	deps := BuildDependencies(cfg, a.in, out, prompts)
	return deps.CliApp(), nil
}
