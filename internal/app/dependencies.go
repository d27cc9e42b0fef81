package app

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/klokku/okc/internal/cli"
	"github.com/klokku/okc/internal/config"
	"github.com/klokku/okc/internal/prompt"
	"github.com/klokku/okc/internal/utils"
	"github.com/klokku/okc/pkg/bundle"
	"github.com/klokku/okc/pkg/google"
	"github.com/klokku/okc/pkg/hours"
)

// Dependencies holds all services of one invocation.
type Dependencies struct {
	Config config.Application
	Clock  utils.Clock

	GoogleAuth    *google.Auth
	GoogleService google.Service
	LoginFlow     *google.LoginFlow

	// BundleStore is nil when Notion is not configured.
	BundleStore bundle.Store
	Prompter    prompt.Prompter

	HoursService *hours.ServiceImpl
}

// BuildDependencies initializes and wires all services. Interactive prompts read in and
// write to prompts, out receives reports.
func BuildDependencies(cfg config.Application, in *os.File, out, prompts io.Writer) *Dependencies {
	deps := &Dependencies{Config: cfg}

	deps.Clock = &utils.SystemClock{}

	deps.GoogleAuth = google.NewAuth(cfg.Google)
	deps.GoogleService = google.NewService(deps.GoogleAuth)
	deps.LoginFlow = google.NewLoginFlow(deps.GoogleAuth, cfg.Google.RedirectPort, out)

	if cfg.HasNotion() {
		httpClient := &http.Client{Timeout: 30 * time.Second}
		deps.BundleStore = bundle.NewNotionStore(cfg.Notion, httpClient, deps.Clock)
	}
	deps.Prompter = prompt.New(in, prompts)

	deps.HoursService = hours.NewServiceImpl(deps.GoogleService, deps.BundleStore, deps.Prompter, deps.Clock, out, cfg)

	return deps
}

func (d *Dependencies) CliApp() *cli.App {
	return &cli.App{
		Config:    d.Config,
		Clock:     d.Clock,
		Hours:     d.HoursService,
		Bundles:   d.BundleStore,
		Calendars: d.GoogleService,
		Login:     d.LoginFlow,
	}
}
