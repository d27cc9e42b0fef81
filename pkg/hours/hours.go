package hours

import (
	"context"
	"fmt"

	"github.com/klokku/okc/internal/config"
	"github.com/klokku/okc/pkg/bundle"
)

// HoursPerDay converts calendar hours into spent days.
const HoursPerDay = 7.0

var ErrNoBundleStore = fmt.Errorf("%w: notion.apiToken and notion.bundlesDbId are required to work with bundles", config.ErrConfiguration)

// Prompter asks the user to make a decision.
type Prompter interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
	Select(ctx context.Context, prompt string, choices []string) (string, error)
}

type Format string

const (
	FormatText Format = "text"
	FormatCsv  Format = "csv"
)

func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case "", FormatText:
		return FormatText, nil
	case FormatCsv:
		return FormatCsv, nil
	}
	return "", fmt.Errorf("%w: unknown output format %q (expected text or csv)", config.ErrConfiguration, value)
}

// Request describes one aggregation run. Query wins over BundleName; with neither the
// user picks one of the bundles in progress.
type Request struct {
	Query      string
	BundleName string
	StartDate  string
	EndDate    string
	Timespan   string
	CalendarId string
	Verbose    bool
	Format     Format
}

type Outcome struct {
	Report *Report
	Bundle *bundle.Bundle
	Saved  bool
	// NoBundles is set when there was nothing in progress to pick from.
	NoBundles bool
}

type Service interface {
	Run(ctx context.Context, req Request) (Outcome, error)
}
