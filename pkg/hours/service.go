package hours

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/klokku/okc/internal/config"
	"github.com/klokku/okc/internal/utils"
	"github.com/klokku/okc/pkg/bundle"
	"github.com/klokku/okc/pkg/calendar"
	"github.com/klokku/okc/pkg/daterange"
	log "github.com/sirupsen/logrus"
)

type ServiceImpl struct {
	events     calendar.EventSource
	store      bundle.Store
	prompter   Prompter
	resolver   *daterange.Resolver
	clock      utils.Clock
	out        io.Writer
	calendarId string
	pageSize   int
}

// NewServiceImpl builds the workflow. store may be nil when Notion is not configured, in
// which case only plain queries work.
func NewServiceImpl(
	events calendar.EventSource,
	store bundle.Store,
	prompter Prompter,
	clock utils.Clock,
	out io.Writer,
	cfg config.Application,
) *ServiceImpl {
	return &ServiceImpl{
		events:     events,
		store:      store,
		prompter:   prompter,
		resolver:   daterange.NewResolver(clock),
		clock:      clock,
		out:        out,
		calendarId: cfg.Google.CalendarId,
		pageSize:   cfg.Notion.PageSize,
	}
}

// Run selects what to search for, sums the matching calendar hours and, when a bundle is
// in play, offers to write the spent days back. The report is written to out before the
// confirmation is asked.
func (s *ServiceImpl) Run(ctx context.Context, req Request) (Outcome, error) {
	timespan, err := daterange.ParseTimespan(req.Timespan)
	if err != nil {
		return Outcome{}, err
	}
	if err := s.validateDates(req); err != nil {
		return Outcome{}, err
	}

	query, b, found, err := s.selectQuery(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return Outcome{NoBundles: true}, nil
	}

	input := daterange.Input{StartDate: req.StartDate, EndDate: req.EndDate, Timespan: timespan}
	if b != nil {
		input.BundleStart = &b.StartDate
	}
	interval, err := s.resolver.Resolve(input)
	if err != nil {
		return Outcome{}, err
	}

	calendarId := s.calendarId
	if req.CalendarId != "" {
		calendarId = req.CalendarId
	}
	log.Debugf("Fetching events of %s for %s", calendarId, interval)
	events, err := s.events.List(ctx, calendarId, interval)
	if err != nil {
		return Outcome{}, err
	}

	matching := calendar.Filter(events, query)
	log.Debugf("%d of %d events match %q", len(matching), len(events), query)
	report := &Report{
		Query:          query,
		Interval:       interval,
		TotalHours:     calendar.TotalHours(matching),
		MatchingEvents: matching,
		Location:       s.clock.Now().Location(),
	}
	if err := report.Write(s.out, req.Format, req.Verbose); err != nil {
		return Outcome{}, fmt.Errorf("unable to write report: %w", err)
	}

	outcome := Outcome{Report: report, Bundle: b}
	if b == nil {
		return outcome, nil
	}

	saved, err := s.reconcile(ctx, b, report.TotalHours)
	if err != nil {
		return outcome, err
	}
	outcome.Saved = saved
	return outcome, nil
}

// selectQuery reports found=false when there is no bundle in progress to pick from.
func (s *ServiceImpl) selectQuery(ctx context.Context, req Request) (query string, b *bundle.Bundle, found bool, err error) {
	if req.Query != "" {
		return req.Query, nil, true, nil
	}
	if s.store == nil {
		return "", nil, false, ErrNoBundleStore
	}

	if req.BundleName != "" {
		b, err = s.store.FindByName(ctx, req.BundleName)
		if err != nil {
			return "", nil, false, err
		}
		log.Debugf("Found %s", b)
		return b.Name, b, true, nil
	}

	bundles, err := bundle.ListAllByStatus(ctx, s.store, bundle.StatusInProgress, s.pageSize)
	if err != nil {
		return "", nil, false, err
	}
	if len(bundles) == 0 {
		log.Info("No bundles found")
		return "", nil, false, nil
	}

	labels := bundle.Labels(bundles)
	warnSharedNames(bundles, labels)
	selected, err := s.prompter.Select(ctx, "Select a bundle", labels)
	if err != nil {
		return "", nil, false, err
	}
	for i, label := range labels {
		if label == selected {
			return bundles[i].Name, bundles[i], true, nil
		}
	}
	return "", nil, false, fmt.Errorf("%w: no bundle named %q in progress", bundle.ErrNotFound, selected)
}

func warnSharedNames(bundles []*bundle.Bundle, labels []string) {
	warned := make(map[string]bool)
	for i, b := range bundles {
		if labels[i] != b.Name && !warned[b.Name] {
			log.Warnf("Several bundles in progress are named %q, pick one by its start date and ID", b.Name)
			warned[b.Name] = true
		}
	}
}

func (s *ServiceImpl) reconcile(ctx context.Context, b *bundle.Bundle, totalHours float64) (bool, error) {
	b.SetSpentDays(math.Round(totalHours / HoursPerDay))
	log.Infof("Updated %s", b)

	confirmed, err := s.prompter.Confirm(ctx, fmt.Sprintf("Save %g spent days to %q?", b.SpentDays(), b.Name))
	if err != nil {
		return false, err
	}
	if !confirmed {
		log.Info("Bundle not saved")
		return false, nil
	}
	if err := s.store.Save(ctx, b); err != nil {
		return false, err
	}
	log.Infof("Saved %s", b.Name)
	return true, nil
}

func (s *ServiceImpl) validateDates(req Request) error {
	loc := s.clock.Now().Location()
	dates := []struct{ name, value string }{{"start", req.StartDate}, {"end", req.EndDate}}
	for _, date := range dates {
		if date.value == "" {
			continue
		}
		if _, err := utils.ParseDate(date.value, loc); err != nil {
			return fmt.Errorf("%w: %s date %q", daterange.ErrInvalidDate, date.name, date.value)
		}
	}
	return nil
}
