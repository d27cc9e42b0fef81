package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/klokku/okc/internal/config"
	"github.com/klokku/okc/internal/utils"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidTimespan  = fmt.Errorf("%w: invalid timespan", config.ErrConfiguration)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", config.ErrConfiguration)
	ErrMissingStartDate = fmt.Errorf("%w: no start date, timespan or bundle given", config.ErrConfiguration)
	ErrEmptyRange       = fmt.Errorf("%w: end date is before start date", config.ErrConfiguration)
)

type Timespan string

const (
	NoTimespan Timespan = ""
	LastWeek   Timespan = "last-week"
	LastMonth  Timespan = "last-month"
	LastYear   Timespan = "last-year"
)

// Timespans lists the accepted values in the order they are shown to the user.
var Timespans = []Timespan{LastWeek, LastMonth, LastYear}

// ParseTimespan accepts an empty value (no timespan) or one of Timespans.
func ParseTimespan(value string) (Timespan, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return NoTimespan, nil
	}
	for _, ts := range Timespans {
		if string(ts) == value {
			return ts, nil
		}
	}
	return NoTimespan, fmt.Errorf("%w %q (expected one of %s)", ErrInvalidTimespan, value, joinTimespans())
}

func joinTimespans() string {
	names := make([]string, 0, len(Timespans))
	for _, ts := range Timespans {
		names = append(names, string(ts))
	}
	return strings.Join(names, ", ")
}

// startFrom moves now back by the timespan using calendar arithmetic.
func (t Timespan) startFrom(now time.Time) time.Time {
	switch t {
	case LastWeek:
		return now.AddDate(0, 0, -7)
	case LastMonth:
		return utils.SubtractMonths(now, 1)
	case LastYear:
		return utils.SubtractMonths(now, 12)
	}
	return now
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// LastDay is the inclusive end date the user asked for.
func (i Interval) LastDay() time.Time {
	return i.End.AddDate(0, 0, -1)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("%s to %s", i.Start.Format(utils.DateLayout), i.LastDay().Format(utils.DateLayout))
}

type Input struct {
	StartDate string
	EndDate   string
	Timespan  Timespan
	// BundleStart is the start date of the attached bundle, nil when no bundle is attached.
	BundleStart *time.Time
}

type Resolver struct {
	clock utils.Clock
}

func NewResolver(clock utils.Clock) *Resolver {
	return &Resolver{clock: clock}
}

// Resolve picks the interval start by precedence: timespan, then bundle start date, then
// the explicit start date. The end is always the end date (today when empty) plus one day.
func (r *Resolver) Resolve(in Input) (Interval, error) {
	now := r.clock.Now()

	endDay, err := r.endDay(in.EndDate, now)
	if err != nil {
		return Interval{}, err
	}
	end := endDay.AddDate(0, 0, 1)

	var start time.Time
	switch {
	case in.Timespan != NoTimespan:
		if _, err := ParseTimespan(string(in.Timespan)); err != nil {
			return Interval{}, err
		}
		start = in.Timespan.startFrom(now)
		log.Debugf("Resolved start %s from timespan %s", start.Format(time.RFC3339), in.Timespan)
	case in.BundleStart != nil:
		start = *in.BundleStart
		log.Debugf("Resolved start %s from bundle", start.Format(time.RFC3339))
	case in.StartDate != "":
		start, err = utils.ParseDate(in.StartDate, now.Location())
		if err != nil {
			return Interval{}, fmt.Errorf("%w: start date %q", ErrInvalidDate, in.StartDate)
		}
	default:
		return Interval{}, ErrMissingStartDate
	}

	if !end.After(start) {
		return Interval{}, fmt.Errorf("%w: %s > %s", ErrEmptyRange,
			start.Format(utils.DateLayout), endDay.Format(utils.DateLayout))
	}
	return Interval{Start: start, End: end}, nil
}

func (r *Resolver) endDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return utils.StartOfDay(now), nil
	}
	day, err := utils.ParseDate(value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: end date %q", ErrInvalidDate, value)
	}
	return day, nil
}
