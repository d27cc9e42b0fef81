package calendar

import (
	"context"

	"github.com/klokku/okc/pkg/daterange"
)

// EventSource returns the events of a calendar overlapping the interval, ordered by start
// time, with recurring events expanded into single instances.
type EventSource interface {
	List(ctx context.Context, calendarId string, interval daterange.Interval) ([]Event, error)
}
