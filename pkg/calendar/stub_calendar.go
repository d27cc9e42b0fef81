package calendar

import (
	"context"
	"errors"

	"github.com/klokku/okc/pkg/daterange"
)

var ErrStubCalendarError = errors.New("stub calendar error")

// StubEventSource serves events from memory and records every List call.
type StubEventSource struct {
	data  map[string][]Event
	err   error
	Calls []StubListCall
}

type StubListCall struct {
	CalendarId string
	Interval   daterange.Interval
}

func NewStubEventSource() *StubEventSource {
	return &StubEventSource{data: map[string][]Event{}}
}

func (c *StubEventSource) AddEvents(calendarId string, events ...Event) {
	c.data[calendarId] = append(c.data[calendarId], events...)
}

func (c *StubEventSource) SetError(err error) {
	c.err = err
}

// List returns stored events overlapping the interval. Events without timestamps are
// always returned, like a provider returning all-day entries.
func (c *StubEventSource) List(_ context.Context, calendarId string, interval daterange.Interval) ([]Event, error) {
	c.Calls = append(c.Calls, StubListCall{CalendarId: calendarId, Interval: interval})
	if c.err != nil {
		return nil, c.err
	}
	var events []Event
	for _, event := range c.data[calendarId] {
		if !event.HasTimes() || (event.StartTime.Before(interval.End) && event.EndTime.After(interval.Start)) {
			events = append(events, event)
		}
	}
	return SortedByStart(events), nil
}

func (c *StubEventSource) Cleanup() {
	c.data = map[string][]Event{}
	c.err = nil
	c.Calls = nil
}
