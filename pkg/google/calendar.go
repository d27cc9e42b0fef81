package google

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/okc/pkg/calendar"
	"github.com/klokku/okc/pkg/daterange"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
)

type Calendar struct {
	service    *gcal.Service
	calendarId string
}

func newGoogleCalendar(service *gcal.Service, calendarId string) *Calendar {
	return &Calendar{
		service:    service,
		calendarId: calendarId,
	}
}

// GetEvents lists single event instances in [from, to), following every result page.
func (c *Calendar) GetEvents(ctx context.Context, from time.Time, to time.Time) ([]calendar.Event, error) {
	var events []calendar.Event
	pageToken := ""
	for {
		call := c.service.Events.List(c.calendarId).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		googleEvents, err := call.Do()
		if err != nil {
			err := fmt.Errorf("unable to retrieve events from Google Calendar: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, googleEventsToEvents(googleEvents.Items)...)

		if googleEvents.NextPageToken == "" {
			break
		}
		pageToken = googleEvents.NextPageToken
	}
	log.Debugf("Fetched %d events from calendar %s", len(events), c.calendarId)
	return events, nil
}

func (c *Calendar) List(ctx context.Context, interval daterange.Interval) ([]calendar.Event, error) {
	return c.GetEvents(ctx, interval.Start, interval.End)
}

func googleEventsToEvents(googleEvents []*gcal.Event) []calendar.Event {
	events := make([]calendar.Event, 0, len(googleEvents))
	for _, item := range googleEvents {
		if item == nil {
			continue
		}
		events = append(events, calendar.Event{
			UID:       item.Id,
			Summary:   item.Summary,
			StartTime: parseEventTime(item.Start),
			EndTime:   parseEventTime(item.End),
		})
	}
	return events
}

// parseEventTime returns the zero time for all-day entries and unparsable values.
func parseEventTime(value *gcal.EventDateTime) time.Time {
	if value == nil || value.DateTime == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value.DateTime)
	if err != nil {
		log.Warnf("ignoring unparsable event time %q: %v", value.DateTime, err)
		return time.Time{}
	}
	return parsed
}
