package google

import (
	"context"
	"fmt"

	"github.com/klokku/okc/pkg/calendar"
	"github.com/klokku/okc/pkg/daterange"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type CalendarItem struct {
	ID      string
	Summary string
	Primary bool
}

type Service interface {
	calendar.EventSource
	ListCalendars(ctx context.Context) ([]CalendarItem, error)
}

// ServiceImpl authenticates lazily, so commands that never touch the calendar do not
// need Google credentials.
type ServiceImpl struct {
	auth    *Auth
	options []option.ClientOption
}

func NewService(auth *Auth, options ...option.ClientOption) *ServiceImpl {
	return &ServiceImpl{
		auth:    auth,
		options: options,
	}
}

func (s *ServiceImpl) List(ctx context.Context, calendarId string, interval daterange.Interval) ([]calendar.Event, error) {
	service, err := s.prepareGoogleService(ctx)
	if err != nil {
		return nil, err
	}
	return newGoogleCalendar(service, calendarId).List(ctx, interval)
}

func (s *ServiceImpl) ListCalendars(ctx context.Context) ([]CalendarItem, error) {
	googleService, err := s.prepareGoogleService(ctx)
	if err != nil {
		return nil, err
	}
	calendars, err := googleService.CalendarList.List().Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve calendars from Google Calendar: %w", err)
		log.Error(err)
		return nil, err
	}
	googleCalendars := make([]CalendarItem, 0, len(calendars.Items))
	for _, cal := range calendars.Items {
		googleCalendars = append(googleCalendars, CalendarItem{
			ID:      cal.Id,
			Summary: cal.Summary,
			Primary: cal.Primary,
		})
	}
	return googleCalendars, nil
}

func (s *ServiceImpl) prepareGoogleService(ctx context.Context) (*gcal.Service, error) {
	options := s.options
	if len(options) == 0 {
		client, err := s.auth.HTTPClient(ctx)
		if err != nil {
			log.Debugf("unable to retrieve Google auth client: %v", err)
			return nil, err
		}
		options = []option.ClientOption{option.WithHTTPClient(client)}
	}
	service, err := gcal.NewService(ctx, options...)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %w", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}
