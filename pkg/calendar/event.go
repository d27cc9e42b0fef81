package calendar

import (
	"slices"
	"strings"
	"time"
)

// MatchAll is the query that bypasses summary matching.
const MatchAll = "*"

// Event is a read-only view of a calendar event. A zero StartTime or EndTime means the
// provider did not return a timestamp (all-day events, malformed data).
type Event struct {
	UID       string
	Summary   string
	StartTime time.Time
	EndTime   time.Time
}

func (e Event) HasTimes() bool {
	return !e.StartTime.IsZero() && !e.EndTime.IsZero()
}

// Duration returns the elapsed hours of the event, or 0 when either timestamp is missing.
// The result is not clamped: an end before the start yields a negative value.
func Duration(event Event) float64 {
	if !event.HasTimes() {
		return 0
	}
	return event.EndTime.Sub(event.StartTime).Hours()
}

// TotalHours sums Duration over events.
func TotalHours(events []Event) float64 {
	total := 0.0
	for _, event := range events {
		total += Duration(event)
	}
	return total
}

// Filter keeps the events whose summary contains query, ignoring case.
// MatchAll returns events unchanged; events without a summary never match a real query.
func Filter(events []Event, query string) []Event {
	if query == MatchAll {
		return events
	}
	needle := strings.ToLower(query)
	matching := make([]Event, 0, len(events))
	for _, event := range events {
		if event.Summary == "" {
			continue
		}
		if strings.Contains(strings.ToLower(event.Summary), needle) {
			matching = append(matching, event)
		}
	}
	return matching
}

// SortedByStart returns a copy of events in chronological order. Events without a start
// time sort last.
func SortedByStart(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		switch {
		case a.StartTime.IsZero() && b.StartTime.IsZero():
			return 0
		case a.StartTime.IsZero():
			return 1
		case b.StartTime.IsZero():
			return -1
		}
		return a.StartTime.Compare(b.StartTime)
	})
	return sorted
}
