package hours

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/klokku/okc/pkg/calendar"
	"github.com/klokku/okc/pkg/daterange"
)

const eventTimeLayout = "2006-01-02 15:04"

type Report struct {
	Query          string
	Interval       daterange.Interval
	TotalHours     float64
	MatchingEvents []calendar.Event
	// Location is used to print event times.
	Location *time.Location
}

func (r *Report) TotalDays() float64 {
	return r.TotalHours / HoursPerDay
}

// Lines renders the summary and, when verbose, a chronological listing of the matching
// events. The listing never changes the totals.
func (r *Report) Lines(verbose bool) []string {
	lines := []string{
		"",
		fmt.Sprintf("Results for epic: %s", r.Query),
		fmt.Sprintf("Period: %s", r.Interval),
		fmt.Sprintf("Total hours: %.2f (%.2f days)", r.TotalHours, r.TotalDays()),
	}
	if !verbose {
		return lines
	}

	lines = append(lines, "", "Matching events:")
	for _, event := range calendar.SortedByStart(r.MatchingEvents) {
		lines = append(lines, fmt.Sprintf("- %s - %s", r.eventTime(event.StartTime), event.Summary))
	}
	return lines
}

func (r *Report) eventTime(t time.Time) string {
	if t.IsZero() {
		return "all day"
	}
	if r.Location != nil {
		t = t.In(r.Location)
	}
	return t.Format(eventTimeLayout)
}

func (r *Report) WriteText(w io.Writer, verbose bool) error {
	for _, line := range r.Lines(verbose) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCsv lists every matching event with its duration, followed by a total row. The
// total row leaves Start and End empty and names the period in its summary.
func (r *Report) RenderCsv() (string, error) {
	data := make([][]string, 0, len(r.MatchingEvents)+2)
	data = append(data, []string{"Start", "End", "Hours", "Summary"})
	for _, event := range calendar.SortedByStart(r.MatchingEvents) {
		data = append(data, []string{
			r.eventTime(event.StartTime),
			r.eventTime(event.EndTime),
			hoursToString(calendar.Duration(event)),
			event.Summary,
		})
	}
	data = append(data, []string{
		"",
		"",
		hoursToString(r.TotalHours),
		fmt.Sprintf("Total: %s (%s)", r.Query, r.Interval),
	})

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Report) Write(w io.Writer, format Format, verbose bool) error {
	if format != FormatCsv {
		return r.WriteText(w, verbose)
	}
	rendered, err := r.RenderCsv()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}

func hoursToString(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}
