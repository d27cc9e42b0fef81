package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, 0, 0, time.UTC)
}

func TestDuration(t *testing.T) {
	t.Run("missing timestamps contribute nothing", func(t *testing.T) {
		assert.Equal(t, 0.0, Duration(Event{Summary: "no times"}))
		assert.Equal(t, 0.0, Duration(Event{StartTime: at(9, 0)}))
		assert.Equal(t, 0.0, Duration(Event{EndTime: at(9, 0)}))
	})

	t.Run("fractional hours", func(t *testing.T) {
		assert.Equal(t, 2.5, Duration(Event{StartTime: at(9, 0), EndTime: at(11, 30)}))
	})

	t.Run("swapping start and end negates the duration", func(t *testing.T) {
		forward := Event{StartTime: at(9, 15), EndTime: at(13, 40)}
		backward := Event{StartTime: at(13, 40), EndTime: at(9, 15)}

		assert.Equal(t, -Duration(forward), Duration(backward))
		assert.Less(t, Duration(backward), 0.0)
	})

	t.Run("scales with elapsed milliseconds", func(t *testing.T) {
		for _, ms := range []int64{1, 1000, 90 * 60 * 1000, 36_000_000} {
			start := at(8, 0)
			event := Event{StartTime: start, EndTime: start.Add(time.Duration(ms) * time.Millisecond)}

			assert.InDelta(t, float64(ms)/3_600_000, Duration(event), 1e-12)
		}
	})
}

func TestTotalHours(t *testing.T) {
	events := []Event{
		{Summary: "a", StartTime: at(9, 0), EndTime: at(10, 0)},
		{Summary: "b", StartTime: at(10, 0), EndTime: at(10, 30)},
		{Summary: "all day"},
	}

	assert.Equal(t, 1.5, TotalHours(events))
	assert.Equal(t, 0.0, TotalHours(nil))
}

func TestFilter(t *testing.T) {
	events := []Event{
		{Summary: "Epic X review"},
		{Summary: "EPIC X planning"},
		{Summary: "Lunch"},
		{Summary: ""},
	}

	t.Run("wildcard returns everything unchanged", func(t *testing.T) {
		assert.Equal(t, events, Filter(events, MatchAll))
		assert.Nil(t, Filter(nil, MatchAll))
	})

	t.Run("matching ignores case", func(t *testing.T) {
		upper := Filter(events, "Epic X")
		lower := Filter(events, "epic x")

		assert.Equal(t, upper, lower)
		assert.Len(t, lower, 2)
		assert.Equal(t, "Epic X review", lower[0].Summary)
		assert.Equal(t, "EPIC X planning", lower[1].Summary)
	})

	t.Run("substring containment", func(t *testing.T) {
		assert.Len(t, Filter(events, "view"), 1)
		assert.Empty(t, Filter(events, "epic y"))
	})

	t.Run("events without a summary never match", func(t *testing.T) {
		matching := Filter([]Event{{Summary: ""}}, "")

		assert.Empty(t, matching)
	})
}

func TestSortedByStart(t *testing.T) {
	events := []Event{
		{Summary: "late", StartTime: at(15, 0), EndTime: at(16, 0)},
		{Summary: "no start"},
		{Summary: "early", StartTime: at(8, 0), EndTime: at(9, 0)},
	}

	sorted := SortedByStart(events)

	assert.Equal(t, []string{"early", "late", "no start"}, []string{sorted[0].Summary, sorted[1].Summary, sorted[2].Summary})
	assert.Equal(t, "late", events[0].Summary)
}
