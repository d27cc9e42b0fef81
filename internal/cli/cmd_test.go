package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/klokku/okc/internal/config"
	"github.com/klokku/okc/internal/prompt"
	"github.com/klokku/okc/internal/utils"
	"github.com/klokku/okc/pkg/bundle"
	"github.com/klokku/okc/pkg/calendar"
	"github.com/klokku/okc/pkg/daterange"
	"github.com/klokku/okc/pkg/google"
	"github.com/klokku/okc/pkg/hours"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)

type calendarListerStub struct {
	calendars []google.CalendarItem
}

func (c *calendarListerStub) ListCalendars(context.Context) ([]google.CalendarItem, error) {
	return c.calendars, nil
}

type loginStub struct {
	calls int
	err   error
}

func (l *loginStub) Run(context.Context) error {
	l.calls++
	return l.err
}

type testEnv struct {
	events     *calendar.StubEventSource
	store      *bundle.StoreStub
	prompter   *hours.PrompterStub
	login      *loginStub
	loads      int
	configPath string
	noNotion   bool
	// stdin switches to line prompts reading from it.
	stdin string
}

func newTestEnv(bundles ...*bundle.Bundle) *testEnv {
	return &testEnv{
		events:   calendar.NewStubEventSource(),
		store:    bundle.NewStoreStub(bundles...),
		prompter: hours.NewPrompterStub(false, ""),
		login:    &loginStub{},
	}
}

func (e *testEnv) load(configPath string, out, prompts io.Writer) (*App, error) {
	e.loads++
	e.configPath = configPath
	cfg := config.Application{
		Google: config.Google{CalendarId: "primary"},
		Notion: config.Notion{PageSize: 10},
		Hours:  config.Hours{DefaultLookbackDays: 90},
	}
	clock := &utils.MockClock{FixedNow: testNow}

	var store bundle.Store = e.store
	if e.noNotion {
		store = nil
	}
	var prompter hours.Prompter = e.prompter
	if e.stdin != "" {
		prompter = prompt.NewLine(strings.NewReader(e.stdin), prompts)
	}
	return &App{
		Config:  cfg,
		Clock:   clock,
		Hours:   hours.NewServiceImpl(e.events, store, prompter, clock, out, cfg),
		Bundles: store,
		Calendars: &calendarListerStub{calendars: []google.CalendarItem{
			{ID: "me@example.com", Summary: "Me", Primary: true},
			{ID: "team@example.com", Summary: "Team"},
		}},
		Login: e.login,
	}, nil
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, env *testEnv, args ...string) (string, error) {
	t.Helper()
	stdout, stderr, err := executeCmdSplit(t, env, args...)
	return stdout + stderr, err
}

func executeCmdSplit(t *testing.T, env *testEnv, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd(env.load, "test")
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestHoursCmd(t *testing.T) {
	t.Run("should default to the last 90 days for a query", func(t *testing.T) {
		// given
		env := newTestEnv()
		env.events.AddEvents("primary", calendar.Event{
			Summary:   "Epic X review",
			StartTime: time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, time.June, 3, 11, 30, 0, 0, time.UTC),
		})

		// when
		out, err := executeCmd(t, env, "hours", "epic x")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Results for epic: epic x")
		assert.Contains(t, out, "Period: 2024-03-17 to 2024-06-15")
		assert.Contains(t, out, "Total hours: 2.50 (0.36 days)")
		assert.NotContains(t, out, "Matching events:")
		assert.Equal(t, config.DefaultPath(), env.configPath)
	})

	t.Run("should pass every flag to the workflow", func(t *testing.T) {
		env := newTestEnv()
		env.events.AddEvents("team@example.com", calendar.Event{
			Summary:   "Epic X review",
			StartTime: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC),
		})

		out, err := executeCmd(t, env, "hours", "Epic X", "-s", "2024-01-01", "-e", "2024-01-31", "-v",
			"--calendar", "team@example.com", "--config", "/tmp/okc.yaml")

		require.NoError(t, err)
		assert.Contains(t, out, "Period: 2024-01-01 to 2024-01-31")
		assert.Contains(t, out, "- 2024-01-01 09:00 - Epic X review")
		assert.Equal(t, "team@example.com", env.events.Calls[0].CalendarId)
		assert.Equal(t, "/tmp/okc.yaml", env.configPath)
	})

	t.Run("should write csv", func(t *testing.T) {
		env := newTestEnv()

		out, err := executeCmd(t, env, "hours", "Epic X", "-t", "last-week", "-o", "csv")

		require.NoError(t, err)
		assert.Equal(t, "Start,End,Hours,Summary\n,,0.00,Total: Epic X (2024-06-08 to 2024-06-15)\n", out)
	})

	t.Run("should reject an unknown timespan before loading anything", func(t *testing.T) {
		env := newTestEnv()

		_, err := executeCmd(t, env, "hours", "Epic X", "--timespan", "yesterday")

		assert.ErrorIs(t, err, daterange.ErrInvalidTimespan)
		assert.True(t, errors.Is(err, config.ErrConfiguration))
		assert.Zero(t, env.loads)
	})

	t.Run("should update a bundle when confirmed", func(t *testing.T) {
		// given
		b := bundle.NewBundle("page-1", "Platform Migration", 1, 0, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
		env := newTestEnv(b)
		env.events.AddEvents("primary", calendar.Event{
			Summary:   "Platform Migration pairing",
			StartTime: time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, time.June, 3, 23, 0, 0, 0, time.UTC),
		})
		env.prompter.ConfirmAnswer = true

		// when
		out, err := executeCmd(t, env, "hours", "-b", "Platform Migration")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Period: 2024-06-01 to 2024-06-15")
		assert.Contains(t, out, "Platform Migration: 2 of 1 days spent (exceeded)")
		assert.Contains(t, out, "Saved")
		assert.Len(t, env.store.Saved(), 1)
	})

	t.Run("should report when no bundle is in progress", func(t *testing.T) {
		env := newTestEnv()

		out, err := executeCmd(t, env, "hours")

		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Empty(t, env.events.Calls)
	})

	t.Run("should keep csv output free of prompts", func(t *testing.T) {
		// given
		b := bundle.NewBundle("page-1", "PM", 5, 0, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
		env := newTestEnv(b)
		env.stdin = "y\n"
		env.events.AddEvents("primary", calendar.Event{
			Summary:   "PM sync",
			StartTime: time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, time.June, 3, 16, 0, 0, 0, time.UTC),
		})

		// when
		stdout, stderr, err := executeCmdSplit(t, env, "hours", "-b", "PM", "-o", "csv")

		// then
		require.NoError(t, err)
		assert.Equal(t, "Start,End,Hours,Summary\n"+
			"2024-06-03 09:00,2024-06-03 16:00,7.00,PM sync\n"+
			",,7.00,Total: PM (2024-06-01 to 2024-06-15)\n", stdout)
		assert.Contains(t, stderr, `Save 1 spent days to "PM"? [y/N]: `)
		assert.Len(t, env.store.Saved(), 1)
	})

	t.Run("should surface a missing bundle", func(t *testing.T) {
		env := newTestEnv()

		_, err := executeCmd(t, env, "hours", "--bundle", "Unknown")

		assert.ErrorIs(t, err, bundle.ErrNotFound)
	})
}

func TestAuthCmd(t *testing.T) {
	t.Run("should run the login flow", func(t *testing.T) {
		env := newTestEnv()

		_, err := executeCmd(t, env, "auth")

		require.NoError(t, err)
		assert.Equal(t, 1, env.login.calls)
	})

	t.Run("should wrap login failures", func(t *testing.T) {
		env := newTestEnv()
		env.login.err = google.ErrUnauthenticated

		_, err := executeCmd(t, env, "auth")

		assert.ErrorIs(t, err, google.ErrUnauthenticated)
		assert.Contains(t, err.Error(), "authorization failed")
	})
}

func TestBundlesCmd(t *testing.T) {
	t.Run("should list bundles of the status", func(t *testing.T) {
		// given
		inProgress := bundle.NewBundle("page-1", "Platform Migration", 20, 25, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))
		inProgress.Status = bundle.StatusInProgress
		completed := bundle.NewBundle("page-2", "Billing revamp", 10, 8, time.Date(2023, time.October, 2, 0, 0, 0, 0, time.UTC))
		completed.Status = bundle.StatusCompleted
		env := newTestEnv(inProgress, completed)

		// when
		out, err := executeCmd(t, env, "bundles")
		completedOut, completedErr := executeCmd(t, env, "bundles", "--status", "Completed")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Platform Migration")
		assert.Contains(t, out, "2024-01-15")
		assert.NotContains(t, out, "Billing revamp")
		require.NoError(t, completedErr)
		assert.Contains(t, completedOut, "Billing revamp")
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		env := newTestEnv()

		_, err := executeCmd(t, env, "bundles", "--status", "Archived")

		assert.Error(t, err)
		assert.Zero(t, env.loads)
	})

	t.Run("should require Notion configuration", func(t *testing.T) {
		env := newTestEnv()
		env.noNotion = true

		_, err := executeCmd(t, env, "bundles")

		assert.ErrorIs(t, err, config.ErrConfiguration)
	})
}

func TestCalendarsCmd(t *testing.T) {
	env := newTestEnv()

	out, err := executeCmd(t, env, "calendars")

	require.NoError(t, err)
	assert.Contains(t, out, "me@example.com")
	assert.Contains(t, out, "team@example.com")
	assert.Contains(t, out, "primary")
}
