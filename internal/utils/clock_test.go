package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtractMonths(t *testing.T) {
	t.Run("keeps the day when the target month is long enough", func(t *testing.T) {
		from := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

		result := SubtractMonths(from, 1)

		assert.Equal(t, time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC), result)
	})

	t.Run("clamps to the end of a shorter month", func(t *testing.T) {
		from := time.Date(2024, time.March, 31, 8, 0, 0, 0, time.UTC)

		result := SubtractMonths(from, 1)

		assert.Equal(t, time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC), result)
	})

	t.Run("twelve months from a leap day lands on the 28th", func(t *testing.T) {
		from := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)

		result := SubtractMonths(from, 12)

		assert.Equal(t, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("crosses the year boundary", func(t *testing.T) {
		from := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

		result := SubtractMonths(from, 1)

		assert.Equal(t, time.Date(2023, time.December, 10, 0, 0, 0, 0, time.UTC), result)
	})
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	parsed, err := ParseDate("2024-01-15", loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, loc), parsed)

	_, err = ParseDate("15/01/2024", loc)
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	clock := &MockClock{FixedNow: time.Date(2024, time.June, 15, 17, 45, 3, 0, time.UTC)}

	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), Today(clock))
}
