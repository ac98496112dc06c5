package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUsesBusinessLocation(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 20:00 UTC on the 15th is already the 16th in Jakarta.
	instant := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), Date(instant, jakarta))
	assert.Equal(t, "2024-03-15", Format(Date(instant, time.UTC)))
}

func TestDayBoundariesInLocation(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	day := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-29", Format(DayAfter(day)))
	assert.True(t, StartOfDay(day, jakarta).Equal(time.Date(2024, 2, 27, 17, 0, 0, 0, time.UTC)))
	assert.True(t, NextDayStart(day, jakarta).Equal(time.Date(2024, 2, 28, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2024, 2, 28, 23, 59, 59, 999999999, time.UTC), EndOfDay(day, time.UTC))
}

func TestParse(t *testing.T) {
	d, err := Parse("2024-03-16")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), d)

	_, err = Parse("16/03/2024")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	withClock := time.Date(2024, 3, 16, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), Normalize(withClock))
}

func TestDaysInclusive(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysInclusive(start, start))
	assert.Equal(t, 31, DaysInclusive(start, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysInclusive(start, start.AddDate(0, 0, -1)))
}
