package timeref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, 2025-03-12 15:30 UTC.
var refNow = time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

func newTestResolver() *Resolver {
	r := NewResolver()
	r.Now = func() time.Time { return refNow }
	return r
}

func TestResolveNoDatePhrase(t *testing.T) {
	r := newTestResolver()

	for _, text := range []string{
		"Create a task to write the report",
		"delete my dentist appointment",
		"",
	} {
		tc := r.Resolve(text)
		assert.True(t, tc.Empty(), "expected empty context for %q", text)
		assert.Empty(t, tc.Formatted)
	}
}

func TestResolveEndOfWeek(t *testing.T) {
	r := newTestResolver()

	tc := r.Resolve("finish this by end of this week")
	require.False(t, tc.Empty())
	assert.Equal(t, time.Sunday, tc.At.Weekday())
	assert.Equal(t, 16, tc.At.Day())
	assert.Equal(t, time.March, tc.At.Month())
}

func TestResolveEndOfNextWeek(t *testing.T) {
	r := newTestResolver()

	tc := r.Resolve("end of next week")
	require.False(t, tc.Empty())
	assert.Equal(t, time.Sunday, tc.At.Weekday())
	assert.Equal(t, 23, tc.At.Day())
}

func TestResolveEndOfMonth(t *testing.T) {
	r := newTestResolver()

	tc := r.Resolve("wrap up by end of this month")
	require.False(t, tc.Empty())
	assert.Equal(t, 31, tc.At.Day())
	assert.Equal(t, time.March, tc.At.Month())

	tc = r.Resolve("end of next month")
	require.False(t, tc.Empty())
	assert.Equal(t, 30, tc.At.Day())
	assert.Equal(t, time.April, tc.At.Month())
}

func TestResolveEndOfYear(t *testing.T) {
	r := newTestResolver()

	for _, text := range []string{"end of the year", "eoy", "by eoy please"} {
		tc := r.Resolve(text)
		require.False(t, tc.Empty(), "text %q", text)
		assert.Equal(t, time.December, tc.At.Month())
		assert.Equal(t, 31, tc.At.Day())
		assert.Equal(t, 2025, tc.At.Year())
	}
}

func TestResolveThisYearFallback(t *testing.T) {
	r := newTestResolver()

	tc := r.Resolve("I want to finish the course this year")
	require.False(t, tc.Empty())
	assert.Equal(t, "2025-12-31", tc.Formatted)
}

func TestResolveNoonAndMidnight(t *testing.T) {
	r := newTestResolver()

	tc := r.Resolve("submit the report by noon tomorrow")
	require.False(t, tc.Empty())
	assert.Equal(t, 12, tc.At.Hour())
	assert.Equal(t, 0, tc.At.Minute())

	tc = r.Resolve("backup runs at midnight")
	require.False(t, tc.Empty())
	assert.Equal(t, 23, tc.At.Hour())
	assert.Equal(t, 59, tc.At.Minute())
	assert.Equal(t, 59, tc.At.Second())
}

func TestResolveRelativeDate(t *testing.T) {
	r := newTestResolver()

	tc := r.Resolve("remind me tomorrow")
	require.False(t, tc.Empty())
	assert.Equal(t, 13, tc.At.Day())
	assert.Equal(t, time.March, tc.At.Month())
	assert.NotEmpty(t, tc.Formatted)
}

func TestFormattedIsRFC3339(t *testing.T) {
	r := newTestResolver()

	tc := r.Resolve("end of this week")
	require.False(t, tc.Empty())
	_, err := time.Parse(time.RFC3339, tc.Formatted)
	assert.NoError(t, err)
}

func TestContextDate(t *testing.T) {
	r := newTestResolver()

	tc := r.Resolve("end of this week")
	require.False(t, tc.Empty())
	assert.Equal(t, "2025-03-16", tc.Date(), "clock stripped from the calendar date")

	assert.Empty(t, Context{}.Date())
}
