package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyNormalization(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	// 01:30 local on Mar 15 is still Mar 14 in UTC, but the day key must
	// follow the reference-zone date, not the UTC instant.
	instant := time.Date(2024, time.March, 15, 1, 30, 0, 0, loc)
	key := DayKeyAt(instant, loc)

	assert.Equal(t, "2024-03-15", key.String())
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), key.Time())
}

func TestDayKeyParseRoundTrip(t *testing.T) {
	key, err := ParseDayKey("2024-07-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-31", key.String())
	assert.Equal(t, "2024-08-01", key.AddDays(1).String())

	_, err = ParseDayKey("31/07/2024")
	assert.Error(t, err)
}

func TestWeekIndex(t *testing.T) {
	tests := []struct {
		day  DayKey
		want int
	}{
		{NewDayKey(2024, time.January, 1), 0},
		{NewDayKey(2024, time.January, 7), 1},
		{NewDayKey(2024, time.July, 1), 26},
		{NewDayKey(2024, time.December, 31), 51}, // clamped
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.day.WeekIndex(), "day %s", tc.day)
	}
}

func TestCurrentSalesWindow(t *testing.T) {
	tests := []struct {
		name       string
		day        DayKey
		hemisphere Hemisphere
		wantKey    string
		wantSeason SeasonType
		wantFound  bool
	}{
		{"north spring", NewDayKey(2024, time.March, 15), HemisphereNorth, "N-SS-2024", SeasonSpringSummer, true},
		{"north winter", NewDayKey(2024, time.December, 25), HemisphereNorth, "N-FW-2024", SeasonFallWinter, true},
		{"north winter spills into january", NewDayKey(2025, time.January, 31), HemisphereNorth, "N-FW-2024", SeasonFallWinter, true},
		{"north season boundary", NewDayKey(2025, time.February, 1), HemisphereNorth, "N-SS-2025", SeasonSpringSummer, true},
		{"south march is fall", NewDayKey(2024, time.March, 15), HemisphereSouth, "S-FW-2024", SeasonFallWinter, true},
		{"south december is summer", NewDayKey(2024, time.December, 25), HemisphereSouth, "S-SS-2024", SeasonSpringSummer, true},
		{"before supported range", NewDayKey(2019, time.June, 1), HemisphereNorth, "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, ok := CurrentSalesWindow(tc.day, tc.hemisphere)
			require.Equal(t, tc.wantFound, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.wantKey, w.CycleKey)
			assert.Equal(t, tc.wantSeason, w.Season)
			assert.True(t, w.Contains(tc.day))
		})
	}
}

func TestSalesWindowsAreContiguous(t *testing.T) {
	for _, h := range []Hemisphere{HemisphereNorth, HemisphereSouth} {
		day := NewDayKey(2022, time.January, 1)
		end := NewDayKey(2029, time.December, 31)
		prevKey := ""
		for !day.After(end) {
			w, ok := CurrentSalesWindow(day, h)
			require.True(t, ok, "no sales window for %s (%s)", day, h)
			if prevKey != "" && prevKey != w.CycleKey {
				// A cycle change must land exactly on the new window's start.
				assert.True(t, w.Start.Equal(day), "window %s does not start at %s", w.CycleKey, day)
			}
			prevKey = w.CycleKey
			day = day.AddDays(1)
		}
	}
}

func TestOpenCollectionWindows(t *testing.T) {
	// Early September: the current fall/winter collection is still open and
	// the next spring/summer planning window has already opened.
	open := OpenCollectionWindows(NewDayKey(2024, time.September, 10), HemisphereNorth)
	require.Len(t, open, 2)
	keys := []string{open[0].CycleKey, open[1].CycleKey}
	assert.Contains(t, keys, "N-FW-2024")
	assert.Contains(t, keys, "N-SS-2025")

	// Mid-period only one window is open.
	open = OpenCollectionWindows(NewDayKey(2024, time.January, 1), HemisphereNorth)
	require.Len(t, open, 1)
	assert.Equal(t, "N-SS-2024", open[0].CycleKey)

	// Outside the supported range nothing is open.
	assert.Empty(t, OpenCollectionWindows(NewDayKey(2018, time.June, 1), HemisphereNorth))
}

func TestNextCollectionWindow(t *testing.T) {
	day := NewDayKey(2024, time.September, 10)
	next, ok := NextCollectionWindow(day, HemisphereNorth)
	require.True(t, ok)
	assert.Equal(t, "N-FW-2025", next.CycleKey)
	assert.True(t, next.Start.After(day))

	_, ok = NextCollectionWindow(NewDayKey(2031, time.January, 1), HemisphereNorth)
	assert.False(t, ok)
}

func TestWindowLookupsAreDeterministic(t *testing.T) {
	day := NewDayKey(2025, time.April, 4)
	a, okA := CurrentSalesWindow(day, HemisphereSouth)
	b, okB := CurrentSalesWindow(day, HemisphereSouth)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
	assert.Equal(t,
		OpenCollectionWindows(day, HemisphereSouth),
		OpenCollectionWindows(day, HemisphereSouth))
}
