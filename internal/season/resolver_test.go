package season

import (
	"testing"
	"time"

	"economy-engine/internal/calendar"

	"github.com/stretchr/testify/assert"
)

func flatCurve(v int64) []int64 {
	curve := make([]int64, CurveWeeks)
	for i := range curve {
		curve[i] = v
	}
	return curve
}

func TestResolveNeutralFallback(t *testing.T) {
	day := calendar.NewDayKey(2024, time.June, 1)

	score := Resolve(nil, day)
	assert.Equal(t, NeutralScore, score.Value)
	assert.True(t, score.Missing)
	assert.False(t, score.Blocked())

	score = Resolve([]int64{}, day)
	assert.True(t, score.Missing)
}

func TestResolveWeekLookup(t *testing.T) {
	curve := flatCurve(40)
	curve[0] = 10
	curve[26] = 90
	curve[51] = 75

	tests := []struct {
		day  calendar.DayKey
		want int
	}{
		{calendar.NewDayKey(2024, time.January, 2), 10},
		{calendar.NewDayKey(2024, time.July, 1), 90},
		{calendar.NewDayKey(2024, time.December, 31), 75}, // clamped into last week
	}
	for _, tc := range tests {
		score := Resolve(curve, tc.day)
		assert.Equal(t, tc.want, score.Value, "day %s", tc.day)
		assert.False(t, score.Missing)
	}
}

func TestResolveClampsEntries(t *testing.T) {
	day := calendar.NewDayKey(2024, time.March, 1)

	score := Resolve(flatCurve(250), day)
	assert.Equal(t, 100, score.Value)

	score = Resolve(flatCurve(-5), day)
	assert.Equal(t, 0, score.Value)
	assert.True(t, score.Blocked())
}

func TestResolveShortCurve(t *testing.T) {
	// A malformed short curve still resolves via its last entry.
	score := Resolve([]int64{20, 30}, calendar.NewDayKey(2024, time.November, 20))
	assert.Equal(t, 30, score.Value)
}

func TestResolveIgnoresExcessEntries(t *testing.T) {
	// Entries past the 52-week horizon can never be addressed.
	curve := append(flatCurve(40), 95, 96, 97)
	score := Resolve(curve, calendar.NewDayKey(2024, time.December, 31))
	assert.Equal(t, 40, score.Value)
}

func TestZeroScoreBlocks(t *testing.T) {
	curve := flatCurve(0)
	score := Resolve(curve, calendar.NewDayKey(2024, time.May, 5))
	assert.True(t, score.Blocked())
	assert.Equal(t, 0.0, score.Multiplier())
}
