package settlement

import (
	"testing"

	"economy-engine/internal/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodForPayoutDay(t *testing.T) {
	tests := []struct {
		name      string
		payoutDay string
		wantStart string
		wantEnd   string
	}{
		{
			name:      "day 5 covers back half of previous month",
			payoutDay: "2024-03-05",
			wantStart: "2024-02-16",
			wantEnd:   "2024-02-29",
		},
		{
			name:      "day 5 in january reaches into previous year",
			payoutDay: "2024-01-05",
			wantStart: "2023-12-16",
			wantEnd:   "2023-12-31",
		},
		{
			name:      "day 20 covers front half of same month",
			payoutDay: "2024-03-20",
			wantStart: "2024-03-01",
			wantEnd:   "2024-03-15",
		},
		{
			name:      "day 5 after 30-day month",
			payoutDay: "2024-05-05",
			wantStart: "2024-04-16",
			wantEnd:   "2024-04-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := calendar.ParseDayKey(tt.payoutDay)
			require.NoError(t, err)

			start, end, err := PeriodForPayoutDay(day)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start.String())
			assert.Equal(t, tt.wantEnd, end.String())
		})
	}
}

func TestPeriodForPayoutDayUnmapped(t *testing.T) {
	for _, raw := range []string{"2024-03-01", "2024-03-15", "2024-03-31"} {
		day, err := calendar.ParseDayKey(raw)
		require.NoError(t, err)

		_, _, err = PeriodForPayoutDay(day)
		assert.ErrorIs(t, err, ErrNoPeriodMapping, raw)
	}
}

func TestIsPayoutDay(t *testing.T) {
	day, err := calendar.ParseDayKey("2024-03-20")
	require.NoError(t, err)

	assert.True(t, IsPayoutDay(day, []int{5, 20}))
	assert.False(t, IsPayoutDay(day, []int{5}))
	assert.False(t, IsPayoutDay(day, nil))
}
