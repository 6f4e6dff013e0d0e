package settlement

import (
	"errors"
	"fmt"

	"economy-engine/internal/calendar"
)

// ErrNoPeriodMapping is returned when a payout day has no canonical period
// boundary. This is a hard precondition failure, not a degradable default:
// settling an unmappable period would corrupt the ledger.
var ErrNoPeriodMapping = errors.New("no settlement period mapping for payout day")

// Payout days with canonical period mappings. Companies may configure their
// payout schedule, but only these days carry a defined closed period.
const (
	PayoutDayMidMonth = 20
	PayoutDayMonthEnd = 5
)

// PeriodForPayoutDay maps a payout day onto its fixed closed period, both
// ends inclusive:
//
//	day 5  -> the 16th through the last day of the previous month
//	day 20 -> the 1st through the 15th of the same month
func PeriodForPayoutDay(payoutDay calendar.DayKey) (calendar.DayKey, calendar.DayKey, error) {
	t := payoutDay.Time()
	switch payoutDay.DayOfMonth() {
	case PayoutDayMonthEnd:
		firstOfMonth := calendar.NewDayKey(t.Year(), t.Month(), 1)
		start := calendar.NewDayKey(t.Year(), t.Month(), 1).AddDays(-1) // last day of previous month
		start = calendar.NewDayKey(start.Time().Year(), start.Time().Month(), 16)
		end := firstOfMonth.AddDays(-1)
		return start, end, nil
	case PayoutDayMidMonth:
		start := calendar.NewDayKey(t.Year(), t.Month(), 1)
		end := calendar.NewDayKey(t.Year(), t.Month(), 15)
		return start, end, nil
	default:
		return calendar.DayKey{}, calendar.DayKey{},
			fmt.Errorf("%w: day %d", ErrNoPeriodMapping, payoutDay.DayOfMonth())
	}
}

// IsPayoutDay reports whether day matches one of the company's configured
// payout days-of-month.
func IsPayoutDay(day calendar.DayKey, payoutDays []int) bool {
	dom := day.DayOfMonth()
	for _, d := range payoutDays {
		if d == dom {
			return true
		}
	}
	return false
}
