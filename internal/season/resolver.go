// Package season resolves the weekly demand-intensity score applied to a
// listing during demand generation. Missing seasonal data never blocks the
// simulation: any gap degrades to a neutral score with a flag for audit.
package season

import "economy-engine/internal/calendar"

// NeutralScore is used whenever no curve applies
const NeutralScore = 100

// CurveWeeks is the expected curve length, one entry per week of the year
const CurveWeeks = 52

// Score is a resolved intensity value in [0, 100]. Missing marks the
// neutral fallback for observability; it is not an error.
type Score struct {
	Value   int
	Missing bool
}

// Blocked reports whether the score forces zero demand regardless of any
// other factor.
func (s Score) Blocked() bool {
	return !s.Missing && s.Value == 0
}

// Multiplier returns the demand factor the score contributes
func (s Score) Multiplier() float64 {
	return float64(s.Value) / 100
}

// Resolve maps a day onto a 52-week curve. A nil or empty curve (no
// scenario assigned, or no row for the scenario/market-zone pair) resolves
// to the neutral score. Entries beyond CurveWeeks are ignored and curve
// entries are clamped to [0, 100].
func Resolve(curve []int64, day calendar.DayKey) Score {
	if len(curve) == 0 {
		return Score{Value: NeutralScore, Missing: true}
	}
	if len(curve) > CurveWeeks {
		curve = curve[:CurveWeeks]
	}

	idx := day.WeekIndex()
	if idx >= len(curve) {
		idx = len(curve) - 1
	}

	v := curve[idx]
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return Score{Value: int(v)}
}
