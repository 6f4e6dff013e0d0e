package calendar

import (
	"fmt"
	"time"
)

// Hemisphere selects which static window table applies to a warehouse
type Hemisphere string

const (
	HemisphereNorth Hemisphere = "NORTH"
	HemisphereSouth Hemisphere = "SOUTH"
)

// SeasonType tags a window with its sales season
type SeasonType string

const (
	SeasonSpringSummer SeasonType = "SPRING_SUMMER"
	SeasonFallWinter   SeasonType = "FALL_WINTER"
)

// Window is one immutable reference range. CycleKey is the durable
// identifier; Label is display-only and must never be parsed.
type Window struct {
	CycleKey   string
	Label      string
	Hemisphere Hemisphere
	Season     SeasonType
	Start      DayKey
	End        DayKey
}

// Contains reports whether day falls inside the window, both ends inclusive
func (w Window) Contains(day DayKey) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// Supported historical range for the static tables. Outside it, lookups
// return no window.
const (
	firstSupportedYear = 2021
	lastSupportedYear  = 2029
)

// Collection windows open well before their sales window starts and close
// shortly after, so the planning window for the next season overlaps the
// tail of the current selling season.
const (
	collectionOpenLeadDays = 150
	collectionCloseLagDays = 45
)

var (
	salesWindows      = map[Hemisphere][]Window{}
	collectionWindows = map[Hemisphere][]Window{}
)

func init() {
	for _, h := range []Hemisphere{HemisphereNorth, HemisphereSouth} {
		for year := firstSupportedYear; year <= lastSupportedYear; year++ {
			for _, w := range buildYearWindows(h, year) {
				salesWindows[h] = append(salesWindows[h], w)
				collectionWindows[h] = append(collectionWindows[h], Window{
					CycleKey:   w.CycleKey,
					Label:      w.Label + " collection",
					Hemisphere: h,
					Season:     w.Season,
					Start:      w.Start.AddDays(-collectionOpenLeadDays),
					End:        w.Start.AddDays(collectionCloseLagDays),
				})
			}
		}
	}
}

// buildYearWindows returns the two sales windows anchored in year. Windows
// are contiguous per hemisphere: one season ends the day before the next
// begins. The southern table is the northern one shifted half a year.
func buildYearWindows(h Hemisphere, year int) []Window {
	ss := Window{
		CycleKey:   fmt.Sprintf("%s-SS-%d", hemisphereCode(h), year),
		Label:      fmt.Sprintf("Spring/Summer %d", year),
		Hemisphere: h,
		Season:     SeasonSpringSummer,
		Start:      NewDayKey(year, time.February, 1),
		End:        NewDayKey(year, time.July, 31),
	}
	fw := Window{
		CycleKey:   fmt.Sprintf("%s-FW-%d", hemisphereCode(h), year),
		Label:      fmt.Sprintf("Fall/Winter %d", year),
		Hemisphere: h,
		Season:     SeasonFallWinter,
		Start:      NewDayKey(year, time.August, 1),
		End:        NewDayKey(year+1, time.January, 31),
	}
	if h == HemisphereSouth {
		ss.Season, fw.Season = fw.Season, ss.Season
		ss.CycleKey = fmt.Sprintf("%s-FW-%d", hemisphereCode(h), year)
		ss.Label = fmt.Sprintf("Fall/Winter %d", year)
		fw.CycleKey = fmt.Sprintf("%s-SS-%d", hemisphereCode(h), year)
		fw.Label = fmt.Sprintf("Spring/Summer %d", year)
	}
	return []Window{ss, fw}
}

func hemisphereCode(h Hemisphere) string {
	if h == HemisphereSouth {
		return "S"
	}
	return "N"
}

// CurrentSalesWindow returns the unique sales window containing day, or
// ok=false outside the supported historical range. Sales windows are
// contiguous and non-overlapping per hemisphere.
func CurrentSalesWindow(day DayKey, h Hemisphere) (Window, bool) {
	for _, w := range salesWindows[h] {
		if w.Contains(day) {
			return w, true
		}
	}
	return Window{}, false
}

// OpenCollectionWindows returns every collection window containing day.
// Zero, one or two windows may legitimately be open at once.
func OpenCollectionWindows(day DayKey, h Hemisphere) []Window {
	var open []Window
	for _, w := range collectionWindows[h] {
		if w.Contains(day) {
			open = append(open, w)
		}
	}
	return open
}

// NextCollectionWindow returns the first collection window starting strictly
// after day, or ok=false when none remains in the supported range.
func NextCollectionWindow(day DayKey, h Hemisphere) (Window, bool) {
	var next Window
	found := false
	for _, w := range collectionWindows[h] {
		if !w.Start.After(day) {
			continue
		}
		if !found || w.Start.Before(next.Start) {
			next = w
			found = true
		}
	}
	return next, found
}
