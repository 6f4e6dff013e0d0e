package calendar

import (
	"fmt"
	"time"
)

// DayKey is a calendar date normalized to midnight UTC, the reference zone
// for all simulation state. It is the sole time axis of the engine; day keys
// are never compared against wall-clock time.
type DayKey struct {
	t time.Time
}

const dayKeyLayout = "2006-01-02"

// NewDayKey builds a day key from calendar components
func NewDayKey(year int, month time.Month, day int) DayKey {
	return DayKey{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayKeyAt returns the day key for the date instant t falls on in loc
func DayKeyAt(t time.Time, loc *time.Location) DayKey {
	y, m, d := t.In(loc).Date()
	return NewDayKey(y, m, d)
}

// DayKeyOf normalizes an already-stored timestamp to its day key
func DayKeyOf(t time.Time) DayKey {
	y, m, d := t.UTC().Date()
	return NewDayKey(y, m, d)
}

// ParseDayKey parses a YYYY-MM-DD string
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		return DayKey{}, fmt.Errorf("invalid day key %q: %w", s, err)
	}
	return DayKeyOf(t), nil
}

// Time returns the normalized midnight timestamp, suitable for storage
func (d DayKey) Time() time.Time {
	return d.t
}

func (d DayKey) String() string {
	return d.t.Format(dayKeyLayout)
}

// IsZero reports whether the key is unset
func (d DayKey) IsZero() bool {
	return d.t.IsZero()
}

// AddDays returns the key n days later (or earlier for negative n)
func (d DayKey) AddDays(n int) DayKey {
	return DayKey{t: d.t.AddDate(0, 0, n)}
}

func (d DayKey) Before(other DayKey) bool {
	return d.t.Before(other.t)
}

func (d DayKey) After(other DayKey) bool {
	return d.t.After(other.t)
}

func (d DayKey) Equal(other DayKey) bool {
	return d.t.Equal(other.t)
}

// Year returns the calendar year
func (d DayKey) Year() int {
	return d.t.Year()
}

// DayOfMonth returns the 1-based day of the month
func (d DayKey) DayOfMonth() int {
	return d.t.Day()
}

// DayOfYear returns the 1-based ordinal day within the year
func (d DayKey) DayOfYear() int {
	return d.t.YearDay()
}

// WeekIndex returns the 0-based week-of-year index used by season curves:
// dayOfYear/7 clamped to [0, 51].
func (d DayKey) WeekIndex() int {
	idx := d.DayOfYear() / 7
	if idx > 51 {
		idx = 51
	}
	return idx
}
