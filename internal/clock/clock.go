// Package clock is the single source of "now" and "today". Every calendar-day
// comparison (study streaks, diagnostic cooldown) resolves dates through a
// Clock bound to one time zone, so two call sites can never disagree on
// where a day ends.
package clock

import (
	"fmt"
	"time"
)

// DateLayout is the storage form of a calendar date.
const DateLayout = "2006-01-02"

// Clock reports the current instant and the current calendar date.
type Clock interface {
	Now() time.Time
	// Today returns midnight of the current calendar day in the clock's zone.
	Today() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New returns a wall clock that resolves dates in loc. A nil loc means UTC.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c systemClock) Today() time.Time         { return StartOfDay(c.Now()) }
func (c systemClock) Location() *time.Location { return c.loc }

// Fixed is a Clock frozen at a given instant. Tests advance it with Advance.
type Fixed struct {
	At time.Time
}

// NewFixed returns a Fixed clock at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{At: t}
}

func (f *Fixed) Now() time.Time           { return f.At }
func (f *Fixed) Today() time.Time         { return StartOfDay(f.At) }
func (f *Fixed) Location() *time.Location { return f.At.Location() }

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}

// AddDays moves the clock forward by n calendar days, keeping the wall time.
func (f *Fixed) AddDays(n int) {
	f.At = f.At.AddDate(0, 0, n)
}

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b (b after a is positive).
// Only the date parts matter, so DST transitions do not shift the result.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// FormatDate renders the date part of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a stored calendar date into midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
