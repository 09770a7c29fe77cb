// Package timeutil provides the clock and calendar helpers shared by the content domain.
// All calendar arithmetic happens in UTC so listings render the same on every host.
package timeutil

import (
	"sync"
	"time"
)

var (
	clockMu sync.RWMutex
	clock   = func() time.Time { return time.Now().UTC() }
)

// Now returns the current time in UTC.
func Now() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock()
}

// SetClock overrides the clock used by Now and returns a function restoring the previous one.
// Intended for tests.
func SetClock(fn func() time.Time) (restore func()) {
	clockMu.Lock()
	prev := clock
	clock = fn
	clockMu.Unlock()

	return func() {
		clockMu.Lock()
		clock = prev
		clockMu.Unlock()
	}
}

// Freeze pins Now to t and returns a restore function.
func Freeze(t time.Time) (restore func()) {
	return SetClock(func() time.Time { return t })
}

// Date creates a UTC midnight time for the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns 00:00:00 UTC of t's day.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of t's UTC day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// IsSameDay checks if two times fall on the same UTC calendar day.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := t1.UTC(), t2.UTC()
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}

// DaysBetween calculates the number of calendar days between two times.
func DaysBetween(t1, t2 time.Time) int {
	days := int(StartOfDay(t2).Sub(StartOfDay(t1)).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// DaysSince returns whole calendar days from t to now (negative for future times).
func DaysSince(t, now time.Time) int {
	return int(StartOfDay(now).Sub(StartOfDay(t)).Hours() / 24)
}

// FormatISO renders t as an RFC 3339 UTC timestamp with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// FormatISOPtr renders an optional time, returning nil for nil.
func FormatISOPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatISO(*t)
	return &s
}

// Later returns candidate, or prev+1ms when candidate does not come strictly after prev.
func Later(prev, candidate time.Time) time.Time {
	if candidate.After(prev) {
		return candidate
	}
	return prev.Add(time.Millisecond)
}
