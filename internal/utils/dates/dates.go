// Package dates provides calendar-date helpers. All values are normalised to
// midnight UTC so that equality and day arithmetic ignore clock time.
package dates

import "time"

// Layout is the ISO date layout used for parsing and log output.
const Layout = "2006-01-02"

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the clock component of t, keeping its calendar day in t's location.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse parses an ISO date (YYYY-MM-DD).
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the number of days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// DaysInclusive counts the days in [from, to]; zero when to precedes from.
func DaysInclusive(from, to time.Time) int {
	n := DaysBetween(from, to) + 1
	if n < 0 {
		return 0
	}
	return n
}

// IsLeap reports whether year is a leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeap(year) {
		return 366
	}
	return 365
}

// EndOfYear returns December 31st of t's year.
func EndOfYear(t time.Time) time.Time {
	return Date(t.Year(), time.December, 31)
}

// Min returns the earlier of a and b.
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// Interval is a closed range of calendar days [Start, End].
type Interval struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of days covered by the interval.
func (i Interval) Days() int {
	return DaysInclusive(i.Start, i.End)
}

// Contains reports whether d falls inside the interval.
func (i Interval) Contains(d time.Time) bool {
	return !d.Before(i.Start) && !d.After(i.End)
}

// String renders the interval as "start..end".
func (i Interval) String() string {
	return Format(i.Start) + ".." + Format(i.End)
}
