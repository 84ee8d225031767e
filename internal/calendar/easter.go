// Package calendar computes yearly liturgical calendars from layered
// calendar definitions: a Proper of Time baseline, a registry of calendar
// definitions merged through inheritance, and a precedence-based builder
// that settles one occupant per date.
package calendar

import (
	"time"
)

// CalculateEaster calculates the date of Easter Sunday for a given year
// using the computus algorithm for the Gregorian calendar.
//
// The algorithm is the anonymous Gregorian algorithm (Meeus/Jones/Butcher)
// and is valid for all years in the Gregorian calendar.
func CalculateEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return date(year, time.Month(month), day)
}

// CalculateAdvent calculates the date of the first Sunday of Advent
// (the 4th Sunday before Christmas) for a given year.
//
// Advent Sunday falls between November 27 and December 3.
func CalculateAdvent(year int) time.Time {
	christmas := date(year, time.December, 25)

	// Fourth Sunday of Advent is the last Sunday strictly before Christmas.
	back := int(christmas.Weekday())
	if back == 0 {
		back = 7
	}
	return christmas.AddDate(0, 0, -back-21)
}

// CalculateAshWednesday calculates Ash Wednesday for a given year.
// Ash Wednesday is 46 days before Easter (40 days of Lent + 6 Sundays).
func CalculateAshWednesday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -46)
}

// CalculatePentecost calculates Pentecost Sunday for a given year.
// Pentecost is 49 days after Easter (7 weeks).
func CalculatePentecost(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 49)
}

// date builds a UTC midnight date. Every date the package emits goes
// through here so that equality and map keys are stable.
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// truncate normalizes t to UTC midnight of its calendar day.
func truncate(t time.Time) time.Time {
	return date(t.Year(), t.Month(), t.Day())
}

// daysBetween returns the number of whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(truncate(b).Sub(truncate(a)).Hours() / 24)
}

// DateKey formats a date the way LiturgicalCalendar keys are written.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDateKey parses a date in YYYY-MM-DD format.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return truncate(t), nil
}
