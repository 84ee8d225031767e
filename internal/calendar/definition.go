package calendar

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

// -----------------------------------------------------------------
// Date expressions
// -----------------------------------------------------------------

// DateSpec is the date of a definition: either a fixed month-day or a
// function of the year. Evaluating it may report that the definition does
// not apply in a year (ok == false), which is not an error.
type DateSpec interface {
	resolve(year int, d Dates) (t time.Time, ok bool, err error)
}

type fixedMonthDay struct {
	month time.Month
	day   int
}

// OnMonthDay is a fixed date that recurs every year. February 29 does not
// apply in common years.
func OnMonthDay(month time.Month, day int) DateSpec {
	return fixedMonthDay{month: month, day: day}
}

func (f fixedMonthDay) resolve(year int, _ Dates) (time.Time, bool, error) {
	if f.month < time.January || f.month > time.December || f.day < 1 || f.day > 31 {
		return time.Time{}, false, fmt.Errorf("invalid month-day %d-%d", f.month, f.day)
	}
	t := date(year, f.month, f.day)
	if t.Month() != f.month {
		if f.month == time.February && f.day == 29 {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("invalid month-day %d-%d", f.month, f.day)
	}
	return t, true, nil
}

type monthDayString string

// MonthDay is a fixed date written as "M-D", e.g. "3-17". The string is
// parsed when the date is evaluated, so a malformed value only fails the
// definition that carries it.
func MonthDay(s string) DateSpec {
	return monthDayString(s)
}

func (s monthDayString) resolve(year int, d Dates) (time.Time, bool, error) {
	month, day, ok := strings.Cut(string(s), "-")
	m, errM := strconv.Atoi(month)
	n, errD := strconv.Atoi(day)
	if !ok || errM != nil || errD != nil {
		return time.Time{}, false, fmt.Errorf("malformed month-day %q, want M-D", string(s))
	}
	return fixedMonthDay{month: time.Month(m), day: n}.resolve(year, d)
}

type dateFunc func(year int, d Dates) (time.Time, bool)

// DateFunc computes the date from the year. Returning false means the
// definition does not apply that year.
func DateFunc(fn func(year int, d Dates) (time.Time, bool)) DateSpec {
	return dateFunc(fn)
}

// Always adapts a date function that applies every year.
func Always(fn func(d Dates, year int) time.Time) DateSpec {
	return dateFunc(func(year int, d Dates) (time.Time, bool) {
		return fn(d, year), true
	})
}

func (f dateFunc) resolve(year int, d Dates) (time.Time, bool, error) {
	if f == nil {
		return time.Time{}, false, fmt.Errorf("nil date function")
	}
	t, ok := f(year, d)
	if !ok {
		return time.Time{}, false, nil
	}
	return truncate(t), true, nil
}

// -----------------------------------------------------------------
// Holy day of obligation
// -----------------------------------------------------------------

// HolyDaySpec tells whether a definition is a holy day of obligation.
type HolyDaySpec interface {
	holyDay(year int) bool
}

type holyDayLiteral bool

func (h holyDayLiteral) holyDay(int) bool { return bool(h) }

type holyDayFunc func(year int) bool

func (h holyDayFunc) holyDay(year int) bool { return h(year) }

// HolyDay is a literal holy-day-of-obligation flag.
func HolyDay(b bool) HolyDaySpec {
	return holyDayLiteral(b)
}

// HolyDayFunc computes the flag from the year.
func HolyDayFunc(fn func(year int) bool) HolyDaySpec {
	return holyDayFunc(fn)
}

var errNilHolyDayFunc = errors.New("nil holy day function")

// -----------------------------------------------------------------
// Definitions
// -----------------------------------------------------------------

// DateDef is a partial definition of a liturgical day inside a calendar.
// Zero-valued fields inherit the value from the parent calendar.
type DateDef struct {
	Key                 string
	Precedence          Precedence
	Date                DateSpec
	HolyDayOfObligation HolyDaySpec
	Martyrology         martyrology.Pointer
	Titles              *martyrology.TitlesDef
	Colors              []Color
	ProperCycle         ProperCycle
	CustomLocaleKey     string

	// Drop removes the day from this calendar and from every calendar
	// that inherits from it.
	Drop bool
}

// clone copies the slices of a definition so a registered calendar never
// shares mutable state with the caller.
func (d DateDef) clone() DateDef {
	out := d
	out.Martyrology = d.Martyrology.Clone()
	out.Colors = slices.Clone(d.Colors)
	return out
}

// checkFuncs reports the computed fields that were given a nil function.
func (d DateDef) checkFuncs() error {
	if f, ok := d.HolyDayOfObligation.(holyDayFunc); ok && f == nil {
		return errNilHolyDayFunc
	}
	if err := d.Titles.Validate(); err != nil {
		return err
	}
	return d.Martyrology.Validate()
}

// IsComplete reports whether the definition can stand on its own, without
// inheriting a date or a precedence.
func (d DateDef) IsComplete() bool {
	return d.Date != nil && d.Precedence != 0
}

// mergeDateDef lays child over parent, field by field.
func mergeDateDef(parent, child DateDef) DateDef {
	out := parent.clone()
	if child.Precedence != 0 {
		out.Precedence = child.Precedence
	}
	if child.Date != nil {
		out.Date = child.Date
	}
	if child.HolyDayOfObligation != nil {
		out.HolyDayOfObligation = child.HolyDayOfObligation
	}
	if child.Martyrology != nil {
		out.Martyrology = child.Martyrology.Clone()
	}
	out.Titles = parent.Titles.Then(child.Titles)
	if child.Colors != nil {
		out.Colors = slices.Clone(child.Colors)
	}
	if child.ProperCycle != "" {
		out.ProperCycle = child.ProperCycle
	}
	if child.CustomLocaleKey != "" {
		out.CustomLocaleKey = child.CustomLocaleKey
	}
	out.Drop = false
	return out
}

// CalendarDef describes one calendar: the definitions it adds or
// overrides, its parent and its Sunday-transfer overrides.
type CalendarDef struct {
	Key string

	// InheritFrom is the registry key of the parent calendar. The parent is
	// looked up by key and never modified by its children.
	InheritFrom string

	ParticularConfig ParticularConfig
	Definitions      []DateDef
}

// DuplicateKeyError reports a day key defined twice in one calendar.
type DuplicateKeyError struct {
	Calendar string
	Key      string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("calendar %q defines day %q more than once", e.Calendar, e.Key)
}

// DefinitionError reports a definition that could not be evaluated. It only
// affects the named day; the rest of the calendar is still built.
type DefinitionError struct {
	Calendar string
	Key      string
	Err      error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("calendar %q, day %q: %v", e.Calendar, e.Key, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// validate checks what can be checked without a year.
func (c CalendarDef) validate() error {
	if c.Key == "" {
		return fmt.Errorf("calendar key is required")
	}
	seen := make(map[string]bool, len(c.Definitions))
	for _, def := range c.Definitions {
		if def.Key == "" {
			return fmt.Errorf("calendar %q: definition without key", c.Key)
		}
		if seen[def.Key] {
			return &DuplicateKeyError{Calendar: c.Key, Key: def.Key}
		}
		seen[def.Key] = true
		for _, color := range def.Colors {
			if !color.IsValid() {
				return &DefinitionError{Calendar: c.Key, Key: def.Key, Err: fmt.Errorf("invalid color %q", color)}
			}
		}
		if def.Precedence != 0 && !def.Precedence.IsValid() {
			return &DefinitionError{Calendar: c.Key, Key: def.Key, Err: fmt.Errorf("invalid precedence %d", def.Precedence)}
		}
	}
	return nil
}

func (c CalendarDef) clone() CalendarDef {
	out := c
	out.Definitions = make([]DateDef, len(c.Definitions))
	for i, def := range c.Definitions {
		out.Definitions[i] = def.clone()
	}
	return out
}
