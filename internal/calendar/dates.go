package calendar

import (
	"time"

	"github.com/teambition/rrule-go"
)

// Dates computes the movable and transferable dates of a year. It is bound
// to a resolved Config, so dates that depend on a Sunday-transfer option
// (Epiphany, Ascension, Corpus Christi and their dependents) follow it.
type Dates struct {
	cfg Config
}

// NewDates returns date helpers bound to cfg.
func NewDates(cfg Config) Dates {
	return Dates{cfg: cfg}
}

// Config returns the configuration the helpers are bound to.
func (d Dates) Config() Config {
	return d.cfg
}

// -----------------------------------------------------------------
// Christmas cycle
// -----------------------------------------------------------------

// FirstSundayOfAdvent returns the first Sunday of Advent of the given year.
func (d Dates) FirstSundayOfAdvent(year int) time.Time {
	return CalculateAdvent(year)
}

// ChristTheKing is the last Sunday before Advent.
func (d Dates) ChristTheKing(year int) time.Time {
	return CalculateAdvent(year).AddDate(0, 0, -7)
}

// Christmas returns December 25 of the given year.
func (d Dates) Christmas(year int) time.Time {
	return date(year, time.December, 25)
}

// HolyFamily is the Sunday within the octave of Christmas, or December 30
// when Christmas itself falls on a Sunday.
func (d Dates) HolyFamily(year int) time.Time {
	if d.Christmas(year).Weekday() == time.Sunday {
		return date(year, time.December, 30)
	}
	return sundayOnOrAfter(date(year, time.December, 26))
}

// MaryMotherOfGod returns January 1.
func (d Dates) MaryMotherOfGod(year int) time.Time {
	return date(year, time.January, 1)
}

// Epiphany returns January 6, or the Sunday between January 2 and 8 when
// Epiphany is kept on Sunday.
func (d Dates) Epiphany(year int) time.Time {
	if d.cfg.EpiphanyOnSunday {
		return sundayOnOrAfter(date(year, time.January, 2))
	}
	return date(year, time.January, 6)
}

// SecondSundayAfterChristmas is the Sunday between January 2 and 5. It does
// not exist when Epiphany is kept on Sunday or when no such Sunday falls
// before Epiphany.
func (d Dates) SecondSundayAfterChristmas(year int) (time.Time, bool) {
	if d.cfg.EpiphanyOnSunday {
		return time.Time{}, false
	}
	sunday := sundayOnOrAfter(date(year, time.January, 2))
	if sunday.Day() > 5 {
		return time.Time{}, false
	}
	return sunday, true
}

// BaptismOfTheLord is the Sunday after Epiphany. When Epiphany is kept on
// January 7 or 8, the Baptism moves to the following Monday.
func (d Dates) BaptismOfTheLord(year int) time.Time {
	epiphany := d.Epiphany(year)
	if d.cfg.EpiphanyOnSunday && epiphany.Day() >= 7 {
		return epiphany.AddDate(0, 0, 1)
	}
	return sundayOnOrAfter(epiphany.AddDate(0, 0, 1))
}

// PresentationOfTheLord returns February 2.
func (d Dates) PresentationOfTheLord(year int) time.Time {
	return date(year, time.February, 2)
}

// ImmaculateConception returns December 8, moved to December 9 when it
// falls on the second Sunday of Advent.
func (d Dates) ImmaculateConception(year int) time.Time {
	t := date(year, time.December, 8)
	if t.Weekday() == time.Sunday {
		return t.AddDate(0, 0, 1)
	}
	return t
}

// -----------------------------------------------------------------
// Easter cycle
// -----------------------------------------------------------------

// Easter returns Easter Sunday.
func (d Dates) Easter(year int) time.Time {
	return CalculateEaster(year)
}

// AshWednesday returns Ash Wednesday.
func (d Dates) AshWednesday(year int) time.Time {
	return CalculateAshWednesday(year)
}

// FirstSundayOfLent returns the Sunday after Ash Wednesday.
func (d Dates) FirstSundayOfLent(year int) time.Time {
	return CalculateAshWednesday(year).AddDate(0, 0, 4)
}

// PalmSunday returns the Sunday before Easter.
func (d Dates) PalmSunday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -7)
}

// HolyThursday returns the Thursday before Easter.
func (d Dates) HolyThursday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -3)
}

// GoodFriday returns the Friday before Easter.
func (d Dates) GoodFriday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -2)
}

// HolySaturday returns the Saturday before Easter.
func (d Dates) HolySaturday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -1)
}

// DivineMercySunday returns the second Sunday of Easter.
func (d Dates) DivineMercySunday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 7)
}

// Ascension returns the Thursday 39 days after Easter, or the seventh
// Sunday of Easter when Ascension is kept on Sunday.
func (d Dates) Ascension(year int) time.Time {
	if d.cfg.AscensionOnSunday {
		return CalculateEaster(year).AddDate(0, 0, 42)
	}
	return CalculateEaster(year).AddDate(0, 0, 39)
}

// Pentecost returns Pentecost Sunday.
func (d Dates) Pentecost(year int) time.Time {
	return CalculatePentecost(year)
}

// MostHolyTrinity returns the Sunday after Pentecost.
func (d Dates) MostHolyTrinity(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 56)
}

// CorpusChristi returns the Thursday after Trinity Sunday, or the following
// Sunday when Corpus Christi is kept on Sunday.
func (d Dates) CorpusChristi(year int) time.Time {
	if d.cfg.CorpusChristiOnSunday {
		return CalculateEaster(year).AddDate(0, 0, 63)
	}
	return CalculateEaster(year).AddDate(0, 0, 60)
}

// MostSacredHeart returns the Friday after the second Sunday after Pentecost.
func (d Dates) MostSacredHeart(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 68)
}

// ImmaculateHeartOfMary returns the Saturday after the Sacred Heart.
func (d Dates) ImmaculateHeartOfMary(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 69)
}

// MaryMotherOfTheChurch returns the Monday after Pentecost.
func (d Dates) MaryMotherOfTheChurch(year int) time.Time {
	return CalculatePentecost(year).AddDate(0, 0, 1)
}

// JosephSpouseOfMary returns March 19. When it falls in Holy Week it is
// anticipated to the Saturday before Palm Sunday; on a Sunday of Lent it
// moves to the Monday.
func (d Dates) JosephSpouseOfMary(year int) time.Time {
	t := date(year, time.March, 19)
	palm := d.PalmSunday(year)
	if !t.Before(palm) && !t.After(d.Easter(year)) {
		return palm.AddDate(0, 0, -1)
	}
	if t.Weekday() == time.Sunday {
		return t.AddDate(0, 0, 1)
	}
	return t
}

// Annunciation returns March 25. When it falls between Palm Sunday and the
// second Sunday of Easter it moves to the Monday after Divine Mercy Sunday;
// on a Sunday of Lent it moves to the Monday.
func (d Dates) Annunciation(year int) time.Time {
	t := date(year, time.March, 25)
	palm := d.PalmSunday(year)
	mercy := d.DivineMercySunday(year)
	if !t.Before(palm) && !t.After(mercy) {
		return mercy.AddDate(0, 0, 1)
	}
	if t.Weekday() == time.Sunday {
		return t.AddDate(0, 0, 1)
	}
	return t
}

// -----------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------

// sundayOnOrAfter returns t if it is a Sunday, otherwise the next Sunday.
func sundayOnOrAfter(t time.Time) time.Time {
	return weekdayOnOrAfter(t, rrule.SU)
}

// weekdayOnOrAfter returns the first date on or after t falling on wd.
func weekdayOnOrAfter(t time.Time, wd rrule.Weekday) time.Time {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   truncate(t),
		Byweekday: []rrule.Weekday{wd},
		Count:     1,
	})
	if err == nil {
		if all := r.All(); len(all) == 1 {
			return truncate(all[0])
		}
	}

	// The rule above is static; fall back to a plain walk if it ever fails.
	out := truncate(t)
	for out.Weekday() != time.Weekday((wd.Day()+1)%7) {
		out = out.AddDate(0, 0, 1)
	}
	return out
}

// sundayOnOrBefore returns t if it is a Sunday, otherwise the previous Sunday.
func sundayOnOrBefore(t time.Time) time.Time {
	return truncate(t).AddDate(0, 0, -int(t.Weekday()))
}

// daysInRange lists every date from start to end inclusive.
func daysInRange(start, end time.Time) []time.Time {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: truncate(start),
		Until:   truncate(end),
	})
	if err != nil {
		var out []time.Time
		for t := truncate(start); !t.After(end); t = t.AddDate(0, 0, 1) {
			out = append(out, t)
		}
		return out
	}

	all := r.All()
	out := make([]time.Time, len(all))
	for i, t := range all {
		out[i] = truncate(t)
	}
	return out
}
