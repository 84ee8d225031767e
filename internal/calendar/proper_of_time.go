package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ProperOfTimeDef is a complete definition of a Proper of Time day. Unlike
// DateDef it is never merged: every field is set.
type ProperOfTimeDef struct {
	Key                 string
	Precedence          Precedence
	Rank                Rank
	Seasons             []Season
	Periods             []Period
	Colors              []Color
	HolyDayOfObligation bool

	// Date returns false when the day does not exist in the given year.
	Date func(year int, d Dates) (time.Time, bool)

	// Calendar computes the per-date metadata. Nil uses the metadata of the
	// season the date falls in.
	Calendar func(t time.Time) CalendarMetadata
}

// ProperOfTime generates the baseline calendar: one entry for every date,
// derived from its position in the seasons around Easter.
type ProperOfTime struct {
	dates Dates
	named []ProperOfTimeDef
}

// NewProperOfTime creates a generator bound to the given date helpers.
func NewProperOfTime(d Dates) *ProperOfTime {
	return &ProperOfTime{dates: d, named: properOfTimeDefs()}
}

// Definitions returns the named Proper of Time definitions.
func (p *ProperOfTime) Definitions() []ProperOfTimeDef {
	return slices.Clone(p.named)
}

// Generate returns the baseline day of every date of the civil year, keyed
// by DateKey.
func (p *ProperOfTime) Generate(year int) map[string]LiturgicalDay {
	a := newYearAnchors(year, p.dates)
	out := make(map[string]LiturgicalDay, 366)
	seasonal := make(map[string]seasonalDay, 366)

	for _, t := range daysInRange(date(year, time.January, 1), date(year, time.December, 31)) {
		sd := a.classify(t)
		seasonal[DateKey(t)] = sd
		out[DateKey(t)] = sd.def.day(t, sd.meta, sd.psalter)
	}

	winners := make(map[string]Precedence)
	for _, def := range p.named {
		t, ok := def.Date(year, p.dates)
		if !ok || t.Year() != year {
			continue
		}
		t = truncate(t)
		key := DateKey(t)
		if prev, taken := winners[key]; taken && prev <= def.Precedence {
			continue
		}
		winners[key] = def.Precedence

		sd := seasonal[key]
		meta := sd.meta
		if def.Calendar != nil {
			meta = def.Calendar(t)
		}
		out[key] = def.day(t, meta, sd.psalter)
	}
	return out
}

// Range returns the baseline days from start to end inclusive.
func (p *ProperOfTime) Range(start, end time.Time) map[string]LiturgicalDay {
	out := make(map[string]LiturgicalDay)
	for year := start.Year(); year <= end.Year(); year++ {
		for key, day := range p.Generate(year) {
			if day.Date.Before(truncate(start)) || day.Date.After(truncate(end)) {
				continue
			}
			out[key] = day
		}
	}
	return out
}

func (def ProperOfTimeDef) day(t time.Time, meta CalendarMetadata, psalter int) LiturgicalDay {
	return LiturgicalDay{
		Key:        def.Key,
		Name:       def.Key,
		Date:       t,
		Precedence: def.Precedence,
		Rank:       def.Rank,
		Colors:     slices.Clone(def.Colors),
		Seasons:    slices.Clone(def.Seasons),
		Periods:    slices.Clone(def.Periods),
		Cycles: Cycles{
			ProperCycle:  ProperCycleOfTime,
			SundayCycle:  GetSundayCycle(t),
			WeekdayCycle: GetWeekdayCycle(t),
			PsalterWeek:  psalter,
		},
		Calendar:            meta,
		HolyDayOfObligation: def.HolyDayOfObligation || t.Weekday() == time.Sunday,
		FromCalendar:        ProperOfTimeKey,
	}
}

// -----------------------------------------------------------------
// Seasonal classification
// -----------------------------------------------------------------

// yearAnchors holds the dates a civil year is classified against.
type yearAnchors struct {
	prevChristmas time.Time
	epiphany      time.Time
	baptism       time.Time
	presentation  time.Time
	ashWednesday  time.Time
	lent1         time.Time
	palmSunday    time.Time
	holyThursday  time.Time
	easter        time.Time
	pentecost     time.Time
	christTheKing time.Time
	advent        time.Time
	christmas     time.Time
}

func newYearAnchors(year int, d Dates) yearAnchors {
	return yearAnchors{
		prevChristmas: d.Christmas(year - 1),
		epiphany:      d.Epiphany(year),
		baptism:       d.BaptismOfTheLord(year),
		presentation:  d.PresentationOfTheLord(year),
		ashWednesday:  d.AshWednesday(year),
		lent1:         d.FirstSundayOfLent(year),
		palmSunday:    d.PalmSunday(year),
		holyThursday:  d.HolyThursday(year),
		easter:        d.Easter(year),
		pentecost:     d.Pentecost(year),
		christTheKing: d.ChristTheKing(year),
		advent:        d.FirstSundayOfAdvent(year),
		christmas:     d.Christmas(year),
	}
}

type seasonalDay struct {
	def     ProperOfTimeDef
	meta    CalendarMetadata
	psalter int
}

// classify returns the seasonal baseline of t.
func (a yearAnchors) classify(t time.Time) seasonalDay {
	switch {
	case !t.After(a.baptism):
		return a.christmasTime(t, a.prevChristmas)
	case t.Before(a.ashWednesday):
		return a.earlyOrdinaryTime(t)
	case t.Before(a.palmSunday):
		return a.lent(t)
	case t.Before(a.holyThursday):
		return a.holyWeek(t)
	case t.Before(a.easter):
		return a.triduum(t)
	case !t.After(a.pentecost):
		return a.easterTime(t)
	case t.Before(a.advent):
		return a.lateOrdinaryTime(t)
	case t.Before(a.christmas):
		return a.adventTime(t)
	default:
		return a.christmasTime(t, a.christmas)
	}
}

func (a yearAnchors) christmasTime(t, christmas time.Time) seasonalDay {
	dayOfSeason := daysBetween(christmas, t) + 1
	week := daysBetween(sundayOnOrBefore(christmas), t)/7 + 1
	meta := metadata(t, week, dayOfSeason)

	def := ProperOfTimeDef{
		Precedence: PrecedenceWeekday,
		Rank:       RankWeekday,
		Seasons:    []Season{SeasonChristmasTime},
		Colors:     []Color{ColorWhite},
	}
	psalter := psalterWeek(week)

	switch {
	case dayOfSeason <= 8:
		def.Key = fmt.Sprintf("christmas_octave_day_%d", dayOfSeason)
		def.Precedence = PrecedencePrivilegedWeekday
		def.Periods = []Period{PeriodChristmasOctave, PeriodChristmasToPresentationOfTheLord}
		psalter = 1
	case t.Before(a.epiphany):
		def.Key = fmt.Sprintf("christmas_time_january_%d", t.Day())
		def.Periods = []Period{PeriodDaysBeforeEpiphany, PeriodChristmasToPresentationOfTheLord}
	default:
		def.Key = weekdayName(t) + "_after_epiphany"
		def.Periods = []Period{PeriodDaysFromEpiphany, PeriodChristmasToPresentationOfTheLord}
	}
	if t.Weekday() == time.Sunday && dayOfSeason > 8 {
		def.Precedence = PrecedenceSundayOfChristmasAndOrdinaryTime
		def.Rank = RankSunday
	}
	return seasonalDay{def: def, meta: meta, psalter: psalter}
}

func (a yearAnchors) earlyOrdinaryTime(t time.Time) seasonalDay {
	week := daysBetween(sundayOnOrBefore(a.baptism), t)/7 + 1
	periods := []Period{PeriodEarlyOrdinaryTime}
	if t.After(a.presentation) {
		periods = append(periods, PeriodPresentationToHolyThursday)
	} else {
		periods = append(periods, PeriodChristmasToPresentationOfTheLord)
	}
	return ordinaryTime(t, week, periods)
}

func (a yearAnchors) lateOrdinaryTime(t time.Time) seasonalDay {
	week := 34 - daysBetween(sundayOnOrBefore(t), a.christTheKing)/7
	return ordinaryTime(t, week, []Period{PeriodLateOrdinaryTime})
}

func ordinaryTime(t time.Time, week int, periods []Period) seasonalDay {
	def := ProperOfTimeDef{
		Key:        weekKey("ordinary_time", week, t),
		Precedence: PrecedenceWeekday,
		Rank:       RankWeekday,
		Seasons:    []Season{SeasonOrdinaryTime},
		Periods:    periods,
		Colors:     []Color{ColorGreen},
	}
	if t.Weekday() == time.Sunday {
		def.Precedence = PrecedenceSundayOfChristmasAndOrdinaryTime
		def.Rank = RankSunday
	}
	meta := metadata(t, week, (week-1)*7+int(t.Weekday()))
	return seasonalDay{def: def, meta: meta, psalter: psalterWeek(week)}
}

func (a yearAnchors) lent(t time.Time) seasonalDay {
	dayOfSeason := daysBetween(a.ashWednesday, t) + 1
	def := ProperOfTimeDef{
		Precedence: PrecedencePrivilegedWeekday,
		Rank:       RankWeekday,
		Seasons:    []Season{SeasonLent},
		Periods:    []Period{PeriodPresentationToHolyThursday},
		Colors:     []Color{ColorPurple},
	}

	if t.Before(a.lent1) {
		def.Key = weekdayName(t) + "_after_ash_wednesday"
		return seasonalDay{def: def, meta: metadata(t, 0, dayOfSeason), psalter: 4}
	}

	week := daysBetween(a.lent1, t)/7 + 1
	def.Key = weekKey("lent", week, t)
	if t.Weekday() == time.Sunday {
		def.Precedence = PrecedenceProperOfTimeSolemnity
		def.Rank = RankSunday
		if week == 4 {
			def.Colors = []Color{ColorRose, ColorPurple}
		}
	}
	return seasonalDay{def: def, meta: metadata(t, week, dayOfSeason), psalter: psalterWeek(week)}
}

func (a yearAnchors) holyWeek(t time.Time) seasonalDay {
	def := ProperOfTimeDef{
		Key:        "holy_" + weekdayName(t),
		Precedence: PrecedenceProperOfTimeSolemnity,
		Rank:       RankWeekday,
		Seasons:    []Season{SeasonLent},
		Periods:    []Period{PeriodHolyWeek, PeriodPresentationToHolyThursday},
		Colors:     []Color{ColorPurple},
	}
	meta := metadata(t, 6, daysBetween(a.ashWednesday, t)+1)
	return seasonalDay{def: def, meta: meta, psalter: psalterWeek(6)}
}

func (a yearAnchors) triduum(t time.Time) seasonalDay {
	def := ProperOfTimeDef{
		Key:        "paschal_triduum_" + weekdayName(t),
		Precedence: PrecedenceTriduum,
		Rank:       RankWeekday,
		Seasons:    []Season{SeasonPaschalTriduum},
		Periods:    []Period{PeriodHolyWeek, PeriodPaschalTriduum},
		Colors:     []Color{ColorPurple},
	}
	meta := metadata(t, 1, daysBetween(a.holyThursday, t)+1)
	return seasonalDay{def: def, meta: meta, psalter: psalterWeek(6)}
}

func (a yearAnchors) easterTime(t time.Time) seasonalDay {
	week := daysBetween(a.easter, t)/7 + 1
	def := ProperOfTimeDef{
		Key:        weekKey("easter_time", week, t),
		Precedence: PrecedenceWeekday,
		Rank:       RankWeekday,
		Seasons:    []Season{SeasonEasterTime},
		Colors:     []Color{ColorWhite},
	}
	psalter := psalterWeek(week)

	switch {
	case week == 1:
		def.Key = "easter_" + weekdayName(t)
		def.Precedence = PrecedenceProperOfTimeSolemnity
		def.Rank = RankSolemnity
		def.Periods = []Period{PeriodEasterOctave}
		psalter = 1
	case t.Weekday() == time.Sunday:
		def.Precedence = PrecedenceProperOfTimeSolemnity
		def.Rank = RankSunday
	}
	meta := metadata(t, week, daysBetween(a.easter, t)+1)
	return seasonalDay{def: def, meta: meta, psalter: psalter}
}

func (a yearAnchors) adventTime(t time.Time) seasonalDay {
	week := daysBetween(a.advent, t)/7 + 1
	def := ProperOfTimeDef{
		Key:        weekKey("advent", week, t),
		Precedence: PrecedenceWeekday,
		Rank:       RankWeekday,
		Seasons:    []Season{SeasonAdvent},
		Colors:     []Color{ColorPurple},
	}

	switch {
	case t.Weekday() == time.Sunday:
		def.Precedence = PrecedenceProperOfTimeSolemnity
		def.Rank = RankSunday
		if week == 3 {
			def.Colors = []Color{ColorRose, ColorPurple}
		}
	case t.Day() >= 17:
		def.Key = fmt.Sprintf("advent_december_%d", t.Day())
		def.Precedence = PrecedencePrivilegedWeekday
		def.Periods = []Period{PeriodDaysBeforeChristmas}
	}

	meta := metadata(t, week, daysBetween(a.advent, t)+1)
	meta.StartOfLiturgicalYear = t.Equal(a.advent)
	return seasonalDay{def: def, meta: meta, psalter: psalterWeek(week)}
}

func metadata(t time.Time, week, dayOfSeason int) CalendarMetadata {
	return CalendarMetadata{
		WeekOfSeason:        week,
		DayOfSeason:         dayOfSeason,
		DayOfWeek:           int(t.Weekday()),
		NthDayOfWeekInMonth: (t.Day()-1)/7 + 1,
		StartOfSeason:       dayOfSeason == 1,
	}
}

// weekKey builds keys such as "lent_3_sunday" or "ordinary_time_12_friday".
func weekKey(prefix string, week int, t time.Time) string {
	return fmt.Sprintf("%s_%d_%s", prefix, week, weekdayName(t))
}

func weekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// -----------------------------------------------------------------
// Named days
// -----------------------------------------------------------------

func always(fn func(d Dates, year int) time.Time) func(int, Dates) (time.Time, bool) {
	return func(year int, d Dates) (time.Time, bool) {
		return fn(d, year), true
	}
}

func properOfTimeDefs() []ProperOfTimeDef {
	christmasPeriods := []Period{PeriodChristmasOctave, PeriodChristmasToPresentationOfTheLord}

	return []ProperOfTimeDef{
		{
			Key:                 "nativity_of_the_lord",
			Precedence:          PrecedenceProperOfTimeSolemnity,
			Rank:                RankSolemnity,
			Seasons:             []Season{SeasonChristmasTime},
			Periods:             christmasPeriods,
			Colors:              []Color{ColorWhite},
			HolyDayOfObligation: true,
			Date:                always(Dates.Christmas),
		},
		{
			Key:        "holy_family",
			Precedence: PrecedenceGeneralLordFeast,
			Rank:       RankFeast,
			Seasons:    []Season{SeasonChristmasTime},
			Periods:    christmasPeriods,
			Colors:     []Color{ColorWhite},
			Date:       always(Dates.HolyFamily),
		},
		{
			Key:                 "mary_mother_of_god",
			Precedence:          PrecedenceGeneralSolemnity,
			Rank:                RankSolemnity,
			Seasons:             []Season{SeasonChristmasTime},
			Periods:             christmasPeriods,
			Colors:              []Color{ColorWhite},
			HolyDayOfObligation: true,
			Date:                always(Dates.MaryMotherOfGod),
		},
		{
			Key:        "second_sunday_after_christmas",
			Precedence: PrecedenceSundayOfChristmasAndOrdinaryTime,
			Rank:       RankSunday,
			Seasons:    []Season{SeasonChristmasTime},
			Periods:    []Period{PeriodDaysBeforeEpiphany, PeriodChristmasToPresentationOfTheLord},
			Colors:     []Color{ColorWhite},
			Date: func(year int, d Dates) (time.Time, bool) {
				return d.SecondSundayAfterChristmas(year)
			},
		},
		{
			Key:                 "epiphany_of_the_lord",
			Precedence:          PrecedenceProperOfTimeSolemnity,
			Rank:                RankSolemnity,
			Seasons:             []Season{SeasonChristmasTime},
			Periods:             []Period{PeriodDaysFromEpiphany, PeriodChristmasToPresentationOfTheLord},
			Colors:              []Color{ColorWhite},
			HolyDayOfObligation: true,
			Date:                always(Dates.Epiphany),
		},
		{
			Key:        "baptism_of_the_lord",
			Precedence: PrecedenceGeneralLordFeast,
			Rank:       RankFeast,
			Seasons:    []Season{SeasonChristmasTime},
			Periods:    []Period{PeriodDaysFromEpiphany, PeriodChristmasToPresentationOfTheLord},
			Colors:     []Color{ColorWhite},
			Date:       always(Dates.BaptismOfTheLord),
		},
		{
			Key:        "ash_wednesday",
			Precedence: PrecedenceProperOfTimeSolemnity,
			Rank:       RankWeekday,
			Seasons:    []Season{SeasonLent},
			Periods:    []Period{PeriodPresentationToHolyThursday},
			Colors:     []Color{ColorPurple},
			Date:       always(Dates.AshWednesday),
		},
		{
			Key:        "palm_sunday_of_the_passion_of_the_lord",
			Precedence: PrecedenceProperOfTimeSolemnity,
			Rank:       RankSunday,
			Seasons:    []Season{SeasonLent},
			Periods:    []Period{PeriodHolyWeek, PeriodPresentationToHolyThursday},
			Colors:     []Color{ColorRed},
			Date:       always(Dates.PalmSunday),
		},
		{
			Key:        "thursday_of_the_lords_supper",
			Precedence: PrecedenceTriduum,
			Rank:       RankWeekday,
			Seasons:    []Season{SeasonLent, SeasonPaschalTriduum},
			Periods:    []Period{PeriodHolyWeek, PeriodPaschalTriduum},
			Colors:     []Color{ColorWhite},
			Date:       always(Dates.HolyThursday),
		},
		{
			Key:        "friday_of_the_passion_of_the_lord",
			Precedence: PrecedenceTriduum,
			Rank:       RankWeekday,
			Seasons:    []Season{SeasonPaschalTriduum},
			Periods:    []Period{PeriodHolyWeek, PeriodPaschalTriduum},
			Colors:     []Color{ColorRed},
			Date:       always(Dates.GoodFriday),
		},
		{
			Key:        "holy_saturday",
			Precedence: PrecedenceTriduum,
			Rank:       RankWeekday,
			Seasons:    []Season{SeasonPaschalTriduum},
			Periods:    []Period{PeriodHolyWeek, PeriodPaschalTriduum},
			Colors:     []Color{ColorPurple},
			Date:       always(Dates.HolySaturday),
		},
		{
			Key:        "easter_sunday",
			Precedence: PrecedenceTriduum,
			Rank:       RankSolemnity,
			Seasons:    []Season{SeasonPaschalTriduum, SeasonEasterTime},
			Periods:    []Period{PeriodEasterOctave, PeriodPaschalTriduum},
			Colors:     []Color{ColorWhite},
			Date:       always(Dates.Easter),
		},
		{
			Key:        "divine_mercy_sunday",
			Precedence: PrecedenceProperOfTimeSolemnity,
			Rank:       RankSunday,
			Seasons:    []Season{SeasonEasterTime},
			Periods:    []Period{PeriodEasterOctave},
			Colors:     []Color{ColorWhite},
			Date:       always(Dates.DivineMercySunday),
		},
		{
			Key:                 "ascension_of_the_lord",
			Precedence:          PrecedenceProperOfTimeSolemnity,
			Rank:                RankSolemnity,
			Seasons:             []Season{SeasonEasterTime},
			Colors:              []Color{ColorWhite},
			HolyDayOfObligation: true,
			Date:                always(Dates.Ascension),
		},
		{
			Key:        "pentecost_sunday",
			Precedence: PrecedenceProperOfTimeSolemnity,
			Rank:       RankSolemnity,
			Seasons:    []Season{SeasonEasterTime},
			Colors:     []Color{ColorRed},
			Date:       always(Dates.Pentecost),
		},
	}
}
