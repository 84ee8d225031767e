package calendar

import (
	"slices"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

// ProperOfTimeKey is the FromCalendar value of days produced by the
// Proper of Time generator.
const ProperOfTimeKey = "proper_of_time"

// CalendarMetadata locates a day inside its season.
type CalendarMetadata struct {
	WeekOfSeason          int  `json:"week_of_season"`
	DayOfSeason           int  `json:"day_of_season"`
	DayOfWeek             int  `json:"day_of_week"` // 0=Sunday through 6=Saturday
	NthDayOfWeekInMonth   int  `json:"nth_day_of_week_in_month"`
	StartOfSeason         bool `json:"start_of_season,omitempty"`
	StartOfLiturgicalYear bool `json:"start_of_liturgical_year,omitempty"`
}

// LiturgicalDay is one observance on one date. Values are produced fresh by
// every generation run and are not modified after they are emitted.
type LiturgicalDay struct {
	Key                 string             `json:"key"`
	Name                string             `json:"name"` // locale key
	CustomLocaleKey     string             `json:"custom_locale_key,omitempty"`
	Date                time.Time          `json:"date"`
	Precedence          Precedence         `json:"precedence"`
	Rank                Rank               `json:"rank"`
	Colors              []Color            `json:"colors"`
	Seasons             []Season           `json:"seasons"`
	Periods             []Period           `json:"periods"`
	Cycles              Cycles             `json:"cycles"`
	Calendar            CalendarMetadata   `json:"calendar"`
	Martyrology         []martyrology.Link `json:"martyrology,omitempty"`
	HolyDayOfObligation bool               `json:"holy_day_of_obligation"`
	FromCalendar        string             `json:"from_calendar"`
	IsOptional          bool               `json:"is_optional,omitempty"`
	IsCommemoration     bool               `json:"is_commemoration,omitempty"`
	TransferredFrom     *time.Time         `json:"transferred_from,omitempty"`
}

// IsProperOfTime reports whether the day came from the Proper of Time.
func (d LiturgicalDay) IsProperOfTime() bool {
	return d.FromCalendar == ProperOfTimeKey
}

// LocaleKey returns the key used to look up the display name.
func (d LiturgicalDay) LocaleKey() string {
	if d.CustomLocaleKey != "" {
		return d.CustomLocaleKey
	}
	return d.Name
}

// clone returns a deep copy so that derived days never share slices.
func (d LiturgicalDay) clone() LiturgicalDay {
	out := d
	out.Colors = slices.Clone(d.Colors)
	out.Seasons = slices.Clone(d.Seasons)
	out.Periods = slices.Clone(d.Periods)
	if d.Martyrology != nil {
		out.Martyrology = make([]martyrology.Link, len(d.Martyrology))
		for i, link := range d.Martyrology {
			out.Martyrology[i] = link.Clone()
		}
	}
	if d.TransferredFrom != nil {
		from := *d.TransferredFrom
		out.TransferredFrom = &from
	}
	return out
}

// LiturgicalCalendar maps a date key (YYYY-MM-DD) to the days observed on
// it. The first entry is the occupant of the date; any following entries
// are secondary celebrations.
type LiturgicalCalendar map[string][]LiturgicalDay

// Dates returns the date keys in chronological order.
func (c LiturgicalCalendar) Dates() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Occupant returns the day that holds the given date.
func (c LiturgicalCalendar) Occupant(dateKey string) (LiturgicalDay, bool) {
	days := c[dateKey]
	if len(days) == 0 {
		return LiturgicalDay{}, false
	}
	return days[0], true
}

// Find returns every occurrence of the given day key, in date order.
func (c LiturgicalCalendar) Find(key string) []LiturgicalDay {
	var out []LiturgicalDay
	for _, dk := range c.Dates() {
		for _, d := range c[dk] {
			if d.Key == key {
				out = append(out, d)
			}
		}
	}
	return out
}
