// Package ical exports generated calendars in iCalendar (RFC 5545) format.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

const productID = "liturgical-calendar"

// X- properties carrying liturgical data that iCalendar has no field for.
const (
	propertyColors     ics.ComponentProperty = "X-LITURGICAL-COLORS"
	propertyPrecedence ics.ComponentProperty = "X-LITURGICAL-PRECEDENCE"
	propertyDayKey     ics.ComponentProperty = "X-LITURGICAL-KEY"
)

// Namer renders display text for days and their linked saints.
// *locale.Dictionary implements it.
type Namer interface {
	Name(day calendar.LiturgicalDay) string
	Titles(link martyrology.Link) []string
}

// Options control an export.
type Options struct {
	// Namer renders summaries. Nil uses the raw locale keys.
	Namer Namer
	// Stamp is written as DTSTAMP on every event. The zero value uses
	// January 1 of the calendar year so repeated exports are identical.
	Stamp time.Time
	// Secondary includes optional memorials and commemorations as their
	// own events. By default only the occupant of each date is exported.
	Secondary bool
}

// Build converts a generation result into an iCalendar document with one
// all-day event per exported day.
func Build(res *calendar.Result, opts Options) *ics.Calendar {
	namer := opts.Namer
	if namer == nil {
		namer = keyNamer{}
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Date(res.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	cal := ics.NewCalendarFor(productID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("%s %d", res.CalendarKey, res.Year))

	for _, dk := range res.Days.Dates() {
		days := res.Days[dk]
		if !opts.Secondary {
			days = days[:1]
		}
		for _, day := range days {
			addEvent(cal, res.CalendarKey, day, namer, stamp)
		}
	}
	return cal
}

// Export writes the iCalendar document for res to w.
func Export(w io.Writer, res *calendar.Result, opts Options) error {
	if err := Build(res, opts).SerializeTo(w); err != nil {
		return fmt.Errorf("write ical: %w", err)
	}
	return nil
}

func addEvent(cal *ics.Calendar, calendarKey string, day calendar.LiturgicalDay, namer Namer, stamp time.Time) {
	dk := calendar.DateKey(day.Date)
	event := cal.AddEvent(fmt.Sprintf("%s-%s@%s.%s", dk, day.Key, calendarKey, productID))
	event.SetDtStampTime(stamp)
	event.SetAllDayStartAt(day.Date)
	event.SetAllDayEndAt(day.Date.AddDate(0, 0, 1))

	summary := namer.Name(day)
	switch {
	case day.IsCommemoration:
		summary = "Commemoration: " + summary
	case day.IsOptional:
		summary = "Optional: " + summary
	}
	event.SetSummary(summary)
	event.SetDescription(describe(day, namer))
	event.AddProperty(ics.ComponentPropertyCategories, string(day.Rank))
	event.AddProperty(propertyDayKey, day.Key)
	event.AddProperty(propertyPrecedence, day.Precedence.String())
	if len(day.Colors) > 0 {
		colors := make([]string, len(day.Colors))
		for i, c := range day.Colors {
			colors[i] = string(c)
		}
		event.AddProperty(propertyColors, strings.Join(colors, ","))
	}
}

func describe(day calendar.LiturgicalDay, namer Namer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rank: %s", day.Rank)
	if len(day.Seasons) > 0 {
		fmt.Fprintf(&b, "\nSeason: %s", day.Seasons[0])
	}
	if day.HolyDayOfObligation {
		b.WriteString("\nHoly day of obligation")
	}
	if day.TransferredFrom != nil {
		fmt.Fprintf(&b, "\nTransferred from %s", calendar.DateKey(*day.TransferredFrom))
	}
	for _, link := range day.Martyrology {
		if titles := namer.Titles(link); len(titles) > 0 {
			fmt.Fprintf(&b, "\n%s: %s", link.Key, strings.Join(titles, ", "))
		}
	}
	return b.String()
}

type keyNamer struct{}

func (keyNamer) Name(day calendar.LiturgicalDay) string { return day.LocaleKey() }

func (keyNamer) Titles(link martyrology.Link) []string {
	titles := link.DisplayTitles()
	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = string(t)
	}
	return out
}
