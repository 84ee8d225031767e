package calendars

import (
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

// Ireland is the national calendar of Ireland. Epiphany stays on January 6
// while Ascension and Corpus Christi move to Sunday, whatever the global
// options say.
func Ireland() calendar.CalendarDef {
	return calendar.CalendarDef{
		Key:         IrelandKey,
		InheritFrom: EuropeKey,
		ParticularConfig: calendar.ParticularConfig{
			AscensionOnSunday:     calendar.ForceOn,
			EpiphanyOnSunday:      calendar.ForceOff,
			CorpusChristiOnSunday: calendar.ForceOn,
		},
		Definitions: []calendar.DateDef{
			{
				Key:        "brigid_of_kildare_virgin",
				Precedence: calendar.PrecedenceProperFeastPrincipalPatronOfRegion,
				Date:       calendar.MonthDay("2-1"),
				Martyrology: martyrology.Pointer{
					{Key: "brigid_of_kildare_virgin", Titles: martyrology.AppendTitles(martyrology.TitleCopatronOfIreland)},
				},
				Colors: white,
			},
			{
				Key:                 "patrick_of_ireland_bishop",
				Precedence:          calendar.PrecedenceProperSolemnityPrincipalPatron,
				HolyDayOfObligation: calendar.HolyDay(true),
				Titles:              martyrology.AppendTitles(martyrology.TitleMissionary, martyrology.TitlePatronOfIreland),
			},
			{
				Key:        "columba_of_iona_abbot",
				Precedence: calendar.PrecedenceProperFeastPrincipalPatronOfRegion,
				Date:       calendar.OnMonthDay(time.June, 9),
				Martyrology: martyrology.Pointer{
					{Key: "columba_of_iona_abbot", Titles: martyrology.AppendTitles(martyrology.TitleCopatronOfIreland)},
				},
				Colors: white,
			},
			{
				Key:        "willibrord_bishop",
				Precedence: calendar.PrecedenceOptionalMemorial,
				Date:       calendar.MonthDay("11-7"),
				Martyrology: martyrology.Pointer{
					{Key: "willibrord_of_utrecht_bishop", Titles: martyrology.AppendTitles(martyrology.TitleMissionary)},
				},
				CustomLocaleKey: "willibrord_of_utrecht_bishop",
				Colors:          white,
			},
			{
				Key:             "columban_abbot",
				Precedence:      calendar.PrecedenceProperMemorial,
				Titles:          martyrology.AppendTitles(martyrology.TitleMissionary),
				CustomLocaleKey: "columban_of_luxeuil_abbot",
			},
		},
	}
}
