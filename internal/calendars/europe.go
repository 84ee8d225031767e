package calendars

import (
	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

// Europe raises the patrons of Europe to feasts.
func Europe() calendar.CalendarDef {
	patron := func(key string, title martyrology.Title) calendar.DateDef {
		return calendar.DateDef{
			Key:        key,
			Precedence: calendar.PrecedenceProperFeast,
			Titles:     martyrology.AppendTitles(title),
		}
	}

	return calendar.CalendarDef{
		Key:         EuropeKey,
		InheritFrom: GeneralRomanKey,
		Definitions: []calendar.DateDef{
			patron("cyril_the_philosopher_monk_and_methodius_bishop", martyrology.TitleCopatronOfEurope),
			patron("catherine_of_siena_virgin", martyrology.TitleCopatronOfEurope),
			patron("benedict_of_nursia_abbot", martyrology.TitlePatronOfEurope),
			patron("bridget_of_sweden_religious", martyrology.TitleCopatronOfEurope),
			patron("teresa_benedicta_of_the_cross_stein_virgin", martyrology.TitleCopatronOfEurope),
		},
	}
}
