// Package calendars holds the bundled calendar definitions: the General
// Roman Calendar and the particular calendars that inherit from it.
package calendars

import (
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

// Registry keys of the bundled calendars.
const (
	GeneralRomanKey = "general_roman"
	EuropeKey       = "europe"
	IrelandKey      = "ireland"
)

var (
	white  = []calendar.Color{calendar.ColorWhite}
	red    = []calendar.Color{calendar.ColorRed}
	mourns = []calendar.Color{calendar.ColorPurple, calendar.ColorBlack}
)

// NewRegistry returns a registry with every bundled calendar.
func NewRegistry() *calendar.Registry {
	return calendar.NewRegistry().MustRegister(
		GeneralRoman(),
		Europe(),
		Ireland(),
	)
}

// fixed is a definition on the same month-day every year.
func fixed(key string, month time.Month, day int, p calendar.Precedence, colors []calendar.Color, saints ...string) calendar.DateDef {
	d := calendar.DateDef{
		Key:        key,
		Precedence: p,
		Date:       calendar.OnMonthDay(month, day),
		Colors:     colors,
	}
	if len(saints) > 0 {
		d.Martyrology = martyrology.Refs(saints...)
	}
	return d
}

// GeneralRoman is the universal calendar of the Roman Rite. The Proper of
// Time is generated separately; these are the solemnities, feasts and
// memorials of the Lord, Mary and the saints.
func GeneralRoman() calendar.CalendarDef {
	return calendar.CalendarDef{
		Key: GeneralRomanKey,
		Definitions: []calendar.DateDef{
			// Movable solemnities and memorials
			{
				Key:        "most_holy_trinity",
				Precedence: calendar.PrecedenceGeneralSolemnity,
				Date:       calendar.Always(calendar.Dates.MostHolyTrinity),
				Colors:     white,
			},
			{
				Key:        "most_holy_body_and_blood_of_christ",
				Precedence: calendar.PrecedenceGeneralSolemnity,
				Date:       calendar.Always(calendar.Dates.CorpusChristi),
				Colors:     white,
			},
			{
				Key:        "most_sacred_heart_of_jesus",
				Precedence: calendar.PrecedenceGeneralSolemnity,
				Date:       calendar.Always(calendar.Dates.MostSacredHeart),
				Colors:     white,
			},
			{
				Key:        "our_lord_jesus_christ_king_of_the_universe",
				Precedence: calendar.PrecedenceGeneralSolemnity,
				Date:       calendar.Always(calendar.Dates.ChristTheKing),
				Colors:     white,
			},
			{
				Key:        "mary_mother_of_the_church",
				Precedence: calendar.PrecedenceGeneralMemorial,
				Date:       calendar.Always(calendar.Dates.MaryMotherOfTheChurch),
				Colors:     white,
			},
			{
				Key:        "immaculate_heart_of_mary",
				Precedence: calendar.PrecedenceGeneralMemorial,
				Date:       calendar.Always(calendar.Dates.ImmaculateHeartOfMary),
				Colors:     white,
			},
			{
				Key:         "joseph_spouse_of_mary",
				Precedence:  calendar.PrecedenceGeneralSolemnity,
				Date:        calendar.Always(calendar.Dates.JosephSpouseOfMary),
				Martyrology: martyrology.Refs("joseph_spouse_of_mary"),
				Colors:      white,
			},
			{
				Key:        "annunciation_of_the_lord",
				Precedence: calendar.PrecedenceGeneralSolemnity,
				Date:       calendar.Always(calendar.Dates.Annunciation),
				Colors:     white,
			},
			{
				Key:                 "immaculate_conception_of_mary",
				Precedence:          calendar.PrecedenceGeneralSolemnity,
				Date:                calendar.Always(calendar.Dates.ImmaculateConception),
				HolyDayOfObligation: calendar.HolyDay(true),
				Colors:              white,
			},

			// January
			fixed("basil_the_great_and_gregory_nazianzen_bishops", time.January, 2, calendar.PrecedenceGeneralMemorial, white,
				"basil_the_great_bishop", "gregory_nazianzen_bishop"),
			fixed("agnes_of_rome_virgin", time.January, 21, calendar.PrecedenceGeneralMemorial, nil, "agnes_of_rome_virgin"),
			fixed("francis_de_sales_bishop", time.January, 24, calendar.PrecedenceGeneralMemorial, white, "francis_de_sales_bishop"),
			fixed("conversion_of_saint_paul_apostle", time.January, 25, calendar.PrecedenceGeneralFeast, white, "paul_apostle"),
			fixed("thomas_aquinas_priest", time.January, 28, calendar.PrecedenceGeneralMemorial, white, "thomas_aquinas_priest"),
			fixed("john_bosco_priest", time.January, 31, calendar.PrecedenceGeneralMemorial, white, "john_bosco_priest"),

			// February
			fixed("presentation_of_the_lord", time.February, 2, calendar.PrecedenceGeneralLordFeast, white),
			fixed("blase_of_sebaste_bishop", time.February, 3, calendar.PrecedenceOptionalMemorial, nil, "blase_of_sebaste_bishop"),
			fixed("scholastica_of_nursia_virgin", time.February, 10, calendar.PrecedenceGeneralMemorial, white, "scholastica_of_nursia_virgin"),
			fixed("our_lady_of_lourdes", time.February, 11, calendar.PrecedenceOptionalMemorial, white),
			fixed("cyril_the_philosopher_monk_and_methodius_bishop", time.February, 14, calendar.PrecedenceGeneralMemorial, white,
				"cyril_the_philosopher_monk", "methodius_of_thessaloniki_bishop"),
			fixed("chair_of_saint_peter_apostle", time.February, 22, calendar.PrecedenceGeneralFeast, white, "peter_apostle"),

			// March and April
			fixed("patrick_of_ireland_bishop", time.March, 17, calendar.PrecedenceOptionalMemorial, white, "patrick_of_ireland_bishop"),
			fixed("george_of_lydda_martyr", time.April, 23, calendar.PrecedenceOptionalMemorial, nil, "george_of_lydda_martyr"),
			fixed("mark_evangelist", time.April, 25, calendar.PrecedenceGeneralFeast, red, "mark_evangelist"),
			fixed("catherine_of_siena_virgin", time.April, 29, calendar.PrecedenceGeneralMemorial, white, "catherine_of_siena_virgin"),

			// May
			fixed("joseph_the_worker", time.May, 1, calendar.PrecedenceOptionalMemorial, white, "joseph_spouse_of_mary"),
			fixed("philip_and_james_apostles", time.May, 3, calendar.PrecedenceGeneralFeast, red, "philip_apostle", "james_the_less_apostle"),
			fixed("our_lady_of_fatima", time.May, 13, calendar.PrecedenceOptionalMemorial, white),
			fixed("matthias_apostle", time.May, 14, calendar.PrecedenceGeneralFeast, red, "matthias_apostle"),
			fixed("visitation_of_mary", time.May, 31, calendar.PrecedenceGeneralFeast, white),

			// June
			fixed("birth_of_john_the_baptist", time.June, 24, calendar.PrecedenceGeneralSolemnity, white, "john_the_baptist"),
			{
				Key:                 "peter_and_paul_apostles",
				Precedence:          calendar.PrecedenceGeneralSolemnity,
				Date:                calendar.OnMonthDay(time.June, 29),
				HolyDayOfObligation: calendar.HolyDay(true),
				Martyrology:         martyrology.Refs("peter_apostle", "paul_apostle"),
				Titles:              martyrology.AppendTitles(martyrology.TitleMartyr),
				Colors:              red,
			},

			// July
			fixed("thomas_apostle", time.July, 3, calendar.PrecedenceGeneralFeast, red, "thomas_apostle"),
			fixed("benedict_of_nursia_abbot", time.July, 11, calendar.PrecedenceGeneralMemorial, white, "benedict_of_nursia_abbot"),
			fixed("mary_magdalene", time.July, 22, calendar.PrecedenceGeneralFeast, white, "mary_magdalene"),
			fixed("bridget_of_sweden_religious", time.July, 23, calendar.PrecedenceOptionalMemorial, white, "bridget_of_sweden_religious"),
			fixed("james_apostle", time.July, 25, calendar.PrecedenceGeneralFeast, red, "james_apostle"),
			fixed("joachim_and_anne_parents_of_mary", time.July, 26, calendar.PrecedenceGeneralMemorial, white,
				"joachim_father_of_mary", "anne_mother_of_mary"),

			// August
			fixed("transfiguration_of_the_lord", time.August, 6, calendar.PrecedenceGeneralLordFeast, white),
			fixed("dominic_de_guzman_priest", time.August, 8, calendar.PrecedenceGeneralMemorial, white, "dominic_de_guzman_priest"),
			fixed("teresa_benedicta_of_the_cross_stein_virgin", time.August, 9, calendar.PrecedenceOptionalMemorial, nil,
				"teresa_benedicta_of_the_cross_stein_virgin"),
			fixed("lawrence_of_rome_deacon", time.August, 10, calendar.PrecedenceGeneralFeast, nil, "lawrence_of_rome_deacon"),
			{
				Key:                 "assumption_of_the_blessed_virgin_mary",
				Precedence:          calendar.PrecedenceGeneralSolemnity,
				Date:                calendar.OnMonthDay(time.August, 15),
				HolyDayOfObligation: calendar.HolyDay(true),
				Colors:              white,
			},
			fixed("bartholomew_apostle", time.August, 24, calendar.PrecedenceGeneralFeast, red, "bartholomew_apostle"),
			fixed("augustine_of_hippo_bishop", time.August, 28, calendar.PrecedenceGeneralMemorial, white, "augustine_of_hippo_bishop"),
			{
				Key:        "passion_of_saint_john_the_baptist",
				Precedence: calendar.PrecedenceGeneralMemorial,
				Date:       calendar.OnMonthDay(time.August, 29),
				Martyrology: martyrology.Pointer{
					{Key: "john_the_baptist", Titles: martyrology.AppendTitles(martyrology.TitleMartyr)},
				},
			},

			// September
			fixed("gregory_the_great_pope", time.September, 3, calendar.PrecedenceGeneralMemorial, white, "gregory_the_great_pope"),
			fixed("nativity_of_the_blessed_virgin_mary", time.September, 8, calendar.PrecedenceGeneralFeast, white),
			fixed("exaltation_of_the_holy_cross", time.September, 14, calendar.PrecedenceGeneralLordFeast, red),
			fixed("matthew_apostle", time.September, 21, calendar.PrecedenceGeneralFeast, red, "matthew_apostle"),
			fixed("michael_gabriel_and_raphael_archangels", time.September, 29, calendar.PrecedenceGeneralFeast, white,
				"michael_archangel", "gabriel_archangel", "raphael_archangel"),

			// October
			fixed("guardian_angels", time.October, 2, calendar.PrecedenceGeneralMemorial, white),
			fixed("francis_of_assisi", time.October, 4, calendar.PrecedenceGeneralMemorial, white, "francis_of_assisi"),
			fixed("our_lady_of_the_rosary", time.October, 7, calendar.PrecedenceGeneralMemorial, white),
			fixed("luke_evangelist", time.October, 18, calendar.PrecedenceGeneralFeast, red, "luke_evangelist"),
			fixed("simon_and_jude_apostles", time.October, 28, calendar.PrecedenceGeneralFeast, red, "simon_apostle", "jude_apostle"),

			// November
			{
				Key:                 "all_saints",
				Precedence:          calendar.PrecedenceGeneralSolemnity,
				Date:                calendar.OnMonthDay(time.November, 1),
				HolyDayOfObligation: calendar.HolyDay(true),
				Colors:              white,
			},
			fixed("commemoration_of_all_the_faithful_departed", time.November, 2, calendar.PrecedenceGeneralSolemnity, mourns),
			fixed("charles_borromeo_bishop", time.November, 4, calendar.PrecedenceGeneralMemorial, white, "charles_borromeo_bishop"),
			fixed("dedication_of_the_lateran_basilica", time.November, 9, calendar.PrecedenceGeneralLordFeast, white),
			fixed("martin_of_tours_bishop", time.November, 11, calendar.PrecedenceGeneralMemorial, white, "martin_of_tours_bishop"),
			fixed("cecilia_of_rome_virgin", time.November, 22, calendar.PrecedenceGeneralMemorial, nil, "cecilia_of_rome_virgin"),
			fixed("columban_abbot", time.November, 23, calendar.PrecedenceOptionalMemorial, white, "columban_of_luxeuil_abbot"),
			fixed("andrew_apostle", time.November, 30, calendar.PrecedenceGeneralFeast, red, "andrew_apostle"),

			// December
			fixed("ambrose_of_milan_bishop", time.December, 7, calendar.PrecedenceGeneralMemorial, white, "ambrose_of_milan_bishop"),
			fixed("lucy_of_syracuse_virgin", time.December, 13, calendar.PrecedenceGeneralMemorial, nil, "lucy_of_syracuse_virgin"),
			fixed("john_of_the_cross_priest", time.December, 14, calendar.PrecedenceGeneralMemorial, white, "john_of_the_cross_priest"),
			fixed("stephen_the_first_martyr", time.December, 26, calendar.PrecedenceGeneralFeast, nil, "stephen_the_first_martyr"),
			fixed("john_apostle", time.December, 27, calendar.PrecedenceGeneralFeast, white, "john_apostle"),
			fixed("holy_innocents", time.December, 28, calendar.PrecedenceGeneralFeast, nil, "holy_innocents"),
			fixed("thomas_becket_bishop", time.December, 29, calendar.PrecedenceOptionalMemorial, nil, "thomas_becket_bishop"),
		},
	}
}
