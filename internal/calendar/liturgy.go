package calendar

import (
	"fmt"
	"slices"
)

// -----------------------------------------------------------------
// Precedence
// -----------------------------------------------------------------

// Precedence is the position of a liturgical day in the Table of
// Liturgical Days. Lower values outrank higher ones. The zero value means
// "not set" and is only meaningful on a DateDef, where it inherits.
type Precedence int

const (
	PrecedenceTriduum Precedence = iota + 1
	PrecedenceProperOfTimeSolemnity
	PrecedenceGeneralSolemnity
	PrecedenceProperSolemnityPrincipalPatron
	PrecedenceProperSolemnityDedicationOfOwnChurch
	PrecedenceProperSolemnityTitleOfOwnChurch
	PrecedenceProperSolemnityOfReligiousOrder
	PrecedenceGeneralLordFeast
	PrecedenceSundayOfChristmasAndOrdinaryTime
	PrecedenceGeneralFeast
	PrecedenceProperFeastPrincipalPatronOfDiocese
	PrecedenceProperFeastDedicationOfCathedral
	PrecedenceProperFeastPrincipalPatronOfRegion
	PrecedenceProperFeastOfReligiousOrder
	PrecedenceProperFeastOfIndividualChurch
	PrecedenceProperFeast
	PrecedencePrivilegedWeekday
	PrecedenceGeneralMemorial
	PrecedenceProperMemorialSecondPatron
	PrecedenceProperMemorial
	PrecedenceOptionalMemorial
	PrecedenceWeekday
)

var precedenceNames = map[Precedence]string{
	PrecedenceTriduum:                              "TRIDUUM_1",
	PrecedenceProperOfTimeSolemnity:                "PROPER_OF_TIME_SOLEMNITY_2",
	PrecedenceGeneralSolemnity:                     "GENERAL_SOLEMNITY_3",
	PrecedenceProperSolemnityPrincipalPatron:       "PROPER_SOLEMNITY__PRINCIPAL_PATRON_4A",
	PrecedenceProperSolemnityDedicationOfOwnChurch: "PROPER_SOLEMNITY__DEDICATION_OF_OWN_CHURCH_4B",
	PrecedenceProperSolemnityTitleOfOwnChurch:      "PROPER_SOLEMNITY__TITLE_OF_OWN_CHURCH_4C",
	PrecedenceProperSolemnityOfReligiousOrder:      "PROPER_SOLEMNITY__RELIGIOUS_ORDER_4D",
	PrecedenceGeneralLordFeast:                     "GENERAL_LORD_FEAST_5",
	PrecedenceSundayOfChristmasAndOrdinaryTime:     "SUNDAY_OF_CHRISTMAS_ORDINARY_TIME_6",
	PrecedenceGeneralFeast:                         "GENERAL_FEAST_7",
	PrecedenceProperFeastPrincipalPatronOfDiocese:  "PROPER_FEAST__PRINCIPAL_PATRON_OF_DIOCESE_8A",
	PrecedenceProperFeastDedicationOfCathedral:     "PROPER_FEAST__DEDICATION_OF_CATHEDRAL_8B",
	PrecedenceProperFeastPrincipalPatronOfRegion:   "PROPER_FEAST__PRINCIPAL_PATRON_OF_REGION_8C",
	PrecedenceProperFeastOfReligiousOrder:          "PROPER_FEAST__RELIGIOUS_ORDER_8D",
	PrecedenceProperFeastOfIndividualChurch:        "PROPER_FEAST__INDIVIDUAL_CHURCH_8E",
	PrecedenceProperFeast:                          "PROPER_FEAST_8F",
	PrecedencePrivilegedWeekday:                    "PRIVILEGED_WEEKDAY_9",
	PrecedenceGeneralMemorial:                      "GENERAL_MEMORIAL_10",
	PrecedenceProperMemorialSecondPatron:           "PROPER_MEMORIAL__SECOND_PATRON_11A",
	PrecedenceProperMemorial:                       "PROPER_MEMORIAL_11B",
	PrecedenceOptionalMemorial:                     "OPTIONAL_MEMORIAL_12",
	PrecedenceWeekday:                              "WEEKDAY_13",
}

// String returns the canonical key of the precedence, e.g. "GENERAL_FEAST_7".
func (p Precedence) String() string {
	if name, ok := precedenceNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PRECEDENCE(%d)", int(p))
}

// IsValid reports whether p is one of the defined precedences.
func (p Precedence) IsValid() bool {
	_, ok := precedenceNames[p]
	return ok
}

// MarshalText encodes the precedence by its canonical key.
func (p Precedence) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid precedence %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a canonical precedence key.
func (p *Precedence) UnmarshalText(text []byte) error {
	parsed, err := ParsePrecedence(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePrecedence returns the precedence with the given canonical key.
func ParsePrecedence(s string) (Precedence, error) {
	for p, name := range precedenceNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown precedence %q", s)
}

// IsSolemnity reports whether the precedence belongs to a solemnity
// (rows 1 to 4 of the table).
func (p Precedence) IsSolemnity() bool {
	return p >= PrecedenceTriduum && p <= PrecedenceProperSolemnityOfReligiousOrder
}

// IsFeastOrHigher reports whether p is listed in rows 1 to 8 of the table.
func (p Precedence) IsFeastOrHigher() bool {
	return p >= PrecedenceTriduum && p <= PrecedenceProperFeast
}

// Rank returns the default rank for a day with this precedence.
// The Proper of Time sets ranks explicitly where they differ.
func (p Precedence) Rank() Rank {
	switch {
	case p.IsSolemnity():
		return RankSolemnity
	case p == PrecedenceSundayOfChristmasAndOrdinaryTime:
		return RankSunday
	case p == PrecedenceGeneralLordFeast, p >= PrecedenceGeneralFeast && p <= PrecedenceProperFeast:
		return RankFeast
	case p >= PrecedenceGeneralMemorial && p <= PrecedenceProperMemorial:
		return RankMemorial
	case p == PrecedenceOptionalMemorial:
		return RankOptionalMemorial
	default:
		return RankWeekday
	}
}

// -----------------------------------------------------------------
// Rank, colors, seasons, periods, cycles
// -----------------------------------------------------------------

// Rank is the liturgical grade of a day.
type Rank string

const (
	RankSolemnity        Rank = "SOLEMNITY"
	RankSunday           Rank = "SUNDAY"
	RankFeast            Rank = "FEAST"
	RankMemorial         Rank = "MEMORIAL"
	RankOptionalMemorial Rank = "OPTIONAL_MEMORIAL"
	RankWeekday          Rank = "WEEKDAY"
)

// Color is a liturgical color.
type Color string

const (
	ColorBlack  Color = "BLACK"
	ColorGold   Color = "GOLD"
	ColorGreen  Color = "GREEN"
	ColorPurple Color = "PURPLE"
	ColorRed    Color = "RED"
	ColorRose   Color = "ROSE"
	ColorWhite  Color = "WHITE"
)

// ValidColors returns all liturgical colors.
func ValidColors() []Color {
	return []Color{ColorBlack, ColorGold, ColorGreen, ColorPurple, ColorRed, ColorRose, ColorWhite}
}

// IsValid checks if a color is valid.
func (c Color) IsValid() bool {
	return slices.Contains(ValidColors(), c)
}

// Season represents a liturgical season.
type Season string

const (
	SeasonAdvent         Season = "ADVENT"
	SeasonChristmasTime  Season = "CHRISTMAS_TIME"
	SeasonOrdinaryTime   Season = "ORDINARY_TIME"
	SeasonLent           Season = "LENT"
	SeasonPaschalTriduum Season = "PASCHAL_TRIDUUM"
	SeasonEasterTime     Season = "EASTER_TIME"
)

// ValidSeasons returns all valid liturgical seasons.
func ValidSeasons() []Season {
	return []Season{
		SeasonAdvent,
		SeasonChristmasTime,
		SeasonOrdinaryTime,
		SeasonLent,
		SeasonPaschalTriduum,
		SeasonEasterTime,
	}
}

// IsValid checks if a season is valid.
func (s Season) IsValid() bool {
	return slices.Contains(ValidSeasons(), s)
}

// Period is a stretch of the year that cuts across seasons, such as an
// octave or the days before Epiphany.
type Period string

const (
	PeriodDaysBeforeChristmas              Period = "DAYS_BEFORE_CHRISTMAS"
	PeriodChristmasOctave                  Period = "CHRISTMAS_OCTAVE"
	PeriodDaysBeforeEpiphany               Period = "DAYS_BEFORE_EPIPHANY"
	PeriodDaysFromEpiphany                 Period = "DAYS_FROM_EPIPHANY"
	PeriodChristmasToPresentationOfTheLord Period = "CHRISTMAS_TO_PRESENTATION_OF_THE_LORD"
	PeriodPresentationToHolyThursday       Period = "PRESENTATION_OF_THE_LORD_TO_HOLY_THURSDAY"
	PeriodHolyWeek                         Period = "HOLY_WEEK"
	PeriodPaschalTriduum                   Period = "PASCHAL_TRIDUUM"
	PeriodEasterOctave                     Period = "EASTER_OCTAVE"
	PeriodEarlyOrdinaryTime                Period = "EARLY_ORDINARY_TIME"
	PeriodLateOrdinaryTime                 Period = "LATE_ORDINARY_TIME"
)

// ProperCycle tells whether a day belongs to the Proper of Time or to the
// Proper of Saints.
type ProperCycle string

const (
	ProperCycleOfTime   ProperCycle = "PROPER_OF_TIME"
	ProperCycleOfSaints ProperCycle = "PROPER_OF_SAINTS"
)

// SundayCycle is the three-year Sunday lectionary cycle.
type SundayCycle string

const (
	SundayCycleA SundayCycle = "YEAR_A"
	SundayCycleB SundayCycle = "YEAR_B"
	SundayCycleC SundayCycle = "YEAR_C"
)

// WeekdayCycle is the two-year weekday lectionary cycle.
type WeekdayCycle string

const (
	WeekdayCycle1 WeekdayCycle = "YEAR_1"
	WeekdayCycle2 WeekdayCycle = "YEAR_2"
)

// Cycles groups the cycle tags of a liturgical day.
type Cycles struct {
	ProperCycle  ProperCycle  `json:"proper_cycle"`
	SundayCycle  SundayCycle  `json:"sunday_cycle"`
	WeekdayCycle WeekdayCycle `json:"weekday_cycle"`
	PsalterWeek  int          `json:"psalter_week"`
}
