package calendar

import "time"

// GetLiturgicalYear returns the starting year of the liturgical year
// that contains the given date.
//
// The liturgical year is identified by the year in which its Advent begins.
// For example, the liturgical year "2024" runs from Advent 2024 through
// the Saturday before Advent 2025.
func GetLiturgicalYear(t time.Time) int {
	year := t.Year()
	if truncate(t).Before(CalculateAdvent(year)) {
		return year - 1
	}
	return year
}

// GetSundayCycle determines the Sunday lectionary cycle for a date.
//
// The cycle is named after the calendar year in which the liturgical year
// ends:
//   - Advent 2022 to Advent 2023 (ends 2023): Year A
//   - Advent 2023 to Advent 2024 (ends 2024): Year B
//   - Advent 2024 to Advent 2025 (ends 2025): Year C
func GetSundayCycle(t time.Time) SundayCycle {
	switch (GetLiturgicalYear(t) + 1) % 3 {
	case 1:
		return SundayCycleA
	case 2:
		return SundayCycleB
	default:
		return SundayCycleC
	}
}

// GetWeekdayCycle determines the weekday lectionary cycle for a date.
// Liturgical years ending in an odd year use Year 1.
func GetWeekdayCycle(t time.Time) WeekdayCycle {
	if (GetLiturgicalYear(t)+1)%2 == 1 {
		return WeekdayCycle1
	}
	return WeekdayCycle2
}

// psalterWeek maps a week of season onto the four-week psalter.
func psalterWeek(weekOfSeason int) int {
	if weekOfSeason < 1 {
		return 1
	}
	return ((weekOfSeason - 1) % 4) + 1
}
