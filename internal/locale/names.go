package locale

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
)

// Proper of Time keys and the template that names them. Order matters:
// "easter_time_" must be tried before "easter_".
var properOfTimePatterns = []struct {
	re       *regexp.Regexp
	template string
}{
	{regexp.MustCompile(`^advent_december_(\d+)$`), "advent_december"},
	{regexp.MustCompile(`^advent_(\d+)_sunday$`), "advent_sunday"},
	{regexp.MustCompile(`^advent_(\d+)_[a-z]+$`), "advent_weekday"},
	{regexp.MustCompile(`^christmas_octave_day_(\d+)$`), "christmas_octave_day"},
	{regexp.MustCompile(`^christmas_time_january_(\d+)$`), "christmas_time_january"},
	{regexp.MustCompile(`^[a-z]+_after_epiphany$`), "after_epiphany"},
	{regexp.MustCompile(`^ordinary_time_(\d+)_sunday$`), "ordinary_time_sunday"},
	{regexp.MustCompile(`^ordinary_time_(\d+)_[a-z]+$`), "ordinary_time_weekday"},
	{regexp.MustCompile(`^[a-z]+_after_ash_wednesday$`), "after_ash_wednesday"},
	{regexp.MustCompile(`^lent_(\d+)_sunday$`), "lent_sunday"},
	{regexp.MustCompile(`^lent_(\d+)_[a-z]+$`), "lent_weekday"},
	{regexp.MustCompile(`^holy_[a-z]+$`), "holy_week"},
	{regexp.MustCompile(`^paschal_triduum_[a-z]+$`), "paschal_triduum"},
	{regexp.MustCompile(`^easter_time_(\d+)_sunday$`), "easter_sunday"},
	{regexp.MustCompile(`^easter_time_(\d+)_[a-z]+$`), "easter_weekday"},
	{regexp.MustCompile(`^easter_[a-z]+$`), "easter_octave"},
}

func (d *Dictionary) properOfTimeName(day calendar.LiturgicalDay) (string, bool) {
	for _, p := range properOfTimePatterns {
		m := p.re.FindStringSubmatch(day.Key)
		if m == nil {
			continue
		}
		tmpl, ok := lookup(d, func(f dictionaryFile) (string, bool) {
			s, ok := f.ProperOfTime[p.template]
			return s, ok
		})
		if !ok {
			return "", false
		}

		n := 0
		if len(m) > 1 {
			n, _ = strconv.Atoi(m[1])
		}
		r := strings.NewReplacer(
			"{weekday}", d.weekday(day.Date.Weekday()),
			"{month}", d.month(day.Date.Month()),
			"{week}", Ordinal(n),
			"{nth}", Ordinal(n),
			"{day}", strconv.Itoa(n),
		)
		return r.Replace(tmpl), true
	}
	return "", false
}

func (d *Dictionary) weekday(w time.Weekday) string {
	s, ok := lookup(d, func(f dictionaryFile) (string, bool) {
		if len(f.Weekdays) == 7 {
			return f.Weekdays[w], true
		}
		return "", false
	})
	if !ok {
		return DayName(w)
	}
	return s
}

func (d *Dictionary) month(m time.Month) string {
	s, ok := lookup(d, func(f dictionaryFile) (string, bool) {
		if len(f.Months) == 12 {
			return f.Months[m-1], true
		}
		return "", false
	})
	if !ok {
		return m.String()
	}
	return s
}

// humanize turns "some_key" into "Some Key" using the locale's casing rules.
func (d *Dictionary) humanize(key string) string {
	return cases.Title(d.tag).String(strings.ReplaceAll(key, "_", " "))
}

// DayName returns the English day of week name (Sunday, Monday, etc.)
func DayName(w time.Weekday) string {
	return w.String()
}

// Ordinal returns the English ordinal form of a number (1st, 2nd, 3rd,
// 4th, 11th, 21st, etc.)
func Ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}
