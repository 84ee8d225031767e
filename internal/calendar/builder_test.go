package calendar

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// generate builds one year of the calendar key and fails the test on error.
func generate(t *testing.T, r *Registry, key string, year int, cfg Config, opts ...Option) *Result {
	t.Helper()

	cal, err := r.New(key, cfg, append([]Option{WithLogger(quietLogger)}, opts...)...)
	if err != nil {
		t.Fatalf("New(%q) error = %v", key, err)
	}
	res, err := cal.Generate(year)
	if err != nil {
		t.Fatalf("Generate(%d) error = %v", year, err)
	}
	return res
}

func occupant(t *testing.T, res *Result, dateKey string) LiturgicalDay {
	t.Helper()

	day, ok := res.Days.Occupant(dateKey)
	if !ok {
		t.Fatalf("no occupant on %s", dateKey)
	}
	return day
}

func keys(days []LiturgicalDay) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Key
	}
	return out
}

func TestGenerate_OneOccupantPerDate(t *testing.T) {
	r := newTestRegistry(t,
		CalendarDef{Key: "root", Definitions: []DateDef{
			{Key: "feast", Precedence: PrecedenceGeneralFeast, Date: MonthDay("8-6")},
			{Key: "memorial", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("8-6")},
			{Key: "optional", Precedence: PrecedenceOptionalMemorial, Date: MonthDay("3-12")},
			{Key: "leap", Precedence: PrecedenceOptionalMemorial, Date: OnMonthDay(time.February, 29)},
		}},
	)

	for _, scope := range []Scope{ScopeGregorian, ScopeLiturgical} {
		for year := 2020; year <= 2030; year++ {
			res := generate(t, r, "root", year, Config{Scope: scope})
			data := res.Days

			start, end := span(year, NewDates(Config{Scope: scope}))
			if len(data) != daysBetween(start, end)+1 {
				t.Fatalf("%s %d: %d dates, want %d", scope, year, len(data), daysBetween(start, end)+1)
			}
			for dk, days := range data {
				if len(days) == 0 {
					t.Fatalf("%s %d: %s has no occupant", scope, year, dk)
				}
				for _, d := range days[1:] {
					if d.Precedence < days[0].Precedence {
						t.Errorf("%s %d: %s outranks occupant %s on %s", scope, year, d.Key, days[0].Key, dk)
					}
				}
			}
			if n := len(data.Find("leap")); (year%4 == 0) != (n == 1) && scope == ScopeGregorian {
				t.Errorf("%d: leap day found %d times", year, n)
			}
		}
	}
}

func TestGenerate_EpiphanyOnSunday(t *testing.T) {
	r := newTestRegistry(t, CalendarDef{Key: "root"})

	fixed := generate(t, r, "root", 2024, DefaultConfig())
	if got := occupant(t, fixed, "2024-01-06").Key; got != "epiphany_of_the_lord" {
		t.Errorf("fixed: January 6 = %q, want epiphany_of_the_lord", got)
	}

	moved := generate(t, r, "root", 2024, Config{EpiphanyOnSunday: true})
	if got := occupant(t, moved, "2024-01-07").Key; got != "epiphany_of_the_lord" {
		t.Errorf("on Sunday: January 7 = %q, want epiphany_of_the_lord", got)
	}
	jan6 := occupant(t, moved, "2024-01-06")
	if !jan6.IsProperOfTime() || jan6.Key != "christmas_time_january_6" {
		t.Errorf("on Sunday: January 6 = %q (%s), want the Proper of Time weekday", jan6.Key, jan6.FromCalendar)
	}
	if got := occupant(t, moved, "2024-01-08").Key; got != "baptism_of_the_lord" {
		t.Errorf("on Sunday: January 8 = %q, want baptism_of_the_lord", got)
	}
	if n := len(moved.Days.Find("epiphany_of_the_lord")); n != 1 {
		t.Errorf("Epiphany appears %d times", n)
	}
}

func TestGenerate_SundayTransferRevertsWeekday(t *testing.T) {
	r := newTestRegistry(t, CalendarDef{Key: "root", Definitions: []DateDef{
		{Key: "corpus_christi", Precedence: PrecedenceGeneralSolemnity, Date: Always(Dates.CorpusChristi)},
	}})

	res := generate(t, r, "root", 2025, Config{AscensionOnSunday: true, CorpusChristiOnSunday: true})

	if got := occupant(t, res, "2025-06-01").Key; got != "ascension_of_the_lord" {
		t.Errorf("June 1 = %q, want ascension_of_the_lord", got)
	}
	if got := occupant(t, res, "2025-05-29"); !got.IsProperOfTime() || got.Key != "easter_time_6_thursday" {
		t.Errorf("May 29 = %q, want easter_time_6_thursday", got.Key)
	}
	if got := occupant(t, res, "2025-06-22").Key; got != "corpus_christi" {
		t.Errorf("June 22 = %q, want corpus_christi", got)
	}
	if got := occupant(t, res, "2025-06-19"); !got.IsProperOfTime() {
		t.Errorf("June 19 = %q, want the Proper of Time weekday", got.Key)
	}
}

func TestGenerate_TieBreaks(t *testing.T) {
	r := newTestRegistry(t,
		CalendarDef{Key: "root", Definitions: []DateDef{
			{Key: "sanctorale_solemnity", Precedence: PrecedenceProperOfTimeSolemnity, Date: MonthDay("3-16")},
			{Key: "x_root", Precedence: PrecedenceOptionalMemorial, Date: MonthDay("7-8")},
		}},
		CalendarDef{Key: "child", InheritFrom: "root", Definitions: []DateDef{
			{Key: "y_child", Precedence: PrecedenceOptionalMemorial, Date: MonthDay("7-8")},
		}},
	)

	res := generate(t, r, "child", 2025, DefaultConfig())

	// Same precedence as the second Sunday of Lent: the sanctorale solemnity wins.
	if got := keys(res.Days["2025-03-16"]); got[0] != "sanctorale_solemnity" {
		t.Errorf("March 16 = %v", got)
	}

	// Same precedence, different layers: the more specific calendar first,
	// then the other optional memorial and the weekday as alternatives.
	want := []string{"y_child", "x_root", "ordinary_time_14_tuesday"}
	if diff := cmp.Diff(want, keys(res.Days["2025-07-08"])); diff != "" {
		t.Errorf("July 8 mismatch (-want +got):\n%s", diff)
	}
	if weekday := res.Days["2025-07-08"][2]; !weekday.IsOptional {
		t.Error("weekday kept beside optional memorials should be optional")
	}
}

func TestGenerate_Commemoration(t *testing.T) {
	r := newTestRegistry(t, CalendarDef{Key: "root", Definitions: []DateDef{
		{Key: "lent_memorial", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("3-12")},
		{Key: "sunday_memorial", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("7-13")},
	}})

	res := generate(t, r, "root", 2025, DefaultConfig())

	days := res.Days["2025-03-12"]
	if diff := cmp.Diff([]string{"lent_1_wednesday", "lent_memorial"}, keys(days)); diff != "" {
		t.Fatalf("March 12 mismatch (-want +got):\n%s", diff)
	}
	if !days[1].IsCommemoration {
		t.Error("memorial on a privileged weekday should be a commemoration")
	}

	if diff := cmp.Diff([]string{"ordinary_time_15_sunday"}, keys(res.Days["2025-07-13"])); diff != "" {
		t.Errorf("a memorial on a Sunday is not kept (-want +got):\n%s", diff)
	}
}

func TestGenerate_TransferImpededSolemnity(t *testing.T) {
	r := newTestRegistry(t, CalendarDef{Key: "root", Definitions: []DateDef{
		{Key: "patron", Precedence: PrecedenceProperSolemnityPrincipalPatron, Date: MonthDay("3-16")},
	}})

	res := generate(t, r, "root", 2025, DefaultConfig())

	if diff := cmp.Diff([]string{"lent_2_sunday"}, keys(res.Days["2025-03-16"])); diff != "" {
		t.Errorf("March 16 mismatch (-want +got):\n%s", diff)
	}
	moved := occupant(t, res, "2025-03-17")
	if moved.Key != "patron" {
		t.Fatalf("March 17 = %q, want patron", moved.Key)
	}
	if moved.TransferredFrom == nil || DateKey(*moved.TransferredFrom) != "2025-03-16" {
		t.Errorf("TransferredFrom = %v, want 2025-03-16", moved.TransferredFrom)
	}
	if !moved.Date.Equal(date(2025, time.March, 17)) || moved.Calendar.DayOfWeek != int(time.Monday) {
		t.Errorf("moved day not placed on March 17: %+v", moved)
	}
}

func TestGenerate_MissingMartyrologyKey(t *testing.T) {
	catalog := martyrology.MapCatalog{
		"known": {Key: "known", Titles: []martyrology.Title{martyrology.TitleMartyr}},
	}
	r := newTestRegistry(t, CalendarDef{Key: "root", Definitions: []DateDef{
		{Key: "pair", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("9-16"), Martyrology: martyrology.Refs("known", "ghost")},
		{Key: "other", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("9-17")},
	}})

	res := generate(t, r, "root", 2025, DefaultConfig(), WithCatalog(catalog))

	var lookup *martyrology.LookupError
	if !errors.As(res.Err(), &lookup) {
		t.Fatalf("Err() = %v, want *martyrology.LookupError", res.Err())
	}
	if lookup.Key != "ghost" || lookup.Calendar != "root" || lookup.DayKey != "pair" {
		t.Errorf("LookupError = %+v", lookup)
	}
	if !errors.Is(res.Err(), martyrology.ErrItemNotFound) {
		t.Error("Err() should wrap ErrItemNotFound")
	}

	pair := occupant(t, res, "2025-09-16")
	if pair.Key != "pair" || len(pair.Martyrology) != 1 || pair.Martyrology[0].Key != "known" {
		t.Errorf("pair = %+v", pair)
	}
	if len(pair.Colors) != 1 || pair.Colors[0] != ColorRed {
		t.Errorf("Colors = %v, want red for a martyr", pair.Colors)
	}
	if got := occupant(t, res, "2025-09-17").Key; got != "other" {
		t.Errorf("September 17 = %q, want other", got)
	}
}

func TestGenerate_MalformedDate(t *testing.T) {
	r := newTestRegistry(t, CalendarDef{Key: "root", Definitions: []DateDef{
		{Key: "broken", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("March 3")},
		{Key: "no_date", Precedence: PrecedenceGeneralMemorial},
		{Key: "fine", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("9-17")},
	}})

	res := generate(t, r, "root", 2025, DefaultConfig())

	failed := map[string]bool{}
	for _, p := range res.Problems {
		var def *DefinitionError
		if !errors.As(p, &def) {
			t.Fatalf("problem %v is not a *DefinitionError", p)
		}
		if def.Calendar != "root" {
			t.Errorf("DefinitionError.Calendar = %q, want root", def.Calendar)
		}
		failed[def.Key] = true
	}
	if !failed["broken"] || !failed["no_date"] || len(failed) != 2 {
		t.Errorf("failed keys = %v, want broken and no_date", failed)
	}
	if got := occupant(t, res, "2025-09-17").Key; got != "fine" {
		t.Errorf("September 17 = %q, want fine", got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	catalog := martyrology.MapCatalog{"a": {Key: "a"}, "b": {Key: "b", Count: martyrology.CountMany}}
	r := newTestRegistry(t,
		CalendarDef{Key: "root", Definitions: []DateDef{
			{Key: "one", Precedence: PrecedenceOptionalMemorial, Date: MonthDay("5-5"), Martyrology: martyrology.Refs("a", "b")},
			{Key: "two", Precedence: PrecedenceOptionalMemorial, Date: MonthDay("5-5")},
		}},
		CalendarDef{Key: "child", InheritFrom: "root"},
	)

	first := generate(t, r, "child", 2025, DefaultConfig(), WithCatalog(catalog))
	second := generate(t, r, "child", 2025, DefaultConfig(), WithCatalog(catalog))

	a, err := json.Marshal(first.Days)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	b, err := json.Marshal(second.Days)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two runs with identical inputs produced different output")
	}
	if diff := cmp.Diff(first.Days, second.Days); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func TestBuildAllDates_ReusesBaseline(t *testing.T) {
	r := newTestRegistry(t,
		CalendarDef{Key: "root", Definitions: []DateDef{
			{Key: "root_day", Precedence: PrecedenceGeneralFeast, Date: MonthDay("10-1")},
		}},
		CalendarDef{Key: "child", InheritFrom: "root", Definitions: []DateDef{
			{Key: "child_day", Precedence: PrecedenceGeneralFeast, Date: MonthDay("10-2")},
		}},
	)

	root, err := r.New("root", DefaultConfig(), WithLogger(quietLogger))
	if err != nil {
		t.Fatal(err)
	}
	child, err := r.New("child", DefaultConfig(), WithLogger(quietLogger))
	if err != nil {
		t.Fatal(err)
	}

	in, err := root.BuildAllDates(NewBuiltData(2025))
	if err != nil {
		t.Fatalf("BuildAllDates(root) error = %v", err)
	}
	out, err := child.BuildAllDates(in)
	if err != nil {
		t.Fatalf("BuildAllDates(child) error = %v", err)
	}

	if len(in.Sanctorale) != 1 {
		t.Errorf("input was modified: %d sanctorale dates", len(in.Sanctorale))
	}
	if diff := cmp.Diff([]string{"root", "child"}, out.Layers); diff != "" {
		t.Errorf("Layers mismatch (-want +got):\n%s", diff)
	}
	if len(out.Sanctorale["2025-10-01"]) != 1 || len(out.Sanctorale["2025-10-02"]) != 1 {
		t.Errorf("child build is missing a layer: %v", out.Sanctorale)
	}

	res, err := child.GenerateCalendar(out)
	if err != nil {
		t.Fatalf("GenerateCalendar() error = %v", err)
	}
	if got := occupant(t, res, "2025-10-02").Key; got != "child_day" {
		t.Errorf("October 2 = %q, want child_day", got)
	}

	if _, err := child.BuildAllDates(NewBuiltData(1400)); err == nil {
		t.Error("BuildAllDates() should reject years before the Gregorian reform")
	}
	if _, err := child.GenerateCalendar(&BuiltData{}); err == nil {
		t.Error("GenerateCalendar() should reject empty build data")
	}
}

func TestCalendar_UpdateConfig(t *testing.T) {
	r := newTestRegistry(t, CalendarDef{Key: "root"})
	cal, err := r.New("root", DefaultConfig(), WithLogger(quietLogger))
	if err != nil {
		t.Fatal(err)
	}

	bad := Scope("julian")
	if err := cal.UpdateConfig(ConfigInput{Scope: &bad}); err == nil {
		t.Error("UpdateConfig() should reject an invalid scope")
	}
	if cal.Config().Scope != ScopeGregorian {
		t.Errorf("failed update changed the scope to %q", cal.Config().Scope)
	}

	in, err := ParseConfigInput(map[string]string{OptionEpiphanyOnSunday: "true"})
	if err != nil {
		t.Fatal(err)
	}
	if err := cal.UpdateConfig(in); err != nil {
		t.Fatalf("UpdateConfig() error = %v", err)
	}
	res, err := cal.Generate(2024)
	if err != nil {
		t.Fatal(err)
	}
	if got := occupant(t, res, "2024-01-07").Key; got != "epiphany_of_the_lord" {
		t.Errorf("January 7 after update = %q, want epiphany_of_the_lord", got)
	}
}

func TestGenerate_YearOutOfRange(t *testing.T) {
	cal, err := newTestRegistry(t, CalendarDef{Key: "root"}).New("root", DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, year := range []int{MinYear - 1, MaxYear + 1} {
		if _, err := cal.Generate(year); !errors.Is(err, ErrYearOutOfRange) {
			t.Errorf("Generate(%d) error = %v, want ErrYearOutOfRange", year, err)
		}
	}
}

func TestCalendar_DefinitionsAreCopies(t *testing.T) {
	catalog := martyrology.MapCatalog{"a": {Key: "a"}}
	r := newTestRegistry(t, CalendarDef{Key: "root", Definitions: []DateDef{
		{Key: "feast", Precedence: PrecedenceGeneralFeast, Date: MonthDay("8-6"),
			Colors: []Color{ColorWhite}, Martyrology: martyrology.Refs("a")},
	}})

	cal, err := r.New("root", DefaultConfig(), WithLogger(quietLogger), WithCatalog(catalog))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	defs := cal.Definitions()
	defs[0].Colors[0] = ColorRed
	defs[0].Martyrology[0] = martyrology.Ref("missing")

	res, err := cal.Generate(2025)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	day := occupant(t, res, "2025-08-06")
	if diff := cmp.Diff([]Color{ColorWhite}, day.Colors); diff != "" {
		t.Errorf("Colors after editing Definitions() (-want +got):\n%s", diff)
	}
	if len(day.Martyrology) != 1 || day.Martyrology[0].Key != "a" {
		t.Errorf("Martyrology = %v, want the registered link", day.Martyrology)
	}
	if len(res.Problems) != 0 {
		t.Errorf("Problems = %v", res.Problems)
	}
}

func TestGenerate_NilFunctions(t *testing.T) {
	catalog := martyrology.MapCatalog{"a": {Key: "a"}}
	r := newTestRegistry(t,
		CalendarDef{Key: "root", Definitions: []DateDef{
			{Key: "nil_titles", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("9-10"),
				Martyrology: martyrology.Refs("a"), Titles: martyrology.ExtendTitles(nil)},
			{Key: "nil_item_titles", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("9-11"),
				Martyrology: martyrology.Pointer{{Key: "a", Titles: martyrology.ExtendTitles(nil)}}},
			{Key: "nil_holy_day", Precedence: PrecedenceGeneralSolemnity, Date: MonthDay("9-12"),
				HolyDayOfObligation: HolyDayFunc(nil)},
			{Key: "inherited", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("9-15"),
				Titles: martyrology.AppendTitles(martyrology.TitleMartyr)},
			{Key: "fine", Precedence: PrecedenceGeneralMemorial, Date: MonthDay("9-17")},
		}},
		CalendarDef{Key: "child", InheritFrom: "root", Definitions: []DateDef{
			{Key: "inherited", Titles: martyrology.ExtendTitles(nil)},
		}},
	)

	res := generate(t, r, "child", 2025, DefaultConfig(), WithCatalog(catalog))

	failed := map[string]bool{}
	for _, p := range res.Problems {
		var def *DefinitionError
		if !errors.As(p, &def) {
			t.Fatalf("problem %v is not a *DefinitionError", p)
		}
		failed[def.Key] = true
	}
	want := map[string]bool{"nil_titles": true, "nil_item_titles": true, "nil_holy_day": true, "inherited": true}
	if diff := cmp.Diff(want, failed); diff != "" {
		t.Errorf("failed keys (-want +got):\n%s", diff)
	}
	if !errors.Is(res.Err(), martyrology.ErrNilTitlesFunc) {
		t.Errorf("Err() = %v, want ErrNilTitlesFunc among the problems", res.Err())
	}
	if got := occupant(t, res, "2025-09-17").Key; got != "fine" {
		t.Errorf("September 17 = %q, want fine", got)
	}
	if len(res.Days.Find("nil_holy_day")) != 0 {
		t.Error("nil_holy_day was emitted")
	}
}
