package calendar

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

// Years outside this range are rejected; the Gregorian computus is only
// meaningful from 1583 on.
const (
	MinYear = 1583
	MaxYear = 4099
)

var (
	errMissingPrecedence = errors.New("precedence is not set")
	errMissingDate       = errors.New("date is not set")

	// ErrNoTransferDate is reported when an impeded solemnity finds no free
	// date before the end of the generated span.
	ErrNoTransferDate = errors.New("no free date to transfer to")

	ErrYearOutOfRange = errors.New("year out of range")
)

// Option configures a Calendar.
type Option func(*Calendar)

// WithCatalog sets the martyrology catalog pointers are resolved against.
func WithCatalog(c martyrology.Catalog) Option {
	return func(cal *Calendar) {
		cal.linker = martyrology.NewLinker(c)
	}
}

// WithLogger sets the logger problems are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(cal *Calendar) {
		if l != nil {
			cal.logger = l
		}
	}
}

// Calendar is a resolved calendar bound to a configuration. It is safe for
// concurrent generation; UpdateConfig is the only mutating operation.
type Calendar struct {
	key      string
	resolved *Resolved
	depth    map[string]int
	linker   *martyrology.Linker
	logger   *slog.Logger

	mu     sync.RWMutex
	global Config
}

// New resolves the calendar key and binds it to the global configuration.
// Inheritance errors are returned here, before any year is generated.
func (r *Registry) New(key string, global Config, opts ...Option) (*Calendar, error) {
	resolved, err := r.Resolve(key)
	if err != nil {
		return nil, err
	}
	if !global.scope().IsValid() {
		return nil, fmt.Errorf("%s must be one of: gregorian, liturgical; got %q", OptionScope, global.Scope)
	}

	c := &Calendar{
		key:      key,
		resolved: resolved,
		depth:    make(map[string]int, len(resolved.Chain)),
		linker:   martyrology.NewLinker(martyrology.DefaultCatalog()),
		logger:   slog.Default(),
		global:   global,
	}
	for i, k := range resolved.Chain {
		c.depth[k] = i
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Key returns the calendar key.
func (c *Calendar) Key() string { return c.key }

// Chain returns the inheritance chain, root first.
func (c *Calendar) Chain() []string { return slices.Clone(c.resolved.Chain) }

// Definitions returns a copy of the merged definitions of the calendar.
// Changing it does not affect the calendar.
func (c *Calendar) Definitions() []ResolvedDef {
	out := make([]ResolvedDef, len(c.resolved.Definitions))
	for i, def := range c.resolved.Definitions {
		out[i] = def
		out[i].DateDef = def.DateDef.clone()
	}
	return out
}

// Config returns the effective configuration: the global options with the
// calendar's particular overrides applied.
func (c *Calendar) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolved.Particular.Apply(c.global)
}

// UpdateConfig merges a partial configuration into the global options the
// calendar is bound to. Particular overrides still take precedence.
func (c *Calendar) UpdateConfig(in ConfigInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.global.Merge(in)
	if err != nil {
		return err
	}
	c.global = next
	return nil
}

// Dates returns the date helpers for the effective configuration.
func (c *Calendar) Dates() Dates {
	return NewDates(c.Config())
}

// -----------------------------------------------------------------
// Build
// -----------------------------------------------------------------

// BuiltData is the accumulated build context of one year: the Proper of
// Time baseline and the dated candidates of every calendar layer.
type BuiltData struct {
	Year   int
	Config Config
	Start  time.Time
	End    time.Time

	// Layers lists the calendars whose definitions are included, root first.
	Layers []string

	ProperOfTime map[string]LiturgicalDay
	Sanctorale   map[string][]LiturgicalDay
	Problems     []error
}

// NewBuiltData starts an empty build context for year.
func NewBuiltData(year int) *BuiltData {
	return &BuiltData{Year: year}
}

// BuildAllDates returns a new build context holding this calendar's
// contribution. The input is not modified. Its Proper of Time baseline is
// reused when it was built for the same span and options; its sanctorale is
// replaced, since the merged definitions already carry every ancestor layer.
func (c *Calendar) BuildAllDates(in *BuiltData) (*BuiltData, error) {
	if in == nil {
		return nil, errors.New("build data is nil")
	}
	if in.Year < MinYear || in.Year > MaxYear {
		return nil, fmt.Errorf("%w: %d not in %d-%d", ErrYearOutOfRange, in.Year, MinYear, MaxYear)
	}

	cfg := c.Config()
	dates := NewDates(cfg)
	start, end := span(in.Year, dates)

	out := &BuiltData{
		Year:       in.Year,
		Config:     cfg,
		Start:      start,
		End:        end,
		Layers:     slices.Clone(c.resolved.Chain),
		Sanctorale: make(map[string][]LiturgicalDay),
	}
	if in.ProperOfTime != nil && in.Config == cfg && in.Start.Equal(start) && in.End.Equal(end) {
		out.ProperOfTime = maps.Clone(in.ProperOfTime)
	} else {
		out.ProperOfTime = NewProperOfTime(dates).Range(start, end)
	}

	for _, def := range c.resolved.Definitions {
		days, problems := c.evaluate(def, out, dates)
		out.Problems = append(out.Problems, problems...)
		for _, d := range days {
			dk := DateKey(d.Date)
			out.Sanctorale[dk] = append(out.Sanctorale[dk], d)
		}
	}
	return out, nil
}

// span returns the first and last date generated for a year.
func span(year int, d Dates) (time.Time, time.Time) {
	if d.Config().scope() == ScopeLiturgical {
		return d.FirstSundayOfAdvent(year - 1), d.FirstSundayOfAdvent(year).AddDate(0, 0, -1)
	}
	return date(year, time.January, 1), date(year, time.December, 31)
}

// evaluate dates one merged definition over every civil year of the span.
func (c *Calendar) evaluate(def ResolvedDef, data *BuiltData, dates Dates) ([]LiturgicalDay, []error) {
	if def.Precedence == 0 {
		return nil, []error{&DefinitionError{Calendar: c.key, Key: def.Key, Err: errMissingPrecedence}}
	}
	if def.Date == nil {
		return nil, []error{&DefinitionError{Calendar: c.key, Key: def.Key, Err: errMissingDate}}
	}
	if err := def.checkFuncs(); err != nil {
		return nil, []error{&DefinitionError{Calendar: c.key, Key: def.Key, Err: err}}
	}

	var days []LiturgicalDay
	var links []martyrology.Link
	var problems []error
	linked := false

	for year := data.Start.Year(); year <= data.End.Year(); year++ {
		t, ok, err := def.Date.resolve(year, dates)
		if err != nil {
			return nil, append(problems, &DefinitionError{Calendar: c.key, Key: def.Key, Err: err})
		}
		if !ok {
			continue
		}
		base, inSpan := data.ProperOfTime[DateKey(t)]
		if !inSpan {
			continue
		}
		if !linked {
			links, problems = c.linker.Link(def.Calendar, def.Key, def.Martyrology, def.Titles)
			linked = true
		}
		days = append(days, sanctoraleDay(def, year, t, base, links))
	}
	return days, problems
}

func sanctoraleDay(def ResolvedDef, year int, t time.Time, base LiturgicalDay, links []martyrology.Link) LiturgicalDay {
	day := LiturgicalDay{
		Key:             def.Key,
		Name:            def.Key,
		CustomLocaleKey: def.CustomLocaleKey,
		Precedence:      def.Precedence,
		Rank:            def.Precedence.Rank(),
		Colors:          slices.Clone(def.Colors),
		FromCalendar:    def.Calendar,
		IsOptional:      def.Precedence == PrecedenceOptionalMemorial,
	}
	if links != nil {
		day.Martyrology = make([]martyrology.Link, len(links))
		for i, l := range links {
			day.Martyrology[i] = l.Clone()
		}
	}
	if len(day.Colors) == 0 {
		day.Colors = []Color{defaultColor(links)}
	}
	if def.HolyDayOfObligation != nil {
		day.HolyDayOfObligation = def.HolyDayOfObligation.holyDay(year)
	}
	if t.Weekday() == time.Sunday && def.Precedence.IsFeastOrHigher() {
		day.HolyDayOfObligation = true
	}

	day = placeOn(day, t, base)
	day.Cycles.ProperCycle = ProperCycleOfSaints
	if def.ProperCycle != "" {
		day.Cycles.ProperCycle = def.ProperCycle
	}
	return day
}

// placeOn moves a sanctorale day onto t, taking the seasonal data of the
// Proper of Time day found there.
func placeOn(day LiturgicalDay, t time.Time, base LiturgicalDay) LiturgicalDay {
	proper := day.Cycles.ProperCycle
	day.Date = t
	day.Seasons = slices.Clone(base.Seasons)
	day.Periods = slices.Clone(base.Periods)
	day.Calendar = base.Calendar
	day.Cycles = base.Cycles
	if proper != "" {
		day.Cycles.ProperCycle = proper
	}
	return day
}

func defaultColor(links []martyrology.Link) Color {
	for _, l := range links {
		if l.HasTitle(martyrology.TitleMartyr) {
			return ColorRed
		}
	}
	return ColorWhite
}

// -----------------------------------------------------------------
// Generate
// -----------------------------------------------------------------

// Result is a generated calendar together with the problems collected on
// the way. Problems never stop a date from being filled.
type Result struct {
	CalendarKey string             `json:"calendar"`
	Year        int                `json:"year"`
	Config      Config             `json:"config"`
	Days        LiturgicalCalendar `json:"days"`
	Problems    []error            `json:"-"`
}

// Err joins the collected problems, or returns nil.
func (r *Result) Err() error {
	return errors.Join(r.Problems...)
}

// Warnings returns the problem messages.
func (r *Result) Warnings() []string {
	out := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		out[i] = p.Error()
	}
	return out
}

// Generate builds and resolves the calendar of one year.
func (c *Calendar) Generate(year int) (*Result, error) {
	data, err := c.BuildAllDates(NewBuiltData(year))
	if err != nil {
		return nil, err
	}
	return c.GenerateCalendar(data)
}

// GenerateCalendar resolves every date of the build context to one occupant
// followed by its retained secondary celebrations.
func (c *Calendar) GenerateCalendar(data *BuiltData) (*Result, error) {
	if data == nil || len(data.ProperOfTime) == 0 {
		return nil, errors.New("build data has no Proper of Time baseline")
	}

	keys := slices.Sorted(maps.Keys(data.ProperOfTime))
	pending := make(map[string][]LiturgicalDay, len(keys))
	for _, dk := range keys {
		cands := make([]LiturgicalDay, 0, 1+len(data.Sanctorale[dk]))
		cands = append(cands, data.ProperOfTime[dk].clone())
		for _, d := range data.Sanctorale[dk] {
			cands = append(cands, d.clone())
		}
		pending[dk] = cands
	}

	problems := slices.Clone(data.Problems)
	out := make(LiturgicalCalendar, len(keys))

	for i, dk := range keys {
		cands := pending[dk]
		slices.SortStableFunc(cands, c.compare)

		var rest, impeded []LiturgicalDay
		for _, d := range cands[1:] {
			if !d.IsProperOfTime() && d.Precedence.IsSolemnity() {
				impeded = append(impeded, d)
				continue
			}
			rest = append(rest, d)
		}
		out[dk] = retain(cands[0], rest)

		for _, sol := range impeded {
			if !transfer(sol, keys[i+1:], pending, data.ProperOfTime) {
				problems = append(problems, &DefinitionError{Calendar: c.key, Key: sol.Key, Err: ErrNoTransferDate})
			}
		}
	}

	for _, p := range problems {
		c.logger.Warn("calendar generation problem",
			slog.String("calendar", c.key),
			slog.Int("year", data.Year),
			slog.Any("error", p))
	}

	return &Result{
		CalendarKey: c.key,
		Year:        data.Year,
		Config:      data.Config,
		Days:        out,
		Problems:    problems,
	}, nil
}

// compare orders candidates: precedence first, then sanctorale solemnities,
// the Proper of Time and other sanctorale days; among sanctorale days the
// more specific calendar wins, then the key.
func (c *Calendar) compare(a, b LiturgicalDay) int {
	if n := cmp.Compare(a.Precedence, b.Precedence); n != 0 {
		return n
	}
	if n := cmp.Compare(category(a), category(b)); n != 0 {
		return n
	}
	if n := cmp.Compare(c.layerDepth(b), c.layerDepth(a)); n != 0 {
		return n
	}
	return strings.Compare(a.Key, b.Key)
}

func category(d LiturgicalDay) int {
	switch {
	case !d.IsProperOfTime() && d.Precedence.IsSolemnity():
		return 0
	case d.IsProperOfTime():
		return 1
	default:
		return 2
	}
}

func (c *Calendar) layerDepth(d LiturgicalDay) int {
	if n, ok := c.depth[d.FromCalendar]; ok {
		return n
	}
	return -1
}

func isMemorial(p Precedence) bool {
	return p >= PrecedenceGeneralMemorial && p <= PrecedenceOptionalMemorial
}

// retain keeps the losing candidates that may still be celebrated.
func retain(occupant LiturgicalDay, rest []LiturgicalDay) []LiturgicalDay {
	out := []LiturgicalDay{occupant}
	for _, d := range rest {
		switch {
		case occupant.Precedence == PrecedencePrivilegedWeekday && isMemorial(d.Precedence):
			d.IsCommemoration = true
			d.IsOptional = false
			out = append(out, d)
		case occupant.Precedence == PrecedenceOptionalMemorial && d.Precedence == PrecedenceOptionalMemorial:
			out = append(out, d)
		case occupant.Precedence == PrecedenceOptionalMemorial && d.IsProperOfTime():
			d.IsOptional = true
			out = append(out, d)
		}
	}
	return out
}

// transfer moves an impeded solemnity to the first following date whose
// best candidate ranks below a feast.
func transfer(sol LiturgicalDay, after []string, pending map[string][]LiturgicalDay, baseline map[string]LiturgicalDay) bool {
	for _, dk := range after {
		best := PrecedenceWeekday + 1
		for _, d := range pending[dk] {
			best = min(best, d.Precedence)
		}
		if best < PrecedencePrivilegedWeekday {
			continue
		}
		from := sol.Date
		moved := placeOn(sol, baseline[dk].Date, baseline[dk])
		moved.TransferredFrom = &from
		pending[dk] = append(pending[dk], moved)
		return true
	}
	return false
}
