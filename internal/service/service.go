// Package service generates calendars on demand and keeps the results in a
// store so the same calendar, year and options are only resolved once.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/database"
	applog "github.com/zapponejosh/liturgical-calendar/internal/logger"
	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

// MaxSpan is the largest number of years Find walks in one call.
const MaxSpan = 50

var (
	// ErrInvalidOptions wraps option values that cannot be applied.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrDateNotInCalendar is returned for a date outside the generated span.
	ErrDateNotInCalendar = errors.New("date not in calendar")

	// ErrInvalidSpan is returned when a year span is reversed or too long.
	ErrInvalidSpan = errors.New("invalid year span")
)

// Store persists generated calendars. *database.DB implements it.
type Store interface {
	GetCalendar(ctx context.Context, calendarKey string, year int, fingerprint string) (*database.GeneratedCalendar, error)
	SaveCalendar(ctx context.Context, res *calendar.Result, fingerprint string) error
	GetDay(ctx context.Context, calendarKey string, year int, fingerprint, date string) ([]calendar.LiturgicalDay, error)
	FindOccurrences(ctx context.Context, calendarKey, dayKey string) ([]database.Occurrence, error)
	ListGenerated(ctx context.Context) ([]database.CalendarSummary, error)
	DeleteCalendar(ctx context.Context, calendarKey string) (int64, error)
}

// Option configures a Service.
type Option func(*Service)

// WithStore caches generated calendars in store.
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithCatalog resolves martyrology pointers against catalog instead of the
// bundled sample. Results are only stored for catalogs that implement
// martyrology.Fingerprinter, since the fingerprint is part of the store key.
func WithCatalog(catalog martyrology.Catalog) Option {
	return func(s *Service) { s.catalog = catalog }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service answers calendar requests.
type Service struct {
	registry *calendar.Registry
	global   calendar.Config
	store    Store
	catalog  martyrology.Catalog
	logger   *slog.Logger

	// catalogID is the catalog fingerprint, empty when the catalog cannot
	// be fingerprinted.
	catalogID string
}

// New creates a service over the registered calendars. global holds the
// default options every request starts from.
func New(registry *calendar.Registry, global calendar.Config, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		global:   global,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = martyrology.DefaultCatalog()
	}
	if fp, ok := s.catalog.(martyrology.Fingerprinter); ok {
		s.catalogID = fp.Fingerprint()
	} else if s.store != nil {
		s.logger.Warn("catalog has no fingerprint; generated calendars will not be stored")
	}
	return s
}

// CalendarInfo describes a registered calendar.
type CalendarInfo struct {
	Key    string   `json:"key"`
	Parent string   `json:"parent,omitempty"`
	Chain  []string `json:"chain"`
}

// Calendars lists the registered calendars in registration order.
func (s *Service) Calendars() ([]CalendarInfo, error) {
	keys := s.registry.Keys()
	out := make([]CalendarInfo, 0, len(keys))
	for _, key := range keys {
		parent, err := s.registry.Parent(key)
		if err != nil {
			return nil, err
		}
		chain, err := s.registry.Chain(key)
		if err != nil {
			return nil, err
		}
		out = append(out, CalendarInfo{Key: key, Parent: parent, Chain: chain})
	}
	return out, nil
}

// Generate returns the calendar of one year, from the store when it has
// already been generated with the same effective options.
func (s *Service) Generate(ctx context.Context, key string, year int, in calendar.ConfigInput) (*calendar.Result, error) {
	cal, err := s.prepare(key, in)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, cal, year)
}

// Day returns the celebrations of one date, occupant first. date is
// YYYY-MM-DD and must fall in the span generated for year.
func (s *Service) Day(ctx context.Context, key string, year int, date string, in calendar.ConfigInput) ([]calendar.LiturgicalDay, error) {
	cal, err := s.prepare(key, in)
	if err != nil {
		return nil, err
	}

	if s.caching() {
		days, err := s.store.GetDay(ctx, key, year, s.fingerprint(cal), date)
		if err == nil {
			return days, nil
		}
		if !database.IsNotFound(err) {
			applog.ForCalendar(ctx, s.logger, key, year).Warn("calendar store lookup failed",
				slog.Any("error", err))
		}
	}

	res, err := s.generate(ctx, cal, year)
	if err != nil {
		return nil, err
	}
	days, ok := res.Days[date]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s %d", ErrDateNotInCalendar, date, key, year)
	}
	return days, nil
}

// Find lists where dayKey is celebrated in the calendars of the years from
// through to, in date order.
func (s *Service) Find(ctx context.Context, key, dayKey string, from, to int, in calendar.ConfigInput) ([]database.Occurrence, error) {
	if to < from || to-from >= MaxSpan {
		return nil, fmt.Errorf("%w: %d-%d (at most %d years)", ErrInvalidSpan, from, to, MaxSpan)
	}

	cal, err := s.prepare(key, in)
	if err != nil {
		return nil, err
	}
	fingerprint := s.fingerprint(cal)

	var out []database.Occurrence
	for year := from; year <= to; year++ {
		res, err := s.generate(ctx, cal, year)
		if err != nil {
			return nil, err
		}
		for _, dk := range res.Days.Dates() {
			for pos, day := range res.Days[dk] {
				if day.Key != dayKey {
					continue
				}
				out = append(out, database.Occurrence{
					Calendar:    key,
					Year:        year,
					Fingerprint: fingerprint,
					Date:        dk,
					Position:    pos,
				})
			}
		}
	}
	return out, nil
}

// Stored summarizes the calendars held in the store.
func (s *Service) Stored(ctx context.Context) ([]database.CalendarSummary, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListGenerated(ctx)
}

// StoredOccurrences lists where dayKey was placed across every stored
// version of a calendar, whatever options it was generated with.
func (s *Service) StoredOccurrences(ctx context.Context, key, dayKey string) ([]database.Occurrence, error) {
	if s.store == nil {
		return nil, nil
	}
	if _, err := s.registry.Parent(key); err != nil {
		return nil, err
	}
	return s.store.FindOccurrences(ctx, key, dayKey)
}

// Invalidate drops every stored version of a calendar. Returns the number
// of versions removed.
func (s *Service) Invalidate(ctx context.Context, key string) (int64, error) {
	if _, err := s.registry.Parent(key); err != nil {
		return 0, err
	}
	if s.store == nil {
		return 0, nil
	}
	n, err := s.store.DeleteCalendar(ctx, key)
	if err != nil {
		return 0, err
	}
	applog.FromContext(ctx, s.logger).Info("calendar cache invalidated",
		slog.String("calendar", key),
		slog.Int64("removed", n))
	return n, nil
}

// prepare binds a calendar to the global options updated with in.
func (s *Service) prepare(key string, in calendar.ConfigInput) (*calendar.Calendar, error) {
	cfg, err := s.global.Merge(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	return s.registry.New(key, cfg,
		calendar.WithLogger(s.logger),
		calendar.WithCatalog(s.catalog))
}

// fingerprint is the store key of a calendar's results: the effective
// options and the catalog they were linked against.
func (s *Service) fingerprint(cal *calendar.Calendar) string {
	return cal.Config().Fingerprint() + ";catalog=" + s.catalogID
}

func (s *Service) caching() bool {
	return s.store != nil && s.catalogID != ""
}

// generate serves a year from the store or generates and stores it. Store
// failures are logged; the request is still answered.
func (s *Service) generate(ctx context.Context, cal *calendar.Calendar, year int) (*calendar.Result, error) {
	fingerprint := s.fingerprint(cal)
	log := applog.ForCalendar(ctx, s.logger, cal.Key(), year)

	if s.caching() {
		gc, err := s.store.GetCalendar(ctx, cal.Key(), year, fingerprint)
		switch {
		case err == nil:
			log.Debug("calendar served from store", slog.String("fingerprint", fingerprint))
			return fromStored(gc), nil
		case !database.IsNotFound(err):
			log.Warn("calendar store lookup failed", slog.Any("error", err))
		}
	}

	res, err := cal.Generate(year)
	if err != nil {
		return nil, err
	}
	log.Info("calendar generated",
		slog.Int("dates", len(res.Days)),
		applog.Problems(res.Problems))

	if s.caching() {
		if err := s.store.SaveCalendar(ctx, res, fingerprint); err != nil {
			log.Warn("calendar store save failed", slog.Any("error", err))
		}
	}
	return res, nil
}

// fromStored rebuilds a Result. Stored problems keep their messages only.
func fromStored(gc *database.GeneratedCalendar) *calendar.Result {
	res := &calendar.Result{
		CalendarKey: gc.Calendar,
		Year:        gc.Year,
		Config:      gc.Config,
		Days:        gc.Days,
	}
	for _, p := range gc.Problems {
		res.Problems = append(res.Problems, errors.New(p))
	}
	return res
}
