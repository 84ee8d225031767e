package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/config"
	"github.com/zapponejosh/liturgical-calendar/internal/ical"
	"github.com/zapponejosh/liturgical-calendar/internal/locale"
	applog "github.com/zapponejosh/liturgical-calendar/internal/logger"
	"github.com/zapponejosh/liturgical-calendar/internal/service"
)

// HealthChecker reports whether a backing store is usable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	svc    *service.Service
	health HealthChecker
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.Mutex
	locales map[string]*locale.Dictionary
}

// NewHandlers creates a new Handlers instance. health may be nil when no
// store is configured.
func NewHandlers(svc *service.Service, health HealthChecker, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		svc:     svc,
		health:  health,
		cfg:     cfg,
		logger:  logger,
		locales: make(map[string]*locale.Dictionary),
	}
}

// DayView is a celebration with its display name.
type DayView struct {
	calendar.LiturgicalDay
	DisplayName string   `json:"display_name"`
	Saints      []string `json:"saints,omitempty"`
}

// CalendarView is a generated calendar as served by the API.
type CalendarView struct {
	Calendar string               `json:"calendar"`
	Year     int                  `json:"year"`
	Locale   string               `json:"locale"`
	Config   calendar.Config      `json:"config"`
	Days     map[string][]DayView `json:"days"`
	Problems []string             `json:"problems,omitempty"`
}

// DateView is one date of a generated calendar.
type DateView struct {
	Calendar     string    `json:"calendar"`
	Date         string    `json:"date"`
	Locale       string    `json:"locale"`
	Celebrations []DayView `json:"celebrations"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Health(r.Context()); err != nil {
			applog.FromContext(r.Context(), h.logger).Warn("health check failed", slog.Any("error", err))
			WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
			return
		}
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// ListCalendars handles GET /api/v1/calendars
func (h *Handlers) ListCalendars(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.Calendars()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, infos)
}

// GetCalendar handles GET /api/v1/calendars/{calendar}/{year}
//
// Query parameters: locale, plus the generation options
// ascension_on_sunday, epiphany_on_sunday, corpus_christi_on_sunday and scope.
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "calendar")
	year, ok := parseYear(w, chi.URLParam(r, "year"))
	if !ok {
		return
	}
	in, ok := parseOptions(w, r, "locale")
	if !ok {
		return
	}
	dict, ok := h.dictionary(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Generate(r.Context(), key, year, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	view := CalendarView{
		Calendar: res.CalendarKey,
		Year:     res.Year,
		Locale:   dict.Tag(),
		Config:   res.Config,
		Days:     make(map[string][]DayView, len(res.Days)),
		Problems: res.Warnings(),
	}
	for dk, days := range res.Days {
		view.Days[dk] = viewDays(dict, days)
	}
	WriteSuccess(w, view)
}

// GetDate handles GET /api/v1/calendars/{calendar}/{year}/dates/{date}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "calendar")
	year, ok := parseYear(w, chi.URLParam(r, "year"))
	if !ok {
		return
	}

	dateStr := chi.URLParam(r, "date")
	if _, err := calendar.ParseDateKey(dateStr); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr), CodeInvalidDate)
		return
	}

	in, ok := parseOptions(w, r, "locale")
	if !ok {
		return
	}
	dict, ok := h.dictionary(w, r)
	if !ok {
		return
	}

	days, err := h.svc.Day(r.Context(), key, year, dateStr, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, DateView{
		Calendar:     key,
		Date:         dateStr,
		Locale:       dict.Tag(),
		Celebrations: viewDays(dict, days),
	})
}

// GetICS handles GET /api/v1/calendars/{calendar}/{year}/ics
//
// secondary=true adds optional memorials and commemorations as events.
func (h *Handlers) GetICS(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "calendar")
	year, ok := parseYear(w, chi.URLParam(r, "year"))
	if !ok {
		return
	}

	secondary := false
	if s := r.URL.Query().Get("secondary"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("secondary must be a boolean, got %q", s))
			return
		}
		secondary = b
	}

	in, ok := parseOptions(w, r, "locale", "secondary")
	if !ok {
		return
	}
	dict, ok := h.dictionary(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Generate(r.Context(), key, year, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-%d.ics", key, year)))
	if err := ical.Export(w, res, ical.Options{Namer: dict, Secondary: secondary}); err != nil {
		// Headers are already sent; log only.
		applog.FromContext(r.Context(), h.logger).Error("failed to write ical",
			slog.String("calendar", key),
			slog.Int("year", year),
			slog.Any("error", err))
	}
}

// FindDay handles GET /api/v1/calendars/{calendar}/days/{key}?from=YYYY&to=YYYY
func (h *Handlers) FindDay(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "calendar")
	dayKey := chi.URLParam(r, "key")

	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		WriteBadRequest(w, "Both from and to year parameters are required")
		return
	}
	from, ok := parseYear(w, q.Get("from"))
	if !ok {
		return
	}
	to, ok := parseYear(w, q.Get("to"))
	if !ok {
		return
	}

	in, ok := parseOptions(w, r, "from", "to")
	if !ok {
		return
	}

	occ, err := h.svc.Find(r.Context(), key, dayKey, from, to, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, occ)
}

// ListStored handles GET /api/v1/cache
func (h *Handlers) ListStored(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Stored(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, list)
}

// StoredOccurrences handles GET /api/v1/cache/{calendar}/days/{key}
func (h *Handlers) StoredOccurrences(w http.ResponseWriter, r *http.Request) {
	occ, err := h.svc.StoredOccurrences(r.Context(), chi.URLParam(r, "calendar"), chi.URLParam(r, "key"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, occ)
}

// InvalidateStored handles DELETE /api/v1/cache/{calendar}
func (h *Handlers) InvalidateStored(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "calendar")
	n, err := h.svc.Invalidate(r.Context(), key)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]any{
		"calendar": key,
		"removed":  n,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// parseYear writes a 400 response and returns false if s is not a year.
func parseYear(w http.ResponseWriter, s string) (int, bool) {
	year, err := strconv.Atoi(s)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", s))
		return 0, false
	}
	return year, true
}

// parseOptions reads generation options from the query string. Parameters
// named in reserved belong to the handler; any other unknown parameter is
// rejected.
func parseOptions(w http.ResponseWriter, r *http.Request, reserved ...string) (calendar.ConfigInput, bool) {
	values := make(map[string]string)
outer:
	for name, v := range r.URL.Query() {
		for _, res := range reserved {
			if name == res {
				continue outer
			}
		}
		values[name] = v[len(v)-1]
	}

	in, err := calendar.ParseConfigInput(values)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), CodeInvalidOption)
		return calendar.ConfigInput{}, false
	}
	return in, true
}

// dictionary returns the dictionary for the locale query parameter, or the
// configured default.
func (h *Handlers) dictionary(w http.ResponseWriter, r *http.Request) (*locale.Dictionary, bool) {
	tag := r.URL.Query().Get("locale")
	if tag == "" {
		tag = h.cfg.Locale
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if d, ok := h.locales[tag]; ok {
		return d, true
	}
	d, err := locale.Load(tag)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), CodeUnknownLocale)
		return nil, false
	}
	h.locales[tag] = d
	return d, true
}

func viewDays(dict *locale.Dictionary, days []calendar.LiturgicalDay) []DayView {
	out := make([]DayView, len(days))
	for i, day := range days {
		v := DayView{LiturgicalDay: day, DisplayName: dict.Name(day)}
		for _, link := range day.Martyrology {
			if names := dict.Titles(link); len(names) > 0 {
				v.Saints = append(v.Saints, link.Key+": "+strings.Join(names, ", "))
			}
		}
		out[i] = v
	}
	return out
}

// writeServiceError maps service and calendar errors to responses.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if status, code, ok := classify(err); ok {
		WriteError(w, status, err.Error(), code)
		return
	}
	applog.FromContext(r.Context(), h.logger).Error("request failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	WriteInternalError(w, "Failed to generate calendar")
}
