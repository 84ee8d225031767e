package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/calendars"
	"github.com/zapponejosh/liturgical-calendar/internal/config"
	"github.com/zapponejosh/liturgical-calendar/internal/database"
	"github.com/zapponejosh/liturgical-calendar/internal/service"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testEnv sets up a complete test environment with database, config, and router
type testEnv struct {
	db     *database.DB
	cfg    *config.Config
	router http.Handler
	apiKey string
}

// setupTest creates a fresh test environment
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	dbCfg := database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	db, err := database.Open(dbCfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	apiKey := "admin-test-key-32-characters-minimum-length"
	cfg := &config.Config{
		Port:            8080,
		Env:             config.EnvDevelopment,
		DatabasePath:    ":memory:",
		APIKey:          apiKey,
		LogLevel:        "error",
		LogFormat:       "text",
		DefaultCalendar: calendars.GeneralRomanKey,
		Locale:          "en",
		Scope:           string(calendar.ScopeGregorian),
	}

	svc := service.New(calendars.NewRegistry(), cfg.Calendar(),
		service.WithStore(db),
		service.WithLogger(logger))
	handlers := NewHandlers(svc, db, cfg, logger)

	return &testEnv{
		db:     db,
		cfg:    cfg,
		router: SetupRoutes(handlers, cfg, logger),
		apiKey: apiKey,
	}
}

// do runs a request through the full router
func (env *testEnv) do(t *testing.T, method, path, apiKey string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// apiResponse mirrors Response with a typed payload
type apiResponse[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *ErrorInfo `json:"error"`
}

// parseResponse parses JSON response
func parseResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) apiResponse[T] {
	t.Helper()
	var resp apiResponse[T]
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
	return resp
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		cfg        config.Config
		key        string
		wantStatus int
	}{
		{"valid key", config.Config{Env: config.EnvProduction, APIKey: "secret"}, "secret", http.StatusOK},
		{"missing key", config.Config{Env: config.EnvProduction, APIKey: "secret"}, "", http.StatusUnauthorized},
		{"invalid key", config.Config{Env: config.EnvProduction, APIKey: "secret"}, "guess", http.StatusUnauthorized},
		{"development without key", config.Config{Env: config.EnvDevelopment}, "", http.StatusOK},
		{"staging without key", config.Config{Env: config.EnvStaging}, "anything", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(&tt.cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))(ok)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/health", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "upstream-id" {
		t.Errorf("X-Request-ID = %q, want the incoming id", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

// =============================================================================
// PUBLIC ENDPOINT TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
	resp := parseResponse[map[string]string](t, rr)
	if !resp.Success || resp.Data["status"] != "healthy" {
		t.Errorf("response = %+v", resp)
	}
}

func TestListCalendars(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/calendars", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	resp := parseResponse[[]service.CalendarInfo](t, rr)
	if len(resp.Data) != 3 {
		t.Fatalf("got %d calendars, want 3", len(resp.Data))
	}
	if ie := resp.Data[2]; ie.Key != calendars.IrelandKey || ie.Parent != calendars.EuropeKey {
		t.Errorf("Data[2] = %+v", ie)
	}
}

func TestGetCalendar(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/calendars/ireland/2025?locale=en-IE", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := parseResponse[CalendarView](t, rr)
	view := resp.Data
	if view.Calendar != calendars.IrelandKey || view.Year != 2025 || view.Locale != "en-IE" {
		t.Errorf("view header = %s %d %s", view.Calendar, view.Year, view.Locale)
	}
	if len(view.Days) != 365 {
		t.Errorf("len(Days) = %d, want 365", len(view.Days))
	}

	patrick := view.Days["2025-03-17"]
	if len(patrick) == 0 || patrick[0].Key != "patrick_of_ireland_bishop" {
		t.Fatalf("2025-03-17 = %+v", patrick)
	}
	if patrick[0].DisplayName == "" || patrick[0].DisplayName == patrick[0].Key {
		t.Errorf("DisplayName = %q, want a localized name", patrick[0].DisplayName)
	}
	if patrick[0].Precedence != calendar.PrecedenceProperSolemnityPrincipalPatron {
		t.Errorf("Precedence = %s", patrick[0].Precedence)
	}

	// The second request is served from the store.
	list, err := env.db.ListGenerated(context.Background())
	if err != nil {
		t.Fatalf("ListGenerated() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("stored calendars = %d, want 1", len(list))
	}
}

func TestGetCalendar_Options(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/calendars/general_roman/2024?epiphany_on_sunday=true", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	view := parseResponse[CalendarView](t, rr).Data
	if !view.Config.EpiphanyOnSunday {
		t.Error("Config.EpiphanyOnSunday = false")
	}
	if days := view.Days["2024-01-07"]; len(days) == 0 || days[0].Key != "epiphany_of_the_lord" {
		t.Errorf("2024-01-07 = %+v, want epiphany_of_the_lord", days)
	}
}

func TestGetCalendar_Errors(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   ErrorCode
	}{
		{"unknown calendar", "/api/v1/calendars/atlantis/2025", http.StatusNotFound, CodeUnknownCalendar},
		{"year not a number", "/api/v1/calendars/general_roman/next", http.StatusBadRequest, CodeBadRequest},
		{"year out of range", "/api/v1/calendars/general_roman/1200", http.StatusBadRequest, CodeYearOutOfRange},
		{"unknown option", "/api/v1/calendars/general_roman/2025?pentecost_on_monday=true", http.StatusBadRequest, CodeInvalidOption},
		{"malformed option", "/api/v1/calendars/general_roman/2025?epiphany_on_sunday=maybe", http.StatusBadRequest, CodeInvalidOption},
		{"bad scope", "/api/v1/calendars/general_roman/2025?scope=julian", http.StatusBadRequest, CodeInvalidOption},
		{"unknown locale", "/api/v1/calendars/general_roman/2025?locale=fr", http.StatusBadRequest, CodeUnknownLocale},
		{"unknown route", "/api/v1/readings", http.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, tt.path, "")
			if rr.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d, body: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			resp := parseResponse[any](t, rr)
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("response = %+v, want error code %s", resp, tt.wantCode)
			}
		})
	}
}

func TestGetDate(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/calendars/general_roman/2025/dates/2025-03-17", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	view := parseResponse[DateView](t, rr).Data
	if view.Date != "2025-03-17" || view.Locale != "en" {
		t.Errorf("view = %s %s", view.Date, view.Locale)
	}
	if len(view.Celebrations) < 2 {
		t.Fatalf("Celebrations = %+v, want occupant and commemoration", view.Celebrations)
	}
	if c := view.Celebrations[1]; c.Key != "patrick_of_ireland_bishop" || !c.IsCommemoration {
		t.Errorf("Celebrations[1] = %+v", c)
	}
	if c := view.Celebrations[1]; len(c.Saints) == 0 {
		t.Errorf("Celebrations[1].Saints is empty")
	}
}

func TestGetDate_Errors(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"malformed date", "/api/v1/calendars/general_roman/2025/dates/17-03-2025", http.StatusBadRequest},
		{"date outside year", "/api/v1/calendars/general_roman/2025/dates/2026-03-17", http.StatusNotFound},
		{"unknown calendar", "/api/v1/calendars/atlantis/2025/dates/2025-03-17", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, tt.path, "")
			if rr.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d, body: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestGetICS(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/calendars/ireland/2025/ics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "ireland-2025.ics") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rr.Body.String()
	if !strings.HasPrefix(body, "BEGIN:VCALENDAR") {
		t.Errorf("body does not start with BEGIN:VCALENDAR: %.40q", body)
	}
	if n := strings.Count(body, "BEGIN:VEVENT"); n != 365 {
		t.Errorf("events = %d, want 365", n)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/calendars/ireland/2025/ics?secondary=yes", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("secondary=yes status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestFindDay(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/calendars/ireland/days/patrick_of_ireland_bishop?from=2024&to=2025", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	occ := parseResponse[[]database.Occurrence](t, rr).Data
	if len(occ) != 2 || occ[0].Date != "2024-03-18" || occ[1].Date != "2025-03-17" {
		t.Errorf("occurrences = %+v", occ)
	}

	for _, path := range []string{
		"/api/v1/calendars/ireland/days/patrick_of_ireland_bishop",
		"/api/v1/calendars/ireland/days/patrick_of_ireland_bishop?from=2025&to=2024",
		"/api/v1/calendars/ireland/days/patrick_of_ireland_bishop?from=1900&to=2100",
	} {
		if rr := env.do(t, http.MethodGet, path, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}

// =============================================================================
// CACHE ADMIN TESTS
// =============================================================================

func TestCacheAdmin(t *testing.T) {
	env := setupTest(t)

	if rr := env.do(t, http.MethodGet, "/api/v1/calendars/europe/2025", ""); rr.Code != http.StatusOK {
		t.Fatalf("generate status = %d", rr.Code)
	}

	// A configured key is required even in development.
	if rr := env.do(t, http.MethodGet, "/api/v1/cache", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	rr := env.do(t, http.MethodGet, "/api/v1/cache", env.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d, body: %s", rr.Code, rr.Body.String())
	}
	list := parseResponse[[]database.CalendarSummary](t, rr).Data
	if len(list) != 1 || list[0].Calendar != calendars.EuropeKey || list[0].DayCount != 365 {
		t.Errorf("cache = %+v", list)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/cache/europe/days/benedict_of_nursia_abbot", env.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("occurrences status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if occ := parseResponse[[]database.Occurrence](t, rr).Data; len(occ) != 1 || occ[0].Date != "2025-07-11" {
		t.Errorf("stored occurrences = %+v", occ)
	}

	rr = env.do(t, http.MethodDelete, "/api/v1/cache/europe", env.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if removed := parseResponse[map[string]any](t, rr).Data["removed"]; removed != float64(1) {
		t.Errorf("removed = %v, want 1", removed)
	}

	if rr := env.do(t, http.MethodDelete, "/api/v1/cache/atlantis", env.apiKey); rr.Code != http.StatusNotFound {
		t.Errorf("delete unknown status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
