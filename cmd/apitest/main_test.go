package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zapponejosh/liturgical-calendar/internal/api"
	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/calendars"
	"github.com/zapponejosh/liturgical-calendar/internal/config"
	"github.com/zapponejosh/liturgical-calendar/internal/service"
)

func TestRunnerAgainstServer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Env:             config.EnvDevelopment,
		DefaultCalendar: calendars.GeneralRomanKey,
		Locale:          "en",
		Scope:           string(calendar.ScopeGregorian),
	}
	svc := service.New(calendars.NewRegistry(), cfg.Calendar(), service.WithLogger(logger))
	srv := httptest.NewServer(api.SetupRoutes(api.NewHandlers(svc, nil, cfg, logger), cfg, logger))
	defer srv.Close()

	var out bytes.Buffer
	runner := NewTestRunner(srv.URL+"/", &out, true)
	runner.Run()

	if runner.errorCount > 0 {
		t.Fatalf("%d checks failed:\n%s", runner.errorCount, strings.Join(runner.errors, "\n"))
	}
	if runner.successCount == 0 {
		t.Fatal("no checks ran")
	}
	if !strings.Contains(out.String(), "All checks passed!") {
		t.Errorf("summary missing:\n%s", out.String())
	}
}
