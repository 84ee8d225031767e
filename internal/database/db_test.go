package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/calendars"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// generate builds a bundled calendar for the tests to store.
func generate(t *testing.T, key string, year int, cfg calendar.Config) *calendar.Result {
	t.Helper()

	cal, err := calendars.NewRegistry().New(key, cfg,
		calendar.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))))
	if err != nil {
		t.Fatalf("New(%q) error = %v", key, err)
	}
	res, err := cal.Generate(year)
	if err != nil {
		t.Fatalf("Generate(%d) error = %v", year, err)
	}
	return res
}

// save stores res under its options fingerprint.
func save(t *testing.T, db *DB, res *calendar.Result) {
	t.Helper()

	if err := db.SaveCalendar(context.Background(), res, res.Config.Fingerprint()); err != nil {
		t.Fatalf("SaveCalendar(%s %d) error = %v", res.CalendarKey, res.Year, err)
	}
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestHealth_PendingMigrations(t *testing.T) {
	db, err := Open(DefaultConfig(":memory:"), slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.Health(ctx); err == nil {
		t.Error("Health() before Migrate = nil, want pending migrations")
	}
	if n, err := db.Migrate(ctx); err != nil || n != len(migrationsSQL) {
		t.Fatalf("Migrate() = %d, %v; want %d, nil", n, err, len(migrationsSQL))
	}
	if err := db.Health(ctx); err != nil {
		t.Errorf("Health() after Migrate = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)

	// Migrations ran in testDB; running again is a no-op.
	count, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

// -----------------------------------------------------------------
// Generated calendar tests
// -----------------------------------------------------------------

func TestSaveAndGetCalendar(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	res := generate(t, calendars.IrelandKey, 2025, calendar.DefaultConfig())

	save(t, db, res)

	got, err := db.GetCalendar(ctx, calendars.IrelandKey, 2025, res.Config.Fingerprint())
	if err != nil {
		t.Fatalf("GetCalendar() error = %v", err)
	}

	if got.Calendar != calendars.IrelandKey || got.Year != 2025 {
		t.Errorf("GetCalendar() = %s %d", got.Calendar, got.Year)
	}
	if diff := cmp.Diff(res.Config, got.Config); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(res.Days, got.Days); diff != "" {
		t.Errorf("Days mismatch after round trip (-want +got):\n%s", diff)
	}
	if len(got.Problems) != 0 {
		t.Errorf("Problems = %v, want none", got.Problems)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
}

func TestGetCalendar_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetCalendar(context.Background(), "general_roman", 2025, calendar.DefaultConfig().Fingerprint())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCalendar() error = %v, want ErrNotFound", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false")
	}
}

func TestSaveCalendar_Upsert(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	res := generate(t, calendars.GeneralRomanKey, 2024, calendar.DefaultConfig())

	for i := 0; i < 2; i++ {
		save(t, db, res)
	}

	// A different option set is a separate entry.
	save(t, db, generate(t, calendars.GeneralRomanKey, 2024, calendar.Config{EpiphanyOnSunday: true}))

	// So is the same option set under a different fingerprint, such as
	// another catalog.
	if err := db.SaveCalendar(ctx, res, res.Config.Fingerprint()+";catalog=other"); err != nil {
		t.Fatalf("SaveCalendar() error = %v", err)
	}
	if err := db.SaveCalendar(ctx, res, ""); err == nil {
		t.Error("SaveCalendar(empty fingerprint) error = nil")
	}

	list, err := db.ListGenerated(ctx)
	if err != nil {
		t.Fatalf("ListGenerated() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListGenerated() = %d entries, want 3", len(list))
	}
	for _, s := range list {
		if s.DayCount != 366 {
			t.Errorf("%s DayCount = %d, want 366", s.Fingerprint, s.DayCount)
		}
	}
}

func TestGetDay(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	res := generate(t, calendars.GeneralRomanKey, 2025, calendar.DefaultConfig())
	fp := res.Config.Fingerprint()

	save(t, db, res)

	// Lent weekday with Saint Patrick kept as a commemoration.
	days, err := db.GetDay(ctx, calendars.GeneralRomanKey, 2025, fp, "2025-03-17")
	if err != nil {
		t.Fatalf("GetDay() error = %v", err)
	}
	if diff := cmp.Diff(res.Days["2025-03-17"], days); diff != "" {
		t.Errorf("GetDay() mismatch (-want +got):\n%s", diff)
	}
	if len(days) < 2 || !days[1].IsCommemoration {
		t.Errorf("GetDay() = %+v, want a commemoration after the occupant", days)
	}

	if _, err := db.GetDay(ctx, calendars.GeneralRomanKey, 2025, fp, "2026-01-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDay(out of year) error = %v, want ErrNotFound", err)
	}
}

func TestFindOccurrences(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, year := range []int{2024, 2025} {
		save(t, db, generate(t, calendars.IrelandKey, year, calendar.DefaultConfig()))
	}

	got, err := db.FindOccurrences(ctx, calendars.IrelandKey, "patrick_of_ireland_bishop")
	if err != nil {
		t.Fatalf("FindOccurrences() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FindOccurrences() = %+v, want 2", got)
	}
	for i, want := range []string{"2024-03-18", "2025-03-17"} {
		if got[i].Date != want {
			t.Errorf("occurrence %d date = %s, want %s", i, got[i].Date, want)
		}
		if !got[i].IsOccupant() {
			t.Errorf("occurrence %d should hold its date", i)
		}
	}
}

func TestDeleteCalendar(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	save(t, db, generate(t, calendars.EuropeKey, 2025, calendar.DefaultConfig()))

	n, err := db.DeleteCalendar(ctx, calendars.EuropeKey)
	if err != nil {
		t.Fatalf("DeleteCalendar() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteCalendar() = %d, want 1", n)
	}

	// calendar_days rows go with their calendar.
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendar_days").Scan(&count); err != nil {
		t.Fatalf("count calendar_days: %v", err)
	}
	if count != 0 {
		t.Errorf("calendar_days has %d rows after delete, want 0", count)
	}
}

// -----------------------------------------------------------------
// Transaction tests
// -----------------------------------------------------------------

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Failed transaction should rollback
	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO generated_calendars (calendar, year, fingerprint, config, days)
			VALUES ('general_roman', 2025, 'fp', '{}', '{}')
		`)
		if err != nil {
			return err
		}
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("WithTx() rollback case error = %v, want ErrNotFound", err)
	}

	if _, err := db.GetCalendar(ctx, "general_roman", 2025, "fp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("calendar should not exist after rollback, got error: %v", err)
	}
}
