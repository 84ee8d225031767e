package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1GeneratedCalendars,
	2: migrationV2CalendarDays,
}

// migrationV1GeneratedCalendars stores one generation result per calendar,
// year and options fingerprint.
//
// The whole LiturgicalCalendar is kept as a JSON document in days. The
// fingerprint is Config.Fingerprint() of the effective options, so the
// same calendar generated with Epiphany on Sunday is a separate row.
const migrationV1GeneratedCalendars = `
CREATE TABLE IF NOT EXISTS generated_calendars (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    calendar TEXT NOT NULL,
    year INTEGER NOT NULL CHECK (year BETWEEN 1583 AND 4099),
    fingerprint TEXT NOT NULL,

    -- Effective options as JSON, e.g. '{"epiphany_on_sunday":true,...}'
    config TEXT NOT NULL,

    -- LiturgicalCalendar as JSON: {"2025-01-01": [{...}], ...}
    days TEXT NOT NULL,

    -- Problem messages collected during generation, as a JSON array
    problems TEXT NOT NULL DEFAULT '[]',

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (calendar, year, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_generated_calendars_calendar
    ON generated_calendars(calendar, year);
`

// migrationV2CalendarDays indexes every celebration of a stored calendar
// so single dates and day keys can be looked up without decoding the whole
// document.
//
// position 0 is the occupant of the date; higher positions are the
// secondary celebrations in output order.
const migrationV2CalendarDays = `
CREATE TABLE IF NOT EXISTS calendar_days (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    generated_calendar_id INTEGER NOT NULL,

    date TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    day_key TEXT NOT NULL,
    precedence TEXT NOT NULL,
    rank TEXT NOT NULL,
    from_calendar TEXT NOT NULL,

    -- LiturgicalDay as JSON
    data TEXT NOT NULL,

    FOREIGN KEY (generated_calendar_id) REFERENCES generated_calendars(id) ON DELETE CASCADE,
    UNIQUE (generated_calendar_id, date, position)
);

CREATE INDEX IF NOT EXISTS idx_calendar_days_date
    ON calendar_days(generated_calendar_id, date);

CREATE INDEX IF NOT EXISTS idx_calendar_days_key
    ON calendar_days(day_key);
`
