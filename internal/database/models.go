package database

import (
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
)

// GeneratedCalendar is a stored generation result.
type GeneratedCalendar struct {
	ID          int64                       `json:"id"`
	Calendar    string                      `json:"calendar"`
	Year        int                         `json:"year"`
	Fingerprint string                      `json:"fingerprint"`
	Config      calendar.Config             `json:"config"`
	Days        calendar.LiturgicalCalendar `json:"days"`
	Problems    []string                    `json:"problems"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// CalendarSummary describes a stored calendar without its days.
type CalendarSummary struct {
	Calendar    string    `json:"calendar"`
	Year        int       `json:"year"`
	Fingerprint string    `json:"fingerprint"`
	DayCount    int       `json:"day_count"`
	Problems    int       `json:"problems"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Occurrence locates one celebration of a day key in a stored calendar.
type Occurrence struct {
	Calendar    string `json:"calendar"`
	Year        int    `json:"year"`
	Fingerprint string `json:"fingerprint"`
	Date        string `json:"date"`
	Position    int    `json:"position"`
}

// IsOccupant reports whether the celebration held its date.
func (o Occurrence) IsOccupant() bool {
	return o.Position == 0
}
