// Command apitest runs smoke checks against a running calendar API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Celebration is the subset of a served day the checks look at.
type Celebration struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"display_name"`
	Precedence      string   `json:"precedence"`
	Rank            string   `json:"rank"`
	Colors          []string `json:"colors"`
	FromCalendar    string   `json:"from_calendar"`
	IsOptional      bool     `json:"is_optional"`
	IsCommemoration bool     `json:"is_commemoration"`
}

// DateResponse is the response for /calendars/{calendar}/{year}/dates/{date}
type DateResponse struct {
	Calendar     string        `json:"calendar"`
	Date         string        `json:"date"`
	Locale       string        `json:"locale"`
	Celebrations []Celebration `json:"celebrations"`
}

// CalendarResponse is the response for /calendars/{calendar}/{year}
type CalendarResponse struct {
	Calendar string                   `json:"calendar"`
	Year     int                      `json:"year"`
	Days     map[string][]Celebration `json:"days"`
	Problems []string                 `json:"problems"`
}

// CalendarInfo is one entry of /calendars
type CalendarInfo struct {
	Key    string   `json:"key"`
	Parent string   `json:"parent"`
	Chain  []string `json:"chain"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, out io.Writer, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		out:     out,
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Liturgical Calendar API Smoke Test")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testCalendars()
	tr.testSpecificDates()
	tr.testWholeYear()
	tr.testOptions()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testCalendars() {
	tr.printSection("Calendars")

	var infos []CalendarInfo
	if err := tr.getData("/api/v1/calendars", &infos); err != nil {
		tr.recordError("Calendars", err.Error())
		return
	}

	for _, want := range []string{"general_roman", "europe", "ireland"} {
		found := false
		for _, info := range infos {
			if info.Key == want {
				found = true
				tr.recordSuccess(fmt.Sprintf("%s: %s", want, strings.Join(info.Chain, " > ")))
			}
		}
		if !found {
			tr.recordError("Calendars", fmt.Sprintf("%s is not registered", want))
		}
	}
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	testCases := []struct {
		calendar    string
		date        string
		expectedKey string
		description string
	}{
		{"general_roman", "2024-12-01", "advent_1_sunday", "First Sunday of Advent 2024"},
		{"general_roman", "2024-12-25", "nativity_of_the_lord", "Christmas Day 2024"},
		{"general_roman", "2025-01-06", "epiphany_of_the_lord", "Epiphany"},
		{"general_roman", "2025-03-05", "ash_wednesday", "Ash Wednesday 2025"},
		{"general_roman", "2025-04-20", "easter_sunday", "Easter Sunday 2025"},
		{"general_roman", "2025-06-08", "pentecost_sunday", "Pentecost Sunday 2025"},
		{"general_roman", "2025-11-23", "our_lord_jesus_christ_king_of_the_universe", "Christ the King 2025"},
		{"europe", "2025-07-11", "benedict_of_nursia_abbot", "Patron of Europe"},
		{"ireland", "2025-03-17", "patrick_of_ireland_bishop", "Saint Patrick in Ireland"},
		{"ireland", "2024-03-18", "patrick_of_ireland_bishop", "Saint Patrick moved off Sunday"},
	}

	for _, tc := range testCases {
		path := fmt.Sprintf("/api/v1/calendars/%s/%s/dates/%s", tc.calendar, tc.date[:4], tc.date)
		var data DateResponse
		if err := tr.getData(path, &data); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}
		if len(data.Celebrations) == 0 {
			tr.recordError(tc.date, "no celebrations")
			continue
		}

		occupant := data.Celebrations[0]
		if occupant.Key == tc.expectedKey {
			tr.recordSuccess(fmt.Sprintf("%s %s: %s (%s)",
				tc.calendar, tc.date, occupant.DisplayName, tc.description))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected '%s', got '%s'",
				tc.expectedKey, occupant.Key))
		}

		if tr.verbose {
			tr.printCelebrations(data.Celebrations)
		}
	}
}

func (tr *TestRunner) testWholeYear() {
	tr.printSection("Whole Year")

	for _, calendar := range []string{"general_roman", "europe", "ireland"} {
		var data CalendarResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/calendars/%s/2025", calendar), &data); err != nil {
			tr.recordError(calendar, err.Error())
			continue
		}

		if len(data.Days) != 365 {
			tr.recordError(calendar, fmt.Sprintf("Expected 365 dates, got %d", len(data.Days)))
			continue
		}

		empty := 0
		for _, days := range data.Days {
			if len(days) == 0 {
				empty++
			}
		}
		if empty > 0 {
			tr.recordError(calendar, fmt.Sprintf("%d dates without an occupant", empty))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s 2025: 365 dates, %d problems", calendar, len(data.Problems)))
	}
}

func (tr *TestRunner) testOptions() {
	tr.printSection("Options")

	var data DateResponse
	if err := tr.getData("/api/v1/calendars/general_roman/2024/dates/2024-01-07?epiphany_on_sunday=true", &data); err != nil {
		tr.recordError("Epiphany on Sunday", err.Error())
		return
	}
	if len(data.Celebrations) > 0 && data.Celebrations[0].Key == "epiphany_of_the_lord" {
		tr.recordSuccess("Epiphany moves to Sunday January 7, 2024")
	} else {
		tr.recordError("Epiphany on Sunday", "2024-01-07 is not Epiphany")
	}

	resp, err := tr.getRaw("/api/v1/calendars/general_roman/2025?pentecost_on_monday=true")
	if err == nil {
		resp.Body.Close()
	}
	if resp != nil && resp.StatusCode == http.StatusBadRequest {
		tr.recordSuccess("Unknown option rejected")
	} else {
		tr.recordError("Unknown option", "Should return 400")
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"Invalid date format", "/api/v1/calendars/general_roman/2025/dates/invalid", http.StatusBadRequest},
		{"Date outside year", "/api/v1/calendars/general_roman/2025/dates/2026-01-01", http.StatusNotFound},
		{"Unknown calendar", "/api/v1/calendars/atlantis/2025", http.StatusNotFound},
		{"Year out of range", "/api/v1/calendars/general_roman/1400", http.StatusBadRequest},
		{"Leap day", "/api/v1/calendars/general_roman/2024/dates/2024-02-29", http.StatusOK},
	}

	for _, c := range cases {
		resp, err := tr.getRaw(c.path)
		if err != nil {
			tr.recordError(c.name, err.Error())
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == c.status {
			tr.recordSuccess(fmt.Sprintf("%s: HTTP %d", c.name, c.status))
		} else {
			tr.recordError(c.name, fmt.Sprintf("Expected HTTP %d, got %d", c.status, resp.StatusCode))
		}
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the data of a successful response into target.
func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) printCelebrations(cs []Celebration) {
	for i, c := range cs[1:] {
		kind := "alternative"
		if c.IsCommemoration {
			kind = "commemoration"
		}
		fmt.Fprintf(tr.out, "    %d. %s [%s, %s]\n", i+1, c.DisplayName, c.Rank, kind)
	}
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
		fmt.Fprintf(tr.out, "Checks completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Fprintln(tr.out, "All checks passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show secondary celebrations)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, os.Stdout, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
