package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/locale"
)

// execute runs calgen with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCalendarsCommand(t *testing.T) {
	out, _, err := execute(t, "calendars")
	if err != nil {
		t.Fatalf("calendars error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], "ireland") || !strings.Contains(lines[2], "europe") {
		t.Errorf("ireland line = %q", lines[2])
	}
}

func TestGenerateCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "generate", "--calendar", "general_roman", "--year", "2024", "--epiphany-on-sunday")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}

	var res calendar.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if !res.Config.EpiphanyOnSunday {
		t.Error("Config.EpiphanyOnSunday = false")
	}
	if day, _ := res.Days.Occupant("2024-01-07"); day.Key != "epiphany_of_the_lord" {
		t.Errorf("2024-01-07 occupant = %s, want epiphany_of_the_lord", day.Key)
	}

	// Same input, same bytes.
	again, _, err := execute(t, "generate", "--calendar", "general_roman", "--year", "2024", "--epiphany_on_sunday")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if out != again {
		t.Error("repeated generation produced different output")
	}
}

func TestGenerateCommand_Text(t *testing.T) {
	out, _, err := execute(t, "generate", "-c", "ireland", "-y", "2025", "-f", "text", "-l", "en-IE")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}

	var patrick string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "2025-03-17") {
			patrick = line
			break
		}
	}
	if !strings.Contains(patrick, "SOLEMNITY") || !strings.Contains(patrick, "white") {
		t.Errorf("2025-03-17 line = %q", patrick)
	}
}

func TestGenerateCommand_ICS(t *testing.T) {
	out, _, err := execute(t, "generate", "--year", "2025", "--format", "ics")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if !strings.HasPrefix(out, "BEGIN:VCALENDAR") {
		t.Errorf("output does not start with BEGIN:VCALENDAR: %.40q", out)
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 365 {
		t.Errorf("events = %d, want 365", n)
	}
}

func TestGenerateCommand_OptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	if err := os.WriteFile(path, []byte("epiphany_on_sunday: true\nscope: liturgical\n"), 0o644); err != nil {
		t.Fatalf("write options: %v", err)
	}

	out, _, err := execute(t, "generate", "--year", "2025", "--options", path, "--scope", "gregorian")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}

	var res calendar.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := calendar.Config{EpiphanyOnSunday: true, Scope: calendar.ScopeGregorian}
	if res.Config != want {
		t.Errorf("Config = %+v, want %+v (flag overrides file)", res.Config, want)
	}
}

func TestGenerateCommand_Errors(t *testing.T) {
	badOptions := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badOptions, []byte("pentecost_on_monday: true\n"), 0o644); err != nil {
		t.Fatalf("write options: %v", err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing year", []string{"generate"}},
		{"unknown calendar", []string{"generate", "--calendar", "atlantis", "--year", "2025"}},
		{"year out of range", []string{"generate", "--year", "1400"}},
		{"bad format", []string{"generate", "--year", "2025", "--format", "pdf"}},
		{"bad scope", []string{"generate", "--year", "2025", "--scope", "julian"}},
		{"unknown option in file", []string{"generate", "--year", "2025", "--options", badOptions}},
		{"unknown locale", []string{"generate", "--year", "2025", "--format", "text", "--locale", "fr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Errorf("%v: error = nil", tt.args)
			}
		})
	}
}

func TestDayCommand(t *testing.T) {
	out, _, err := execute(t, "day", "--date", "2025-03-17")
	if err != nil {
		t.Fatalf("day error = %v", err)
	}
	if !strings.Contains(out, "(commemoration)") {
		t.Errorf("output = %q, want Patrick commemorated", out)
	}

	if _, _, err := execute(t, "day", "--date", "17/03/2025"); err == nil {
		t.Error("malformed date: error = nil")
	}
}

func TestFindCommand(t *testing.T) {
	out, _, err := execute(t, "find", "-c", "ireland", "-k", "patrick_of_ireland_bishop", "--from", "2024", "--to", "2025")
	if err != nil {
		t.Fatalf("find error = %v", err)
	}
	want := "2024-03-18  occupant\n2025-03-17  occupant\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestGenerateCommand_FormatCheckedFirst(t *testing.T) {
	// An unknown calendar fails at generation, so the format error proves
	// nothing was generated.
	_, _, err := execute(t, "generate", "--calendar", "atlantis", "--year", "2025", "--format", "pdf")
	if err == nil || !strings.Contains(err.Error(), "--format") {
		t.Errorf("error = %v, want the --format error", err)
	}

	_, _, err = execute(t, "generate", "--calendar", "atlantis", "--year", "2025", "--format", "text", "--locale", "fr")
	if !errors.Is(err, locale.ErrUnknownLocale) {
		t.Errorf("error = %v, want ErrUnknownLocale", err)
	}
}
