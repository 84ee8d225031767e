package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/calendars"
	"github.com/zapponejosh/liturgical-calendar/internal/ical"
	"github.com/zapponejosh/liturgical-calendar/internal/locale"
)

// Output formats of the generate command.
const (
	formatJSON = "json"
	formatICS  = "ics"
	formatText = "text"
)

func newGenerateCommand(flags *globalFlags) *cobra.Command {
	var (
		key       string
		year      int
		format    string
		tag       string
		secondary bool
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the calendar of one year",
		Long: `Generate the calendar of one year.

Formats:
  json  the calendar as a map of dates to celebrations, occupant first
  ics   an iCalendar file with one all-day event per date
  text  one line per celebration with its display name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dict *locale.Dictionary
			switch format {
			case formatJSON:
			case formatICS, formatText:
				var err error
				if dict, err = locale.Load(tag); err != nil {
					return err
				}
			default:
				return fmt.Errorf("--format must be one of: json, ics, text; got %q", format)
			}

			in, err := flags.configInput(cmd)
			if err != nil {
				return err
			}
			svc, err := flags.newService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			res, err := svc.Generate(cmdContext(cmd), key, year, in)
			if err != nil {
				return err
			}
			if err := reportProblems(cmd.ErrOrStderr(), res, strict); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatICS:
				return ical.Export(out, res, ical.Options{Namer: dict, Secondary: secondary})
			case formatText:
				writeText(out, res.Days, dict)
				return nil
			default:
				return writeJSON(out, res)
			}
		},
	}

	f := cmd.Flags()
	f.StringVarP(&key, "calendar", "c", calendars.GeneralRomanKey, "calendar key")
	f.IntVarP(&year, "year", "y", 0, "year to generate")
	f.StringVarP(&format, "format", "f", formatJSON, "output format: json, ics or text")
	f.StringVarP(&tag, "locale", "l", "en", "locale for display names (ics and text)")
	f.BoolVar(&secondary, "secondary", false, "include optional memorials and commemorations as ics events")
	f.BoolVar(&strict, "strict", false, "fail when generation reports problems")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newDayCommand(flags *globalFlags) *cobra.Command {
	var (
		key  string
		date string
		tag  string
	)

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the celebrations of one date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := calendar.ParseDateKey(date)
			if err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD, got %q", date)
			}
			in, err := flags.configInput(cmd)
			if err != nil {
				return err
			}
			dict, err := locale.Load(tag)
			if err != nil {
				return err
			}
			svc, err := flags.newService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			days, err := svc.Day(cmdContext(cmd), key, t.Year(), date, in)
			if err != nil {
				return err
			}
			writeText(cmd.OutOrStdout(), calendar.LiturgicalCalendar{date: days}, dict)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&key, "calendar", "c", calendars.GeneralRomanKey, "calendar key")
	f.StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD")
	f.StringVarP(&tag, "locale", "l", "en", "locale for display names")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newFindCommand(flags *globalFlags) *cobra.Command {
	var (
		key      string
		dayKey   string
		from, to int
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List the dates a celebration falls on over a span of years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.configInput(cmd)
			if err != nil {
				return err
			}
			svc, err := flags.newService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if to == 0 {
				to = from
			}

			occ, err := svc.Find(cmdContext(cmd), key, dayKey, from, to, in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, o := range occ {
				role := "occupant"
				if !o.IsOccupant() {
					role = "secondary"
				}
				fmt.Fprintf(out, "%s  %s\n", o.Date, role)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&key, "calendar", "c", calendars.GeneralRomanKey, "calendar key")
	f.StringVarP(&dayKey, "key", "k", "", "day key to look for")
	f.IntVar(&from, "from", 0, "first year")
	f.IntVar(&to, "to", 0, "last year (default: --from)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func writeJSON(w io.Writer, res *calendar.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// writeText prints one line per celebration. Secondary celebrations are
// indented under the occupant.
func writeText(w io.Writer, days calendar.LiturgicalCalendar, dict *locale.Dictionary) {
	for _, dk := range days.Dates() {
		for i, day := range days[dk] {
			prefix := dk
			if i > 0 {
				prefix = strings.Repeat(" ", len(dk))
			}

			var note string
			switch {
			case day.IsCommemoration:
				note = " (commemoration)"
			case day.IsOptional:
				note = " (optional)"
			case day.TransferredFrom != nil:
				note = " (transferred from " + calendar.DateKey(*day.TransferredFrom) + ")"
			}

			fmt.Fprintf(w, "%s  %-17s %-6s %s%s\n", prefix, day.Rank, colorList(day.Colors), dict.Name(day), note)

			for _, link := range day.Martyrology {
				if titles := dict.Titles(link); len(titles) > 0 {
					fmt.Fprintf(w, "%s  %-17s %-6s   %s\n", strings.Repeat(" ", len(dk)), "", "", strings.Join(titles, ", "))
				}
			}
		}
	}
}

func colorList(colors []calendar.Color) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = strings.ToLower(string(c))
	}
	return strings.Join(parts, "/")
}
