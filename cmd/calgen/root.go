package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/calendars"
	applog "github.com/zapponejosh/liturgical-calendar/internal/logger"
	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
	"github.com/zapponejosh/liturgical-calendar/internal/service"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	catalogPath string
	optionsPath string
	verbose     bool

	ascension     bool
	epiphany      bool
	corpusChristi bool
	scope         string
}

func newRootCommand() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "calgen",
		Short: "Generate liturgical calendars",
		Long: `calgen resolves the bundled liturgical calendars for a year.

Particular calendars inherit from their parents (general_roman > europe >
ireland); every date gets exactly one occupant followed by the optional
memorials and commemorations that are still kept.

Generation options come from --options (a YAML file) and are overridden by
the option flags that are set explicitly.

Examples:
  calgen calendars
  calgen generate --calendar ireland --year 2025 --format text
  calgen generate --year 2024 --epiphany-on-sunday --format ics
  calgen day --calendar general_roman --date 2025-03-17
  calgen find --calendar ireland --key patrick_of_ireland_bishop --from 2020 --to 2030`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.catalogPath, "catalog", "", "martyrology catalog YAML (default: bundled sample)")
	pf.StringVar(&flags.optionsPath, "options", "", "YAML file with generation options")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log generation problems as they are found")
	pf.BoolVar(&flags.ascension, calendar.OptionAscensionOnSunday, false, "celebrate the Ascension on the 7th Sunday of Easter")
	pf.BoolVar(&flags.epiphany, calendar.OptionEpiphanyOnSunday, false, "celebrate Epiphany on the Sunday between January 2 and 8")
	pf.BoolVar(&flags.corpusChristi, calendar.OptionCorpusChristiOnSunday, false, "celebrate Corpus Christi on the Sunday after Trinity")
	pf.StringVar(&flags.scope, calendar.OptionScope, string(calendar.ScopeGregorian), "span of dates: gregorian or liturgical")

	// Option flags are registered with underscores to match the option
	// names; accept dashes too.
	root.SetGlobalNormalizationFunc(normalizeOptionFlag)

	root.AddCommand(
		newCalendarsCommand(&flags),
		newGenerateCommand(&flags),
		newDayCommand(&flags),
		newFindCommand(&flags),
	)
	return root
}

// newService builds a service for one invocation. Generation problems are
// reported by the commands; the logger only shows them with --verbose.
func (f *globalFlags) newService(stderr io.Writer) (*service.Service, error) {
	level := "error"
	if f.verbose {
		level = "debug"
	}
	logger := applog.New(stderr, level, "text")

	catalog, err := martyrology.OpenCatalog(f.catalogPath)
	if err != nil {
		return nil, err
	}
	return service.New(calendars.NewRegistry(), calendar.DefaultConfig(),
		service.WithCatalog(catalog),
		service.WithLogger(logger),
	), nil
}

// configInput merges the options file with the flags set on the command
// line.
func (f *globalFlags) configInput(cmd *cobra.Command) (calendar.ConfigInput, error) {
	var in calendar.ConfigInput
	if f.optionsPath != "" {
		file, err := os.Open(f.optionsPath)
		if err != nil {
			return in, fmt.Errorf("open options: %w", err)
		}
		defer file.Close()

		in, err = calendar.DecodeConfigInput(file)
		if err != nil {
			return in, fmt.Errorf("%s: %w", f.optionsPath, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed(calendar.OptionAscensionOnSunday) {
		in.AscensionOnSunday = &f.ascension
	}
	if flags.Changed(calendar.OptionEpiphanyOnSunday) {
		in.EpiphanyOnSunday = &f.epiphany
	}
	if flags.Changed(calendar.OptionCorpusChristiOnSunday) {
		in.CorpusChristiOnSunday = &f.corpusChristi
	}
	if flags.Changed(calendar.OptionScope) {
		s := calendar.Scope(f.scope)
		if !s.IsValid() {
			return in, fmt.Errorf("--scope must be one of: gregorian, liturgical; got %q", f.scope)
		}
		in.Scope = &s
	}
	return in, nil
}

// reportProblems writes generation problems to w. With strict set, any
// problem fails the command.
func reportProblems(w io.Writer, res *calendar.Result, strict bool) error {
	for _, p := range res.Warnings() {
		fmt.Fprintln(w, "warning:", p)
	}
	if strict && len(res.Problems) > 0 {
		return fmt.Errorf("%s %d: %d problems", res.CalendarKey, res.Year, len(res.Problems))
	}
	return nil
}

func newCalendarsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "List the bundled calendars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.newService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			infos, err := svc.Calendars()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, info := range infos {
				parent := info.Parent
				if parent == "" {
					parent = "-"
				}
				fmt.Fprintf(out, "%-16s %-16s %v\n", info.Key, parent, info.Chain)
			}
			return nil
		},
	}
}

func normalizeOptionFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
