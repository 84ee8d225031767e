package calendar

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Option names accepted by ParseConfigInput and DecodeConfigInput.
const (
	OptionAscensionOnSunday     = "ascension_on_sunday"
	OptionEpiphanyOnSunday      = "epiphany_on_sunday"
	OptionCorpusChristiOnSunday = "corpus_christi_on_sunday"
	OptionScope                 = "scope"
)

// ErrUnknownOption is returned for configuration keys that do not exist.
var ErrUnknownOption = errors.New("unknown configuration option")

// Scope selects the span of dates a generated calendar covers.
type Scope string

const (
	// ScopeGregorian covers January 1 to December 31.
	ScopeGregorian Scope = "gregorian"

	// ScopeLiturgical covers the liturgical year ending in the requested
	// year: first Sunday of Advent of the previous year up to the day
	// before the first Sunday of Advent.
	ScopeLiturgical Scope = "liturgical"
)

// IsValid checks if a scope is valid.
func (s Scope) IsValid() bool {
	return s == ScopeGregorian || s == ScopeLiturgical
}

// Config holds the global generation options.
type Config struct {
	AscensionOnSunday     bool  `json:"ascension_on_sunday"`
	EpiphanyOnSunday      bool  `json:"epiphany_on_sunday"`
	CorpusChristiOnSunday bool  `json:"corpus_christi_on_sunday"`
	Scope                 Scope `json:"scope"`
}

// DefaultConfig returns the options of the General Roman Calendar.
func DefaultConfig() Config {
	return Config{Scope: ScopeGregorian}
}

// Fingerprint is a stable string identifying the option values, suitable as
// a cache key.
func (c Config) Fingerprint() string {
	return fmt.Sprintf("asc=%t;epi=%t;cc=%t;scope=%s",
		c.AscensionOnSunday, c.EpiphanyOnSunday, c.CorpusChristiOnSunday, c.scope())
}

func (c Config) scope() Scope {
	if c.Scope == "" {
		return ScopeGregorian
	}
	return c.Scope
}

// Tristate is a particular calendar's override of a global option.
type Tristate int

const (
	Inherit Tristate = iota
	ForceOn
	ForceOff
)

func (t Tristate) apply(global bool) bool {
	switch t {
	case ForceOn:
		return true
	case ForceOff:
		return false
	default:
		return global
	}
}

// ParticularConfig lets a calendar override the Sunday-transfer options.
type ParticularConfig struct {
	AscensionOnSunday     Tristate
	EpiphanyOnSunday      Tristate
	CorpusChristiOnSunday Tristate
}

// over lays the explicit settings of p over parent.
func (p ParticularConfig) over(parent ParticularConfig) ParticularConfig {
	out := parent
	if p.AscensionOnSunday != Inherit {
		out.AscensionOnSunday = p.AscensionOnSunday
	}
	if p.EpiphanyOnSunday != Inherit {
		out.EpiphanyOnSunday = p.EpiphanyOnSunday
	}
	if p.CorpusChristiOnSunday != Inherit {
		out.CorpusChristiOnSunday = p.CorpusChristiOnSunday
	}
	return out
}

// Apply resolves the options of a calendar from the global values.
func (p ParticularConfig) Apply(c Config) Config {
	out := c
	out.AscensionOnSunday = p.AscensionOnSunday.apply(c.AscensionOnSunday)
	out.EpiphanyOnSunday = p.EpiphanyOnSunday.apply(c.EpiphanyOnSunday)
	out.CorpusChristiOnSunday = p.CorpusChristiOnSunday.apply(c.CorpusChristiOnSunday)
	out.Scope = c.scope()
	return out
}

// ConfigInput is a partial Config. Nil fields keep the current value.
type ConfigInput struct {
	AscensionOnSunday     *bool  `yaml:"ascension_on_sunday"`
	EpiphanyOnSunday      *bool  `yaml:"epiphany_on_sunday"`
	CorpusChristiOnSunday *bool  `yaml:"corpus_christi_on_sunday"`
	Scope                 *Scope `yaml:"scope"`
}

// Merge returns c updated with the fields set in in.
func (c Config) Merge(in ConfigInput) (Config, error) {
	out := c
	if in.AscensionOnSunday != nil {
		out.AscensionOnSunday = *in.AscensionOnSunday
	}
	if in.EpiphanyOnSunday != nil {
		out.EpiphanyOnSunday = *in.EpiphanyOnSunday
	}
	if in.CorpusChristiOnSunday != nil {
		out.CorpusChristiOnSunday = *in.CorpusChristiOnSunday
	}
	if in.Scope != nil {
		if !in.Scope.IsValid() {
			return c, fmt.Errorf("%s must be one of: gregorian, liturgical; got %q", OptionScope, *in.Scope)
		}
		out.Scope = *in.Scope
	}
	return out, nil
}

// ParseConfigInput builds a ConfigInput from string pairs, as found in query
// strings and environment variables. Unknown keys and malformed values are
// all reported together.
func ParseConfigInput(values map[string]string) (ConfigInput, error) {
	var in ConfigInput
	var errs []error

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		raw := strings.TrimSpace(values[key])
		switch key {
		case OptionAscensionOnSunday:
			in.AscensionOnSunday, errs = parseBoolOption(key, raw, errs)
		case OptionEpiphanyOnSunday:
			in.EpiphanyOnSunday, errs = parseBoolOption(key, raw, errs)
		case OptionCorpusChristiOnSunday:
			in.CorpusChristiOnSunday, errs = parseBoolOption(key, raw, errs)
		case OptionScope:
			s := Scope(raw)
			if !s.IsValid() {
				errs = append(errs, fmt.Errorf("%s must be one of: gregorian, liturgical; got %q", key, raw))
				continue
			}
			in.Scope = &s
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownOption, key))
		}
	}

	if len(errs) > 0 {
		return ConfigInput{}, errors.Join(errs...)
	}
	return in, nil
}

func parseBoolOption(key, raw string, errs []error) (*bool, []error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, append(errs, fmt.Errorf("%s must be a boolean, got %q", key, raw))
	}
	return &b, errs
}

// DecodeConfigInput reads a YAML document of options. Unknown keys fail.
func DecodeConfigInput(r io.Reader) (ConfigInput, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var in ConfigInput
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return ConfigInput{}, nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return ConfigInput{}, fmt.Errorf("%w: %v", ErrUnknownOption, err)
		}
		return ConfigInput{}, fmt.Errorf("decode config: %w", err)
	}
	if in.Scope != nil && !in.Scope.IsValid() {
		return ConfigInput{}, fmt.Errorf("%s must be one of: gregorian, liturgical; got %q", OptionScope, *in.Scope)
	}
	return in, nil
}
