// Package locale turns generated liturgical days into display names.
//
// Dictionaries are YAML files embedded under locales/. A dictionary may name
// a parent; lookups that miss fall through to it. Days without an entry get
// a name built from their Proper of Time key, or a humanized key.
package locale

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/martyrology"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// ErrUnknownLocale is returned when no dictionary matches a tag.
var ErrUnknownLocale = errors.New("unknown locale")

const maxParentDepth = 8

type dictionaryFile struct {
	Locale       string            `yaml:"locale"`
	Parent       string            `yaml:"parent"`
	Weekdays     []string          `yaml:"weekdays"`
	Months       []string          `yaml:"months"`
	ProperOfTime map[string]string `yaml:"proper_of_time"`
	Titles       map[string]string `yaml:"titles"`
	Names        map[string]string `yaml:"names"`
}

// Dictionary resolves display names for one locale.
type Dictionary struct {
	tag    language.Tag
	parent *Dictionary
	data   dictionaryFile
}

// Tags lists the bundled locales.
func Tags() []string {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil
	}
	tags := make([]string, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(tags)
	return tags
}

// Load returns the dictionary for a BCP 47 tag such as "en-IE". A regional
// tag without its own file falls back to the nearest bundled ancestor, so
// "en-GB" loads "en".
func Load(tag string) (*Dictionary, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", tag, err)
	}
	return load(t, 0)
}

func load(t language.Tag, depth int) (*Dictionary, error) {
	if depth > maxParentDepth {
		return nil, fmt.Errorf("locale %s: parent chain is too deep", t)
	}

	for cur := t; ; cur = cur.Parent() {
		data, err := localeFS.ReadFile("locales/" + strings.ToLower(cur.String()) + ".yaml")
		if err == nil {
			return parse(cur, data, depth)
		}
		if cur.IsRoot() {
			break
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, t)
}

func parse(t language.Tag, data []byte, depth int) (*Dictionary, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f dictionaryFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode locale %s: %w", t, err)
	}
	if n := len(f.Weekdays); n != 0 && n != 7 {
		return nil, fmt.Errorf("locale %s: want 7 weekdays, got %d", t, n)
	}
	if n := len(f.Months); n != 0 && n != 12 {
		return nil, fmt.Errorf("locale %s: want 12 months, got %d", t, n)
	}

	d := &Dictionary{tag: t, data: f}
	if f.Parent != "" {
		pt, err := language.Parse(f.Parent)
		if err != nil {
			return nil, fmt.Errorf("locale %s: parse parent %q: %w", t, f.Parent, err)
		}
		parent, err := load(pt, depth+1)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", t, err)
		}
		d.parent = parent
	}
	return d, nil
}

// Tag returns the tag of the dictionary that was loaded.
func (d *Dictionary) Tag() string {
	return d.tag.String()
}

// lookup walks the parent chain until get finds a value.
func lookup[T any](d *Dictionary, get func(dictionaryFile) (T, bool)) (T, bool) {
	for cur := d; cur != nil; cur = cur.parent {
		if v, ok := get(cur.data); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (d *Dictionary) lookupName(key string) (string, bool) {
	return lookup(d, func(f dictionaryFile) (string, bool) {
		s, ok := f.Names[key]
		return s, ok
	})
}

// Name returns the display name of day. The custom locale key is tried
// first, then the day's own key.
func (d *Dictionary) Name(day calendar.LiturgicalDay) string {
	if s, ok := d.lookupName(day.LocaleKey()); ok {
		return s
	}
	if day.CustomLocaleKey != "" {
		if s, ok := d.lookupName(day.Name); ok {
			return s
		}
	}
	if day.IsProperOfTime() {
		if s, ok := d.properOfTimeName(day); ok {
			return s
		}
	}
	return d.humanize(day.Name)
}

// Title returns the display form of a saint's title.
func (d *Dictionary) Title(t martyrology.Title) string {
	s, ok := lookup(d, func(f dictionaryFile) (string, bool) {
		s, ok := f.Titles[string(t)]
		return s, ok
	})
	if ok {
		return s
	}
	return d.humanize(strings.ToLower(string(t)))
}

// Titles renders the titles a link displays. Hidden titles render as nil.
func (d *Dictionary) Titles(link martyrology.Link) []string {
	titles := link.DisplayTitles()
	if len(titles) == 0 {
		return nil
	}
	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = d.Title(t)
	}
	return out
}
