package martyrology

import (
	"errors"
	"fmt"
	"slices"
)

// ErrItemNotFound is wrapped by every LookupError.
var ErrItemNotFound = errors.New("martyrology item not found")

// LookupError reports a pointer whose key is missing from the catalog.
type LookupError struct {
	Key      string
	Calendar string
	DayKey   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("martyrology item %q not found (calendar %q, day %q)", e.Key, e.Calendar, e.DayKey)
}

func (e *LookupError) Unwrap() error {
	return ErrItemNotFound
}

// PointerItem references a catalog item, optionally redefining how it is
// presented on this date.
type PointerItem struct {
	Key        string
	Titles     *TitlesDef
	HideTitles bool
	Count      SaintCount // zero keeps the catalog value
}

// Ref is a plain reference to a catalog key.
func Ref(key string) PointerItem {
	return PointerItem{Key: key}
}

// Pointer is the ordered list of items linked to a date definition.
type Pointer []PointerItem

// Refs builds a Pointer of plain references.
func Refs(keys ...string) Pointer {
	p := make(Pointer, len(keys))
	for i, k := range keys {
		p[i] = Ref(k)
	}
	return p
}

// Validate reports the first item whose title directive is invalid.
func (p Pointer) Validate() error {
	for _, item := range p {
		if err := item.Titles.Validate(); err != nil {
			return fmt.Errorf("item %q: %w", item.Key, err)
		}
	}
	return nil
}

// Clone copies the pointer list. Title directives are immutable and shared.
func (p Pointer) Clone() Pointer {
	if p == nil {
		return nil
	}
	return slices.Clone(p)
}

// Link is a resolved pointer item.
type Link struct {
	Key        string     `json:"key"`
	Titles     []Title    `json:"titles"`
	HideTitles bool       `json:"hide_titles,omitempty"`
	Count      SaintCount `json:"count"`
}

// DisplayTitles returns the titles to show, honoring HideTitles. The stored
// Titles are kept either way.
func (l Link) DisplayTitles() []Title {
	if l.HideTitles {
		return nil
	}
	return slices.Clone(l.Titles)
}

// HasTitle reports whether the link carries t.
func (l Link) HasTitle(t Title) bool {
	return slices.Contains(l.Titles, t)
}

// Clone returns a copy that shares no slices with l.
func (l Link) Clone() Link {
	out := l
	out.Titles = slices.Clone(l.Titles)
	return out
}

// Linker resolves pointers against a catalog.
type Linker struct {
	catalog Catalog
}

// NewLinker creates a linker over catalog. A nil catalog resolves nothing.
func NewLinker(catalog Catalog) *Linker {
	if catalog == nil {
		catalog = MapCatalog{}
	}
	return &Linker{catalog: catalog}
}

// Link resolves every item of ptr. The item-level title directive is applied
// to the catalog titles first, then the definition-level directive titles.
// Unknown keys are skipped and reported as *LookupError; they never stop the
// remaining items from linking.
func (l *Linker) Link(calendarKey, dayKey string, ptr Pointer, titles *TitlesDef) ([]Link, []error) {
	if len(ptr) == 0 {
		return nil, nil
	}

	links := make([]Link, 0, len(ptr))
	var errs []error
	for _, p := range ptr {
		item, ok := l.catalog.Lookup(p.Key)
		if !ok {
			errs = append(errs, &LookupError{Key: p.Key, Calendar: calendarKey, DayKey: dayKey})
			continue
		}

		count := item.Count
		if p.Count != 0 {
			count = p.Count
		}
		links = append(links, Link{
			Key:        item.Key,
			Titles:     titles.Apply(p.Titles.Apply(item.Titles)),
			HideTitles: p.HideTitles,
			Count:      count,
		})
	}
	return links, errs
}
