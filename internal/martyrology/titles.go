package martyrology

import (
	"errors"
	"slices"
)

// Title is a title carried by a saint or blessed, such as "MARTYR".
type Title string

const (
	TitleAbbess            Title = "ABBESS"
	TitleAbbot             Title = "ABBOT"
	TitleApostle           Title = "APOSTLE"
	TitleBishop            Title = "BISHOP"
	TitleDeacon            Title = "DEACON"
	TitleDoctorOfTheChurch Title = "DOCTOR_OF_THE_CHURCH"
	TitleEvangelist        Title = "EVANGELIST"
	TitleMartyr            Title = "MARTYR"
	TitleMissionary        Title = "MISSIONARY"
	TitleMonk              Title = "MONK"
	TitlePope              Title = "POPE"
	TitlePriest            Title = "PRIEST"
	TitleReligious         Title = "RELIGIOUS"
	TitleVirgin            Title = "VIRGIN"

	// Patronage titles.
	TitleCopatronOfEurope  Title = "COPATRON_OF_EUROPE"
	TitlePatronOfEurope    Title = "PATRON_OF_EUROPE"
	TitlePatronOfIreland   Title = "PATRON_OF_IRELAND"
	TitleCopatronOfIreland Title = "COPATRON_OF_IRELAND"
)

type titlesKind int

const (
	titlesReplace titlesKind = iota + 1
	titlesExtend
)

// TitlesDef either replaces a title list outright or derives a new list from
// the inherited one. A nil *TitlesDef means "no directive".
type TitlesDef struct {
	kind titlesKind
	list []Title
	fn   func([]Title) []Title
}

// ReplaceTitles discards whatever titles are inherited and uses titles.
func ReplaceTitles(titles ...Title) *TitlesDef {
	return &TitlesDef{kind: titlesReplace, list: slices.Clone(titles)}
}

// ErrNilTitlesFunc is reported for an extension built from a nil function.
var ErrNilTitlesFunc = errors.New("nil title function")

// ExtendTitles derives the title list from the inherited one.
func ExtendTitles(fn func([]Title) []Title) *TitlesDef {
	return &TitlesDef{kind: titlesExtend, fn: fn}
}

// Validate reports an extension without a function. A nil directive is
// valid.
func (d *TitlesDef) Validate() error {
	if d != nil && d.kind == titlesExtend && d.fn == nil {
		return ErrNilTitlesFunc
	}
	return nil
}

// AppendTitles keeps the inherited titles and appends titles after them.
func AppendTitles(titles ...Title) *TitlesDef {
	extra := slices.Clone(titles)
	return ExtendTitles(func(in []Title) []Title {
		return append(slices.Clone(in), extra...)
	})
}

// IsReplace reports whether the directive is a literal replacement.
func (d *TitlesDef) IsReplace() bool {
	return d != nil && d.kind == titlesReplace
}

// Apply runs the directive against the inherited titles. The input is never
// modified. A nil or invalid directive returns a copy of the input.
func (d *TitlesDef) Apply(inherited []Title) []Title {
	switch {
	case d == nil, d.Validate() != nil:
		return slices.Clone(inherited)
	case d.kind == titlesReplace:
		return slices.Clone(d.list)
	default:
		return d.fn(slices.Clone(inherited))
	}
}

// Then merges a more specific directive over d. A replacement in next wins
// outright; an extension in next is composed after d. An invalid directive
// stays invalid through the merge unless a replacement discards it.
func (d *TitlesDef) Then(next *TitlesDef) *TitlesDef {
	switch {
	case next == nil:
		return d
	case d == nil, next.kind == titlesReplace, next.Validate() != nil:
		return next
	case d.Validate() != nil:
		return d
	case d.kind == titlesReplace:
		return ReplaceTitles(next.Apply(d.list)...)
	default:
		first, second := d.fn, next.fn
		return ExtendTitles(func(in []Title) []Title {
			return second(first(in))
		})
	}
}
