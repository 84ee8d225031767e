// Package martyrology holds the catalog of saints and celebrations that
// calendar definitions point to, and links those pointers to catalog items.
package martyrology

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// SaintCount tells how many people a catalog item stands for. CountMany
// marks groups of unknown size.
type SaintCount int

const (
	CountMany SaintCount = -1
	CountOne  SaintCount = 1
)

// IsPlural reports whether names for this item are rendered in the plural.
func (c SaintCount) IsPlural() bool {
	return c == CountMany || c > 1
}

// UnmarshalYAML accepts a positive number or the string "many".
func (c *SaintCount) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "many" {
		*c = CountMany
		return nil
	}
	n, err := strconv.Atoi(value.Value)
	if err != nil || n < 1 {
		return fmt.Errorf("line %d: count must be a positive number or \"many\", got %q", value.Line, value.Value)
	}
	*c = SaintCount(n)
	return nil
}

// MarshalJSON writes "many" for CountMany and a number otherwise.
func (c SaintCount) MarshalJSON() ([]byte, error) {
	if c == CountMany {
		return []byte(`"many"`), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *SaintCount) UnmarshalJSON(data []byte) error {
	if string(data) == `"many"` {
		*c = CountMany
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode saint count: %w", err)
	}
	*c = SaintCount(n)
	return nil
}

// Item is a single catalog entry.
type Item struct {
	Key               string     `yaml:"key"`
	CanonizationLevel string     `yaml:"canonization_level,omitempty"`
	Titles            []Title    `yaml:"titles,omitempty"`
	Count             SaintCount `yaml:"count,omitempty"`
}

// Catalog looks up catalog items by key.
type Catalog interface {
	Lookup(key string) (Item, bool)
}

// MapCatalog is an in-memory Catalog.
type MapCatalog map[string]Item

// Lookup implements Catalog.
func (c MapCatalog) Lookup(key string) (Item, bool) {
	item, ok := c[key]
	if !ok {
		return Item{}, false
	}
	item.Titles = slices.Clone(item.Titles)
	if item.Count == 0 {
		item.Count = CountOne
	}
	return item, true
}

// Keys returns the catalog keys in sorted order.
func (c MapCatalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Fingerprinter is a Catalog that can identify its content. Equal
// fingerprints mean every lookup gives the same answer.
type Fingerprinter interface {
	Catalog
	Fingerprint() string
}

// Fingerprint hashes the items as Lookup returns them, in key order.
func (c MapCatalog) Fingerprint() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, k := range c.Keys() {
		item, _ := c.Lookup(k)
		// Items are plain data and always encode.
		_ = enc.Encode(item)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

type catalogFile struct {
	Items []Item `yaml:"items"`
}

// LoadCatalog reads a YAML catalog of the form:
//
//	items:
//	  - key: patrick_of_ireland_bishop
//	    titles: [BISHOP, MISSIONARY]
//	  - key: holy_innocents
//	    titles: [MARTYR]
//	    count: many
func LoadCatalog(r io.Reader) (MapCatalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := make(MapCatalog, len(file.Items))
	var errs []error
	for i, item := range file.Items {
		if item.Key == "" {
			errs = append(errs, fmt.Errorf("item %d: key is required", i))
			continue
		}
		if _, dup := catalog[item.Key]; dup {
			errs = append(errs, fmt.Errorf("item %d: duplicate key %q", i, item.Key))
			continue
		}
		catalog[item.Key] = item
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return catalog, nil
}

// OpenCatalog loads a catalog file. An empty path returns DefaultCatalog.
func OpenCatalog(path string) (MapCatalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	catalog, err := LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// DefaultCatalog returns the sample catalog bundled with the package. It
// covers every item referenced by the bundled calendars.
func DefaultCatalog() MapCatalog {
	catalog, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(fmt.Sprintf("martyrology: bundled catalog is invalid: %v", err))
	}
	return catalog
}
