// Package metadata collects descriptions of the named constants that appear in
// a result, merging records reported by the constant catalog and by the
// external verification service into one list keyed by a canonical label.
package metadata

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pcfscope/server/catalog"
)

// Entry is one constant description shown next to a result.
type Entry struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// External is a metadata record from the verification service, already
// reduced to a single URL.
type External struct {
	Text string
	URL  string
}

// Deduper accumulates entries for one analysis. It is not safe for
// concurrent use; the owning session serialises access.
type Deduper struct {
	catalog *catalog.Catalog
	entries []Entry
	index   map[string]int // canonical label -> position in entries
}

// New returns an empty deduper. The catalog, if given, supplies the display
// label for external records that describe a catalog constant.
func New(cat *catalog.Catalog) *Deduper {
	return &Deduper{
		catalog: cat,
		index:   make(map[string]int),
	}
}

// Register records a catalog definition. Definitions without a display name
// carry no metadata and are ignored.
func (d *Deduper) Register(def catalog.Definition) {
	if !def.HasMetadata() {
		return
	}
	d.add(def.Name, def.URL)
}

// RegisterExternal records a verification-service metadata record.
func (d *Deduper) RegisterExternal(rec External) {
	text := strings.TrimSpace(rec.Text)
	if text == "" {
		return
	}
	label := text
	if d.catalog != nil {
		if def, ok := d.findCatalogDefinition(text); ok {
			label = def.Name
		}
	}
	d.add(label, rec.URL)
}

func (d *Deduper) findCatalogDefinition(text string) (catalog.Definition, bool) {
	key := CanonicalLabel(text)
	for _, def := range d.catalog.Definitions() {
		if def.Name != "" && CanonicalLabel(def.Name) == key {
			return def, true
		}
	}
	return catalog.Definition{}, false
}

// add inserts a new label or fills in a missing URL. An existing URL is
// never replaced.
func (d *Deduper) add(label, url string) {
	key := CanonicalLabel(label)
	if key == "" {
		return
	}
	if i, ok := d.index[key]; ok {
		if d.entries[i].URL == "" && url != "" {
			d.entries[i].URL = url
		}
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Label: label, URL: url})
}

// Entries returns the entries in insertion order.
func (d *Deduper) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of distinct entries.
func (d *Deduper) Len() int {
	return len(d.entries)
}

// Reset discards all entries.
func (d *Deduper) Reset() {
	d.entries = nil
	d.index = make(map[string]int)
}

var (
	subjectPrefix = regexp.MustCompile(`^\S+\s+(?:is|denotes)\s+`)
	possessive    = regexp.MustCompile(`['’]s\b`)
)

// CanonicalLabel reduces a constant description to its deduplication key:
// "C is Catalan's constant" and "Catalan Constant" both become
// "catalan constant".
func CanonicalLabel(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = subjectPrefix.ReplaceAllString(s, "")
	s = possessive.ReplaceAllString(s, "")

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimPrefix(s, "the ")
}
