// Package catalog models the brand/model snapshot the search engine ranks against.
//
// Historical catalog documents mix two shapes for a model: a bare name and an object
// with a name, an image and arbitrary extra fields. Both decode into a Record and are
// normalized to a single Model before ranking.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type recordKind uint8

const (
	kindInvalid recordKind = iota
	kindNamed
	kindDetailed
)

// Record is one model as found in a catalog document.
type Record struct {
	kind    recordKind
	name    string
	image   string
	extra   map[string]json.RawMessage
	invalid string
	warning string // set on usable records that lost a malformed field
}

// NamedModel creates a record from a bare model name.
func NamedModel(name string) Record {
	return Record{kind: kindNamed, name: name}
}

// DetailedModel creates a record from a structured model object.
// Extra fields are kept as-is and never interpreted.
func DetailedModel(name, image string, extra map[string]json.RawMessage) Record {
	return Record{kind: kindDetailed, name: name, image: image, extra: extra}
}

func invalidRecord(reason string) Record {
	return Record{kind: kindInvalid, invalid: reason}
}

func (r Record) withWarning(reason string) Record {
	r.warning = reason
	return r
}

// IsDetailed reports whether the record came from the structured shape.
func (r Record) IsDetailed() bool { return r.kind == kindDetailed }

// Model normalizes the record. It returns false when the trimmed name is empty.
func (r Record) Model() (Model, bool) {
	if r.kind == kindInvalid {
		return Model{}, false
	}
	name := strings.TrimSpace(r.name)
	if name == "" {
		return Model{}, false
	}
	return Model{name: name, image: r.image, extra: r.extra}, true
}

// Model is a normalized catalog model.
type Model struct {
	name  string
	image string
	extra map[string]json.RawMessage
}

// NewModel creates a model without extra fields. The name is stored as given.
func NewModel(name, image string) Model {
	return Model{name: name, image: image}
}

// Name returns the display name of the model.
func (m Model) Name() string { return m.name }

// Image returns the opaque image reference.
func (m Model) Image() string { return m.image }

// Extra returns the uninterpreted extra fields of a structured record.
func (m Model) Extra() map[string]json.RawMessage { return m.extra }

// Entry is one brand with its models, in catalog order.
type Entry struct {
	brand   string
	brandID string
	models  []Model
}

// NewEntry creates an entry. The brand key is lower-cased and trimmed.
func NewEntry(brand string, models ...Model) Entry {
	return Entry{brand: brandKey(brand), models: models}
}

// WithBrandID returns a copy of the entry carrying the upstream brand identifier.
func (e Entry) WithBrandID(id string) Entry {
	e.brandID = id
	return e
}

// Brand returns the canonical brand key.
func (e Entry) Brand() string { return e.brand }

// BrandID returns the upstream brand identifier, if any.
func (e Entry) BrandID() string { return e.brandID }

// Models returns the models of the brand.
func (e Entry) Models() []Model { return e.models }

// Issue describes a catalog record that was skipped while building a snapshot.
type Issue struct {
	Brand  string
	Index  int
	Reason string
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s: %s", i.Brand, i.Reason)
	}
	return fmt.Sprintf("%s[%d]: %s", i.Brand, i.Index, i.Reason)
}

// Snapshot is a point-in-time, read-only view of one category's catalog.
type Snapshot struct {
	category string
	entries  []Entry
	issues   []Issue
}

// NewSnapshot builds a snapshot from decoded records. Unusable records and brand keys
// are skipped and reported as issues. Entries are ordered by brand key.
func NewSnapshot(category string, records map[string][]Record) Snapshot {
	raw := make([]rawEntry, 0, len(records))
	for brand, recs := range records {
		raw = append(raw, rawEntry{brand: brand, records: recs})
	}
	return build(category, raw, nil)
}

type rawEntry struct {
	brand   string
	brandID string
	records []Record
}

func build(category string, raw []rawEntry, issues []Issue) Snapshot {
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].brand < raw[j].brand })

	byBrand := make(map[string]*Entry, len(raw))
	for _, r := range raw {
		key := brandKey(r.brand)
		if key == "" {
			issues = append(issues, Issue{Brand: r.brand, Index: -1, Reason: "empty brand key"})
			continue
		}
		e, ok := byBrand[key]
		if !ok {
			e = &Entry{brand: key, brandID: r.brandID}
			byBrand[key] = e
		} else {
			issues = append(issues, Issue{Brand: r.brand, Index: -1, Reason: "duplicate brand key merged into " + key})
		}
		for i, rec := range r.records {
			m, ok := rec.Model()
			if !ok {
				reason := rec.invalid
				if reason == "" {
					reason = "empty model name"
				}
				issues = append(issues, Issue{Brand: key, Index: i, Reason: reason})
				continue
			}
			if rec.warning != "" {
				issues = append(issues, Issue{Brand: key, Index: i, Reason: rec.warning})
			}
			e.models = append(e.models, m)
		}
	}

	entries := make([]Entry, 0, len(byBrand))
	for _, e := range byBrand {
		entries = append(entries, *e)
	}
	s := FromEntries(category, entries...)
	s.issues = issues
	return s
}

// FromEntries builds a snapshot from ready entries, ordered by brand key.
// Entries are kept as given, including empty names, which the engine skips at ranking time.
func FromEntries(category string, entries ...Entry) Snapshot {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].brand < sorted[j].brand })
	return Snapshot{category: category, entries: sorted}
}

// Category returns the product category of the snapshot.
func (s Snapshot) Category() string { return s.category }

// Entries returns the brand entries ordered by brand key.
func (s Snapshot) Entries() []Entry { return s.entries }

// Issues returns the records skipped while the snapshot was built.
func (s Snapshot) Issues() []Issue { return s.issues }

// Brands returns the brand keys in order.
func (s Snapshot) Brands() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.brand)
	}
	return out
}

// Len returns the total number of models across all entries.
func (s Snapshot) Len() int {
	n := 0
	for _, e := range s.entries {
		n += len(e.models)
	}
	return n
}

// IsEmpty reports whether the snapshot holds no models.
func (s Snapshot) IsEmpty() bool { return s.Len() == 0 }

func brandKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
