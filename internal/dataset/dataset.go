// Package dataset loads athlete testing exports into an in-memory table keyed by athlete.
package dataset

import (
	"errors"
	"sort"
)

// IDColumn is the canonical athlete identifier column after ingestion.
const IDColumn = "Joueur"

var (
	// ErrNoIdentifier means no column matched joueur/nom/name.
	ErrNoIdentifier = errors.New("identifier column not found (expected Joueur, Nom or Name)")
	// ErrEmpty means the file holds no athlete rows.
	ErrEmpty = errors.New("dataset has no athlete rows")
)

// Record is one row of the export.
type Record struct {
	ID    string            `json:"id"`
	Cells map[string]string `json:"cells"`
}

// Get returns the raw cell for column.
func (r Record) Get(column string) (string, bool) {
	v, ok := r.Cells[column]
	return v, ok
}

// Dataset is an immutable snapshot of one loaded export.
type Dataset struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Records []Record `json:"records"`

	index map[string]int
}

// New builds a dataset from trimmed, de-duplicated columns and records.
func New(name, source string, columns []string, records []Record) *Dataset {
	ds := &Dataset{Name: name, Source: source, Columns: columns, Records: records}
	ds.reindex()
	return ds
}

func (d *Dataset) reindex() {
	d.index = make(map[string]int, len(d.Columns))
	for i, c := range d.Columns {
		if _, ok := d.index[c]; !ok {
			d.index[c] = i
		}
	}
}

// HasColumn reports whether column exists verbatim.
func (d *Dataset) HasColumn(column string) bool {
	if d == nil {
		return false
	}
	if d.index == nil {
		d.reindex()
	}
	_, ok := d.index[column]
	return ok
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Raw returns the raw cells of column in record order. Missing cells are "".
func (d *Dataset) Raw(column string) []string {
	if !d.HasColumn(column) {
		return nil
	}
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Cells[column]
	}
	return out
}

// Athletes returns the sorted unique athlete identifiers.
func (d *Dataset) Athletes() []string {
	if d == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range d.Records {
		if !seen[r.ID] {
			seen[r.ID] = true
			out = append(out, r.ID)
		}
	}
	sort.Strings(out)
	return out
}

// Find returns the first record of athlete id.
func (d *Dataset) Find(id string) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	for _, r := range d.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Last returns the most recent (last) record of athlete id.
func (d *Dataset) Last(id string) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	for i := len(d.Records) - 1; i >= 0; i-- {
		if d.Records[i].ID == id {
			return d.Records[i], true
		}
	}
	return Record{}, false
}

// Filter returns a new dataset holding the records accepted by keep.
func (d *Dataset) Filter(keep func(Record) bool) *Dataset {
	var recs []Record
	for _, r := range d.Records {
		if keep(r) {
			recs = append(recs, r)
		}
	}
	return New(d.Name, d.Source, d.Columns, recs)
}
