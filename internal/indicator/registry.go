package indicator

import (
	"fmt"
	"strings"
)

const defaultSource = "Club"

// Registry answers polarity, unit, norm and column questions for indicator labels.
// A Registry is immutable once built; overlays produce a new one.
type Registry struct {
	categories []Category
	columns    map[string]string
	relColumns map[string]string
	keywords   map[string][]string
	norms      []Norm
	units      map[string]string
	sources    map[string]string
	relNorms   map[string]bool
	inverted   []string

	defaultSource string
}

// Default returns the registry built from the reference tables.
func Default() *Registry {
	r := &Registry{
		categories: make([]Category, len(officialStructure)),
		columns:    cloneMap(columnMapping),
		relColumns: cloneMap(relColumnMapping),
		keywords:   make(map[string][]string, len(keywordMapping)),
		norms:      append([]Norm(nil), reportNorms...),
		units:      cloneMap(units),
		sources:    cloneMap(sourcesConfig),
		relNorms:   make(map[string]bool, len(relativeNormKeys)),
		inverted:   append([]string(nil), invertedKeywords...),

		defaultSource: defaultSource,
	}
	for i, c := range officialStructure {
		r.categories[i] = Category{Name: c.Name, Labels: append([]string(nil), c.Labels...)}
	}
	for k, v := range keywordMapping {
		r.keywords[k] = append([]string(nil), v...)
	}
	for _, k := range relativeNormKeys {
		r.relNorms[k] = true
	}
	return r
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Categories returns the report categories in display order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Labels returns every tracked label, category by category.
func (r *Registry) Labels() []string {
	var out []string
	for _, c := range r.categories {
		out = append(out, c.Labels...)
	}
	return out
}

// IsInverted reports whether lower values are better for label.
func (r *Registry) IsInverted(label string) bool {
	for _, s := range []string{label, CleanLabel(label)} {
		l := strings.ToLower(s)
		for _, k := range r.inverted {
			if strings.Contains(l, k) {
				return true
			}
		}
	}
	return false
}

// NormativeRange looks the clean label up in the ordered norm table by containment of the
// clean norm key, so both sides of a bilateral indicator share their norm.
func (r *Registry) NormativeRange(label string) (Range, bool) {
	clean := CleanLabel(label)
	for _, n := range r.norms {
		if strings.Contains(clean, CleanLabel(n.Label)) {
			return n.Range, true
		}
	}
	return Range{}, false
}

// Unit returns the display unit of label, or "".
func (r *Registry) Unit(label string) string {
	return r.units[CleanLabel(label)]
}

// Source names the origin of the label's norm.
func (r *Registry) Source(label string) string {
	if s, ok := r.sources[CleanLabel(label)]; ok {
		return s
	}
	return r.defaultSource
}

// ColumnHint returns the reference column name for label.
func (r *Registry) ColumnHint(label string) (string, bool) {
	c, ok := r.columns[label]
	return c, ok
}

// ColumnMapping returns a copy of the label to reference column table.
func (r *Registry) ColumnMapping() map[string]string {
	return cloneMap(r.columns)
}

// RelColumn returns the explicit per-bodyweight column for label.
func (r *Registry) RelColumn(label string) (string, bool) {
	c, ok := r.relColumns[label]
	return c, ok
}

// Keywords returns the fuzzy keywords registered for label.
func (r *Registry) Keywords(label string) []string {
	return r.keywords[label]
}

// IsRelativeNorm reports whether the norm of label is expressed per kilogram.
func (r *Registry) IsRelativeNorm(label string) bool {
	return r.relNorms[label]
}

// NormText renders the objective shown next to a value, "-" when no norm applies.
func (r *Registry) NormText(label string) string {
	rg, ok := r.NormativeRange(label)
	if !ok {
		return "-"
	}
	suffix := " " + r.Unit(label)
	if r.IsInverted(label) {
		return fmt.Sprintf("Obj: < %s%s", Format(rg.Low, true), suffix)
	}
	return fmt.Sprintf("Obj: %s - %s%s", Format(rg.Low, true), Format(rg.High, true), suffix)
}

// Lookup assembles the static description of label.
func (r *Registry) Lookup(label string) Indicator {
	ind := Indicator{
		Label:    label,
		Unit:     r.Unit(label),
		Inverted: r.IsInverted(label),
		Source:   r.Source(label),
	}
	for _, c := range r.categories {
		for _, l := range c.Labels {
			if l == label {
				ind.Category = c.Name
			}
		}
	}
	if rg, ok := r.NormativeRange(label); ok {
		ind.Norm = &rg
	}
	ind.Column, _ = r.ColumnHint(label)
	ind.RelColumn, _ = r.RelColumn(label)
	return ind
}

// Indicators returns the description of every tracked label.
func (r *Registry) Indicators() []Indicator {
	labels := r.Labels()
	out := make([]Indicator, 0, len(labels))
	for _, l := range labels {
		out = append(out, r.Lookup(l))
	}
	return out
}

// NormSource is one line of the norms and sources listing.
type NormSource struct {
	Category  string `json:"category"`
	Indicator string `json:"indicator"`
	Norm      string `json:"norm"`
	Source    string `json:"source"`
}

// NormsAndSources lists each clean indicator once, with its objective and source.
func (r *Registry) NormsAndSources() []NormSource {
	seen := map[string]bool{}
	var out []NormSource
	for _, c := range r.categories {
		for _, l := range c.Labels {
			clean := CleanLabel(l)
			if seen[clean] {
				continue
			}
			seen[clean] = true
			out = append(out, NormSource{
				Category:  c.Name,
				Indicator: clean,
				Norm:      strings.TrimPrefix(r.NormText(l), "Obj: "),
				Source:    r.Source(l),
			})
		}
	}
	return out
}
