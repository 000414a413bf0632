package profile

import (
	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/indicator"
)

// Row is one indicator of the athlete.
type Row struct {
	Label    string `json:"label"`
	Category string `json:"category"`
	analysis.Measurement
	// Raw is the absolute reading whatever the display mode.
	Raw      float64         `json:"raw"`
	RawOK    bool            `json:"raw_ok"`
	Status   analysis.Status `json:"status"`
	Norm     string          `json:"norm"`
	Source   string          `json:"source"`
	Inverted bool            `json:"inverted"`
}

// PairRow is a bilateral indicator with its asymmetry.
type PairRow struct {
	Label      string              `json:"label"`
	Left       Row                 `json:"left"`
	Right      Row                 `json:"right"`
	Percentile float64             `json:"percentile"`
	Asym       analysis.AsymResult `json:"asym"`
	Band       *analysis.Band      `json:"band,omitempty"`
	Badge      string              `json:"badge,omitempty"`
}

// Item is either a single indicator or a pair, in display order.
type Item struct {
	Single *Row     `json:"single,omitempty"`
	Pair   *PairRow `json:"pair,omitempty"`
}

// Section is one report category.
type Section struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// Rows flattens the section to its indicator rows, pairs left then right.
func (s Section) Rows() []Row {
	var out []Row
	for _, it := range s.Items {
		if it.Single != nil {
			out = append(out, *it.Single)
			continue
		}
		out = append(out, it.Pair.Left, it.Pair.Right)
	}
	return out
}

// companions are the side pairs shown next to a total that carries no sides itself.
var companions = map[string]string{
	"Somme ADD": "Adducteurs (G)",
	"Somme ABD": "Abducteurs (G)",
	"Landing %": "Landing (G)",
}

// neverRelative lists wellness scores, which have no per-kg reading.
var neverRelative = map[string]bool{"Score Sommeil": true, "Score Nutrition": true}

func (b *builder) sections() []Section {
	var out []Section
	for _, cat := range b.reg.Categories() {
		s := Section{Category: cat.Name}
		labels := cat.Labels
		for i := 0; i < len(labels); i++ {
			l := labels[i]
			if g, ok := companions[l]; ok {
				if p := b.pair(cat.Name, g); p.Left.OK || p.Right.OK {
					s.Items = append(s.Items, Item{Pair: &p})
				}
			}
			if indicator.Side(l) == analysis.Left && i+1 < len(labels) && labels[i+1] == indicator.Mirror(l) {
				p := b.pair(cat.Name, l)
				s.Items = append(s.Items, Item{Pair: &p})
				i++
				continue
			}
			r := b.row(cat.Name, l)
			s.Items = append(s.Items, Item{Single: &r})
		}
		out = append(out, s)
	}
	return out
}

func (b *builder) row(category, label string) Row {
	r := Row{
		Label:    label,
		Category: category,
		Norm:     b.reg.NormText(label),
		Source:   b.reg.Source(label),
		Inverted: b.reg.IsInverted(label),
	}
	col, ok := b.cache.Resolve(label)
	if !ok {
		r.Measurement = analysis.Measurement{Unit: b.reg.Unit(label)}
		r.Status = analysis.Classify(b.reg, label, 0, false)
		return r
	}
	r.Inverted = analysis.Inverted(b.reg, label, col)
	r.Raw, r.RawOK = analysis.CellValue(b.rec, col)
	relative := b.relative && !neverRelative[label]
	r.Measurement = analysis.Measure(b.ds, b.rec, b.reg, label, col, b.weight, b.weightOK, relative)
	v, vok := b.statusValue(label, r)
	r.Status = analysis.Classify(b.reg, label, v, vok)
	return r
}

// statusValue is the reading compared with the norm: the absolute value, except for norms
// expressed per kilogram, which use the per-kg reading when one can be obtained.
func (b *builder) statusValue(label string, r Row) (float64, bool) {
	if !b.reg.IsRelativeNorm(label) {
		return r.Raw, r.RawOK
	}
	if r.Relative {
		return r.Value, r.OK
	}
	if rc, ok := b.reg.RelColumn(label); ok && b.ds.HasColumn(rc) {
		if v, ok := analysis.CellValue(b.rec, rc); ok {
			return v, true
		}
	}
	if r.RawOK && b.weightOK && b.weight > 0 && indicator.IsForceOrPower(r.Unit) {
		return r.Raw / b.weight, true
	}
	return r.Raw, r.RawOK
}

// pair builds the bilateral row of left and its mirror. Asymmetry always uses absolute values.
func (b *builder) pair(category, left string) PairRow {
	l := b.row(category, left)
	r := b.row(category, indicator.Mirror(left))
	p := PairRow{Label: indicator.CleanLabel(left), Left: l, Right: r}
	switch {
	case l.OK && r.OK:
		p.Percentile = (l.Percentile + r.Percentile) / 2
	case l.OK:
		p.Percentile = l.Percentile
	case r.OK:
		p.Percentile = r.Percentile
	}
	p.Asym = analysis.Asymmetry(b.ds, b.asymPair(p.Label, l, r))
	if p.Asym.OK {
		band := analysis.AsymBand(p.Asym.Pct)
		p.Band = &band
		p.Badge = p.Asym.Badge()
	}
	return p
}

func (b *builder) asymPair(label string, l, r Row) analysis.Pair {
	lc, _ := b.cache.Resolve(l.Label)
	rc, _ := b.cache.Resolve(r.Label)
	return analysis.Pair{
		Label: label, Left: l.Raw, LeftOK: l.RawOK, Right: r.Raw, RightOK: r.RawOK,
		LeftColumn: lc, RightColumn: rc,
	}
}

// sidePair resolves the absolute left/right readings of a (G) label without building rows.
func (b *builder) sidePair(left string) analysis.Pair {
	p := analysis.Pair{Label: indicator.CleanLabel(left)}
	if c, ok := b.cache.Resolve(left); ok {
		p.LeftColumn = c
		p.Left, p.LeftOK = analysis.CellValue(b.rec, c)
	}
	if c, ok := b.cache.Resolve(indicator.Mirror(left)); ok {
		p.RightColumn = c
		p.Right, p.RightOK = analysis.CellValue(b.rec, c)
	}
	return p
}
