package profile

import (
	"fmt"
	"math"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/indicator"
)

// Axis is one spoke of a radar: the mean percentile of its measures.
type Axis struct {
	Label   string   `json:"label"`
	Score   float64  `json:"score"`
	Color   string   `json:"color"`
	Details []string `json:"details,omitempty"`
}

// ScoreColor colours a radar score: above 66 green, above 33 orange, red otherwise.
func ScoreColor(score float64) string {
	switch {
	case score > 66:
		return analysis.ColorGood
	case score > 33:
		return analysis.ColorAverage
	}
	return analysis.ColorBad
}

func axisValue(v float64, unit string) string {
	if v > 100 {
		return fmt.Sprintf("%d %s", int(v), unit)
	}
	return fmt.Sprintf("%.2f %s", v, unit)
}

var gpsAxes = []struct{ Name, Label string }{
	{"Vmax", "Vmax"},
	{"Amax", "Amax"},
	{"Dmax", "Dmax"},
	{"Dist. Totale", "Distance Totale"},
	{"Dist. HSR", "Distance HSR"},
	{"Sprint (>92%)", "Distance Sprint (92% Vmax)"},
}

// gpsRadar keeps only the axes the athlete has a value for.
func (b *builder) gpsRadar() []Axis {
	var out []Axis
	for _, a := range gpsAxes {
		col, ok := b.cache.Resolve(a.Label)
		if !ok {
			continue
		}
		v, ok := analysis.CellValue(b.rec, col)
		if !ok {
			continue
		}
		res := analysis.Percentile(b.ds, col, v, true, analysis.Inverted(b.reg, a.Label, col))
		details := []string{axisValue(v, b.reg.Unit(a.Label))}
		if rg, ok := b.reg.NormativeRange(a.Label); ok {
			details = append(details, fmt.Sprintf("Obj: %s-%s", indicator.Format(rg.Low, true), indicator.Format(rg.High, true)))
		}
		out = append(out, Axis{Label: a.Name, Score: res.Percentile, Color: ScoreColor(res.Percentile), Details: details})
	}
	return out
}

// measureRef is one input of an athletic axis: a single label, or the G/D mean of a bilateral one.
type measureRef struct {
	Label   string
	Display string
	Unit    string
	SideAvg bool
}

var athleticAxes = []struct {
	Name     string
	Measures []measureRef
}{
	{"Vitesse", []measureRef{{Label: "Vmax", Display: "Vmax", Unit: "km/h"}}},
	{"Endurance", []measureRef{{Label: "VMA", Display: "VMA", Unit: "km/h"}}},
	{"Puissance", []measureRef{
		{Label: "Wattbike (6s)", Display: "Wattbike", Unit: "W"},
		{Label: "Développé couché (W/kg)", Display: "DC", Unit: "W/kg"},
	}},
	{"Force", []measureRef{
		{Label: "Nordic Ischio (G)", Display: "F. Post.", Unit: "N", SideAvg: true},
		{Label: "Adducteurs (G)", Display: "F. Add.", Unit: "N", SideAvg: true},
	}},
	{"Mobilité", []measureRef{
		{Label: "Sit And Reach", Display: "Sit And Reach", Unit: "cm"},
		{Label: "Knee To Wall (G)", Display: "Mob. Cheville", Unit: "cm", SideAvg: true},
	}},
	{"Perf. Terrain", []measureRef{
		{Label: "Amax", Display: "Amax", Unit: "m/s²"},
		{Label: "Dmax", Display: "Dmax", Unit: "m/s²"},
	}},
	{"Explosivité", []measureRef{{Label: "CMJ (cm)", Display: "CMJ", Unit: "cm"}}},
}

// athleticRadar always returns the seven axes; an axis without data scores 0.
func (b *builder) athleticRadar() []Axis {
	out := make([]Axis, 0, len(athleticAxes))
	for _, a := range athleticAxes {
		sum, n := 0.0, 0
		var details []string
		for _, m := range a.Measures {
			v, series, ok := b.measureSeries(m)
			if !ok {
				continue
			}
			sum += analysis.PercentileOf(series, v, false).Percentile
			n++
			details = append(details, fmt.Sprintf("%s: %s", m.Display, axisValue(v, m.Unit)))
		}
		score := 0.0
		if n > 0 {
			score = sum / float64(n)
		}
		out = append(out, Axis{Label: a.Name, Score: score, Color: ScoreColor(score), Details: details})
	}
	return out
}

// measureSeries returns the athlete's reading and the group series it is ranked in.
// Side averages use whichever sides are present, row by row.
func (b *builder) measureSeries(m measureRef) (float64, []float64, bool) {
	if !m.SideAvg {
		col, ok := b.cache.Resolve(m.Label)
		if !ok {
			return 0, nil, false
		}
		v, ok := analysis.CellValue(b.rec, col)
		return v, analysis.Values(b.ds, col), ok
	}
	p := b.sidePair(m.Label)
	if p.LeftColumn == "" || p.RightColumn == "" {
		return 0, nil, false
	}
	v, ok := sideMean(p.Left, p.LeftOK, p.Right, p.RightOK)
	if !ok {
		return 0, nil, false
	}
	var series []float64
	for _, r := range b.ds.Records {
		l, lok := analysis.CellValue(r, p.LeftColumn)
		rv, rok := analysis.CellValue(r, p.RightColumn)
		if mean, ok := sideMean(l, lok, rv, rok); ok {
			series = append(series, mean)
		}
	}
	return v, series, true
}

func sideMean(l float64, lok bool, r float64, rok bool) (float64, bool) {
	switch {
	case lok && rok:
		return (l + r) / 2, true
	case lok:
		return l, true
	case rok:
		return r, true
	}
	return 0, false
}

// BiodexRow is one isokinetic movement: per-kg values for the chart, raw torques and LSI
// for the table.
type BiodexRow struct {
	Label    string  `json:"label"`
	Target   float64 `json:"target"`
	LeftRel  float64 `json:"left_rel"`
	RightRel float64 `json:"right_rel"`
	LeftRaw  float64 `json:"left_raw"`
	LeftOK   bool    `json:"left_ok"`
	RightRaw float64 `json:"right_raw"`
	RightOK  bool    `json:"right_ok"`
	LSI      float64 `json:"lsi"`
	LSIOK    bool    `json:"lsi_ok"`
	Color    string  `json:"color"`
}

// Biodex is the isokinetic block. Scale is the radial maximum of its chart.
type Biodex struct {
	Rows  []BiodexRow `json:"rows"`
	Scale float64     `json:"scale"`
}

// Available reports whether any movement carries data.
func (bx Biodex) Available() bool {
	for _, r := range bx.Rows {
		if r.LeftOK || r.RightOK || r.LeftRel > 0 || r.RightRel > 0 {
			return true
		}
	}
	return false
}

const minBiodexScale = 4.0

var biodexMovements = []struct {
	Name   string
	Left   string
	Target float64
}{
	{"Q 60°", "Q Conc 60° (G)", 3.0},
	{"Q 240°", "Q Conc 240° (G)", 1.8},
	{"IJ 60°", "IJ Conc 60° (G)", 1.8},
	{"IJ 240°", "IJ Conc 240° (G)", 1.4},
	{"IJ Exc 30°", "IJ Exc 30° (G)", 2.5},
}

func (b *builder) biodex() Biodex {
	bx := Biodex{Scale: minBiodexScale}
	peak := 0.0
	for _, m := range biodexMovements {
		row := BiodexRow{Label: m.Name, Target: m.Target, Color: analysis.ColorUnknown}
		row.LeftRel = b.relValue(m.Left)
		row.RightRel = b.relValue(indicator.Mirror(m.Left))
		p := b.sidePair(m.Left)
		row.LeftRaw, row.LeftOK = p.Left, p.LeftOK
		row.RightRaw, row.RightOK = p.Right, p.RightOK
		if p.LeftOK && p.RightOK {
			row.LSI, row.LSIOK = analysis.LSI(p.Left, p.Right)
			if row.LSIOK {
				row.Color = analysis.LSIColor(row.LSI)
			}
		}
		peak = math.Max(peak, math.Max(row.LeftRel, row.RightRel))
		bx.Rows = append(bx.Rows, row)
	}
	bx.Scale = math.Max(minBiodexScale, peak*1.1)
	return bx
}

// relValue reads the per-kg column of label, 0 when absent.
func (b *builder) relValue(label string) float64 {
	rc, ok := b.reg.RelColumn(label)
	if !ok || !b.ds.HasColumn(rc) {
		return 0
	}
	v, _ := analysis.CellValue(b.rec, rc)
	return v
}

// RatioSide is one side of the hamstring/quadriceps mixed ratio.
type RatioSide struct {
	Value float64 `json:"value"`
	OK    bool    `json:"ok"`
	Color string  `json:"color"`
}

// RatioMixte holds both sides of the mixed ratio.
type RatioMixte struct {
	Left  RatioSide `json:"left"`
	Right RatioSide `json:"right"`
}

// RatioColor colours a mixed ratio: below 0.8 red, up to 1.0 orange, green above.
func RatioColor(v float64, ok bool) string {
	switch {
	case !ok:
		return analysis.ColorUnknown
	case v < 0.8:
		return analysis.ColorBad
	case v <= 1.0:
		return analysis.ColorAverage
	}
	return analysis.ColorGood
}

func (b *builder) ratioMixte() RatioMixte {
	kw := analysis.NewResolver(analysis.KeywordMatch(b.reg.Keywords)).Bind(b.ds.Columns)
	side := func(label string) RatioSide {
		var s RatioSide
		if c, ok := kw.Resolve(label); ok {
			s.Value, s.OK = analysis.CellValue(b.rec, c)
		}
		s.Color = RatioColor(s.Value, s.OK)
		return s
	}
	return RatioMixte{Left: side("Ratio Mixte (G)"), Right: side("Ratio Mixte (D)")}
}

// Symmetry holds the signed left/right balance averaged over force and mobility pairs.
// Positive values mean the right side dominates.
type Symmetry struct {
	Force          float64 `json:"force"`
	ForceOK        bool    `json:"force_ok"`
	ForceMarker    float64 `json:"force_marker"`
	Mobility       float64 `json:"mobility"`
	MobilityOK     bool    `json:"mobility_ok"`
	MobilityMarker float64 `json:"mobility_marker"`
}

var (
	forcePairs    = []string{"Adducteurs (G)", "Abducteurs (G)", "Nordic Ischio (G)", "Landing (G)"}
	mobilityPairs = []string{"Knee To Wall (G)"}
)

func (b *builder) symmetry() Symmetry {
	collect := func(lefts []string) []analysis.Pair {
		out := make([]analysis.Pair, 0, len(lefts))
		for _, l := range lefts {
			out = append(out, b.sidePair(l))
		}
		return out
	}
	var s Symmetry
	s.Force, s.ForceOK = analysis.SignedAverage(b.ds, collect(forcePairs))
	s.Mobility, s.MobilityOK = analysis.SignedAverage(b.ds, collect(mobilityPairs))
	s.ForceMarker = analysis.MarkerPosition(s.Force)
	s.MobilityMarker = analysis.MarkerPosition(s.Mobility)
	return s
}

// DetailAsym is one named entry of the asymmetry detail list.
type DetailAsym struct {
	Name string              `json:"name"`
	Asym analysis.AsymResult `json:"asym"`
	Band analysis.Band       `json:"band"`
}

var detailPairs = []struct{ Left, Name string }{
	{"Knee To Wall (G)", "Mobilité Cheville"},
	{"Adducteurs (G)", "Force Adducteurs"},
	{"Abducteurs (G)", "Force Abducteurs"},
	{"Nordic Ischio (G)", "Force Exc. Ischios"},
	{"Landing (G)", "Réception Saut"},
}

// detailAsymmetries lists the pairs where both sides were measured.
func (b *builder) detailAsymmetries() []DetailAsym {
	var out []DetailAsym
	for _, d := range detailPairs {
		res := analysis.Asymmetry(b.ds, b.sidePair(d.Left))
		if !res.OK {
			continue
		}
		out = append(out, DetailAsym{Name: d.Name, Asym: res, Band: analysis.AsymBand(res.Pct)})
	}
	return out
}
