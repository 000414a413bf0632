// Package team compares athletes of the loaded squad on one or two indicators.
package team

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
)

// ErrNoColumn means an indicator does not resolve to any column of the dataset.
var ErrNoColumn = errors.New("indicator not found in dataset")

// PositionLabel is the label resolved to find the playing position column.
const PositionLabel = "Poste"

// Entry is one athlete's reading.
type Entry struct {
	Athlete  string  `json:"athlete"`
	Position string  `json:"position,omitempty"`
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"`
}

// Board is the squad ranking on one indicator, best first.
type Board struct {
	Label    string  `json:"label"`
	Column   string  `json:"column"`
	Unit     string  `json:"unit"`
	Inverted bool    `json:"inverted"`
	Mean     float64 `json:"mean"`
	Entries  []Entry `json:"entries"`
}

// Comparer ranks the squad with the team resolver and the registry polarity.
type Comparer struct {
	reg      *indicator.Registry
	resolver *analysis.Resolver
}

// New returns a Comparer; a nil registry uses the default tables.
func New(reg *indicator.Registry) *Comparer {
	if reg == nil {
		reg = indicator.Default()
	}
	return &Comparer{reg: reg, resolver: analysis.NewTeamResolver()}
}

// Positions lists the distinct playing positions of ds, sorted.
func (c *Comparer) Positions(ds *dataset.Dataset) []string {
	col, ok := c.resolver.Resolve(ds.Columns, PositionLabel)
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range ds.Records {
		p := strings.TrimSpace(r.Cells[col])
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// filter keeps the records whose position is listed; no positions keeps everyone.
func (c *Comparer) filter(ds *dataset.Dataset, positions []string) (*dataset.Dataset, string) {
	col, ok := c.resolver.Resolve(ds.Columns, PositionLabel)
	if !ok {
		return ds, ""
	}
	if len(positions) == 0 {
		return ds, col
	}
	keep := make(map[string]bool, len(positions))
	for _, p := range positions {
		keep[strings.TrimSpace(p)] = true
	}
	return ds.Filter(func(r dataset.Record) bool { return keep[strings.TrimSpace(r.Cells[col])] }), col
}

// Members lists the athletes playing one of positions, sorted. No positions lists
// everyone.
func (c *Comparer) Members(ds *dataset.Dataset, positions []string) []string {
	sub, _ := c.filter(ds, positions)
	return sub.Athletes()
}

func (c *Comparer) column(ds *dataset.Dataset, label string) (string, error) {
	col, ok := c.resolver.Resolve(ds.Columns, label)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoColumn, label)
	}
	return col, nil
}

// Ranking sorts the athletes holding a value for label: ascending when lower is better,
// descending otherwise. Equal values share the lowest rank.
func (c *Comparer) Ranking(ds *dataset.Dataset, label string, positions []string) (*Board, error) {
	col, err := c.column(ds, label)
	if err != nil {
		return nil, err
	}
	sub, posCol := c.filter(ds, positions)
	b := &Board{Label: label, Column: col, Unit: indicator.GuessUnit(label), Inverted: c.reg.IsInverted(label)}
	sum := 0.0
	for _, r := range sub.Records {
		v, ok := analysis.CellValue(r, col)
		if !ok {
			continue
		}
		sum += v
		b.Entries = append(b.Entries, Entry{Athlete: r.ID, Position: strings.TrimSpace(r.Cells[posCol]), Value: v})
	}
	if len(b.Entries) == 0 {
		return b, nil
	}
	b.Mean = sum / float64(len(b.Entries))
	sort.SliceStable(b.Entries, func(i, j int) bool {
		if b.Inverted {
			return b.Entries[i].Value < b.Entries[j].Value
		}
		return b.Entries[i].Value > b.Entries[j].Value
	})
	for i := range b.Entries {
		if i > 0 && b.Entries[i].Value == b.Entries[i-1].Value {
			b.Entries[i].Rank = b.Entries[i-1].Rank
			continue
		}
		b.Entries[i].Rank = i + 1
	}
	return b, nil
}

// Point is one athlete in a two-indicator comparison.
type Point struct {
	Athlete  string  `json:"athlete"`
	Position string  `json:"position,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Scatter crosses two indicators; the means split the plane into four zones.
type Scatter struct {
	XLabel  string  `json:"x_label"`
	YLabel  string  `json:"y_label"`
	XColumn string  `json:"x_column"`
	YColumn string  `json:"y_column"`
	MeanX   float64 `json:"mean_x"`
	MeanY   float64 `json:"mean_y"`
	Points  []Point `json:"points"`
}

// Zone names the quadrant of p relative to the means, from the polarity of each axis:
// "++" is above average on both.
func (s *Scatter) Zone(p Point, reg *indicator.Registry) string {
	sign := func(v, mean float64, inverted bool) string {
		if (v >= mean) != inverted {
			return "+"
		}
		return "-"
	}
	return sign(p.X, s.MeanX, reg.IsInverted(s.XLabel)) + sign(p.Y, s.MeanY, reg.IsInverted(s.YLabel))
}

// Scatter pairs the readings of x and y for every athlete holding both.
func (c *Comparer) Scatter(ds *dataset.Dataset, x, y string, positions []string) (*Scatter, error) {
	xc, err := c.column(ds, x)
	if err != nil {
		return nil, err
	}
	yc, err := c.column(ds, y)
	if err != nil {
		return nil, err
	}
	sub, posCol := c.filter(ds, positions)
	s := &Scatter{XLabel: x, YLabel: y, XColumn: xc, YColumn: yc}
	for _, r := range sub.Records {
		xv, xok := analysis.CellValue(r, xc)
		yv, yok := analysis.CellValue(r, yc)
		if !xok || !yok {
			continue
		}
		s.MeanX += xv
		s.MeanY += yv
		s.Points = append(s.Points, Point{Athlete: r.ID, Position: strings.TrimSpace(r.Cells[posCol]), X: xv, Y: yv})
	}
	if n := float64(len(s.Points)); n > 0 {
		s.MeanX /= n
		s.MeanY /= n
	}
	return s, nil
}

// NumericColumns lists the columns of ds holding at least one numeric reading, in file order.
func NumericColumns(ds *dataset.Dataset) []string {
	var out []string
	for _, c := range ds.Columns {
		if len(analysis.Values(ds, c)) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// DefaultAxes picks the first label mentioning vmax for x and the first mentioning cmj or saut
// for y, falling back to the first two labels.
func DefaultAxes(labels []string) (x, y string) {
	if len(labels) == 0 {
		return "", ""
	}
	xi, yi := 0, 0
	if len(labels) > 1 {
		yi = 1
	}
	for i, l := range labels {
		if strings.Contains(strings.ToLower(l), "vmax") {
			xi = i
			break
		}
	}
	for i, l := range labels {
		if ll := strings.ToLower(l); strings.Contains(ll, "cmj") || strings.Contains(ll, "saut") {
			yi = i
			break
		}
	}
	return labels[xi], labels[yi]
}

// Comparison places one athlete against the squad mean. Good follows the indicator polarity.
type Comparison struct {
	Athlete string  `json:"athlete"`
	Value   float64 `json:"value"`
	Diff    float64 `json:"diff"`
	Good    bool    `json:"good"`
}

// Distribution summarises the spread of one indicator across the squad.
type Distribution struct {
	Label    string         `json:"label"`
	Unit     string         `json:"unit"`
	Stats    analysis.Stats `json:"stats"`
	Q1       float64        `json:"q1"`
	Median   float64        `json:"median"`
	Q3       float64        `json:"q3"`
	Entries  []Entry        `json:"entries"`
	Selected *Comparison    `json:"selected,omitempty"`
}

// Distribution computes the spread of label and, when athlete is set and measured, how the
// athlete compares with the mean.
func (c *Comparer) Distribution(ds *dataset.Dataset, label string, positions []string, athlete string) (*Distribution, error) {
	b, err := c.Ranking(ds, label, positions)
	if err != nil {
		return nil, err
	}
	d := &Distribution{Label: label, Unit: b.Unit, Entries: b.Entries}
	vals := make([]float64, len(b.Entries))
	for i, e := range b.Entries {
		vals[i] = e.Value
	}
	d.Stats = analysis.GroupStats(vals)
	d.Q1, d.Median, d.Q3 = analysis.Quartiles(vals)
	if athlete == "" {
		return d, nil
	}
	for _, e := range b.Entries {
		if e.Athlete != athlete {
			continue
		}
		diff := e.Value - d.Stats.Mean
		good := diff > 0
		if b.Inverted {
			good = diff < 0
		}
		d.Selected = &Comparison{Athlete: athlete, Value: e.Value, Diff: diff, Good: good}
		break
	}
	return d, nil
}
