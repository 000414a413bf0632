// Package profile assembles everything shown about one athlete: identity header, indicator
// rows per category, bilateral pairs, isokinetic symmetry, radar axes and strengths/weaknesses.
package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
)

// ErrNotFound means the athlete has no row in the dataset.
var ErrNotFound = errors.New("athlete not found")

// Options tune a Build.
type Options struct {
	Registry *indicator.Registry
	// Resolver defaults to the profile resolver of Registry.
	Resolver *analysis.Resolver
	TopN     int
	Relative bool
}

// Header is the identity block of a profile. Missing values render as "-".
type Header struct {
	Name       string  `json:"name"`
	Number     string  `json:"number"`
	Position   string  `json:"position"`
	Laterality string  `json:"laterality"`
	Age        string  `json:"age"`
	Height     string  `json:"height"`
	Weight     string  `json:"weight"`
	FatFold    string  `json:"fat_fold"`
	WeightKg   float64 `json:"weight_kg,omitempty"`
}

// Profile is the assembled view of one athlete.
type Profile struct {
	Athlete     string                 `json:"athlete"`
	Relative    bool                   `json:"relative"`
	Header      Header                 `json:"header"`
	Sections    []Section              `json:"sections"`
	Biodex      Biodex                 `json:"biodex"`
	RatioMixte  RatioMixte             `json:"ratio_mixte"`
	GPS         []Axis                 `json:"gps"`
	Athletic    []Axis                 `json:"athletic"`
	Top         analysis.Ranking       `json:"top"`
	Bottom      analysis.Ranking       `json:"bottom"`
	Symmetry    Symmetry               `json:"symmetry"`
	Asymmetries []DetailAsym           `json:"asymmetries"`
	Norms       []indicator.NormSource `json:"norms"`
}

// builder carries what every row computation needs for one athlete.
type builder struct {
	ds       *dataset.Dataset
	rec      dataset.Record
	reg      *indicator.Registry
	cache    *analysis.ResolveCache
	weight   float64
	weightOK bool
	relative bool
}

// Build assembles the profile of athlete from the first row carrying that identifier.
func Build(ds *dataset.Dataset, athlete string, opt Options) (*Profile, error) {
	rec, ok := ds.Find(athlete)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, athlete)
	}
	reg := opt.Registry
	if reg == nil {
		reg = indicator.Default()
	}
	res := opt.Resolver
	if res == nil {
		res = analysis.NewProfileResolver(reg)
	}
	b := &builder{ds: ds, rec: rec, reg: reg, cache: res.Bind(ds.Columns), relative: opt.Relative}
	if wc, ok := analysis.WeightColumn(ds.Columns); ok {
		b.weight, b.weightOK = analysis.CellValue(rec, wc)
	}

	ranking := analysis.RankAll(ds, rec, reg.Labels(), b.cache, reg)
	p := &Profile{
		Athlete:     rec.ID,
		Relative:    opt.Relative,
		Header:      b.header(),
		Sections:    b.sections(),
		Biodex:      b.biodex(),
		RatioMixte:  b.ratioMixte(),
		GPS:         b.gpsRadar(),
		Athletic:    b.athleticRadar(),
		Top:         ranking.Top(opt.TopN),
		Bottom:      ranking.Bottom(opt.TopN),
		Symmetry:    b.symmetry(),
		Asymmetries: b.detailAsymmetries(),
		Norms:       reg.NormsAndSources(),
	}
	return p, nil
}

var numberTargets = []string{"numero", "number", "maillot", "shirt", "n°"}

// NumberColumn finds the shirt number column: a known name first, then any column whose
// folded name starts with "num".
func NumberColumn(columns []string) (string, bool) {
	folded := make(map[string]string, len(columns))
	for _, c := range columns {
		if _, dup := folded[analysis.Fold(c)]; !dup {
			folded[analysis.Fold(c)] = c
		}
	}
	for _, t := range numberTargets {
		if c, ok := folded[t]; ok {
			return c, true
		}
	}
	for _, c := range columns {
		if f := analysis.Fold(c); strings.HasPrefix(f, "num") || f == "n°" {
			return c, true
		}
	}
	return "", false
}

func (b *builder) header() Header {
	h := Header{Name: b.rec.ID, Number: "-", Position: "-", Laterality: "-", Age: "-", Height: "-", Weight: "-", FatFold: "-"}
	if c, ok := NumberColumn(b.ds.Columns); ok {
		if v, ok := analysis.CellValue(b.rec, c); ok {
			h.Number = fmt.Sprintf("#%d", int(v))
		} else if raw := strings.TrimSpace(b.rec.Cells[c]); raw != "" {
			h.Number = "#" + raw
		}
	}
	meta := analysis.NewResolver(analysis.KeywordMatch(b.reg.Keywords)).Bind(b.ds.Columns)
	text := func(label string) string {
		if c, ok := meta.Resolve(label); ok {
			if raw := strings.TrimSpace(b.rec.Cells[c]); raw != "" {
				return raw
			}
		}
		return "-"
	}
	measure := func(label, unit string) string {
		if c, ok := meta.Resolve(label); ok {
			if v, ok := analysis.CellValue(b.rec, c); ok {
				return indicator.Format(v, true) + " " + unit
			}
		}
		return "-"
	}
	h.Position = text("Poste")
	h.Laterality = text("Latéralité")
	h.Height = measure("Taille", "cm")
	h.FatFold = measure("Masse Grasse Plis (mm)", "mm")
	if b.weightOK {
		h.Weight = indicator.Format(b.weight, true) + " kg"
		h.WeightKg = b.weight
	} else {
		h.Weight = measure("Poids", "kg")
	}
	for _, c := range b.ds.Columns {
		if analysis.Fold(c) == "age" {
			if v, ok := analysis.CellValue(b.rec, c); ok {
				h.Age = fmt.Sprintf("%d ans", int(v))
			}
			break
		}
	}
	return h
}
