package indicator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Overrides is a club-specific overlay on the reference tables, read from YAML:
//
//	norms:
//	  - label: "VMA"
//	    low: 17
//	    high: 21
//	units:
//	  - label: "Landmine Throw"
//	    unit: "m"
//	sources:
//	  - label: "VMA"
//	    source: "Fédération"
//	columns:
//	  - label: "VMA"
//	    column: "VMA (km/h)"
//	  - label: "Squat Keiser"
//	    rel_column: "Squat Keiser (W/kg)"
//	default_source: "Club"
//
// Lists are used instead of maps because labels may contain the koanf key delimiter.
type Overrides struct {
	Norms         []NormOverride   `koanf:"norms"`
	Units         []UnitOverride   `koanf:"units"`
	Sources       []SourceOverride `koanf:"sources"`
	Columns       []ColumnOverride `koanf:"columns"`
	DefaultSource string           `koanf:"default_source"`
}

type NormOverride struct {
	Label string  `koanf:"label"`
	Low   float64 `koanf:"low"`
	High  float64 `koanf:"high"`
}

type UnitOverride struct {
	Label string `koanf:"label"`
	Unit  string `koanf:"unit"`
}

type SourceOverride struct {
	Label  string `koanf:"label"`
	Source string `koanf:"source"`
}

type ColumnOverride struct {
	Label     string `koanf:"label"`
	Column    string `koanf:"column"`
	RelColumn string `koanf:"rel_column"`
}

// ErrInvalidNorm is returned when an override range is inverted or unlabeled.
var ErrInvalidNorm = errors.New("invalid norm override")

// LoadOverrides reads an overlay file. Scalar keys may also come from SDR_NORMS_* variables,
// e.g. SDR_NORMS_DEFAULT_SOURCE.
func LoadOverrides(path string) (*Overrides, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load norms file: %w", err)
		}
	}
	envProvider := env.Provider("SDR_NORMS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SDR_NORMS_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load norms env: %w", err)
	}
	var o Overrides
	if err := k.UnmarshalWithConf("", &o, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode norms: %w", err)
	}
	for _, n := range o.Norms {
		if strings.TrimSpace(n.Label) == "" || n.Low > n.High {
			return nil, fmt.Errorf("%w: %q [%g, %g]", ErrInvalidNorm, n.Label, n.Low, n.High)
		}
	}
	return &o, nil
}

// WithOverrides returns a copy of r with o applied. Existing norms are replaced in place so
// the containment order of the table is preserved; new labels are appended.
func (r *Registry) WithOverrides(o *Overrides) *Registry {
	if o == nil {
		return r
	}
	out := r.clone()
	for _, n := range o.Norms {
		rg := Range{Low: n.Low, High: n.High}
		replaced := false
		for i := range out.norms {
			if out.norms[i].Label == n.Label {
				out.norms[i].Range = rg
				replaced = true
				break
			}
		}
		if !replaced {
			out.norms = append(out.norms, Norm{Label: n.Label, Range: rg})
		}
	}
	for _, u := range o.Units {
		out.units[CleanLabel(u.Label)] = u.Unit
	}
	for _, s := range o.Sources {
		out.sources[CleanLabel(s.Label)] = s.Source
	}
	for _, c := range o.Columns {
		if c.Column != "" {
			out.columns[c.Label] = c.Column
		}
		if c.RelColumn != "" {
			out.relColumns[c.Label] = c.RelColumn
		}
	}
	if o.DefaultSource != "" {
		out.defaultSource = o.DefaultSource
	}
	return out
}

func (r *Registry) clone() *Registry {
	out := &Registry{
		categories:    r.Categories(),
		columns:       cloneMap(r.columns),
		relColumns:    cloneMap(r.relColumns),
		keywords:      make(map[string][]string, len(r.keywords)),
		norms:         append([]Norm(nil), r.norms...),
		units:         cloneMap(r.units),
		sources:       cloneMap(r.sources),
		relNorms:      make(map[string]bool, len(r.relNorms)),
		inverted:      append([]string(nil), r.inverted...),
		defaultSource: r.defaultSource,
	}
	for k, v := range r.keywords {
		out.keywords[k] = append([]string(nil), v...)
	}
	for k, v := range r.relNorms {
		out.relNorms[k] = v
	}
	return out
}
