package analysis

import (
	"fmt"
	"strings"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
)

// Measurement is the value displayed for one indicator of an athlete, absolute or per kilogram
// of bodyweight, with its percentile within the group.
type Measurement struct {
	Value      float64 `json:"value"`
	OK         bool    `json:"ok"`
	Unit       string  `json:"unit"`
	Column     string  `json:"column,omitempty"`
	Mean       float64 `json:"mean"`
	Percentile float64 `json:"percentile"`
	// Rank and Total place the value within the same series as Percentile; zero when the
	// value is missing.
	Rank     int  `json:"rank,omitempty"`
	Total    int  `json:"total,omitempty"`
	Relative bool `json:"relative"`
	// Secondary is the alternate reading: the per-kg value in absolute mode, the absolute
	// value in relative mode.
	Secondary string `json:"secondary,omitempty"`
}

// WeightColumn finds the bodyweight column: a name containing "poids" and "kg", or "poids" alone.
func WeightColumn(columns []string) (string, bool) {
	for _, c := range columns {
		l := strings.ToLower(c)
		if strings.Contains(l, "poids") && (strings.Contains(l, "kg") || l == "poids") {
			return c, true
		}
	}
	return "", false
}

// Measure reads label for rec from column. In relative mode force and power indicators switch to
// their per-kg reading: the per-kg column registered for label if the export has it, else
// value/weight with percentile and rank taken over the same ratio computed for the whole group.
func Measure(ds *dataset.Dataset, rec dataset.Record, reg *indicator.Registry, label, column string, weight float64, weightOK, relative bool) Measurement {
	unit := reg.Unit(label)
	v, ok := CellValue(rec, column)
	abs := Measurement{Value: v, OK: ok, Unit: unit, Column: column}
	inverted := Inverted(reg, label, column)
	res := Percentile(ds, column, v, ok, inverted)
	abs.Mean, abs.Percentile = res.Mean, res.Percentile
	abs.Rank, abs.Total, _ = Rank(ds, column, v, ok, inverted)

	if !relative || !ok || !indicator.IsForceOrPower(unit) {
		abs.Secondary = relText(ds, rec, reg, label, v, ok, weight, weightOK)
		return abs
	}

	relUnit := indicator.RelativeUnit(unit)
	secondary := fmt.Sprintf("%s %s", indicator.Format(v, true), unit)
	if rc, found := reg.RelColumn(label); found && rc != column && ds.HasColumn(rc) {
		rv, rok := CellValue(rec, rc)
		r := Percentile(ds, rc, rv, rok, inverted)
		m := Measurement{Value: rv, OK: rok, Unit: relUnit, Column: rc, Mean: r.Mean, Percentile: r.Percentile, Relative: true, Secondary: secondary}
		m.Rank, m.Total, _ = Rank(ds, rc, rv, rok, inverted)
		return m
	}
	if weightOK && weight > 0 {
		if wc, found := WeightColumn(ds.Columns); found {
			rv := v / weight
			series := ratioSeries(ds, column, wc)
			r := PercentileOf(series, rv, inverted)
			m := Measurement{Value: rv, OK: true, Unit: relUnit, Column: column, Mean: r.Mean, Percentile: r.Percentile, Relative: true, Secondary: secondary}
			m.Rank, m.Total, _ = RankOf(series, rv, inverted)
			return m
		}
	}
	return abs
}

func ratioSeries(ds *dataset.Dataset, column, weightColumn string) []float64 {
	var out []float64
	for _, r := range ds.Records {
		v, ok := CellValue(r, column)
		w, wok := CellValue(r, weightColumn)
		if ok && wok && w != 0 {
			out = append(out, v/w)
		}
	}
	return out
}

// relText is the per-kg hint shown under an absolute value, "" when none applies.
func relText(ds *dataset.Dataset, rec dataset.Record, reg *indicator.Registry, label string, v float64, ok bool, weight float64, weightOK bool) string {
	if rc, found := reg.RelColumn(label); found && ds.HasColumn(rc) {
		if rv, rok := CellValue(rec, rc); rok && rv != 0 {
			u := "N/kg"
			if strings.Contains(rc, "W/kg") || strings.Contains(label, "Watt") || strings.Contains(label, "couché (W)") {
				u = "W/kg"
			}
			return fmt.Sprintf("%.2f %s", rv, u)
		}
	}
	if !weightOK || weight <= 0 || !ok {
		return ""
	}
	switch unit := reg.Unit(label); {
	case unit == "N":
		return fmt.Sprintf("%.2f N/kg", v/weight)
	case unit == "W" || strings.Contains(label, "Watt"):
		return fmt.Sprintf("%.2f W/kg", v/weight)
	}
	return ""
}
