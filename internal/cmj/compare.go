package cmj

import (
	"errors"
	"fmt"
	"math"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/dataset"
)

// ErrNoAthlete means the athlete has no jump in the export.
var ErrNoAthlete = errors.New("athlete has no CMJ record")

// Bar colours of the athlete-versus-squad chart.
const (
	ColorAbove = "#000000"
	ColorBelow = "#C0392B"
)

const holderMaxRunes = 15

// Average is the squad reference for one KPI. Mean is an absolute value so that negative
// phase readings (depth, negative RFD) read as magnitudes.
type Average struct {
	KPI  KPI     `json:"kpi"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	N    int     `json:"n"`
}

// TeamAverages computes the squad reference of every KPI whose column exists.
func TeamAverages(ds *dataset.Dataset, kpis []KPI) []Average {
	var out []Average
	for _, k := range kpis {
		if !ds.HasColumn(k.Column) {
			continue
		}
		st := analysis.GroupStats(analysis.Values(ds, k.Column))
		if st.Count == 0 {
			continue
		}
		out = append(out, Average{KPI: k, Mean: math.Abs(st.Mean), Std: st.Std, N: st.Count})
	}
	return out
}

// Diff is an athlete's reading against the squad mean, both as magnitudes.
type Diff struct {
	KPI    KPI     `json:"kpi"`
	Player float64 `json:"player"`
	Mean   float64 `json:"mean"`
	Pct    float64 `json:"pct"`
	Color  string  `json:"color"`
}

// PlayerVsTeam compares the athlete's latest jump with the squad on each KPI.
// KPIs with a zero mean or no reading for the athlete are skipped.
func PlayerVsTeam(ds *dataset.Dataset, athlete string, kpis []KPI) ([]Diff, error) {
	rec, ok := ds.Last(athlete)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAthlete, athlete)
	}
	var out []Diff
	for _, k := range kpis {
		if !ds.HasColumn(k.Column) {
			continue
		}
		st := analysis.GroupStats(analysis.Values(ds, k.Column))
		if st.Count == 0 || st.Mean == 0 {
			continue
		}
		v, ok := analysis.CellValue(rec, k.Column)
		if !ok {
			continue
		}
		player, mean := math.Abs(v), math.Abs(st.Mean)
		d := Diff{KPI: k, Player: player, Mean: mean, Pct: (player - mean) / mean * 100, Color: ColorAbove}
		if d.Pct < 0 {
			d.Color = ColorBelow
		}
		out = append(out, d)
	}
	return out, nil
}

// Detail places the athlete, the squad mean and the squad record of one KPI side by side,
// all as magnitudes.
type Detail struct {
	KPI    KPI     `json:"kpi"`
	Player float64 `json:"player"`
	OK     bool    `json:"ok"`
	Mean   float64 `json:"mean"`
	Record float64 `json:"record"`
	Holder string  `json:"holder"`
}

// PhaseDetail reports one KPI for the athlete's latest jump. The record is the maximum, or the
// minimum when the squad mean is negative. Long holder names are shortened.
func PhaseDetail(ds *dataset.Dataset, athlete string, k KPI) (*Detail, error) {
	rec, ok := ds.Last(athlete)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAthlete, athlete)
	}
	if !ds.HasColumn(k.Column) {
		return nil, fmt.Errorf("column %q not in export", k.Column)
	}
	d := &Detail{KPI: k, Holder: "?"}
	st := analysis.GroupStats(analysis.Values(ds, k.Column))
	d.Mean = math.Abs(st.Mean)
	negative := st.Mean < 0
	found := false
	for _, r := range ds.Records {
		v, ok := analysis.CellValue(r, k.Column)
		if !ok {
			continue
		}
		if !found || (negative && v < d.Record) || (!negative && v > d.Record) {
			d.Record, d.Holder, found = v, r.ID, true
		}
	}
	d.Record = math.Abs(d.Record)
	d.Holder = shorten(d.Holder)
	v, ok := analysis.CellValue(rec, k.Column)
	d.Player, d.OK = math.Abs(v), ok
	return d, nil
}

func shorten(name string) string {
	r := []rune(name)
	if len(r) > holderMaxRunes {
		return string(r[:12]) + "..."
	}
	return name
}

// PhaseDetails runs PhaseDetail on every KPI of p present in the export.
func PhaseDetails(ds *dataset.Dataset, athlete string, p Phase) ([]Detail, error) {
	var out []Detail
	for _, k := range p.KPIs {
		if !ds.HasColumn(k.Column) {
			continue
		}
		d, err := PhaseDetail(ds, athlete, k)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}
