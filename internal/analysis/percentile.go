package analysis

import (
	"math"
	"sort"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
)

// Result is the position of one value within its group.
type Result struct {
	Mean       float64 `json:"mean"`
	Percentile float64 `json:"percentile"`
}

// Inverted is the polarity used for a label resolved to column.
func Inverted(reg *indicator.Registry, label, column string) bool {
	return reg.IsInverted(label) || reg.IsInverted(column)
}

// Percentile places value within the valid values of column. It returns a zero Result when the
// column is unknown, the value is absent or the group holds no valid value.
func Percentile(ds *dataset.Dataset, column string, value float64, ok bool, inverted bool) Result {
	if !ok || !ds.HasColumn(column) {
		return Result{}
	}
	return PercentileOf(Values(ds, column), value, inverted)
}

// PercentileOf is the one-sided inclusive percentile: the share of the group the value equals
// or beats, given the polarity. The value itself counts when it belongs to the group.
func PercentileOf(values []float64, value float64, inverted bool) Result {
	if len(values) == 0 || math.IsNaN(value) {
		return Result{}
	}
	sum, hits := 0.0, 0
	for _, v := range values {
		sum += v
		if (inverted && v >= value) || (!inverted && v <= value) {
			hits++
		}
	}
	n := float64(len(values))
	return Result{Mean: sum / n, Percentile: float64(hits) / n * 100}
}

// Rank returns the 1-based "min" rank of value among the valid values of column (1 is best)
// and the group size. ok is false when value is absent or not part of the group.
func Rank(ds *dataset.Dataset, column string, value float64, ok bool, inverted bool) (rank, total int, found bool) {
	if !ok || !ds.HasColumn(column) {
		return 0, 0, false
	}
	return RankOf(Values(ds, column), value, inverted)
}

// RankOf ranks value within values the way Rank does for a column.
func RankOf(values []float64, value float64, inverted bool) (rank, total int, found bool) {
	better := 0
	for _, v := range values {
		if v == value {
			found = true
		}
		if (inverted && v < value) || (!inverted && v > value) {
			better++
		}
	}
	if !found {
		return 0, 0, false
	}
	return better + 1, len(values), true
}

// Stats summarizes a group of values. Std is the sample standard deviation.
type Stats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// GroupStats computes Stats with Welford's online algorithm.
func GroupStats(values []float64) Stats {
	var s Stats
	var m2 float64
	for _, v := range values {
		if s.Count == 0 {
			s.Min, s.Max = v, v
		}
		s.Count++
		delta := v - s.Mean
		s.Mean += delta / float64(s.Count)
		m2 += delta * (v - s.Mean)
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	if s.Count > 1 {
		s.Std = math.Sqrt(m2 / float64(s.Count-1))
	}
	return s
}

// Quantile interpolates linearly between the closest ranks of sorted.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Quartiles returns the 25th, 50th and 75th percentiles of values.
func Quartiles(values []float64) (q1, median, q3 float64) {
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	return Quantile(cp, 0.25), Quantile(cp, 0.5), Quantile(cp, 0.75)
}
