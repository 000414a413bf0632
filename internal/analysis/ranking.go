package analysis

import (
	"sort"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
)

// Scored is one indicator of an athlete placed within the group.
type Scored struct {
	Label      string  `json:"label"`
	Column     string  `json:"column"`
	Value      float64 `json:"value"`
	Mean       float64 `json:"mean"`
	Percentile float64 `json:"percentile"`
}

// DefaultTopN is the size of the strengths and weaknesses lists.
const DefaultTopN = 3

// Ranking is the list of scored indicators sorted best first. Ties keep indicator order.
type Ranking []Scored

// RankAll scores every label that resolves to a column and holds a value for rec.
func RankAll(ds *dataset.Dataset, rec dataset.Record, labels []string, cache *ResolveCache, reg *indicator.Registry) Ranking {
	var out Ranking
	for _, l := range labels {
		col, ok := cache.Resolve(l)
		if !ok {
			continue
		}
		v, ok := CellValue(rec, col)
		if !ok {
			continue
		}
		res := Percentile(ds, col, v, true, Inverted(reg, l, col))
		out = append(out, Scored{Label: l, Column: col, Value: v, Mean: res.Mean, Percentile: res.Percentile})
	}
	out.Sort()
	return out
}

// Sort orders by descending percentile, keeping input order among ties.
func (r Ranking) Sort() {
	sort.SliceStable(r, func(i, j int) bool { return r[i].Percentile > r[j].Percentile })
}

// Top returns the n best entries.
func (r Ranking) Top(n int) Ranking {
	if n <= 0 {
		n = DefaultTopN
	}
	if n > len(r) {
		n = len(r)
	}
	return r[:n]
}

// Bottom returns the n weakest entries, in ranking order.
func (r Ranking) Bottom(n int) Ranking {
	if n <= 0 {
		n = DefaultTopN
	}
	if n > len(r) {
		n = len(r)
	}
	return r[len(r)-n:]
}
