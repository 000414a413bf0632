package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
)

// outlierThreshold is the robust z-score (MAD based) above which a value is flagged.
const outlierThreshold = 3.5

// Summary describes a loaded dataset and how the tracked indicators resolve against it.
type Summary struct {
	Name       string              `json:"name"`
	Rows       int                 `json:"rows"`
	Athletes   int                 `json:"athletes"`
	Cols       []ColumnSummary     `json:"columns"`
	Indicators []ResolvedIndicator `json:"indicators"`
	Warnings   []string            `json:"warnings,omitempty"`
}

// ColumnSummary captures the inferred kind and statistics of a column.
type ColumnSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // numeric|text|empty
	Unit    string `json:"unit,omitempty"`
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
	Stats   Stats  `json:"stats"`
	// Outliers counts values with robust |z| above the threshold.
	Outliers  int             `json:"outliers"`
	TopValues []CategoryCount `json:"top_values,omitempty"`
}

// CategoryCount is one frequent text value.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ResolvedIndicator records which column an indicator label resolved to.
type ResolvedIndicator struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Column   string `json:"column,omitempty"`
	Valid    int    `json:"valid"`
	Inverted bool   `json:"inverted"`
}

// Describe summarizes ds. Columns holding a majority of numeric cells are numeric.
func Describe(ds *dataset.Dataset, cache *ResolveCache, reg *indicator.Registry) *Summary {
	s := &Summary{Name: ds.Name, Rows: ds.Len(), Athletes: len(ds.Athletes())}
	for _, c := range ds.Columns {
		if c == dataset.IDColumn {
			continue
		}
		s.Cols = append(s.Cols, describeColumn(ds, c))
	}
	unresolved := 0
	for _, cat := range reg.Categories() {
		for _, l := range cat.Labels {
			ri := ResolvedIndicator{Category: cat.Name, Label: l}
			if col, ok := cache.Resolve(l); ok {
				ri.Column = col
				ri.Valid = len(Values(ds, col))
				ri.Inverted = Inverted(reg, l, col)
			} else {
				ri.Inverted = reg.IsInverted(l)
				unresolved++
			}
			s.Indicators = append(s.Indicators, ri)
		}
	}
	if unresolved > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%d tracked indicators have no matching column", unresolved))
	}
	if _, ok := WeightColumn(ds.Columns); !ok {
		s.Warnings = append(s.Warnings, "no bodyweight column: relative mode falls back to explicit per-kg columns")
	}
	return s
}

func describeColumn(ds *dataset.Dataset, column string) ColumnSummary {
	cs := ColumnSummary{Name: column, Unit: indicator.GuessUnit(column)}
	var nums []float64
	cats := map[string]int{}
	for _, raw := range ds.Raw(column) {
		v := strings.TrimSpace(raw)
		if v == "" || v == "-" {
			cs.Missing++
			continue
		}
		cs.NonNull++
		if x, ok := NormalizeString(v); ok {
			nums = append(nums, x)
			continue
		}
		cats[v]++
	}
	switch {
	case cs.NonNull == 0:
		cs.Kind = "empty"
	case len(nums)*2 > cs.NonNull:
		cs.Kind = "numeric"
		cs.Stats = GroupStats(nums)
		cs.Outliers = countOutliers(nums)
	default:
		cs.Kind = "text"
		cs.TopValues = topValues(cats, 5)
	}
	return cs
}

func topValues(cats map[string]int, n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		out = append(out, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func countOutliers(vals []float64) int {
	med, mad := medianMAD(vals)
	if mad == 0 {
		return 0
	}
	n := 0
	for _, v := range vals {
		// 0.6745 scales MAD to the standard deviation of a normal distribution
		if z := 0.6745 * math.Abs(v-med) / mad; z > outlierThreshold {
			n++
		}
	}
	return n
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	median = Quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	return median, Quantile(dev, 0.5)
}

// Markdown renders the summary for terminals and prompts.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d (athletes %d)\n", s.Rows, s.Athletes))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(s.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		name := safeName(c.Name)
		if c.Unit != "" {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Stats.Min, c.Stats.Max, c.Stats.Mean, c.Stats.Std))
			if c.Outliers > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.Outliers, outlierThreshold))
			}
		case "text":
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(s.Indicators) > 0 {
		b.WriteString("\n[INDICATORS]\n")
		b.WriteString("| Category | Indicator | Column | Valid | Polarity |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, ri := range s.Indicators {
			col := ri.Column
			if col == "" {
				col = "(unresolved)"
			}
			pol := "higher is better"
			if ri.Inverted {
				pol = "lower is better"
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s |\n", ri.Category, safeVal(ri.Label), safeVal(col), ri.Valid, pol))
		}
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range s.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
