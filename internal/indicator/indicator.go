// Package indicator holds the static knowledge about tracked performance indicators:
// display categories, reference column names, units, normative ranges and polarity.
package indicator

import (
	"fmt"
	"math"
	"strings"
)

// Range is a normative target band [Low, High].
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Norm binds a label (or label fragment) to its normative range.
type Norm struct {
	Label string `json:"label"`
	Range Range  `json:"range"`
}

// Category groups indicator labels under a report section.
type Category struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
}

// Indicator is the fully resolved static description of one tracked metric.
type Indicator struct {
	Label     string `json:"label"`
	Category  string `json:"category"`
	Unit      string `json:"unit"`
	Norm      *Range `json:"norm,omitempty"`
	Inverted  bool   `json:"inverted"`
	Column    string `json:"column,omitempty"`
	RelColumn string `json:"rel_column,omitempty"`
	Source    string `json:"source"`
}

// CleanLabel strips the left/right side qualifier from a label.
func CleanLabel(label string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(label, "(G)", ""), "(D)", ""))
}

// Side reports the side qualifier carried by a label: "G", "D" or "".
func Side(label string) string {
	switch {
	case strings.Contains(label, "(G)"):
		return "G"
	case strings.Contains(label, "(D)"):
		return "D"
	}
	return ""
}

// Mirror returns the opposite-side label of a bilateral indicator, or "" for unilateral ones.
func Mirror(label string) string {
	switch Side(label) {
	case "G":
		return strings.Replace(label, "(G)", "(D)", 1)
	case "D":
		return strings.Replace(label, "(D)", "(G)", 1)
	}
	return ""
}

// Format renders a value the way reports show it: integers without decimals,
// everything else with two, and "-" when absent.
func Format(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
