package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/Antoink/SDRV3/internal/dataset"
)

// Sides of a bilateral measurement.
const (
	Left  = "G"
	Right = "D"
)

// Presentation colours shared by bands and classifications.
const (
	ColorBad     = "#D71920"
	ColorAverage = "#F39C12"
	ColorGood    = "#27AE60"
	ColorUnknown = "#888"
	ColorNeutral = "#444444"
)

// Pair is one left/right measurement of an athlete.
type Pair struct {
	Label       string
	Left        float64
	LeftOK      bool
	Right       float64
	RightOK     bool
	LeftColumn  string
	RightColumn string
}

// AsymResult is the bilateral difference of a pair. Weak is "" when both sides are equal or
// no reference is available.
type AsymResult struct {
	Pct  float64 `json:"pct"`
	Weak string  `json:"weak,omitempty"`
	OK   bool    `json:"ok"`
}

// IsMobility reports whether a label or column is a low-amplitude mobility test, whose
// asymmetry is scaled by the group ceiling rather than by the pair itself.
func IsMobility(names ...string) bool {
	for _, n := range names {
		l := strings.ToLower(n)
		if strings.Contains(l, "knee") || strings.Contains(l, "ktw") {
			return true
		}
	}
	return false
}

// Asymmetry computes |L-R| / reference * 100.
func Asymmetry(ds *dataset.Dataset, p Pair) AsymResult {
	if !p.LeftOK || !p.RightOK {
		return AsymResult{}
	}
	var ref float64
	if IsMobility(p.Label, p.LeftColumn, p.RightColumn) {
		m, ok := ColumnMax(ds, p.LeftColumn, p.RightColumn)
		if ok {
			ref = m
		}
	} else {
		ref = math.Max(p.Left, p.Right)
	}
	if ref <= 0 {
		return AsymResult{OK: true}
	}
	res := AsymResult{Pct: math.Abs(p.Left-p.Right) / ref * 100, OK: true}
	switch {
	case p.Left < p.Right:
		res.Weak = Left
	case p.Right < p.Left:
		res.Weak = Right
	}
	return res
}

// Band is the presentation bucket of an asymmetry percentage.
type Band struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Color string `json:"color"`
}

var (
	BandBalanced = Band{Name: "balanced", Title: "Équilibré", Color: ColorGood}
	BandCaution  = Band{Name: "caution", Title: "Attention", Color: ColorAverage}
	BandDeficit  = Band{Name: "deficit", Title: "Déficit", Color: ColorBad}
)

// AsymBand buckets pct: below 10 balanced, below 15 caution, deficit otherwise.
func AsymBand(pct float64) Band {
	switch {
	case pct < 10:
		return BandBalanced
	case pct < 15:
		return BandCaution
	}
	return BandDeficit
}

// Badge renders the asymmetry label shown next to a bilateral pair, e.g. "Déficit G (17%)".
func (r AsymResult) Badge() string {
	if !r.OK {
		return ""
	}
	b := AsymBand(r.Pct)
	pct := " (" + formatPct(r.Pct) + ")"
	if b == BandBalanced || r.Weak == "" {
		return b.Title + pct
	}
	return b.Title + " " + r.Weak + pct
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// mobilityFallbackRef is the reference used for signed mobility asymmetry when the group
// ceiling is unavailable.
const mobilityFallbackRef = 15.0

// SignedAverage averages the signed (R-L)/reference*100 differences of the available pairs.
// Positive means the right side dominates. ok is false when no pair has both sides.
func SignedAverage(ds *dataset.Dataset, pairs []Pair) (float64, bool) {
	sum, n := 0.0, 0
	for _, p := range pairs {
		if !p.LeftOK || !p.RightOK {
			continue
		}
		var ref float64
		if IsMobility(p.Label, p.LeftColumn, p.RightColumn) {
			if m, ok := ColumnMax(ds, p.LeftColumn, p.RightColumn); ok && m > 0 {
				ref = m
			} else {
				ref = mobilityFallbackRef
			}
		} else {
			ref = math.Max(p.Left, p.Right)
		}
		if ref <= 0 {
			continue
		}
		sum += (p.Right - p.Left) / ref * 100
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// LSI is the signed limb symmetry index (R-L)/max(L,R)*100 of an isokinetic pair.
func LSI(left, right float64) (float64, bool) {
	mx := math.Max(left, right)
	if mx <= 0 {
		return 0, false
	}
	return (right - left) / mx * 100, true
}

// LSIColor colours |lsi|: 15 and above red, 10 and above orange, green otherwise.
func LSIColor(lsi float64) string {
	switch a := math.Abs(lsi); {
	case a >= 15:
		return ColorBad
	case a >= 10:
		return ColorAverage
	}
	return ColorGood
}

// MarkerPosition places a signed asymmetry on a 0-100 bar centred on 50, saturating at ±20%.
func MarkerPosition(signed float64) float64 {
	off := signed / 20 * 50
	if off > 50 {
		off = 50
	}
	if off < -50 {
		off = -50
	}
	return 50 + off
}
