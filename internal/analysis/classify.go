package analysis

import "github.com/Antoink/SDRV3/internal/indicator"

// Tier is the qualitative bucket of a value against its normative range.
type Tier string

const (
	TierUnknown Tier = "unknown"
	TierNeutral Tier = "neutral"
	TierGood    Tier = "good"
	TierAverage Tier = "average"
	TierPoor    Tier = "poor"
)

// Status is a classification with its display colour.
type Status struct {
	Tier  Tier   `json:"tier"`
	Color string `json:"color"`
}

// Title is the French display word of the tier, "-" when not classified.
func (s Status) Title() string {
	switch s.Tier {
	case TierGood:
		return "Bon"
	case TierAverage:
		return "Moyen"
	case TierPoor:
		return "Mauvais"
	}
	return "-"
}

// Classify buckets value against the normative range of label. The inclusive edge depends on
// polarity: inverted is good below low and average up to high included; non-inverted is poor
// below low and good from high included.
func Classify(reg *indicator.Registry, label string, value float64, ok bool) Status {
	if !ok {
		return Status{Tier: TierUnknown, Color: ColorUnknown}
	}
	rg, has := reg.NormativeRange(label)
	if !has {
		return Status{Tier: TierNeutral, Color: ColorNeutral}
	}
	return classifyRange(rg, reg.IsInverted(label), value)
}

func classifyRange(rg indicator.Range, inverted bool, v float64) Status {
	if inverted {
		switch {
		case v < rg.Low:
			return Status{Tier: TierGood, Color: ColorGood}
		case v <= rg.High:
			return Status{Tier: TierAverage, Color: ColorAverage}
		}
		return Status{Tier: TierPoor, Color: ColorBad}
	}
	switch {
	case v < rg.Low:
		return Status{Tier: TierPoor, Color: ColorBad}
	case v < rg.High:
		return Status{Tier: TierAverage, Color: ColorAverage}
	}
	return Status{Tier: TierGood, Color: ColorGood}
}

// BarColor colours a percentile bar: red below 33, orange below 66, green otherwise.
func BarColor(percentile float64) string {
	switch {
	case percentile < 33:
		return ColorBad
	case percentile < 66:
		return ColorAverage
	}
	return ColorGood
}
