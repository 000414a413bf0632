package indicator

import "strings"

// GuessUnit infers a unit from an arbitrary column or label name. The checks run in a fixed
// priority order so that composite units win over the bare quantity they contain.
func GuessUnit(name string) string {
	l := strings.ToLower(name)
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(l, s) {
				return true
			}
		}
		return false
	}
	switch {
	case has("ratio", "nb "):
		return ""
	case has("n/kg"):
		return "N/kg"
	case has("w/kg"):
		return "W/kg"
	case has("m/s2", "m/s²"):
		return "m/s²"
	case has("%", "img"):
		return "%"
	case has("amax", "dmax"):
		return "m/s²"
	case has("conc", "exc", "nm"):
		return "Nm"
	case has("1rm", "poids"):
		return "kg"
	case has("watt", "keiser", "tirage", "couché"):
		return "W"
	case has("add", "abd", "nordic", "force", "landing"):
		return "N"
	case has("vma", "vmax", "vitesse"):
		return "km/h"
	case has("cmj", "saut", "taille", "reach", "knee"):
		return "cm"
	case has("temps", "chrono", "10m", "505"):
		return "s"
	case has("distance", "landmine"):
		return "m"
	case has("score"):
		return "pts"
	}
	return ""
}

// RelativeUnit names the per-kilogram unit derived from an absolute one.
func RelativeUnit(abs string) string {
	switch {
	case strings.Contains(abs, "N"):
		return "N/kg"
	case strings.Contains(abs, "W"):
		return "W/kg"
	}
	return "ratio"
}

// IsForceOrPower reports whether values in unit can be expressed per kilogram of bodyweight.
func IsForceOrPower(unit string) bool {
	if strings.Contains(unit, "cm") || strings.Contains(unit, "s") {
		return false
	}
	return strings.Contains(unit, "N") || strings.Contains(unit, "W") || strings.Contains(unit, "kg")
}
