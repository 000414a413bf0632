// Package cmj analyses countermovement-jump force plate exports: squad references, an athlete
// against the squad, and phase-by-phase detail with the squad record.
package cmj

import (
	"errors"
	"fmt"
)

// KPI binds a display label to its export column.
type KPI struct {
	Label  string `json:"label"`
	Column string `json:"column"`
}

// Definition is one glossary entry.
type Definition struct {
	Term string `json:"term"`
	Text string `json:"text"`
}

// Phase groups the KPIs of one jump phase with its glossary.
type Phase struct {
	Name     string       `json:"name"`
	KPIs     []KPI        `json:"kpis"`
	Glossary []Definition `json:"glossary"`
}

// MaxSelection caps the number of KPIs compared at once.
const MaxSelection = 5

// DefaultSelection is the KPI set used when none is requested.
var DefaultSelection = []string{"Hauteur de Saut (cm)", "Puissance Max (W)", "Durée Freinage (ms)"}

var (
	// ErrUnknownKPI means a requested label is not a CMJ KPI.
	ErrUnknownKPI = errors.New("unknown CMJ indicator")
	// ErrTooMany means more than MaxSelection KPIs were requested.
	ErrTooMany = fmt.Errorf("at most %d CMJ indicators can be compared", MaxSelection)
)

var (
	general = []KPI{
		{"Poids (kg)", "Poids_kg"},
		{"Hauteur Saut (Vit) (cm)", "Hauteur de saut (Vitesse) (cm)"},
		{"Puissance Max (W)", "Pic de Puissance Max (W)"},
		{"Force Max (N)", "Pic de Force Max (N)"},
		{"Vitesse Max (m/s)", "Pic de Vitesse Max (m/s)"},
		{"Impulsion Totale (N.s)", "Impulsion Totale (N•s)"},
		{"RFD Max (N/s)", "Pic de RFD Max (N/s)"},
		{"RSI", "RSI (TV/TC)"},
	}
	unloading = []KPI{
		{"Profondeur (cm)", "Phase de Décharge - Déplacement Min (cm)"},
		{"Durée Décharge (ms)", "Phase de Décharge - Durée (ms)"},
		{"Force Min. (N)", "Phase de Décharge - Force Minimale(N)"},
		{"RFD Max Négative (N/s)", "Phase de Décharge - RFD Max Négative (N/s)"},
		{"Impulsion Décharge (N.s)", "Phase de Décharge - Impulsion Totale (N•s)"},
	}
	eccentric = []KPI{
		{"Durée Freinage (ms)", "Phase de Freinage - Durée (ms)"},
		{"Force Moy. Freinage (N)", "Phase de Freinage - Force de Freinage Moy (N)"},
		{"Force Max Freinage (N)", "Phase de Freinage - Force de Freinage Max (N)"},
		{"Puissance Max Freinage (W)", "Phase de Freinage - Puissance de Freinage Max (W)"},
		{"RFD Décélération (N/s)", "Phase de Freinage - RFD Décélération (N/s)"},
		{"RFD Excentrique (N/s)", "Phase de Freinage - RFD Excentrique (N/s)"},
		{"Impulsion Freinage (N.s)", "Phase de Freinage - Impulsion de freinage (N•s)"},
	}
	concentric = []KPI{
		{"Hauteur de Saut (cm)", "Hauteur de Saut TV (cm)"},
		{"Puissance Max (W)", "Pic de Puissance Max (W)"},
		{"Force Propulsive Max (N)", "Force Propulsive Max (N)"},
		{"Puissance Propulsive Max (W)", "Puissance Propulsive Max (W)"},
		{"Impulsion Propulsive (N.s)", "Impulsion Propulsive (N•s)"},
		{"RFD Concentrique (N/s)", "Pic de RFD Max (N/s)"},
	}
	landing = []KPI{
		{"Force Max Atterr. (N)", "Force Max à l'Atterrissage (N)"},
		{"Force Moy. Atterr. (N)", "Force d'Atterrissage Moy (N)"},
		{"Ratio Force/Poids (N/kg)", "Ratio Pic de force d'atterrissage/poids du corps (N/kg)"},
	}
)

var phases = []Phase{
	{Name: "Général", KPIs: general, Glossary: []Definition{
		{"Hauteur de saut (Vitesse)", "Résultat final de la performance, estimé via la vitesse d'envol."},
		{"Puissance Max", "Explosivité réelle de l'athlète (Force x Vitesse)."},
		{"Force Max", "Force maximale appliquée au sol pour se propulser."},
		{"Impulsion Totale", "Effort total produit (Force x Temps). 'Gold Standard' pour suivre l'effet de l'entraînement."},
		{"RFD Max", "Vitesse de montée en force. Indicateur de l'explosivité nerveuse."},
		{"RSI", "Indice de réactivité (Hauteur / Temps de contact). Efficacité du cycle étirement-détente."},
	}},
	{Name: "Phase Décharge", KPIs: unloading, Glossary: []Definition{
		{"RFD Max Négative", "Vitesse de relâchement de la force pour initier la descente. Plus c'est bas (négatif), plus le démarrage est réactif."},
		{"Impulsion Décharge", "Capacité à se relâcher efficacement avant le freinage. Conditionne la fluidité du saut."},
		{"Force Min.", "Niveau de force le plus bas atteint lors du délestage (Unloading)."},
	}},
	{Name: "Phase Excentrique", KPIs: eccentric, Glossary: []Definition{
		{"Force Max Freinage", "Capacité maximale d'absorption de force. Lié à la performance de décélération sur terrain et prévention des blessures."},
		{"RFD Décélération", "Vitesse d'application du freinage. Un taux élevé indique un freinage vif et 'sec' (vivacité)."},
		{"Impulsion Freinage", "Effort total pour stopper la descente. Indicateur de résilience musculaire face à la charge."},
		{"RFD Excentrique", "Vitesse à laquelle la force de freinage est développée."},
	}},
	{Name: "Phase Concentrique", KPIs: concentric, Glossary: []Definition{
		{"Force Propulsive Max", "Force maximale générée pour pousser le corps vers le haut (Triple extension)."},
		{"Puissance Propulsive Max", "Explosivité maximale développée lors de la montée."},
		{"RFD Concentrique", "Vitesse de contraction musculaire lors de la poussée. Une montée raide = profil explosif."},
		{"Impulsion Propulsive", "Quantité totale de mouvement générée pour le saut."},
	}},
	{Name: "Atterrissage", KPIs: landing, Glossary: []Definition{
		{"Force Max Atterr.", "Pic de force subi à l'impact. Renseigne sur le stress mécanique et le risque de blessure."},
		{"Force Moy. Atterr.", "Force moyenne gérée durant la phase de stabilisation."},
		{"Ratio Force/Poids", "Permet de relativiser l'impact subi par rapport au gabarit du joueur."},
	}},
}

// Phases returns the jump phases in display order.
func Phases() []Phase {
	out := make([]Phase, len(phases))
	copy(out, phases)
	return out
}

// PhaseByName finds a phase by its exact name.
func PhaseByName(name string) (Phase, bool) {
	for _, p := range phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// All lists every KPI once: concentric, eccentric, landing, unloading, then general.
func All() []KPI {
	seen := map[string]bool{}
	var out []KPI
	for _, group := range [][]KPI{concentric, eccentric, landing, unloading, general} {
		for _, k := range group {
			if !seen[k.Label] {
				seen[k.Label] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// Select resolves labels to KPIs, keeping their order. No label means DefaultSelection.
func Select(labels []string) ([]KPI, error) {
	if len(labels) == 0 {
		labels = DefaultSelection
	}
	if len(labels) > MaxSelection {
		return nil, ErrTooMany
	}
	byLabel := map[string]KPI{}
	for _, k := range All() {
		byLabel[k.Label] = k
	}
	out := make([]KPI, 0, len(labels))
	for _, l := range labels {
		k, ok := byLabel[l]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKPI, l)
		}
		out = append(out, k)
	}
	return out, nil
}
