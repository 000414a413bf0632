package indicator

// Category names as they appear in exported reports.
const (
	CategoryMotor         = "PROFILAGE MOTEUR"
	CategoryAthletic      = "PROFILAGE ATHLÉTIQUE"
	CategoryPhysiological = "PROFILAGE PHYSIOLOGIQUE"
)

// officialStructure lists the tracked indicators per category, in display order.
var officialStructure = []Category{
	{Name: CategoryMotor, Labels: []string{
		"Somme ADD", "Ratio Squeeze", "Somme ABD",
		"Knee To Wall (G)", "Knee To Wall (D)",
		"Nordic Ischio (G)", "Nordic Ischio (D)",
		"Landing %", "Sit And Reach",
		"Q Conc 60° (G)", "Q Conc 60° (D)", "Q Conc 240° (G)", "Q Conc 240° (D)",
		"IJ Conc 60° (G)", "IJ Conc 60° (D)", "IJ Conc 240° (G)", "IJ Conc 240° (D)",
		"IJ Exc 30° (G)", "IJ Exc 30° (D)",
		"Score Sommeil", "Score Nutrition",
	}},
	{Name: CategoryAthletic, Labels: []string{
		"CMJ (cm)", "Wattbike (6s)", "Squat Keiser", "Tirage Dos Keiser",
		"Développé couché (W)", "Développé couché (W/kg)", "Landmine Throw",
	}},
	{Name: CategoryPhysiological, Labels: []string{
		"VMA", "Temps 10m (Terrain)", "5-0-5", "Distance Totale", "Distance HSR",
		"Nb Accélérations", "Nb Décélérations", "Vmax", "Amax", "Dmax",
	}},
}

// columnMapping maps display labels to the column names of the reference export.
var columnMapping = map[string]string{
	"Knee To Wall (G)": "Knee To Wall - Gauche", "Knee To Wall (D)": "Knee To Wall - Droite",
	"Sit And Reach": "Sit And Reach",
	"Somme ADD":     "Somme ADD", "Adducteurs (G)": "Adducteurs - Gauche", "Adducteurs (D)": "Adducteurs - Droite",
	"Ratio Squeeze": "Ratio Squeeze (ADD/ABD)",
	"Somme ABD":     "Somme ABD", "Abducteurs (G)": "Abducteurs - Gauche ",
	"Abducteurs (D)":    "Abducteurs - Droite (N/kg)",
	"Nordic Ischio (G)": "Nordic Ischio - Gauche", "Nordic Ischio (D)": "Nordic Ischio - Droite",
	"Landing (G)": "Landing G (N/kg)", "Landing (D)": "Landing Dt (N/kg)", "Landing %": "Landing %",
	"Q Conc 60° (G)": "Q G conc 60°/s", "Q Conc 60° (D)": "Q Dt conc 60°/s",
	"Q Conc 240° (G)": "Q G conc 240°/s", "Q Conc 240° (D)": "Q Dt conc 240°/s",
	"IJ Conc 60° (G)": "IJ G conc 60°/s", "IJ Conc 60° (D)": "IJ Dt conc 60°/s",
	"IJ Conc 240° (G)": "IJ G conc 240°/s", "IJ Conc 240° (D)": "IJ Dt conc 240°/s",
	"IJ Exc 30° (G)": "IJ G Exc 30°/s", "IJ Exc 30° (D)": "IJ Dt exc 30°/s",
	"Score Sommeil": "Score Sommeil", "Score Nutrition": "Score Nutrition",
	"CMJ (cm)": "CMJ (cm)", "Wattbike (6s)": "Wattbike 6s (W)",
	"Squat Keiser": "Keiser squat R=100", "Tirage Dos Keiser": "Tirage dos Keiser",
	"Développé couché (W)":    "Developpé couché (W)",
	"Développé couché (W/kg)": "Developpé couché (W/kg)", "Landmine Throw": "Landmine throw",
	"VMA": "VMA", "Temps 10m (Terrain)": "Temps 10m", "5-0-5": "5 - 0 - 5",
	"Distance Totale": "Distance totale", "Distance HSR": "Distance HSR", "Distance Sprint (92% Vmax)": "Distance Sprint (92% Vmax)",
	"Nb Accélérations": "Nb Acc", "Nb Décélérations": "Nb Dec",
	"Vmax": "Vmax", "Amax": "Amax", "Dmax": "Dmax",
}

// relColumnMapping maps labels to their per-bodyweight column, when the export carries one.
var relColumnMapping = map[string]string{
	"Somme ADD": "Somme ADD (N/kg)", "Somme ABD": "Somme ABD (N/kg)",
	"Adducteurs (G)": "Adducteurs - Gauche (N/kg)", "Adducteurs (D)": "Adducteurs - Droite (N/kg)",
	"Abducteurs (G)": "Abducteurs - Gauche (N/kg)", "Abducteurs (D)": "Abducteurs - Droite",
	"Nordic Ischio (G)": "Nordic Ischio - Gauche (N/kg)", "Nordic Ischio (D)": "Nordic Ischio - Droite (N/kg)",
	"Q Conc 60° (G)": "Q G conc 60°/s (N/kg)", "Q Conc 60° (D)": "Q Dt conc 60°/s (N/kg)",
	"Q Conc 240° (G)": "Q G conc 240°/s (N/kg)", "Q Conc 240° (D)": "Q Dt conc 240°/s (N/kg)",
	"IJ Conc 60° (G)": "IJ G conc 60°/s (N/kg)", "IJ Conc 60° (D)": "IJ Dt conc 60°/s (N/kg)",
	"IJ Conc 240° (G)": "IJ G conc 240°/s (N/kg)", "IJ Conc 240° (D)": "IJ Dt conc 240°/s (N/kg)",
	"IJ Exc 30° (G)": "IJ G Exc 30°/s (N/kg)", "IJ Exc 30° (D)": "IJ Dt exc 30°/s (N/kg)",
	"Q Exc 30° (G)": "Q G exc 30°/s (N/kg)", "Q Exc 30° (D)": "Q Dt exc 30°/s (N/kg)",
	"Développé couché (W)": "Developpé couché (W/kg)",
}

// sourcesConfig names where a norm comes from. Anything missing is a club norm.
var sourcesConfig = map[string]string{
	"Q Conc 60°": "Scientifique", "Q Conc 240°": "Scientifique",
	"IJ Conc 60°": "Scientifique", "IJ Conc 240°": "Scientifique", "IJ Exc 30°": "Scientifique",
}

// keywordMapping holds the fuzzy keywords used when a column does not carry the reference name.
var keywordMapping = map[string][]string{
	"Taille": {"taille", "height"}, "Poids": {"poids", "weight"},
	"Masse Grasse Plis (mm)": {"masse grasse", "fat", "img"},
	"Numéro":                 {"numero", "numéro", "number", "maillot"},
	"Poste":                  {"poste", "position"}, "Latéralité": {"latéralité", "laterality", "pied"},
	"Knee To Wall (G)": {"knee to wall - gauche", "ktw g"}, "Knee To Wall (D)": {"knee to wall - droite", "ktw d"},
	"Sit And Reach":  {"sit and reach", "souplesse"},
	"Adducteurs (G)": {"adducteurs - gauche", "add g"}, "Adducteurs (D)": {"adducteurs - droite", "add d"},
	"Abducteurs (G)": {"abducteurs - gauche", "abd g"}, "Abducteurs (D)": {"abducteurs - droite", "abd d"},
	"Nordic Ischio (G)": {"nordic ischio - gauche", "nordic g"}, "Nordic Ischio (D)": {"nordic ischio - droite", "nordic d"},
	"Landing (G)": {"landing g"}, "Landing (D)": {"landing dt", "landing d"},
	"Landing %":      {"landing %", "landing", "asymétrie landing"},
	"Q Conc 60° (G)": {"q g conc 60"}, "Q Conc 60° (D)": {"q dt conc 60"},
	"Q Conc 240° (G)": {"q g conc 240"}, "Q Conc 240° (D)": {"q dt conc 240"},
	"IJ Conc 60° (G)": {"ij g conc 60"}, "IJ Conc 60° (D)": {"ij dt conc 60"},
	"IJ Conc 240° (G)": {"ij g conc 240"}, "IJ Conc 240° (D)": {"ij dt conc 240"},
	"IJ Exc 30° (G)": {"ij g exc 30"}, "IJ Exc 30° (D)": {"ij dt exc 30"},
	"Q Exc 30° (G)":   {"q g exc 30", "quad g exc 30"},
	"Q Exc 30° (D)":   {"q dt exc 30", "quad dt exc 30"},
	"Ratio Mixte (G)": {"ratio mixte g", "mixte g"},
	"Ratio Mixte (D)": {"ratio mixte dt", "mixte d", "mixte dt", "ratio mixte d"},
	"Score Sommeil":   {"score sommeil", "sommeil"}, "Score Nutrition": {"score nutrition", "nutrition"},
	"CMJ (cm)": {"cmj", "saut"}, "Wattbike 6s (W)": {"wattbike"},
	"Squat Keiser": {"keiser squat", "squat r=100"}, "Tirage Dos Keiser": {"tirage dos"},

	"Développé couché (W)":    {"developpé couché (W)", "couché (W)"},
	"Développé couché (W/kg)": {"developpé couché (W/kg)", "couché (W/kg)"},

	"Landmine Throw": {"landmine"},
	"10m 1080 (s)":   {"10m 1080", "1080"},
	"VMA":            {"vma"}, "SV1": {"sv1"}, "SV2": {"sv2"},
	"Temps 10m (Terrain)": {"temps 10m", "chrono 10m"}, "5-0-5": {"5 - 0 - 5", "505"},
	"Distance Totale": {"distance totale", "total dist"}, "Distance HSR": {"distance hsr", "hsr"},
	"Distance Sprint (92% Vmax)": {"distance sprint", "sprint"},
	"Nb Accélérations":           {"nb acc"}, "Nb Décélérations": {"nb dec"},
	"Vmax": {"vmax"}, "Amax": {"amax"}, "Dmax": {"dmax"},
}

// reportNorms is ordered: lookups use substring containment and the first match wins.
var reportNorms = []Norm{
	{"Knee To Wall (G)", Range{5, 9}}, {"Knee To Wall (D)", Range{5, 9}},
	{"Sit And Reach", Range{20, 24}},
	{"Adducteurs (G)", Range{33, 39}}, {"Adducteurs (D)", Range{33, 39}},
	{"Abducteurs (G)", Range{33, 39}}, {"Abducteurs (D)", Range{33, 39}},
	{"Somme ADD", Range{34, 39}}, {"Somme ABD", Range{34, 39}}, {"Ratio Squeeze", Range{0.90, 1.10}},
	{"Landing %", Range{5, 10}}, {"Landing (G)", Range{20, 30}}, {"Landing (D)", Range{20, 30}},
	{"Nordic Ischio (G)", Range{0.7, 0.8}}, {"Nordic Ischio (D)", Range{0.7, 0.8}},
	{"Q Conc 60° (G)", Range{2.8, 3.1}}, {"Q Conc 60° (D)", Range{2.8, 3.1}},
	{"Q Conc 240° (G)", Range{1.9, 2.2}}, {"Q Conc 240° (D)", Range{1.9, 2.2}},
	{"IJ Conc 60° (G)", Range{1.5, 1.8}}, {"IJ Conc 60° (D)", Range{1.5, 1.8}},
	{"IJ Conc 240° (G)", Range{1.2, 1.5}}, {"IJ Conc 240° (D)", Range{1.2, 1.5}},
	{"IJ Exc 30° (G)", Range{2.0, 2.4}}, {"IJ Exc 30° (D)", Range{2.0, 2.4}},
	{"Score Sommeil", Range{4, 8}}, {"Score Nutrition", Range{4, 8}},
	{"Développé couché (W)", Range{400, 500}}, {"Développé couché (W/kg)", Range{5, 7}},
	{"Masse Grasse Plis (mm)", Range{40, 50}},
	{"CMJ (cm)", Range{35, 42}}, {"Wattbike (6s)", Range{1100, 1300}},
	{"Squat Keiser", Range{1500, 2000}}, {"Tirage Dos Keiser", Range{800, 1200}},
	{"Landmine Throw", Range{20, 30}},
	{"VMA", Range{16, 22}}, {"Distance HSR", Range{800, 1200}}, {"Vmax", Range{31, 35}},
	{"Temps 10m (Terrain)", Range{1.76, 1.90}}, {"5-0-5", Range{2.20, 2.40}},
	{"Distance Totale", Range{8000, 11000}}, {"Nb Accélérations", Range{50, 150}},
	{"Nb Décélérations", Range{50, 150}}, {"Amax", Range{5, 7}}, {"Dmax", Range{5, 7}},
}

// relativeNormKeys are indicators whose norm is expressed per kilogram of bodyweight.
var relativeNormKeys = []string{
	"Nordic Ischio (G)", "Nordic Ischio (D)",
	"Q Conc 60° (G)", "Q Conc 60° (D)",
	"Q Conc 240° (G)", "Q Conc 240° (D)",
	"IJ Conc 60° (G)", "IJ Conc 60° (D)",
	"IJ Conc 240° (G)", "IJ Conc 240° (D)",
	"IJ Exc 30° (G)", "IJ Exc 30° (D)",
}

var units = map[string]string{
	"Knee To Wall": "cm", "Sit And Reach": "cm", "Landing": "N/kg", "Landing %": "%",
	"Adducteurs": "N", "Somme ADD": "N", "Abducteurs": "N", "Somme ABD": "N", "Nordic Ischio": "N",
	"Q Conc 60°": "Nm", "Q Conc 240°": "Nm", "IJ Conc 60°": "Nm", "IJ Conc 240°": "Nm", "IJ Exc 30°": "Nm",
	"CMJ (cm)": "cm", "Landmine Throw": "m",
	"Wattbike (6s)": "W", "Développé couché (W)": "W", "Développé couché (W/kg)": "W/kg",
	"Squat Keiser": "W", "Tirage Dos Keiser": "W",
	"VMA": "km/h", "Vmax": "km/h", "Temps 10m (Terrain)": "s", "5-0-5": "s",
	"Distance Totale": "m", "Distance HSR": "m", "Amax": "m/s²", "Dmax": "m/s²",
	"Score Sommeil": "pts", "Score Nutrition": "pts",
}

// invertedKeywords mark "lower is better" indicators. Every polarity decision goes through IsInverted.
var invertedKeywords = []string{"temps", "chrono", "10m", "505", "agilité", "masse grasse", "landing", "landing %"}
