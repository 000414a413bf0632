package cmj

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antoink/SDRV3/internal/dataset"
)

const export = "Joueur;Hauteur de Saut TV (cm);Pic de Puissance Max (W);Phase de Décharge - Déplacement Min (cm)\n" +
	"jean dupont;35,0;4000;-30\n" +
	"Lucas Martin;40;4500;-35\n" +
	"jean dupont;38;4200;-32\n" +
	"Maximilien De La Tour;30;3500;-40\n"

func load(t *testing.T) *dataset.Dataset {
	t.Helper()
	p := filepath.Join(t.TempDir(), "MASTER_CMJ_COMPLET.csv")
	require.NoError(t, os.WriteFile(p, []byte(export), 0o644))
	ds, err := dataset.Load(p, dataset.Options{Delimiter: ';'})
	require.NoError(t, err)
	return ds
}

func kpi(t *testing.T, label string) KPI {
	t.Helper()
	ks, err := Select([]string{label})
	require.NoError(t, err)
	return ks[0]
}

func TestCatalogue(t *testing.T) {
	all := All()
	assert.Len(t, all, 28, "shared KPIs listed once")
	assert.Equal(t, "Hauteur de Saut (cm)", all[0].Label)
	assert.Len(t, Phases(), 5)
	p, ok := PhaseByName("Atterrissage")
	require.True(t, ok)
	assert.Len(t, p.Glossary, 3)

	ks, err := Select(nil)
	require.NoError(t, err)
	assert.Len(t, ks, 3)
	_, err = Select([]string{"Hauteur de Saut (cm)", "Nope"})
	require.ErrorIs(t, err, ErrUnknownKPI)
	_, err = Select([]string{"RSI", "Poids (kg)", "Force Max (N)", "Vitesse Max (m/s)", "RFD Max (N/s)", "Force Min. (N)"})
	require.ErrorIs(t, err, ErrTooMany)
}

func TestTeamAverages(t *testing.T) {
	ds := load(t)
	avg := TeamAverages(ds, []KPI{kpi(t, "Profondeur (cm)"), kpi(t, "RSI")})
	require.Len(t, avg, 1, "missing columns are skipped")
	assert.InDelta(t, 34.25, avg[0].Mean, 1e-9, "negative phases read as magnitudes")
	assert.Equal(t, 4, avg[0].N)
	assert.Greater(t, avg[0].Std, 0.0)
}

func TestPlayerVsTeamUsesLatestJump(t *testing.T) {
	ds := load(t)
	diffs, err := PlayerVsTeam(ds, "Jean Dupont", []KPI{kpi(t, "Hauteur de Saut (cm)"), kpi(t, "Profondeur (cm)")})
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	assert.InDelta(t, 38, diffs[0].Player, 1e-9)
	assert.InDelta(t, (38-35.75)/35.75*100, diffs[0].Pct, 1e-9)
	assert.Equal(t, ColorAbove, diffs[0].Color)
	assert.InDelta(t, 32, diffs[1].Player, 1e-9)
	assert.Equal(t, ColorBelow, diffs[1].Color)

	_, err = PlayerVsTeam(ds, "Nobody", nil)
	require.ErrorIs(t, err, ErrNoAthlete)
}

func TestPhaseDetailRecord(t *testing.T) {
	ds := load(t)
	d, err := PhaseDetail(ds, "Jean Dupont", kpi(t, "Profondeur (cm)"))
	require.NoError(t, err)
	assert.InDelta(t, 40, d.Record, 1e-9, "minimum wins on a negative column")
	assert.Equal(t, "Maximilien D...", d.Holder)
	assert.InDelta(t, 32, d.Player, 1e-9)

	d, err = PhaseDetail(ds, "Jean Dupont", kpi(t, "Puissance Max (W)"))
	require.NoError(t, err)
	assert.InDelta(t, 4500, d.Record, 1e-9)
	assert.Equal(t, "Lucas Martin", d.Holder)

	p, _ := PhaseByName("Phase Décharge")
	details, err := PhaseDetails(ds, "Jean Dupont", p)
	require.NoError(t, err)
	assert.Len(t, details, 1)
}
