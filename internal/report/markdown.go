package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Antoink/SDRV3/internal/indicator"
	"github.com/Antoink/SDRV3/internal/profile"
	"github.com/Antoink/SDRV3/internal/team"
)

// Markdown renders p for a terminal or a notes file.
func Markdown(p *profile.Profile, notes *Notes) string {
	var b strings.Builder
	h := p.Header
	fmt.Fprintf(&b, "# %s %s\n\n", h.Name, h.Number)
	fmt.Fprintf(&b, "%s | %s | %s | %s | %s\n\n", h.Position, h.Laterality, h.Age, h.Height, h.Weight)
	if p.Relative {
		b.WriteString("_Valeurs rapportées au poids de corps._\n\n")
	}

	b.WriteString("## Points forts\n\n| Indicateur | Valeur | Moyenne | Percentile |\n|---|---:|---:|---:|\n")
	for _, s := range p.Top {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | P%d |\n", cell(s.Label), s.Value, s.Mean, int(s.Percentile))
	}
	b.WriteString("\n## Axes d'amélioration\n\n| Indicateur | Valeur | Moyenne | Percentile |\n|---|---:|---:|---:|\n")
	for _, s := range p.Bottom {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | P%d |\n", cell(s.Label), s.Value, s.Mean, int(s.Percentile))
	}

	for _, s := range p.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n| Indicateur | Valeur | Percentile | Rang | Statut | Objectif | Asymétrie |\n|---|---:|---:|---:|---|---|---|\n", s.Category)
		for _, it := range s.Items {
			if it.Single != nil {
				writeRow(&b, *it.Single, "")
				continue
			}
			writeRow(&b, it.Pair.Left, it.Pair.Badge)
			writeRow(&b, it.Pair.Right, "")
		}
	}

	if p.Biodex.Available() {
		b.WriteString("\n## Isocinétisme\n\n| Mouvement | G (Nm) | D (Nm) | G (N/kg) | D (N/kg) | Cible | LSI |\n|---|---:|---:|---:|---:|---:|---:|\n")
		for _, r := range p.Biodex.Rows {
			lsi := "-"
			if r.LSIOK {
				lsi = fmt.Sprintf("%.0f%%", r.LSI)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %.2f | %.1f | %s |\n", r.Label,
				rawTorque(r.LeftRaw, r.LeftOK), rawTorque(r.RightRaw, r.RightOK), r.LeftRel, r.RightRel, r.Target, lsi)
		}
	}
	if p.RatioMixte.Left.OK || p.RatioMixte.Right.OK {
		fmt.Fprintf(&b, "\nRatio Mixte: G %s | D %s\n", ratio(p.RatioMixte.Left), ratio(p.RatioMixte.Right))
	}

	b.WriteString("\n## Profil athlétique\n\n")
	for _, a := range p.Athletic {
		fmt.Fprintf(&b, "- %s: P%d", a.Label, int(a.Score))
		if len(a.Details) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(a.Details, ", "))
		}
		b.WriteString("\n")
	}
	if len(p.GPS) > 0 {
		b.WriteString("\n## GPS\n\n")
		for _, a := range p.GPS {
			fmt.Fprintf(&b, "- %s: P%d (%s)\n", a.Label, int(a.Score), strings.Join(a.Details, ", "))
		}
	}

	b.WriteString("\n## Symétrie\n\n")
	if p.Symmetry.ForceOK {
		fmt.Fprintf(&b, "- Force: %+.1f%%\n", p.Symmetry.Force)
	}
	if p.Symmetry.MobilityOK {
		fmt.Fprintf(&b, "- Mobilité: %+.1f%%\n", p.Symmetry.Mobility)
	}
	for _, d := range p.Asymmetries {
		fmt.Fprintf(&b, "- %s: %.1f%% (%s", d.Name, d.Asym.Pct, d.Band.Title)
		if d.Asym.Weak != "" {
			fmt.Fprintf(&b, ", faiblesse %s", d.Asym.Weak)
		}
		b.WriteString(")\n")
	}

	if notes != nil {
		b.WriteString("\n## Observations\n\n")
		fmt.Fprintf(&b, "**Point(s) fort(s)**: %s\n\n", orDash(notes.Strengths))
		fmt.Fprintf(&b, "**Axe(s) d'amélioration**: %s\n\n", orDash(notes.Weaknesses))
		fmt.Fprintf(&b, "**Stratégie**: %s\n", orDash(notes.Strategy))
	}
	return b.String()
}

func writeRow(b *strings.Builder, r profile.Row, badge string) {
	val := indicator.Format(r.Value, r.OK)
	if r.OK && r.Unit != "" {
		val += " " + r.Unit
	}
	pct, rank := "-", "-"
	if r.OK {
		pct = fmt.Sprintf("P%d", int(r.Percentile))
	}
	if r.Total > 0 {
		rank = fmt.Sprintf("%d/%d", r.Rank, r.Total)
	}
	fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n", cell(r.Label), cell(val), pct, rank, r.Status.Title(), cell(r.Norm), cell(badge))
}

func rawTorque(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.0f", v)
}

func ratio(s profile.RatioSide) string {
	if !s.OK {
		return "-"
	}
	return fmt.Sprintf("%.2f", s.Value)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

// TeamCSV writes a squad ranking as CSV: rank, athlete, position, value and unit.
func TeamCSV(w io.Writer, b *team.Board) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Rang", "Joueur", "Poste", b.Label, "Unité"}); err != nil {
		return err
	}
	for _, e := range b.Entries {
		if err := cw.Write([]string{fmt.Sprint(e.Rank), e.Athlete, e.Position, indicator.Format(e.Value, true), b.Unit}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
