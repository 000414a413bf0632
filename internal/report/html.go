// Package report renders athlete profiles: a self-contained printable HTML document, a Markdown
// view for terminals and CSV exports of squad rankings.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/indicator"
	"github.com/Antoink/SDRV3/internal/photo"
	"github.com/Antoink/SDRV3/internal/profile"
)

//go:embed templates/report.html.tmpl
var templatesFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templatesFS, "templates/report.html.tmpl"))

// Notes are the free-text observations printed on the last page.
type Notes struct {
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
	Strategy   string `json:"strategy"`
}

// Assets are the images embedded in the document, as data URIs.
type Assets struct {
	Photo template.URL
	Logo  template.URL
}

// LoadAssets embeds the athlete portrait (an initials placeholder when none is on disk) and
// the first readable logo among logos.
func LoadAssets(f photo.Finder, athlete string, logos []string) Assets {
	a := Assets{Logo: template.URL(photo.FirstDataURI(logos...))}
	if p, ok := f.Lookup(athlete); ok {
		a.Photo = template.URL(photo.DataURI(p))
	}
	if a.Photo == "" {
		a.Photo = template.URL(photo.Placeholder(athlete))
	}
	return a
}

// FileName is the download name of an athlete's report.
func FileName(athlete string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, strings.TrimSpace(athlete))
	return "Rapport_" + name + ".html"
}

type keyRow struct {
	Label      string
	Value      string
	Mean       string
	Percentile int
	Color      string
}

type detailRow struct {
	Label      string
	Value      string
	Unit       string
	Color      string
	Percentile int
	BarColor   string
}

type categoryView struct {
	Name string
	Rows []detailRow
}

type axisView struct {
	Label   string
	Score   int
	Color   string
	Details string
}

type symBar struct {
	Title  string
	Value  string
	Marker string
}

type asymView struct {
	Name  string
	Weak  string
	Pct   string
	Color string
}

type view struct {
	P          *profile.Profile
	Notes      Notes
	Assets     Assets
	Radar      template.URL
	Axes       []axisView
	Top        []keyRow
	Bottom     []keyRow
	Categories []categoryView
	Symmetry   []symBar
	Asym       []asymView
}

// HTML writes the three-page report of p. p is expected to be built in absolute mode.
func HTML(w io.Writer, p *profile.Profile, notes Notes, assets Assets) error {
	v := view{
		P:      p,
		Notes:  notes,
		Assets: assets,
		Radar:  svgDataURI(RadarSVG(p.Athletic)),
	}
	for _, a := range p.Athletic {
		v.Axes = append(v.Axes, axisView{Label: a.Label, Score: int(a.Score), Color: a.Color, Details: strings.Join(a.Details, " • ")})
	}
	key := func(r analysis.Ranking, color string) []keyRow {
		out := make([]keyRow, 0, len(r))
		for _, s := range r {
			out = append(out, keyRow{
				Label: s.Label, Value: fmt.Sprintf("%.2f", s.Value), Mean: fmt.Sprintf("%.2f", s.Mean),
				Percentile: int(s.Percentile), Color: color,
			})
		}
		return out
	}
	v.Top = key(p.Top, analysis.ColorGood)
	v.Bottom = key(p.Bottom, accent)
	for _, s := range p.Sections {
		c := categoryView{Name: s.Category}
		for _, r := range s.Rows() {
			if !r.RawOK {
				continue
			}
			c.Rows = append(c.Rows, detailRow{
				Label: r.Label, Value: indicator.Format(r.Raw, true), Unit: r.Unit,
				Color: r.Status.Color, Percentile: int(r.Percentile), BarColor: analysis.BarColor(r.Percentile),
			})
		}
		if len(c.Rows) > 0 {
			v.Categories = append(v.Categories, c)
		}
	}
	v.Symmetry = []symBar{
		{Title: "FORCE", Value: fmt.Sprintf("%+.1f%%", p.Symmetry.Force), Marker: fmt.Sprintf("%.1f", p.Symmetry.ForceMarker)},
		{Title: "MOBILITÉ", Value: fmt.Sprintf("%+.1f%%", p.Symmetry.Mobility), Marker: fmt.Sprintf("%.1f", p.Symmetry.MobilityMarker)},
	}
	for _, d := range p.Asymmetries {
		weak := d.Asym.Weak
		if weak == "" {
			weak = "-"
		}
		v.Asym = append(v.Asym, asymView{Name: d.Name, Weak: weak, Pct: fmt.Sprintf("%.1f%%", d.Asym.Pct), Color: d.Band.Color})
	}
	if err := reportTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
