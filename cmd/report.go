package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/indicator"
	"github.com/Antoink/SDRV3/internal/photo"
	"github.com/Antoink/SDRV3/internal/profile"
	"github.com/Antoink/SDRV3/internal/report"
	"github.com/Antoink/SDRV3/internal/session"
	"github.com/Antoink/SDRV3/internal/team"
)

var (
	repAll      bool
	repOutDir   string
	repPosition string
	repQuiet    bool
)

var reportCmd = &cobra.Command{
	Use:   "report [athlete]",
	Short: "Render printable HTML reports",
	Long: `Render the printable HTML report of one athlete (the selected one by default), or of
every athlete with --all. Reports always show absolute values and are written to
reports_dir unless --out is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		s, err := loadSession(sessionName)
		if err != nil {
			return err
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		var athletes []string
		if repAll {
			var positions []string
			if repPosition != "" {
				positions = []string{repPosition}
			}
			athletes = team.New(reg).Members(s.Dataset(), positions)
			if len(athletes) == 0 {
				return fmt.Errorf("no athletes to report")
			}
		} else {
			a, err := currentAthlete(s, args)
			if err != nil {
				return err
			}
			athletes = []string{a}
		}

		outDir := repOutDir
		if outDir == "" {
			outDir = c.ReportsDir
		}
		if outDir, err = expandHome(outDir); err != nil {
			return err
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create reports dir: %w", err)
		}
		r := reportWriter{
			session: s,
			reg:     reg,
			photos:  photo.Finder{Dir: c.PhotosDir},
			logos:   c.Logos,
			topN:    c.TopN,
			outDir:  outDir,
		}

		out := cmd.OutOrStdout()
		total := len(athletes)
		for i, a := range athletes {
			if total > 1 && !repQuiet {
				fmt.Fprintf(out, "[%d/%d] Rendering %s...\n", i+1, total, a)
			}
			path, err := r.write(a)
			if err != nil {
				return fmt.Errorf("%s: %w", a, err)
			}
			if !repQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", path)
			}
		}
		return nil
	},
}

type reportWriter struct {
	session *session.Session
	reg     *indicator.Registry
	photos  photo.Finder
	logos   []string
	topN    int
	outDir  string
}

func (r reportWriter) write(athlete string) (string, error) {
	p, err := profile.Build(r.session.Dataset(), athlete, profile.Options{
		Registry: r.reg,
		Resolver: analysis.NewReportResolver(r.reg),
		TopN:     r.topN,
	})
	if err != nil {
		return "", err
	}
	path := filepath.Join(r.outDir, report.FileName(p.Athlete))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	assets := report.LoadAssets(r.photos, p.Athlete, r.logos)
	if err := report.HTML(f, p, notesOf(r.session, p.Athlete), assets); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return path, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&repAll, "all", false, "render a report for every athlete")
	reportCmd.Flags().StringVar(&repPosition, "position", "", "with --all: only athletes playing this position")
	reportCmd.Flags().StringVar(&repOutDir, "out", "", "output directory (default reports_dir)")
	reportCmd.Flags().BoolVar(&repQuiet, "quiet", false, "suppress progress output")
}
