package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/profile"
	"github.com/Antoink/SDRV3/internal/report"
	"github.com/Antoink/SDRV3/internal/session"
)

var (
	profRelative   bool
	profJSON       bool
	profTopN       int
	profOutputPath string
)

var profileCmd = &cobra.Command{
	Use:   "profile [athlete]",
	Short: "Print an athlete profile: indicators, percentiles, status and asymmetries",
	Long: `Print an athlete profile. Without an argument the session's selected athlete is used.
Relative mode (--relative, or ` + "`sdr session relative on`" + `) divides force and power
indicators by bodyweight.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(sessionName)
		if err != nil {
			return err
		}
		athlete, err := currentAthlete(s, args)
		if err != nil {
			return err
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		topN := c.TopN
		if profTopN > 0 {
			topN = profTopN
		}
		relative := s.IsRelative() || c.Relative
		if cmd.Flags().Changed("relative") {
			relative = profRelative
		}
		p, err := profile.Build(s.Dataset(), athlete, profile.Options{Registry: reg, TopN: topN, Relative: relative})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if profJSON {
			return printJSON(out, p)
		}
		notes := notesOf(s, p.Athlete)
		return writeOutput(out, report.Markdown(p, &notes), profOutputPath)
	},
}

// notesOf collects the report observations of athlete.
func notesOf(s *session.Session, athlete string) report.Notes {
	n := s.NotesFor(athlete)
	return report.Notes{
		Strengths:  n[session.FieldStrengths],
		Weaknesses: n[session.FieldWeaknesses],
		Strategy:   n[session.FieldStrategy],
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().BoolVar(&profRelative, "relative", false, "express force and power per kg of bodyweight")
	profileCmd.Flags().BoolVar(&profJSON, "json", false, "print the profile as JSON")
	profileCmd.Flags().IntVar(&profTopN, "top", 0, "number of strengths and weaknesses (default from config)")
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "write the profile to file instead of stdout")
}
