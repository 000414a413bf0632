package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/report"
	"github.com/Antoink/SDRV3/internal/team"
)

var (
	teamPositions []string
	teamCSV       bool
	teamJSON      bool
	teamOutput    string
	teamAthlete   string
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Compare the squad on one or two indicators",
}

// datasetHandle is the session dataset and its selected athlete.
type datasetHandle struct {
	ds      *dataset.Dataset
	current string
}

// squad opens the session dataset and a comparer over the configured registry.
func squad() (*team.Comparer, *datasetHandle, error) {
	s, err := loadSession(sessionName)
	if err != nil {
		return nil, nil, err
	}
	reg, err := loadRegistry()
	if err != nil {
		return nil, nil, err
	}
	return team.New(reg), &datasetHandle{s.Dataset(), s.Current()}, nil
}

var teamPositionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List the playing positions of the squad",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, h, err := squad()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		positions := c.Positions(h.ds)
		if teamJSON {
			return printJSON(out, positions)
		}
		for _, p := range positions {
			fmt.Fprintf(out, "- %s\n", p)
		}
		return nil
	},
}

var teamRankCmd = &cobra.Command{
	Use:   "rank <indicator>",
	Short: "Rank the squad on one indicator, best first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, h, err := squad()
		if err != nil {
			return err
		}
		b, err := c.Ranking(h.ds, args[0], teamPositions)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch {
		case teamCSV && teamOutput != "":
			f, err := os.Create(teamOutput)
			if err != nil {
				return fmt.Errorf("create csv: %w", err)
			}
			if err := report.TeamCSV(f, b); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", teamOutput)
			return nil
		case teamCSV:
			return report.TeamCSV(out, b)
		case teamJSON:
			return printJSON(out, b)
		}
		order := "higher is better"
		if b.Inverted {
			order = "lower is better"
		}
		fmt.Fprintf(out, "%s (%s, %s), squad mean %.2f\n", b.Label, orNone(b.Unit), order, b.Mean)
		for _, e := range b.Entries {
			marker := " "
			if e.Athlete == h.current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s%3d. %-24s %-14s %.2f\n", marker, e.Rank, e.Athlete, e.Position, e.Value)
		}
		return nil
	},
}

var teamScatterCmd = &cobra.Command{
	Use:   "scatter [x-indicator] [y-indicator]",
	Short: "Cross two indicators and place every athlete in a quadrant",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, h, err := squad()
		if err != nil {
			return err
		}
		x, y := team.DefaultAxes(team.NumericColumns(h.ds))
		if len(args) > 0 {
			x = args[0]
		}
		if len(args) > 1 {
			y = args[1]
		}
		sc, err := c.Scatter(h.ds, x, y, teamPositions)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if teamJSON {
			return printJSON(out, sc)
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "x: %s (mean %.2f)\ny: %s (mean %.2f)\n", sc.XLabel, sc.MeanX, sc.YLabel, sc.MeanY)
		for _, p := range sc.Points {
			fmt.Fprintf(out, "%s %-24s %8.2f %8.2f\n", sc.Zone(p, reg), p.Athlete, p.X, p.Y)
		}
		return nil
	},
}

var teamDistCmd = &cobra.Command{
	Use:   "dist <indicator>",
	Short: "Show the squad spread on one indicator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, h, err := squad()
		if err != nil {
			return err
		}
		athlete := teamAthlete
		if athlete == "" {
			athlete = h.current
		}
		d, err := c.Distribution(h.ds, args[0], teamPositions, athlete)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if teamJSON {
			return printJSON(out, d)
		}
		fmt.Fprintf(out, "%s (%s): n=%d mean=%.2f sd=%.2f min=%.2f q1=%.2f median=%.2f q3=%.2f max=%.2f\n",
			d.Label, orNone(d.Unit), d.Stats.Count, d.Stats.Mean, d.Stats.Std, d.Stats.Min, d.Q1, d.Median, d.Q3, d.Stats.Max)
		if sel := d.Selected; sel != nil {
			verdict := "below"
			if sel.Good {
				verdict = "better than"
			}
			fmt.Fprintf(out, "%s: %.2f (%+.2f, %s the mean)\n", sel.Athlete, sel.Value, sel.Diff, verdict)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamCmd)
	teamCmd.AddCommand(teamPositionsCmd, teamRankCmd, teamScatterCmd, teamDistCmd)
	teamCmd.PersistentFlags().StringSliceVar(&teamPositions, "position", nil, "only athletes playing these positions (repeatable)")
	teamCmd.PersistentFlags().BoolVar(&teamJSON, "json", false, "print JSON")
	teamRankCmd.Flags().BoolVar(&teamCSV, "csv", false, "print the ranking as CSV")
	teamRankCmd.Flags().StringVarP(&teamOutput, "output", "o", "", "with --csv: write to file")
	teamDistCmd.Flags().StringVar(&teamAthlete, "athlete", "", "athlete to compare with the mean (default: selected)")
}
