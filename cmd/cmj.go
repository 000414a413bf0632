package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/cmj"
)

var (
	cmjKPIs  []string
	cmjPhase string
	cmjFile  string
	cmjJSON  bool
	cmjList  bool
)

var cmjCmd = &cobra.Command{
	Use:   "cmj [athlete]",
	Short: "Compare countermovement jumps with the squad",
	Long: `Without an athlete, cmj prints the squad averages of the selected KPIs (--kpi, at most 5).
With an athlete, it compares the athlete's latest jump with the squad, or with --phase details
one jump phase against the squad mean and record.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cmjList {
			if cmjJSON {
				return printJSON(out, cmj.Phases())
			}
			for _, p := range cmj.Phases() {
				fmt.Fprintf(out, "%s\n", p.Name)
				for _, k := range p.KPIs {
					fmt.Fprintf(out, "  - %s\n", k.Label)
				}
			}
			return nil
		}
		ds, err := loadCMJ(cmjFile)
		if err != nil {
			return err
		}
		athlete := ""
		if len(args) == 1 {
			athlete = args[0]
		}

		if cmjPhase != "" {
			if athlete == "" {
				return fmt.Errorf("--phase needs an athlete")
			}
			p, ok := cmj.PhaseByName(cmjPhase)
			if !ok {
				names := make([]string, 0, len(cmj.Phases()))
				for _, ph := range cmj.Phases() {
					names = append(names, ph.Name)
				}
				return fmt.Errorf("unknown phase %q (use one of: %s)", cmjPhase, strings.Join(names, ", "))
			}
			details, err := cmj.PhaseDetails(ds, athlete, p)
			if err != nil {
				return err
			}
			if cmjJSON {
				return printJSON(out, details)
			}
			fmt.Fprintf(out, "%s: %s\n", p.Name, athlete)
			for _, d := range details {
				player := "-"
				if d.OK {
					player = fmt.Sprintf("%.2f", d.Player)
				}
				fmt.Fprintf(out, "  %-28s %10s  mean %.2f  record %.2f (%s)\n", d.KPI.Label, player, d.Mean, d.Record, d.Holder)
			}
			return nil
		}

		kpis, err := cmj.Select(cmjKPIs)
		if err != nil {
			return err
		}
		if athlete == "" {
			avgs := cmj.TeamAverages(ds, kpis)
			if cmjJSON {
				return printJSON(out, avgs)
			}
			for _, a := range avgs {
				fmt.Fprintf(out, "%-28s mean %.2f  sd %.2f  n=%d\n", a.KPI.Label, a.Mean, a.Std, a.N)
			}
			return nil
		}
		diffs, err := cmj.PlayerVsTeam(ds, athlete, kpis)
		if err != nil {
			return err
		}
		if cmjJSON {
			return printJSON(out, diffs)
		}
		fmt.Fprintf(out, "%s vs squad\n", athlete)
		for _, d := range diffs {
			fmt.Fprintf(out, "  %-28s %.2f vs %.2f (%+.1f%%)\n", d.KPI.Label, d.Player, d.Mean, d.Pct)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cmjCmd)
	cmjCmd.Flags().StringSliceVar(&cmjKPIs, "kpi", nil, "KPI label to compare (repeatable, default selection when omitted)")
	cmjCmd.Flags().StringVar(&cmjPhase, "phase", "", "detail one jump phase for the athlete")
	cmjCmd.Flags().StringVar(&cmjFile, "file", "", "jump export (default cmj_file)")
	cmjCmd.Flags().BoolVar(&cmjJSON, "json", false, "print JSON")
	cmjCmd.Flags().BoolVar(&cmjList, "list", false, "list phases and their KPIs")
}
