package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/team"
)

var (
	athPosition string
	athJSON     bool
)

var athletesCmd = &cobra.Command{
	Use:   "athletes",
	Short: "List the athletes of the session dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(sessionName)
		if err != nil {
			return err
		}
		ds := s.Dataset()
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		var positions []string
		if athPosition != "" {
			positions = []string{athPosition}
		}
		names := team.New(reg).Members(ds, positions)
		out := cmd.OutOrStdout()
		if athJSON {
			return printJSON(out, names)
		}
		if len(names) == 0 {
			fmt.Fprintln(out, "(no athletes)")
			return nil
		}
		current := s.Current()
		for _, n := range names {
			marker := "-"
			if n == current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(athletesCmd)
	athletesCmd.Flags().StringVar(&athPosition, "position", "", "only athletes playing this position")
	athletesCmd.Flags().BoolVar(&athJSON, "json", false, "print names as a JSON array")
}
