package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/session"
)

var noteClear bool

var noteCmd = &cobra.Command{
	Use:   "note <athlete> <strengths|weaknesses|strategy|history> [text...]",
	Short: "Read or write an observation about an athlete",
	Long: `Without text, note prints the stored observation. With text, it replaces it; --clear
removes it. Observations are printed on the last page of the report.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		athlete := args[0]
		field, err := session.ParseField(args[1])
		if err != nil {
			return err
		}
		s, err := openSession(sessionName)
		if err != nil {
			return err
		}
		text := strings.Join(args[2:], " ")
		if text == "" && !noteClear {
			fmt.Fprintln(cmd.OutOrStdout(), s.Note(athlete, field))
			return nil
		}
		if noteClear {
			text = ""
		}
		if err := s.SetNote(athlete, field, text); err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		if text == "" {
			fmt.Printf("✓ Cleared %s note for %s\n", field, athlete)
		} else {
			fmt.Printf("✓ Saved %s note for %s\n", field, athlete)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.Flags().BoolVar(&noteClear, "clear", false, "remove the note")
}
