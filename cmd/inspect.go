package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/dataset"
)

var (
	inspOutputPath string
	inspDelimiter  string
	inspSheetName  string
	inspSheetIndex int
	inspSheets     bool
	inspJSON       bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Summarize a data file: columns, numeric ranges and which indicators resolve",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var ds *dataset.Dataset
		if len(args) == 1 {
			path := args[0]
			if inspSheets {
				if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
					return fmt.Errorf("--sheets needs an .xlsx file")
				}
				names, err := dataset.SheetNames(path)
				if err != nil {
					return err
				}
				for i, n := range names {
					fmt.Fprintf(out, "%d. %s\n", i+1, n)
				}
				return nil
			}
			delim, err := parseDelimiter(inspDelimiter)
			if err != nil {
				return err
			}
			if ds, err = dataset.Load(path, dataset.Options{Delimiter: delim, Sheet: inspSheetName, SheetIndex: inspSheetIndex}); err != nil {
				return err
			}
		} else {
			s, err := loadSession(sessionName)
			if err != nil {
				return err
			}
			ds = s.Dataset()
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		sum := analysis.Describe(ds, analysis.NewProfileResolver(reg).Bind(ds.Columns), reg)
		if inspJSON {
			return printJSON(out, sum)
		}
		return writeOutput(out, sum.Markdown(), inspOutputPath)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspOutputPath, "output", "o", "", "write summary to file instead of stdout")
	inspectCmd.Flags().StringVar(&inspDelimiter, "delimiter", "", "CSV delimiter: ',', ';' or 'tab' (sniffed when empty)")
	inspectCmd.Flags().StringVar(&inspSheetName, "sheet", "", "XLSX: sheet name to read")
	inspectCmd.Flags().IntVar(&inspSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index when --sheet is empty")
	inspectCmd.Flags().BoolVar(&inspSheets, "sheets", false, "XLSX: list sheet names and exit")
	inspectCmd.Flags().BoolVar(&inspJSON, "json", false, "print the summary as JSON")
}
