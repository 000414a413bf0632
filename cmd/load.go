package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/dataset"
)

var (
	loadSheet string
	loadAdopt bool
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Point the session at a data file, optionally replacing the working file with it",
	Long: `Load reads <file> into the session. With --adopt the file is first copied verbatim over
the working data file (the first existing data_files entry, else the first entry), so later
sessions pick it up too. A file that does not parse never replaces anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		s, err := openSession(sessionName)
		if err != nil {
			return err
		}
		src, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve data path: %w", err)
		}
		sheet := loadSheet
		if sheet == "" {
			sheet = c.Sheet
		}
		opt := dataset.Options{Sheet: sheet}
		if loadAdopt {
			dst, ok := workingFile(c)
			if !ok {
				if len(c.DataFiles) == 0 {
					return errors.New("no data_files configured to adopt into")
				}
				dst = c.DataFiles[0]
			}
			if dst, err = filepath.Abs(dst); err != nil {
				return fmt.Errorf("resolve working file: %w", err)
			}
			if filepath.Ext(dst) != filepath.Ext(src) {
				return fmt.Errorf("cannot adopt %s over %s: file types differ", filepath.Base(src), filepath.Base(dst))
			}
			if err := s.Adopt(src, dst, opt); err != nil {
				return err
			}
			fmt.Printf("✓ Replaced working file %s\n", dst)
		} else if err := s.Open(src, opt); err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Session %s: %d athletes loaded from %s\n", sessionName, len(s.Dataset().Athletes()), filepath.Base(s.Source))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadSheet, "sheet", "", "workbook sheet name")
	loadCmd.Flags().BoolVar(&loadAdopt, "adopt", false, "copy the file over the working data file before loading it")
}
