package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/session"
	"github.com/Antoink/SDRV3/internal/utils"
)

var (
	initData  string
	initSheet string
)

var initCmd = &cobra.Command{
	Use:   "init <session-name>",
	Short: "Create a named analysis session bound to a data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		dir, err := resolveSessionDir(args[0])
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing session.
		if _, err := os.Stat(filepath.Join(dir, utils.WorkspaceFile)); err == nil {
			return fmt.Errorf("session already exists at %s", dir)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat session: %w", err)
		}
		path := initData
		if path == "" {
			p, ok := workingFile(c)
			if !ok {
				return errNoData
			}
			path = p
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve data path: %w", err)
		}
		sheet := initSheet
		if sheet == "" {
			sheet = c.Sheet
		}
		s := session.New(dir)
		if err := s.Open(abs, dataset.Options{Sheet: sheet}); err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Session initialized: %s (%d athletes from %s)\n", dir, len(s.Dataset().Athletes()), filepath.Base(abs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initData, "data", "", "data file (defaults to the first existing data_files entry)")
	initCmd.Flags().StringVar(&initSheet, "sheet", "", "workbook sheet name")
}
