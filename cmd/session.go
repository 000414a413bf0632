package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/session"
	"github.com/Antoink/SDRV3/internal/utils"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved analysis sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		root, err := sessionsRoot(c)
		if err != nil {
			return err
		}
		dirs, err := os.ReadDir(root)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		found := false
		for _, e := range dirs {
			if !e.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(root, e.Name(), utils.WorkspaceFile)); err == nil {
				fmt.Fprintf(out, "- %s\n", e.Name())
				found = true
			}
		}
		if !found {
			fmt.Fprintln(out, "(no sessions)")
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(sessionName)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id: %s\n", s.ID)
		fmt.Fprintf(out, "source: %s\n", orNone(s.Source))
		if s.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", s.Sheet)
		}
		fmt.Fprintf(out, "selected: %s\n", orNone(s.Current()))
		fmt.Fprintf(out, "relative: %t\n", s.IsRelative())
		annotated := s.Annotated()
		fmt.Fprintf(out, "notes: %d athlete(s)\n", len(annotated))
		for _, a := range annotated {
			fmt.Fprintf(out, "  - %s\n", a)
		}
		return nil
	},
}

var sessionSelectCmd = &cobra.Command{
	Use:   "select <athlete>",
	Short: "Select the current athlete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(sessionName)
		if err != nil {
			return err
		}
		if err := s.Select(args[0]); err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Selected %s\n", args[0])
		return nil
	},
}

var sessionRelativeCmd = &cobra.Command{
	Use:   "relative <on|off>",
	Short: "Show force and power per kilogram of bodyweight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(sessionName)
		if err != nil {
			return err
		}
		s.SetRelative(on)
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Relative mode: %t\n", on)
		return nil
	},
}

func parseSwitch(v string) (bool, error) {
	switch v {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", v)
	}
	return b, nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// currentAthlete returns the explicit argument, else the session selection.
func currentAthlete(s *session.Session, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cur := s.Current(); cur != "" {
		return cur, nil
	}
	return "", fmt.Errorf("no athlete given and none selected (use `sdr session select <athlete>`)")
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionShowCmd, sessionSelectCmd, sessionRelativeCmd)
}
