package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/Antoink/SDRV3/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set SDR configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_files: %s\n", strings.Join(c.DataFiles, ", "))
		if c.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", c.Sheet)
		}
		fmt.Fprintf(out, "cmj_file: %s\n", c.CMJFile)
		fmt.Fprintf(out, "cmj_delimiter: %q\n", string(c.Delimiter()))
		if c.NormsFile != "" {
			fmt.Fprintf(out, "norms_file: %s\n", c.NormsFile)
		}
		fmt.Fprintf(out, "photos_dir: %s\n", c.PhotosDir)
		fmt.Fprintf(out, "logos: %s\n", strings.Join(c.Logos, ", "))
		fmt.Fprintf(out, "reports_dir: %s\n", c.ReportsDir)
		fmt.Fprintf(out, "top_n: %d\n", c.TopN)
		fmt.Fprintf(out, "relative: %t\n", c.Relative)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		fmt.Fprintf(out, "server_addr: %s\n", c.ServerAddr)
		fmt.Fprintf(out, "api_key: %s\n", mask(c.APIKey))
		fmt.Fprintf(out, "read_timeout_sec: %d\n", c.ReadTimeoutSec)
		fmt.Fprintf(out, "session_ttl_min: %d\n", c.SessionTTLMin)
		fmt.Fprintf(out, "sessions_dir: %s\n", c.SessionsDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk. List keys (data_files, logos) take a
comma-separated value.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "data_files":
		c.DataFiles = splitList(val)
	case "sheet":
		c.Sheet = val
	case "cmj_file":
		c.CMJFile = val
	case "cmj_delimiter":
		r, err := parseDelimiter(val)
		if err != nil || r == 0 {
			return fmt.Errorf("invalid cmj_delimiter: %q (use ',', ';' or 'tab')", val)
		}
		c.CMJDelimiter = string(r)
	case "norms_file":
		c.NormsFile = val
	case "photos_dir":
		c.PhotosDir = val
	case "logos":
		c.Logos = splitList(val)
	case "reports_dir":
		c.ReportsDir = val
	case "top_n":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for top_n: %v", val)
		}
		c.TopN = i
	case "relative":
		b, err := parseSwitch(val)
		if err != nil {
			return err
		}
		c.Relative = b
	case "log_level":
		if _, err := logrus.ParseLevel(val); err != nil {
			return fmt.Errorf("invalid log_level: %s", val)
		}
		c.LogLevel = val
	case "log_format":
		switch val {
		case "text", "json":
			c.LogFormat = val
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	case "server_addr":
		c.ServerAddr = val
	case "api_key":
		c.APIKey = val
	case "read_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for read_timeout_sec: %v", val)
		}
		c.ReadTimeoutSec = i
	case "session_ttl_min":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for session_ttl_min: %v", val)
		}
		c.SessionTTLMin = i
	case "sessions_dir":
		c.SessionsDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func splitList(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
