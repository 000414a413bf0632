package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/Antoink/SDRV3/internal/config"
	"github.com/Antoink/SDRV3/internal/logging"
)

// Version is stamped at build time.
var Version = "dev"

var (
	// Global flags
	cfgFile     string
	debug       bool
	sessionName string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "sdr",
	Short: "SDR profiler: athlete performance profiles, reports and squad comparisons",
	Long: `SDR profiler reads a squad testing workbook (XLSX or CSV), computes percentiles, asymmetries
and normative status for every athlete, and renders printable reports. The same analysis is
available over HTTP (serve) and as MCP tools (mcp).`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sdr/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&sessionName, "session", "s", defaultSession, "session name (\".\" uses the nearest local session.json)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	applyLogging()
}

// ensureConfig loads the configuration when OnInitialize did not run, e.g. in tests.
func ensureConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	applyLogging()
	return cfg, nil
}

func applyLogging() {
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logging.Setup(level, cfg.LogFormat, os.Stderr)
}
