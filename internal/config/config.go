package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SDR_PHOTOS_DIR.
const EnvPrefix = "SDR"

// Global configuration structure.
type Global struct {
	// Data sources. DataFiles are tried in order; the first existing file is loaded.
	DataFiles    []string `mapstructure:"data_files" yaml:"data_files"`
	Sheet        string   `mapstructure:"sheet" yaml:"sheet"`
	CMJFile      string   `mapstructure:"cmj_file" yaml:"cmj_file"`
	CMJDelimiter string   `mapstructure:"cmj_delimiter" yaml:"cmj_delimiter"`
	NormsFile    string   `mapstructure:"norms_file" yaml:"norms_file"`

	// Report assets and output
	PhotosDir  string   `mapstructure:"photos_dir" yaml:"photos_dir"`
	Logos      []string `mapstructure:"logos" yaml:"logos"`
	ReportsDir string   `mapstructure:"reports_dir" yaml:"reports_dir"`
	TopN       int      `mapstructure:"top_n" yaml:"top_n"`
	Relative   bool     `mapstructure:"relative" yaml:"relative"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// HTTP server. An empty APIKey leaves the API open.
	ServerAddr     string `mapstructure:"server_addr" yaml:"server_addr"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`
	ReadTimeoutSec int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	SessionTTLMin  int    `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	// Where CLI session state lives.
	SessionsDir string `mapstructure:"sessions_dir" yaml:"sessions_dir"`
}

// Dir returns ~/.sdr.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sdr"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sdr/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("data_files", []string{"Profilage pratiquexlsx.xlsx", "Profilage.xlsx"})
	v.SetDefault("sheet", "")
	v.SetDefault("cmj_file", "MASTER_CMJ_COMPLET.csv")
	v.SetDefault("cmj_delimiter", ";")
	v.SetDefault("norms_file", "")
	v.SetDefault("photos_dir", "Photos")
	v.SetDefault("logos", []string{"logo_sdr.png", "logo.png"})
	v.SetDefault("reports_dir", ".")
	v.SetDefault("top_n", 3)
	v.SetDefault("relative", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("api_key", "")
	v.SetDefault("read_timeout_sec", 30)
	v.SetDefault("session_ttl_min", 240)
	v.SetDefault("sessions_dir", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.SessionsDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.SessionsDir = filepath.Join(dir, "sessions")
	}
	if c.TopN <= 0 {
		c.TopN = 3
	}
	return &c, nil
}

// Delimiter returns the CMJ delimiter as a rune, ';' when unset.
func (c *Global) Delimiter() rune {
	for _, r := range c.CMJDelimiter {
		return r
	}
	return ';'
}
