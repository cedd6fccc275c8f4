package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/brewpkg/internal/paths"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Homebrew HomebrewConfig `mapstructure:"homebrew"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// HomebrewConfig controls how brew is invoked
type HomebrewConfig struct {
	Owner      string `mapstructure:"owner"`       // Account brew runs as; empty means the current user
	Binary     string `mapstructure:"binary"`      // brew executable name or path
	AliasesDir string `mapstructure:"aliases_dir"` // Empty means discover from brew --prefix
	Timeout    int    `mapstructure:"timeout"`     // Seconds per operation, 0 disables
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	DataDir string `mapstructure:"data_dir"`
	DBFile  string `mapstructure:"db_file"`
	LogFile string `mapstructure:"log_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	v.AddConfigPath(paths.NewResolver().ConfigDir())
	v.AddConfigPath(".")

	return load(v)
}

// LoadFile loads configuration from an explicit file
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Environment variable overrides, e.g. BREWPKG_HOMEBREW_OWNER
	v.SetEnvPrefix("BREWPKG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	cfg.Homebrew.AliasesDir = expandPath(cfg.Homebrew.AliasesDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that cannot be fixed by defaults
func (c *Config) Validate() error {
	if c.Homebrew.Timeout < 0 {
		return fmt.Errorf("homebrew.timeout must be >= 0, got %d", c.Homebrew.Timeout)
	}
	switch c.Logging.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("logging.color must be auto, always or never, got %q", c.Logging.Color)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	r := paths.NewResolver()
	v.SetDefault("paths.data_dir", r.DataDir())
	v.SetDefault("paths.db_file", r.DBFile())
	v.SetDefault("paths.log_file", r.LogFile())

	v.SetDefault("homebrew.owner", "")
	v.SetDefault("homebrew.binary", "brew")
	v.SetDefault("homebrew.aliases_dir", "")
	v.SetDefault("homebrew.timeout", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}
