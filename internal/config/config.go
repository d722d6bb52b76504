package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"apidelta/internal/modifiers"
)

// Dir is the per-project configuration directory.
const Dir = ".apidelta"

// currentVersion is the config schema version.
const currentVersion = 1

// Config represents the complete apidelta configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Comparison ComparisonConfig `json:"comparison" mapstructure:"comparison"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
	Storage    StorageConfig    `json:"storage" mapstructure:"storage"`
	Output     OutputConfig     `json:"output" mapstructure:"output"`
}

// ComparisonConfig controls the comparator
type ComparisonConfig struct {
	Visibility      string `json:"visibility" mapstructure:"visibility"`
	Force           bool   `json:"force" mapstructure:"force"`
	ContinueOnError bool   `json:"continueOnError" mapstructure:"continueOnError"`
	Parallelism     int    `json:"parallelism" mapstructure:"parallelism"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" mapstructure:"level"`
	File       string `json:"file" mapstructure:"file"`
	MaxSize    string `json:"maxSize" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups"`
}

// StorageConfig controls the run history database
type StorageConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
	Keep    int    `json:"keep" mapstructure:"keep"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Color  bool   `json:"color" mapstructure:"color"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: currentVersion,
		Comparison: ComparisonConfig{
			Visibility:  "api",
			Parallelism: 1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    "10MB",
			MaxBackups: 3,
		},
		Storage: StorageConfig{
			Path: filepath.Join(Dir, "history.db"),
			Keep: 100,
		},
		Output: OutputConfig{
			Format: "human",
			Color:  true,
		},
	}
}

// setDefaults registers every key so environment overrides apply even when
// the file omits them.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("comparison.visibility", d.Comparison.Visibility)
	v.SetDefault("comparison.force", d.Comparison.Force)
	v.SetDefault("comparison.continueOnError", d.Comparison.ContinueOnError)
	v.SetDefault("comparison.parallelism", d.Comparison.Parallelism)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
	v.SetDefault("storage.enabled", d.Storage.Enabled)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.keep", d.Storage.Keep)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.color", d.Output.Color)
}

// LoadConfig loads configuration from .apidelta/config.json under root.
// Environment variables prefixed APIDELTA_ override file values, with dots
// replaced by underscores (APIDELTA_COMPARISON_VISIBILITY).
func LoadConfig(root string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, Dir))

	v.SetEnvPrefix("APIDELTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to .apidelta/config.json under root
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// VisibilityMask parses the comparison visibility.
func (c *Config) VisibilityMask() (modifiers.Visibility, error) {
	return modifiers.ParseVisibility(c.Comparison.Visibility)
}

var (
	outputFormats = map[string]bool{"human": true, "json": true, "xml": true}
	logLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true, "silent": true, "off": true}
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != currentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if _, err := c.VisibilityMask(); err != nil {
		return &ConfigError{Field: "comparison.visibility", Message: err.Error()}
	}
	if c.Comparison.Parallelism < 0 {
		return &ConfigError{Field: "comparison.parallelism", Message: "must not be negative"}
	}
	if !outputFormats[c.Output.Format] {
		return &ConfigError{Field: "output.format", Message: "unsupported format " + c.Output.Format}
	}
	if !logLevels[strings.ToLower(c.Logging.Level)] {
		return &ConfigError{Field: "logging.level", Message: "unknown level " + c.Logging.Level}
	}
	if c.Logging.MaxBackups < 0 {
		return &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"}
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		return &ConfigError{Field: "storage.path", Message: "required when storage is enabled"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
