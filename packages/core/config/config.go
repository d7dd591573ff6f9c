package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/snapmatch/packages/diff"
	"github.com/abdul-hamid-achik/snapmatch/packages/snapshot"
	"gopkg.in/yaml.v3"
)

// Config represents the snapmatch configuration
type Config struct {
	Update      *bool  `yaml:"update,omitempty" json:"update,omitempty"`
	DiffStep    int    `yaml:"diffStep,omitempty" json:"diffStep,omitempty"`     // characters
	DiffWindow  int    `yaml:"diffWindow,omitempty" json:"diffWindow,omitempty"` // characters
	Color       *bool  `yaml:"color,omitempty" json:"color,omitempty"`
	NoColor     *bool  `yaml:"noColor,omitempty" json:"noColor,omitempty"`
	LogLevel    string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty" json:"concurrency,omitempty"` // parallel matches in verify
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetUpdate returns the update setting, defaulting to false
func (c *Config) GetUpdate() bool {
	return getBool(c.Update, false)
}

// GetColor reports whether diffs are colored. NoColor wins over Color.
func (c *Config) GetColor() bool {
	if getBool(c.NoColor, false) {
		return false
	}
	return getBool(c.Color, false)
}

// UpdateMode returns the snapshot update mode selected by the config.
func (c *Config) UpdateMode() snapshot.UpdateMode {
	if c.GetUpdate() {
		return snapshot.UpdateAll
	}
	return snapshot.Normal
}

// Presenter builds a diff presenter from the diff settings.
func (c *Config) Presenter() *diff.Presenter {
	return &diff.Presenter{
		Step:   c.DiffStep,
		Window: c.DiffWindow,
		Color:  c.GetColor(),
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Update:      BoolPtr(false),
		DiffStep:    diff.DefaultStep,
		DiffWindow:  diff.DefaultWindow,
		Color:       BoolPtr(false),
		NoColor:     BoolPtr(false),
		LogLevel:    "warn",
		Concurrency: 4,
	}
}

// Validate checks that numeric settings are usable.
func (c *Config) Validate() error {
	if c.DiffStep <= 0 {
		return fmt.Errorf("diffStep must be positive, got %d", c.DiffStep)
	}
	if c.DiffWindow < c.DiffStep {
		return fmt.Errorf("diffWindow (%d) must be at least diffStep (%d)", c.DiffWindow, c.DiffStep)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	return nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".snapmatch.yaml",
	".snapmatch.yml",
	".snapmatch.json",
	"snapmatch.config.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. JSON files
// are read by the YAML decoder as well.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.DiffStep > 0 {
		result.DiffStep = other.DiffStep
	}
	if other.DiffWindow > 0 {
		result.DiffWindow = other.DiffWindow
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Update != nil {
		result.Update = other.Update
	}
	if other.Color != nil {
		result.Color = other.Color
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
