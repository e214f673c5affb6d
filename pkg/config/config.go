// Package config handles loading and saving the line editor configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/usemam/ledger/pkg/cli"
	"github.com/usemam/ledger/pkg/cli/complete"
	"github.com/usemam/ledger/pkg/cli/histutil"
	"github.com/usemam/ledger/pkg/env"
)

// Config represents the configuration of the line editor.
type Config struct {
	Prompt string `yaml:"prompt"`
	// Maximum number of history entries kept.
	MaxHistory int `yaml:"max_history"`
	// Path of the history database. Empty means the default location.
	HistoryDB  string   `yaml:"history_db,omitempty"`
	Vocabulary []string `yaml:"vocabulary"`
	// Overrides of the default key bindings, from key names to action names.
	Bindings map[string]string `yaml:"bindings,omitempty"`
}

// DefaultVocabulary contains the commands of the ledger console.
var DefaultVocabulary = []string{"add", "show", "help", "exit"}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Prompt:     "> ",
		MaxHistory: histutil.DefaultMaxSize,
		Vocabulary: append([]string(nil), DefaultVocabulary...),
	}
}

// DefaultPath returns the path of the configuration file: $LEDGER_CONFIG if
// set, otherwise ledger/config.yaml in the user configuration directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(env.LEDGER_CONFIG); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "ledger", "config.yaml"), nil
}

// Load reads the configuration from the given file. If the file doesn't exist,
// it returns the default configuration. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = histutil.DefaultMaxSize
	}
	return cfg, nil
}

// Save writes the configuration to the given file, creating its directory if
// needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// KeyBindings returns the default key bindings with the configured overrides
// applied.
func (c *Config) KeyBindings() (cli.Bindings, error) {
	overrides, err := cli.ParseBindings(c.Bindings)
	if err != nil {
		return nil, fmt.Errorf("bad key bindings: %w", err)
	}
	return cli.DefaultBindings().With(overrides), nil
}

// CompletionVocabulary returns the words offered for completion.
func (c *Config) CompletionVocabulary() complete.Vocabulary {
	return complete.Vocabulary(c.Vocabulary)
}
