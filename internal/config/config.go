// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the tool's settings. Values come from
// ~/.config/arc-vocab/config.yaml, overridable via ARC_VOCAB_* environment
// variables.
type Config struct {
	DataDir    string `yaml:"data_dir" mapstructure:"data_dir"`
	DebounceMs int    `yaml:"debounce_ms" mapstructure:"debounce_ms"`
	DeckName   string `yaml:"deck_name" mapstructure:"deck_name"`
	InboxDir   string `yaml:"inbox_dir" mapstructure:"inbox_dir"`
}

// Debounce returns the save debounce delay as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// DefaultConfig returns the built-in settings: data under
// ~/.local/share/arc-vocab, a 600ms save debounce, and no watch inbox.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DataDir:    filepath.Join(home, ".local", "share", "arc-vocab"),
		DebounceMs: 600,
		DeckName:   "Arc Vocab",
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "arc-vocab"), nil
}

// Load reads the config file, writing the default template on first run so
// users have something to edit. Environment variables win over file values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	dir, err := configDir()
	if err != nil {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("ARC_VOCAB")
	v.AutomaticEnv()

	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("debounce_ms", cfg.DebounceMs)
	v.SetDefault("deck_name", cfg.DeckName)
	v.SetDefault("inbox_dir", cfg.InboxDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if writeErr := writeTemplate(dir, cfg); writeErr != nil {
			// Not fatal: run on defaults.
			fmt.Fprintf(os.Stderr, "arc-vocab: could not write default config: %v\n", writeErr)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = 600
	}
	return cfg, nil
}

func writeTemplate(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644)
}
