// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package config handles application configuration: the YAML settings file,
// the grid_token credential file, and environment variable overrides.
// Precedence for connection settings is environment > grid_token file >
// config.yaml > built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is used when no base URL is configured anywhere.
	DefaultBaseURL = "https://api.gridapi.com"

	// DefaultPageSize is the per-page item count for list requests.
	DefaultPageSize = 25

	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 30 * time.Second
)

// Config represents the top-level application configuration
type Config struct {
	// BaseURL is the Grid API endpoint (optional, overridden by the
	// grid_token file and the GRIDAPI_BASE_URL environment variable)
	BaseURL string `yaml:"base_url,omitempty"`

	// TimeoutSeconds bounds a single API request (optional)
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// PageSize is the default number of items per list page (optional)
	PageSize int `yaml:"page_size,omitempty"`

	// OutputJSON makes list/get commands emit raw JSON by default (optional)
	OutputJSON bool `yaml:"output_json,omitempty"`
}

// Timeout returns the configured request timeout, falling back to the default.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EffectivePageSize returns the configured page size, falling back to the default.
func (c Config) EffectivePageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "gridapi", "config.yaml"), nil
}

func LoadConfig() (Config, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return cfg, nil
}

func EnsureConfigDir() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(configPath)
	err = os.MkdirAll(configDir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

func SaveConfig(cfg Config) error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}

	err = EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	err = os.WriteFile(configPath, data, 0640)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}

func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
