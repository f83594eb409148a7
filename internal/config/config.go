// Package config loads vaultgate settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config defines runtime settings for vaultgate. The core vault package
// receives these as read-only inputs; it never loads configuration itself.
type Config struct {
	// VaultRoot is the base directory outside which no write may occur.
	VaultRoot string `yaml:"vaultRoot"`
	// StateDir holds conversation persistence and telemetry output.
	StateDir string `yaml:"stateDir"`
	// ForbiddenChars overrides the default set rejected in filenames.
	ForbiddenChars string `yaml:"forbiddenChars"`
	// Model names the Anthropic model used by the agent subcommand.
	Model string `yaml:"model"`
}

// Load reads configuration from a YAML file (optional) and environment
// overrides, then normalises and checks the vault root.
func Load(path string) (*Config, error) {
	cfg := &Config{
		VaultRoot: ".",
		StateDir:  ".vaultgate",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if root := os.Getenv("VGT_VAULT_ROOT"); root != "" {
		cfg.VaultRoot = root
	}
	if dir := os.Getenv("VGT_STATE_DIR"); dir != "" {
		cfg.StateDir = dir
	}
	if model := os.Getenv("VGT_MODEL"); model != "" {
		cfg.Model = model
	}

	abs, err := filepath.Abs(cfg.VaultRoot)
	if err != nil {
		return nil, fmt.Errorf("abs(vaultRoot): %w", err)
	}
	// Resolve symlinks where possible so boundary checks are reliable.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	cfg.VaultRoot = abs

	if _, err := os.Stat(cfg.VaultRoot); os.IsNotExist(err) {
		return nil, fmt.Errorf("vault root does not exist: %s", cfg.VaultRoot)
	}

	return cfg, nil
}

// DefaultPath returns the default location for the CLI config file.
func DefaultPath() string {
	if path := os.Getenv("VGT_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".vaultgate", "config.yaml")
}
