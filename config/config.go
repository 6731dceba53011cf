// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package config provides configuration management functionality for the TOML
// configuration file, with validation and security features.
//
// Subpackages:
//   - models:     Defines the core configuration data structures.
//   - loaders:    Handles loading and saving configuration from/to TOML.
//   - validators: Implements validation logic to ensure configuration integrity.
//   - security:   Provides security-related utilities like integrity checks and command validation.
package config

import (
	"os"
	"path/filepath"

	"github.com/ashbuk/croaker/config/loaders"
	"github.com/ashbuk/croaker/config/models"
	"github.com/ashbuk/croaker/config/security"
	"github.com/ashbuk/croaker/config/validators"
)

// configDirName is croaker's subdirectory name under both the user's config
// home (TOML file, and the lock file when XDG_RUNTIME_DIR is unset) and the
// user's cache home (IPC socket).
const configDirName = "croaker"

// DefaultConfigPath returns the default location of config.toml, creating
// its parent directory if necessary.
func DefaultConfigPath() (string, error) {
	dir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir returns ~/.config/croaker (or $XDG_CONFIG_HOME/croaker),
// creating it if it does not already exist.
func EnsureConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// EnsureCacheDir returns $XDG_CACHE_HOME/croaker (or ~/.cache/croaker),
// creating it if it does not already exist. internal/utils.GetDefaultSocketPath
// resolves the IPC socket under this directory, per
// spec.md §6's "Filesystem layout of persisted state".
func EnsureCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// Config is a type alias for the main configuration structure defined in the models package.
// This provides a convenient way to reference the configuration type without importing the models package directly.
type Config = models.Config

// Output mode constants, aliased from the models package for convenience.
const (
	OutputModeDirect    = models.OutputModeDirect
	OutputModeClipboard = models.OutputModeClipboard
	OutputModeBoth      = models.OutputModeBoth
)

// Feedback backend constants, aliased from the models package for convenience.
const (
	OverlayBackendTray         = models.OverlayBackendTray
	OverlayBackendNotification = models.OverlayBackendNotification
)

// Load configuration from the specified file using the configured loader.
func LoadConfig(filename string) (*Config, error) {
	return loaders.LoadConfig(filename)
}

// Write the configuration to the specified file.
func SaveConfig(filename string, config *Config) error {
	return loaders.SaveConfig(filename, config)
}

// Apply the default values to a configuration object.
func SetDefaultConfig(config *Config) {
	loaders.SetDefaultConfig(config)
}

// Check the configuration for correctness and apply corrections if necessary.
func ValidateConfig(config *Config) error {
	return validators.ValidateConfig(config)
}

// Check if a command is permitted by the security policy.
func IsCommandAllowed(config *Config, command string) bool {
	return security.IsCommandAllowed(config, command)
}

// Remove potentially unsafe arguments from a command.
func SanitizeCommandArgs(args []string) []string {
	return security.SanitizeCommandArgs(args)
}

// Verify if the configuration file has been tampered with.
func VerifyConfigIntegrity(filename string, config *Config) error {
	return security.VerifyConfigIntegrity(filename, config)
}

// Calculate and update the integrity hash for the configuration file.
func UpdateConfigHash(filename string, config *Config) error {
	return security.UpdateConfigHash(filename, config)
}

// Compute the SHA-256 hash of a file.
func CalculateFileHash(filename string) (string, error) {
	return security.CalculateFileHash(filename)
}

// LoadCredential reads a bearer token (e.g. Groq.KeyFile) from a
// permission-checked file, rejecting group/world-readable credential files.
func LoadCredential(path string) (string, error) {
	return security.LoadCredential(path)
}

// Enforce that a file does not exceed the configured size limit.
func EnforceFileSizeLimit(filename string, config *Config) error {
	return security.EnforceFileSizeLimit(filename, config)
}
