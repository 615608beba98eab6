// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName        = "secrets-cli"
	configFileName = "config.yaml"
	trustDirName   = "trust"
)

// UserConfigDir returns the per-user directory for secrets-cli.
// On Linux: ~/.config/secrets-cli
// On macOS: ~/Library/Application Support/secrets-cli
// On Windows: %APPDATA%\secrets-cli
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, appName), nil
}

// DefaultPath returns the config file used when no path is given.
func DefaultPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultTrustDir returns the trust store directory used when none is configured.
func DefaultTrustDir() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, trustDirName), nil
}

// EnsureDir creates dir and its parents with owner-only permissions.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
