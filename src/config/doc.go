// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads and saves the secrets-cli configuration.
//
// Values are layered in this order, later layers winning:
//
//  1. built-in defaults
//  2. the config file (JSON or YAML, chosen by extension)
//  3. environment variables
//  4. command-line flags, applied by the caller with [Config.ApplyFlags]
//
// The file path comes from the --config flag, then SECRETS_CLI_CONFIG, then
// the user config directory.
package config
