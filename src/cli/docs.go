// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface of secrets-cli.
//
// It implements a Cobra command tree covering trust setup: init resolves the
// service certificate, shows it, asks the operator, and persists the decision;
// the trust subcommands fetch, list, show, verify and remove pinned endpoints.
// Results go to stdout as text, JSON or YAML; diagnostics go through the logger
// to stderr.
package cli
