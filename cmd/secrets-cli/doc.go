// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// secrets-cli is a command-line client for a secrets management service.
//
// Before talking to the service the client must trust its TLS certificate.
// init connects once without chain verification, prints the certificate and
// its SHA-1 fingerprint, and on confirmation pins it for every later request.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/secrets-cli/cmd/secrets-cli@latest
//
// # Usage
//
//	secrets-cli init --url https://conjur.example.com --account myorg
//	secrets-cli trust fetch conjur.example.com:8443 --chain
//	secrets-cli trust list
//	secrets-cli trust verify --strict
//	secrets-cli trust remove conjur.example.com
//
// # Global Flags
//
//	    --config   Config file, JSON or YAML (default: $SECRETS_CLI_CONFIG or the user config dir)
//	    --debug    Print debug diagnostics to stderr
//	    --timeout  Connect and handshake timeout in seconds (default 10)
//	-o, --output   Output format: text, json or yaml
//
// # Exit Status
//
// 0 on success, 1 on any error, 130 when interrupted.
package main
