// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides abstraction and implementation for logging operations.
// It defines the Logger interface and two implementations: CLILogger for
// human-readable command-line output and MCPLogger for JSON lines when the
// trust tools run behind the MCP stdio server. Both are safe for concurrent use.
package logger
