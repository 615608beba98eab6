// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/secrets-cli/src/config"
	"github.com/H0llyW00dzZ/secrets-cli/src/internal/truststore"
	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
	"github.com/H0llyW00dzZ/secrets-cli/src/logger"
	"github.com/H0llyW00dzZ/secrets-cli/src/version"
)

// EnvDebug enables JSON diagnostics on stderr when set to any non-empty value.
const EnvDebug = "SECRETS_CLI_MCP_DEBUG"

var appVersion = version.Version

// GetVersion returns the version reported to clients.
func GetVersion() string { return appVersion }

// Run serves MCP over stdin and stdout until the client disconnects or the
// process receives SIGINT or SIGTERM.
//
// Configuration comes from $SECRETS_CLI_CONFIG or the user config directory,
// the same file the CLI uses.
func Run(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, version, os.Stdin, os.Stdout)
}

// Serve is Run with explicit streams and context.
func Serve(ctx context.Context, version string, in io.Reader, out io.Writer) error {
	appVersion = version

	log := logger.NewMCPLogger(os.Stderr, os.Getenv(EnvDebug) == "")
	log.SetDebug(os.Getenv(EnvDebug) != "")

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := truststore.Open(cfg.TrustDir)
	if err != nil {
		return fmt.Errorf("failed to open trust store: %w", err)
	}

	s, err := NewServerBuilder().
		WithConfig(cfg).
		WithVersion(version).
		WithResolver(x509trust.NewResolver(cfg.ResolverOptions())).
		WithStore(store).
		WithLogger(log).
		WithDefaultTools().
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	log.Debugf("serving %s %s, trust store %s", ServerName, version, cfg.TrustDir)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.NewStdioServer(s).Listen(ctx, in, out)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
