// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/secrets-cli/src/config"
	"github.com/H0llyW00dzZ/secrets-cli/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/secrets-cli/src/internal/truststore"
	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
	"github.com/H0llyW00dzZ/secrets-cli/src/logger"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	log logger.Logger
	cfg *config.Config

	configPath string
	debug      bool
	timeout    int
	output     string
}

// NewRootCommand builds the command tree. log receives diagnostics; command
// results go to the command's output writer.
func NewRootCommand(version string, log logger.Logger) *cobra.Command {
	a := &app{log: log}

	rootCmd := &cobra.Command{
		Use:           posix.ExecutableName(),
		Short:         "Command-line client for a secrets management service",
		Long:          "Command-line client for a secrets management service.\n\nRun \"init\" once to pin the service certificate before any other command talks to it.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file, JSON or YAML (default: $"+config.EnvConfigFile+" or the user config dir)")
	flags.BoolVar(&a.debug, "debug", false, "print debug diagnostics to stderr")
	flags.IntVar(&a.timeout, "timeout", 0, "connect and handshake timeout in seconds (default 10)")
	flags.StringVarP(&a.output, "output", "o", "", "output format: text, json or yaml")

	rootCmd.AddCommand(newInitCommand(a), newTrustCommand(a))
	return rootCmd
}

// Execute runs the command tree with the process arguments.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCommand(version, log).ExecuteContext(ctx)
}

func (a *app) setup() error {
	if d, ok := a.log.(interface{ SetDebug(bool) }); ok {
		d.SetDebug(a.debug)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(config.Flags{TimeoutSeconds: a.timeout, Output: a.output}); err != nil {
		return err
	}
	a.cfg = cfg

	a.log.Debugf("config %s, trust store %s, timeouts %ds/%ds",
		cfg.Path(), cfg.TrustDir, cfg.Timeouts.ConnectSeconds, cfg.Timeouts.HandshakeSeconds)
	return nil
}

func (a *app) resolver() x509trust.Resolver {
	return x509trust.NewResolver(a.cfg.ResolverOptions())
}

func (a *app) store() (*truststore.Store, error) {
	return truststore.Open(a.cfg.TrustDir)
}

// endpoint parses args[0], falling back to the configured URL.
func (a *app) endpoint(args []string) (x509trust.Endpoint, error) {
	if len(args) > 0 {
		return x509trust.ParseEndpoint(args[0], 0)
	}
	return a.cfg.Endpoint()
}

// resolveError prefixes resolver failures with their kind so scripts can match
// on it.
func resolveError(err error) error {
	if kind := x509trust.Kind(err); kind != "" {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return err
}
