// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"crypto/x509"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/truststore"
	x509certs "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/certs"
	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

func newTrustCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Inspect and manage pinned service certificates",
	}
	cmd.AddCommand(
		newTrustFetchCommand(a),
		newTrustListCommand(a),
		newTrustShowCommand(a),
		newTrustVerifyCommand(a),
		newTrustRemoveCommand(a),
	)
	return cmd
}

func newTrustFetchCommand(a *app) *cobra.Command {
	var chain bool

	cmd := &cobra.Command{
		Use:   "fetch [HOST[:PORT]|URL]",
		Short: "Show the certificate an endpoint presents without trusting it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := a.endpoint(args)
			if err != nil {
				return err
			}

			res, err := a.resolver().Resolve(cmd.Context(), ep)
			if err != nil {
				return resolveError(err)
			}

			return emit(cmd.OutOrStdout(), a.cfg.Output, newCertificateView(res, chain), func(w io.Writer) error {
				return writeCertificate(w, res, chain)
			})
		},
	}
	cmd.Flags().BoolVar(&chain, "chain", false, "also show every certificate the server presented")
	return cmd
}

func newTrustListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pinned endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			entries := store.List()
			return emit(cmd.OutOrStdout(), a.cfg.Output, entries, func(w io.Writer) error {
				return writeEntriesTable(w, entries)
			})
		},
	}
}

func newTrustShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [HOST[:PORT]|URL]",
		Short: "Show the pinned certificate of an endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := a.endpoint(args)
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			entry, ok := store.Get(ep)
			if !ok {
				return fmt.Errorf("%w: %s", truststore.ErrNotTrusted, ep)
			}
			cert, err := store.Certificate(ep)
			if err != nil {
				return err
			}

			return emit(cmd.OutOrStdout(), a.cfg.Output, entry, func(w io.Writer) error {
				_, err := io.WriteString(w, x509certs.New().Describe(cert))
				return err
			})
		},
	}
}

func newTrustVerifyCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "verify [HOST[:PORT]|URL]",
		Short: "Check that an endpoint still presents its pinned certificate",
		Long: `Connects with the pinned fingerprint enforced. With --strict the chain is
also verified against the pinned certificate, which additionally checks the
host name and validity period.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := a.endpoint(args)
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			entry, ok := store.Get(ep)
			if !ok {
				return fmt.Errorf("%w: %s", truststore.ErrNotTrusted, ep)
			}

			var roots *x509.CertPool
			if strict {
				if roots, err = store.CertPool(ep); err != nil {
					return err
				}
			}

			a.log.Debugf("verifying %s against %s (strict=%t)", ep, entry.Fingerprint, strict)
			if err := x509trust.VerifyPinned(cmd.Context(), ep, entry.Fingerprint, roots, a.cfg.ResolverOptions()); err != nil {
				return resolveError(err)
			}

			result := verifyView{Endpoint: ep.String(), Fingerprint: entry.Fingerprint, Trusted: true}
			return emit(cmd.OutOrStdout(), a.cfg.Output, result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s presents the pinned certificate %s\n", ep, entry.Fingerprint)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also verify the chain, host name and validity against the pinned certificate")
	return cmd
}

type verifyView struct {
	Endpoint    string `json:"endpoint" yaml:"endpoint"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Trusted     bool   `json:"trusted" yaml:"trusted"`
}

func newTrustRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove HOST[:PORT]|URL",
		Aliases: []string{"rm"},
		Short:   "Forget the pinned certificate of an endpoint",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := a.endpoint(args)
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			if err := store.Remove(ep); err != nil {
				return err
			}
			a.log.Printf("Removed %s", ep)
			return nil
		},
	}
}
