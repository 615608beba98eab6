// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

type initOptions struct {
	url       string
	account   string
	assumeYes bool
	chain     bool
}

func newInitCommand(a *app) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Pin the service certificate and write the client configuration",
		Long: `Connects to the service, shows the certificate it presents, and asks
whether to trust it. On acceptance the certificate is stored in the trust
store and the configuration records the URL, account and certificate file.
Nothing is written when the connection fails or the certificate is declined.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "service URL, e.g. https://conjur.example.com")
	cmd.Flags().StringVarP(&opts.account, "account", "a", "", "organization account name")
	cmd.Flags().BoolVarP(&opts.assumeYes, "yes", "y", false, "trust the presented certificate without asking")
	cmd.Flags().BoolVar(&opts.chain, "chain", false, "also show every certificate the server presented")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, opts initOptions) error {
	rawURL := opts.url
	if rawURL == "" {
		rawURL = a.cfg.URL
	}
	if rawURL == "" {
		return errors.New("--url is required")
	}

	ep, err := x509trust.ParseEndpoint(rawURL, 0)
	if err != nil {
		return err
	}

	a.log.Debugf("resolving certificate for %s", ep)
	res, err := a.resolver().Resolve(cmd.Context(), ep)
	if err != nil {
		return resolveError(err)
	}

	out := cmd.OutOrStdout()
	if err := emit(out, a.cfg.Output, newCertificateView(res, opts.chain), func(w io.Writer) error {
		return writeCertificate(w, res, opts.chain)
	}); err != nil {
		return err
	}

	if !opts.assumeYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Trust this certificate?")
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotAccepted
		}
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	entry, err := store.Add(res)
	if err != nil {
		return err
	}

	a.cfg.URL = canonicalURL(rawURL, ep)
	if opts.account != "" {
		a.cfg.Account = opts.account
	}
	a.cfg.CertFile = store.CertificatePath(entry)
	if err := a.cfg.Save(""); err != nil {
		return fmt.Errorf("certificate trusted but config not saved: %w", err)
	}

	a.log.Printf("Trusted %s (SHA1 %s)", ep, entry.Fingerprint)
	a.log.Printf("Certificate written to %s", a.cfg.CertFile)
	a.log.Printf("Configuration written to %s", a.cfg.Path())
	return nil
}

// canonicalURL keeps a URL as given and turns host[:port] into an https URL.
func canonicalURL(raw string, ep x509trust.Endpoint) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + ep.Address()
}
