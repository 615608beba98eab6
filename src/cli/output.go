// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/secrets-cli/src/config"
	"github.com/H0llyW00dzZ/secrets-cli/src/internal/truststore"
	x509certs "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/certs"
	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

// certificateView is the structured form of a resolved certificate.
type certificateView struct {
	Endpoint          string      `json:"endpoint" yaml:"endpoint"`
	Fingerprint       string      `json:"fingerprint" yaml:"fingerprint"`
	SHA256Fingerprint string      `json:"sha256_fingerprint" yaml:"sha256_fingerprint"`
	Subject           string      `json:"subject" yaml:"subject"`
	Issuer            string      `json:"issuer" yaml:"issuer"`
	NotBefore         time.Time   `json:"not_before" yaml:"not_before"`
	NotAfter          time.Time   `json:"not_after" yaml:"not_after"`
	Certificate       string      `json:"certificate" yaml:"certificate"`
	Chain             []chainView `json:"chain,omitempty" yaml:"chain,omitempty"`
}

type chainView struct {
	Role        string `json:"role" yaml:"role"`
	Subject     string `json:"subject" yaml:"subject"`
	Issuer      string `json:"issuer" yaml:"issuer"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

func newCertificateView(res *x509trust.Result, withChain bool) certificateView {
	v := certificateView{
		Endpoint:          res.Endpoint.String(),
		Fingerprint:       res.Fingerprint,
		SHA256Fingerprint: x509certs.SHA256Fingerprint(res.Leaf.Raw).String(),
		Subject:           res.Leaf.Subject.String(),
		Issuer:            res.Leaf.Issuer.String(),
		NotBefore:         res.Leaf.NotBefore.UTC(),
		NotAfter:          res.Leaf.NotAfter.UTC(),
		Certificate:       string(res.PEM()),
	}
	if withChain {
		v.Chain = newChainView(res.Chain)
	}
	return v
}

func newChainView(chain []*x509.Certificate) []chainView {
	out := make([]chainView, 0, len(chain))
	for i, c := range chain {
		out = append(out, chainView{
			Role:        x509trust.Role(chain, i),
			Subject:     c.Subject.String(),
			Issuer:      c.Issuer.String(),
			Fingerprint: x509certs.SHA1Fingerprint(c.Raw).String(),
		})
	}
	return out
}

// emit writes v as JSON or YAML, or calls text for the text format.
func emit(w io.Writer, format string, v any, text func(w io.Writer) error) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// writeCertificate prints the readable certificate followed by its fingerprint.
func writeCertificate(w io.Writer, res *x509trust.Result, withChain bool) error {
	if _, err := io.WriteString(w, res.Readable); err != nil {
		return err
	}
	if withChain {
		fmt.Fprintf(w, "\nPresented chain:\n\n%s\n%s", x509trust.RenderChainTree(res.Chain), x509trust.RenderChainTable(res.Chain))
	}
	_, err := fmt.Fprintf(w, "\nSHA1 Fingerprint=%s\n", res.Fingerprint)
	return err
}

func writeEntriesTable(w io.Writer, entries []truststore.Entry) error {
	if len(entries) == 0 {
		_, err := io.WriteString(w, "No trusted endpoints\n")
		return err
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"Endpoint", "Subject", "Valid Until", "Accepted", "SHA1 Fingerprint"})

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Endpoint().String(),
			e.Subject,
			e.NotAfter.Format("2006-01-02"),
			e.AcceptedAt.Format("2006-01-02"),
			e.Fingerprint,
		})
	}
	table.Bulk(rows)
	table.Render()
	return nil
}
