// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509trust

import (
	"crypto/x509"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/certs"
)

// Certificate roles as shown in chain renderings.
const (
	RoleLeaf         = "Leaf"
	RoleIntermediate = "Intermediate CA"
	RoleRoot         = "Root CA"
	RoleSelfSigned   = "Self-Signed"
)

// Role returns the role of chain[i] as presented by a server.
func Role(chain []*x509.Certificate, i int) string {
	cert := chain[i]
	switch {
	case len(chain) == 1 && isSelfSigned(cert):
		return RoleSelfSigned
	case i == 0:
		return RoleLeaf
	case i == len(chain)-1 && isSelfSigned(cert):
		return RoleRoot
	default:
		return RoleIntermediate
	}
}

func isSelfSigned(cert *x509.Certificate) bool {
	if cert.Subject.String() != cert.Issuer.String() {
		return false
	}
	// CheckSignatureFrom would reject self-signed leaves that are not CAs.
	return cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}

// RenderChainTable renders the presented chain as a markdown table.
func RenderChainTable(chain []*x509.Certificate) string {
	if len(chain) == 0 {
		return "No certificates to display"
	}

	return gc.Render(func(buf gc.Buffer) {
		table := tablewriter.NewTable(buf,
			tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
		)
		table.Header([]string{"#", "Role", "Subject", "Issuer", "Valid Until", "Key", "SHA1 Fingerprint"})

		rows := make([][]string, 0, len(chain))
		for i, cert := range chain {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				Role(chain, i),
				cert.Subject.CommonName,
				cert.Issuer.CommonName,
				cert.NotAfter.UTC().Format("2006-01-02"),
				x509certs.KeyDescription(cert),
				x509certs.SHA1Fingerprint(cert.Raw).String(),
			})
		}
		table.Bulk(rows)
		table.Render()
	})
}

// RenderChainTree renders the presented chain as an indented tree, leaf first.
func RenderChainTree(chain []*x509.Certificate) string {
	if len(chain) == 0 {
		return "No certificates in chain"
	}

	return gc.Render(func(buf gc.Buffer) {
		for i, cert := range chain {
			connector := "├── "
			if i == len(chain)-1 {
				connector = "└── "
			}
			for range i {
				buf.WriteString("    ")
			}
			buf.WriteString(connector)
			name := cert.Subject.CommonName
			if name == "" {
				name = cert.Subject.String()
			}
			buf.WriteString(name)
			buf.WriteString(" (")
			buf.WriteString(Role(chain, i))
			buf.WriteString(")\n")
		}
	})
}
