// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/helper/gc"
	"github.com/cloudflare/cfssl/certinfo"
)

const describeTimeLayout = "Jan _2 15:04:05 2006 MST"

var keyUsageNames = []struct {
	bit  x509.KeyUsage
	name string
}{
	{x509.KeyUsageDigitalSignature, "Digital Signature"},
	{x509.KeyUsageContentCommitment, "Content Commitment"},
	{x509.KeyUsageKeyEncipherment, "Key Encipherment"},
	{x509.KeyUsageDataEncipherment, "Data Encipherment"},
	{x509.KeyUsageKeyAgreement, "Key Agreement"},
	{x509.KeyUsageCertSign, "Certificate Sign"},
	{x509.KeyUsageCRLSign, "CRL Sign"},
	{x509.KeyUsageEncipherOnly, "Encipher Only"},
	{x509.KeyUsageDecipherOnly, "Decipher Only"},
}

var extKeyUsageNames = map[x509.ExtKeyUsage]string{
	x509.ExtKeyUsageAny:             "Any",
	x509.ExtKeyUsageServerAuth:      "TLS Web Server Authentication",
	x509.ExtKeyUsageClientAuth:      "TLS Web Client Authentication",
	x509.ExtKeyUsageCodeSigning:     "Code Signing",
	x509.ExtKeyUsageEmailProtection: "E-mail Protection",
	x509.ExtKeyUsageTimeStamping:    "Time Stamping",
	x509.ExtKeyUsageOCSPSigning:     "OCSP Signing",
}

// Describe renders cert as a complete, human-readable text block followed by its
// PEM encoding. The result always ends with a newline so it can be written to a
// terminal as is.
//
// Serial number, SANs, key identifiers and the signature algorithm come from
// cfssl's certinfo so the output matches what "cfssl certinfo" prints.
func (c *Certificate) Describe(cert *x509.Certificate) string {
	info := certinfo.ParseCertificate(cert)

	return gc.Render(func(buf gc.Buffer) {
		line := func(indent int, format string, v ...any) {
			buf.WriteString(strings.Repeat("    ", indent))
			fmt.Fprintf(buf, format, v...)
			buf.WriteByte('\n')
		}

		line(0, "Certificate:")
		line(1, "Version: %d", cert.Version)
		line(1, "Serial Number: %s", info.SerialNumber)
		line(1, "Signature Algorithm: %s", info.SignatureAlgorithm)
		line(1, "Issuer: %s", cert.Issuer.String())
		line(1, "Validity:")
		line(2, "Not Before: %s", cert.NotBefore.UTC().Format(describeTimeLayout))
		line(2, "Not After : %s", cert.NotAfter.UTC().Format(describeTimeLayout))
		line(1, "Subject: %s", cert.Subject.String())
		line(1, "Subject Public Key: %s", describePublicKey(cert))

		if len(info.SANs) > 0 {
			line(1, "Subject Alternative Names: %s", strings.Join(info.SANs, ", "))
		}
		if usages := keyUsages(cert.KeyUsage); len(usages) > 0 {
			line(1, "Key Usage: %s", strings.Join(usages, ", "))
		}
		if usages := extKeyUsages(cert.ExtKeyUsage); len(usages) > 0 {
			line(1, "Extended Key Usage: %s", strings.Join(usages, ", "))
		}
		if cert.BasicConstraintsValid {
			line(1, "Basic Constraints: CA:%t", cert.IsCA)
		}
		if info.SKI != "" {
			line(1, "Subject Key Identifier: %s", info.SKI)
		}
		if info.AKI != "" {
			line(1, "Authority Key Identifier: %s", info.AKI)
		}

		line(1, "SHA1 Fingerprint: %s", SHA1Fingerprint(cert.Raw))
		line(1, "SHA256 Fingerprint: %s", SHA256Fingerprint(cert.Raw))

		buf.Write(c.EncodePEM(cert))
	})
}

// Expired reports whether cert is outside its validity window at now.
func Expired(cert *x509.Certificate, now time.Time) bool {
	return now.Before(cert.NotBefore) || now.After(cert.NotAfter)
}

// KeyDescription returns a short description such as "256-bit ECDSA".
func KeyDescription(cert *x509.Certificate) string { return describePublicKey(cert) }

func describePublicKey(cert *x509.Certificate) string {
	switch key := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return fmt.Sprintf("%d-bit RSA", key.Size()*8)
	case *ecdsa.PublicKey:
		return fmt.Sprintf("%d-bit ECDSA", key.Curve.Params().BitSize)
	case ed25519.PublicKey:
		return "Ed25519"
	default:
		return cert.PublicKeyAlgorithm.String()
	}
}

func keyUsages(ku x509.KeyUsage) []string {
	var names []string
	for _, u := range keyUsageNames {
		if ku&u.bit != 0 {
			names = append(names, u.name)
		}
	}
	return names
}

func extKeyUsages(eku []x509.ExtKeyUsage) []string {
	names := make([]string, 0, len(eku))
	for _, u := range eku {
		if name, ok := extKeyUsageNames[u]; ok {
			names = append(names, name)
		} else {
			names = append(names, fmt.Sprintf("Unknown (%d)", u))
		}
	}
	return names
}
