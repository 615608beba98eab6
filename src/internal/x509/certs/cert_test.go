// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs_test

import (
	"crypto/x509"
	"encoding/pem"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	x509certs "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/testpki"
)

// Test certificate from www.google.com (valid until February 16, 2026)
// Retrieved: December 15, 2025
const testCertPEM = `
-----BEGIN CERTIFICATE-----
MIIEVzCCAz+gAwIBAgIRAIsnDh7AqstVCQTDZO49FUQwDQYJKoZIhvcNAQELBQAw
OzELMAkGA1UEBhMCVVMxHjAcBgNVBAoTFUdvb2dsZSBUcnVzdCBTZXJ2aWNlczEM
MAoGA1UEAxMDV1IyMB4XDTI1MTEyNDA4NDEwNVoXDTI2MDIxNjA4NDEwNFowGTEX
MBUGA1UEAxMOd3d3Lmdvb2dsZS5jb20wWTATBgcqhkjOPQIBBggqhkjOPQMBBwNC
AASpOrUKgQJxuBGxizx+kmyx5RrD4jQmo8qLKSuwJqGHq32bVzWZGD67H9R4OZrU
dvyPaKf5c8xcR0dfErljBgc9o4ICQTCCAj0wDgYDVR0PAQH/BAQDAgeAMBMGA1Ud
JQQMMAoGCCsGAQUFBwMBMAwGA1UdEwEB/wQCMAAwHQYDVR0OBBYEFB/jnLpRtZ7i
zZrj5pmoPbY4QlomMB8GA1UdIwQYMBaAFN4bHu15FdQ+NyTDIbvsNDltQrIwMFgG
CCsGAQUFBwEBBEwwSjAhBggrBgEFBQcwAYYVaHR0cDovL28ucGtpLmdvb2cvd3Iy
MCUGCCsGAQUFBzAChhlodHRwOi8vaS5wa2kuZ29vZy93cjIuY3J0MBkGA1UdEQQS
MBCCDnd3dy5nb29nbGUuY29tMBMGA1UdIAQMMAowCAYGZ4EMAQIBMDYGA1UdHwQv
MC0wK6ApoCeGJWh0dHA6Ly9jLnBraS5nb29nL3dyMi9HU3lUMU40UEJyZy5jcmww
ggEEBgorBgEEAdZ5AgQCBIH1BIHyAPAAdwCWl2S/VViXrfdDh2g3CEJ36fA61fak
8zZuRqQ/D8qpxgAAAZq1PQh6AAAEAwBIMEYCIQDkvhCgZXnoybm66RiqqWXZN6qE
VzPoPHn/kyXZ7Y55yAIhALTMfGlCgnC9W0iu+cR9qCmOwsEr5k6Bl7Ub2w7GCUIu
AHUASZybad4dfOz8Nt7Nh2SmuFuvCoeAGdFVUvvp6ynd+MMAAAGatT0IWAAABAMA
RjBEAiBQITcviDubQYQiIxBwjcgmkl4CH1x4RzykXJrp8cCLKwIgFpdUBEBwTjCw
wTjI3H2paYucltfUre6q/vBei3HhNqcwDQYJKoZIhvcNAQELBQADggEBAE+UAURG
T3JZxq6fjAK5Espfe49Wb0mz1kCTwNY56sbYP/Fa+Kb7kVluDIFbMN2rspADwKBu
FR7QVda3zEIu4Hj1DUmD7ecmVYCxLQ241OYdice4AfJTwDVJVymdQPFoLBP27dWK
3izwcfkPSgXIT8nHcEvDvXljn7n+n3XXuzh1Y1vFnFUa5E69JQFXXDuu/a7LiEXx
uB5j0Xga7DgFyHHHnz7zSiFr37NBb0/CH/31fkgaQPj7Fr5dyCMzMg1rQe1FGOM6
fXT8WHASUpqRebQfDy2TPE7sjve2NenS36NeiiVZXhBo5MHvGCBY3W8OYljK4zeU
uugY3q/5At03UHw=
-----END CERTIFICATE-----
`

var sha1Pattern = regexp.MustCompile(`^([0-9A-F]{2}:){19}[0-9A-F]{2}$`)

func TestCertificateOperations(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T, decoder *x509certs.Certificate, testCert *x509.Certificate)
	}{
		{
			name: "Decode PEM",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, _ *x509.Certificate) {
				cert, err := decoder.Decode([]byte(testCertPEM))
				require.NoError(t, err)
				assert.Equal(t, "www.google.com", cert.Subject.CommonName)
			},
		},
		{
			name: "Decode DER",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate) {
				decoded, err := decoder.Decode(cert.Raw)
				require.NoError(t, err)
				assert.True(t, cert.Equal(decoded))
			},
		},
		{
			name: "EncodePEM round trip",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate) {
				block, rest := pem.Decode(decoder.EncodePEM(cert))
				require.NotNil(t, block)
				assert.Empty(t, rest)
				assert.Equal(t, "CERTIFICATE", block.Type)
				assert.Equal(t, cert.Raw, block.Bytes)
			},
		},
		{
			name: "Decode Multiple keeps order",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, _ *x509.Certificate) {
				root := testpki.NewRootCA(t, "Root")
				inter := root.NewIntermediate(t, "Intermediate")
				leaf := inter.IssueLeaf(t, "vault.internal")

				bundle := decoder.EncodeMultiplePEM([]*x509.Certificate{leaf.Cert, inter.Cert, root.Cert})
				certs, err := decoder.DecodeMultiple(bundle)
				require.NoError(t, err)
				require.Len(t, certs, 3)
				assert.Equal(t, "vault.internal", certs[0].Subject.CommonName)
				assert.Equal(t, "Intermediate", certs[1].Subject.CommonName)
				assert.Equal(t, "Root", certs[2].Subject.CommonName)
			},
		},
		{
			name: "Decode Multiple concatenated DER",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate) {
				der := append(append([]byte{}, cert.Raw...), cert.Raw...)
				certs, err := decoder.DecodeMultiple(der)
				require.NoError(t, err)
				assert.Len(t, certs, 2)
			},
		},
	}

	decoder := x509certs.New()

	block, _ := pem.Decode([]byte(testCertPEM))
	require.NotNil(t, block, "failed to parse certificate PEM for test setup")

	testCert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err, "failed to parse test certificate")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, decoder, testCert)
		})
	}
}

const (
	invalidPEM = `
-----BEGIN INVALID-----
MIIEmTCCBD+gAwIBAgIRANFjRCmF+Y2bUYHbhxwkEpowCgYIKoZIzj0EAwIwgY8x
-----END INVALID-----
`

	invalidCERT = `
-----BEGIN CERTIFICATE-----
MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEAz6e5VV5F8rF2sFJ0Q4vA
-----END CERTIFICATE-----
`
)

func TestDecodeCertificate_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "Invalid PEM Block", input: invalidPEM, expected: x509certs.ErrInvalidBlockType},
		{name: "Invalid Certificate", input: invalidCERT, expected: x509certs.ErrParseCertificate},
		{name: "Garbage", input: "not a certificate", expected: x509certs.ErrParseCertificate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := x509certs.New().Decode([]byte(tt.input))
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Run("Known SHA-1 vector", func(t *testing.T) {
		// SHA-1("abc") from FIPS 180-2.
		assert.Equal(t,
			"A9:99:3E:36:47:06:81:6A:BA:3E:25:71:78:50:C2:6C:9C:D0:D8:9D",
			x509certs.SHA1Fingerprint([]byte("abc")).String())
	})

	t.Run("Format and determinism", func(t *testing.T) {
		leaf := testpki.SelfSigned(t, "vault.internal")

		first := x509certs.SHA1Fingerprint(leaf.Cert.Raw).String()
		for range 5 {
			assert.Equal(t, first, x509certs.SHA1Fingerprint(leaf.Cert.Raw).String())
		}
		assert.Regexp(t, sha1Pattern, first)
	})

	t.Run("SHA-256 length", func(t *testing.T) {
		fp := x509certs.SHA256Fingerprint([]byte("abc")).String()
		assert.Len(t, strings.Split(fp, ":"), 32)
	})

	t.Run("Different certificates differ", func(t *testing.T) {
		a := testpki.SelfSigned(t, "a.internal")
		b := testpki.SelfSigned(t, "a.internal")
		assert.False(t, x509certs.SHA1Fingerprint(a.Cert.Raw).Equal(x509certs.SHA1Fingerprint(b.Cert.Raw)))
	})

	t.Run("Empty digest renders empty", func(t *testing.T) {
		assert.Empty(t, x509certs.Fingerprint(nil).String())
	})
}

func TestParseFingerprint(t *testing.T) {
	const canonical = "A9:99:3E:36:47:06:81:6A:BA:3E:25:71:78:50:C2:6C:9C:D0:D8:9D"

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "canonical", input: canonical},
		{name: "lowercase", input: strings.ToLower(canonical)},
		{name: "no separators", input: "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{name: "spaces", input: " A9 99 3E 36 47 06 81 6A BA 3E 25 71 78 50 C2 6C 9C D0 D8 9D "},
		{name: "not hex", input: "ZZ:99", wantErr: true},
		{name: "wrong length", input: "A9:99:3E", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x509certs.NormalizeFingerprint(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, x509certs.ErrInvalidFingerprint)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, canonical, got)
		})
	}
}

func TestDescribe(t *testing.T) {
	root := testpki.NewRootCA(t, "Secrets Private Root")
	leaf := root.IssueLeaf(t, "vault.internal", "127.0.0.1")

	text := x509certs.New().Describe(leaf.Cert)

	assert.True(t, strings.HasPrefix(text, "Certificate:\n"))
	assert.True(t, strings.HasSuffix(text, "-----END CERTIFICATE-----\n"), "must end with newline for terminal output")
	assert.Contains(t, text, "Subject: ")
	assert.Contains(t, text, "CN=vault.internal")
	assert.Contains(t, text, "CN=Secrets Private Root")
	assert.Contains(t, text, "vault.internal, 127.0.0.1")
	assert.Contains(t, text, "256-bit ECDSA")
	assert.Contains(t, text, "TLS Web Server Authentication")
	assert.Contains(t, text, "SHA1 Fingerprint: "+x509certs.SHA1Fingerprint(leaf.Cert.Raw).String())

	// The embedded PEM must be the full certificate, not a summary.
	idx := strings.Index(text, "-----BEGIN CERTIFICATE-----")
	require.GreaterOrEqual(t, idx, 0)
	decoded, err := x509certs.New().Decode([]byte(text[idx:]))
	require.NoError(t, err)
	assert.True(t, leaf.Cert.Equal(decoded))
}

func TestKeyDescriptionAndExpiry(t *testing.T) {
	leaf := testpki.SelfSigned(t, "vault.internal")

	assert.Equal(t, "256-bit ECDSA", x509certs.KeyDescription(leaf.Cert))
	assert.False(t, x509certs.Expired(leaf.Cert, leaf.Cert.NotBefore.Add(1)))
	assert.True(t, x509certs.Expired(leaf.Cert, leaf.Cert.NotAfter.Add(1)))
	assert.True(t, x509certs.Expired(leaf.Cert, leaf.Cert.NotBefore.Add(-1)))
}
