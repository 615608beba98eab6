// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package truststore_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/truststore"
	x509certs "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/testpki"
	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

func resultFor(t *testing.T, host string, port int) *x509trust.Result {
	t.Helper()
	leaf := testpki.SelfSigned(t, host)
	return &x509trust.Result{
		Endpoint:    x509trust.Endpoint{Hostname: host, Port: port},
		Fingerprint: x509certs.SHA1Fingerprint(leaf.Cert.Raw).String(),
		Leaf:        leaf.Cert,
	}
}

func TestStore(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T, dir string, store *truststore.Store)
	}{
		{
			name: "Add persists across reopen",
			testFunc: func(t *testing.T, dir string, store *truststore.Store) {
				res := resultFor(t, "vault.internal", 8443)

				entry, err := store.Add(res)
				require.NoError(t, err)
				assert.Equal(t, res.Fingerprint, entry.Fingerprint)
				assert.Equal(t, "vault.internal_8443.pem", entry.CertificateFile)
				assert.Equal(t, "CN=vault.internal,O=Secrets Test", entry.Subject)
				assert.FileExists(t, filepath.Join(dir, truststore.IndexFileName))
				assert.FileExists(t, store.CertificatePath(entry))

				reopened, err := truststore.Open(dir)
				require.NoError(t, err)
				got, ok := reopened.Get(res.Endpoint)
				require.True(t, ok)
				assert.Equal(t, entry.Fingerprint, got.Fingerprint)
				assert.True(t, entry.AcceptedAt.Equal(got.AcceptedAt))
				assert.True(t, entry.NotAfter.Equal(got.NotAfter))

				cert, err := reopened.Certificate(res.Endpoint)
				require.NoError(t, err)
				assert.True(t, cert.Equal(res.Leaf))
			},
		},
		{
			name: "Verify detects a changed certificate",
			testFunc: func(t *testing.T, _ string, store *truststore.Store) {
				res := resultFor(t, "vault.internal", 443)
				_, err := store.Add(res)
				require.NoError(t, err)

				require.NoError(t, store.Verify(res.Endpoint, res.Fingerprint))
				require.NoError(t, store.Verify(res.Endpoint, strings.ToLower(res.Fingerprint)))

				other := resultFor(t, "vault.internal", 443)
				err = store.Verify(res.Endpoint, other.Fingerprint)
				assert.ErrorIs(t, err, truststore.ErrFingerprintMismatch)

				err = store.Verify(x509trust.Endpoint{Hostname: "vault.internal", Port: 8443}, res.Fingerprint)
				assert.ErrorIs(t, err, truststore.ErrNotTrusted)

				assert.ErrorIs(t, store.Verify(res.Endpoint, "zz"), x509certs.ErrInvalidFingerprint)
			},
		},
		{
			name: "Add replaces an earlier entry",
			testFunc: func(t *testing.T, _ string, store *truststore.Store) {
				first := resultFor(t, "vault.internal", 443)
				second := resultFor(t, "vault.internal", 443)

				_, err := store.Add(first)
				require.NoError(t, err)
				_, err = store.Add(second)
				require.NoError(t, err)

				require.Len(t, store.List(), 1)
				assert.NoError(t, store.Verify(second.Endpoint, second.Fingerprint))
				assert.ErrorIs(t, store.Verify(first.Endpoint, first.Fingerprint), truststore.ErrFingerprintMismatch)
			},
		},
		{
			name: "List is sorted by host then port",
			testFunc: func(t *testing.T, _ string, store *truststore.Store) {
				for _, r := range []*x509trust.Result{
					resultFor(t, "b.internal", 443),
					resultFor(t, "a.internal", 8443),
					resultFor(t, "a.internal", 443),
				} {
					_, err := store.Add(r)
					require.NoError(t, err)
				}

				var got []string
				for _, e := range store.List() {
					got = append(got, e.Endpoint().Address())
				}
				assert.Equal(t, []string{"a.internal:443", "a.internal:8443", "b.internal:443"}, got)
			},
		},
		{
			name: "Remove deletes the entry and its certificate",
			testFunc: func(t *testing.T, _ string, store *truststore.Store) {
				res := resultFor(t, "vault.internal", 443)
				entry, err := store.Add(res)
				require.NoError(t, err)

				require.NoError(t, store.Remove(res.Endpoint))
				_, ok := store.Get(res.Endpoint)
				assert.False(t, ok)
				assert.NoFileExists(t, store.CertificatePath(entry))

				assert.ErrorIs(t, store.Remove(res.Endpoint), truststore.ErrNotTrusted)
			},
		},
		{
			name: "CertPool holds the accepted certificate",
			testFunc: func(t *testing.T, _ string, store *truststore.Store) {
				res := resultFor(t, "127.0.0.1", 443)
				_, err := store.Add(res)
				require.NoError(t, err)

				pool, err := store.CertPool(res.Endpoint)
				require.NoError(t, err)
				assert.False(t, pool.Equal(nil))

				_, err = store.CertPool(x509trust.Endpoint{Hostname: "missing", Port: 443})
				assert.ErrorIs(t, err, truststore.ErrNotTrusted)
			},
		},
		{
			name: "Tampered certificate file is rejected",
			testFunc: func(t *testing.T, _ string, store *truststore.Store) {
				res := resultFor(t, "vault.internal", 443)
				entry, err := store.Add(res)
				require.NoError(t, err)

				other := resultFor(t, "vault.internal", 443)
				require.NoError(t, os.WriteFile(store.CertificatePath(entry), other.PEM(), 0o600))

				_, err = store.Certificate(res.Endpoint)
				assert.ErrorIs(t, err, truststore.ErrFingerprintMismatch)
			},
		},
		{
			name: "Add rejects empty results",
			testFunc: func(t *testing.T, _ string, store *truststore.Store) {
				_, err := store.Add(nil)
				assert.ErrorIs(t, err, truststore.ErrNoResult)
				_, err = store.Add(&x509trust.Result{})
				assert.ErrorIs(t, err, truststore.ErrNoResult)
				assert.Empty(t, store.List())
			},
		},
		{
			name: "IPv6 endpoints get a portable file name",
			testFunc: func(t *testing.T, _ string, store *truststore.Store) {
				entry, err := store.Add(resultFor(t, "::1", 8443))
				require.NoError(t, err)
				assert.Equal(t, "__1_8443.pem", entry.CertificateFile)
			},
		},
		{
			name: "Concurrent adds are all recorded",
			testFunc: func(t *testing.T, dir string, store *truststore.Store) {
				var wg sync.WaitGroup
				for i := range 8 {
					res := resultFor(t, "vault.internal", 8000+i)
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := store.Add(res)
						assert.NoError(t, err)
					}()
				}
				wg.Wait()

				reopened, err := truststore.Open(dir)
				require.NoError(t, err)
				assert.Len(t, reopened.List(), 8)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "trust")
			store, err := truststore.Open(dir)
			require.NoError(t, err)
			tt.testFunc(t, dir, store)
		})
	}
}

func TestOpen_InvalidIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, truststore.IndexFileName), []byte("hosts: [unclosed"), 0o600))

	_, err := truststore.Open(dir)
	assert.Error(t, err)
}
