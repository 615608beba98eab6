// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509trust

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	x509certs "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/certs"
)

// ErrFingerprintMismatch is returned when the presented leaf does not match
// the pinned fingerprint.
var ErrFingerprintMismatch = errors.New("x509trust: certificate fingerprint does not match pin")

// PinnedTLSConfig returns a client config for authenticated traffic to
// serverName. The leaf must match fingerprint (SHA-1 or SHA-256, picked by
// length). When roots is non-nil the chain is also verified against it;
// otherwise the pin alone authenticates the peer.
func PinnedTLSConfig(serverName, fingerprint string, roots *x509.CertPool) (*tls.Config, error) {
	pin, err := x509certs.ParseFingerprint(fingerprint)
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
		RootCAs:    roots,
		VerifyConnection: func(cs tls.ConnectionState) error {
			if len(cs.PeerCertificates) == 0 {
				return fmt.Errorf("%w: no certificate presented", ErrFingerprintMismatch)
			}
			return matchPin(pin, cs.PeerCertificates[0])
		},
	}
	if roots == nil {
		// VerifyConnection still runs and enforces the pin.
		cfg.InsecureSkipVerify = true //nolint:gosec // pinned
	}
	return cfg, nil
}

func matchPin(pin x509certs.Fingerprint, leaf *x509.Certificate) error {
	var got x509certs.Fingerprint
	switch len(pin) {
	case 20:
		got = x509certs.SHA1Fingerprint(leaf.Raw)
	default:
		got = x509certs.SHA256Fingerprint(leaf.Raw)
	}
	if !pin.Equal(got) {
		return fmt.Errorf("%w: got %s, want %s", ErrFingerprintMismatch, got, pin)
	}
	return nil
}

// NewPinnedTransport clones http.DefaultTransport and installs a pinned TLS
// config for serverName.
func NewPinnedTransport(serverName, fingerprint string, roots *x509.CertPool) (*http.Transport, error) {
	cfg, err := PinnedTLSConfig(serverName, fingerprint, roots)
	if err != nil {
		return nil, err
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = cfg
	return tr, nil
}

// VerifyPinned dials ep with a pinned config and reports whether the endpoint
// still presents the pinned certificate. Connect and handshake failures are
// wrapped in ConnectionError and HandshakeError; a pin mismatch unwraps to
// ErrFingerprintMismatch.
func VerifyPinned(ctx context.Context, ep Endpoint, fingerprint string, roots *x509.CertPool, opts Options) error {
	if err := ep.Validate(); err != nil {
		return err
	}
	opts = opts.withDefaults()

	serverName := opts.ServerName
	if serverName == "" {
		serverName = ep.Hostname
	}
	cfg, err := PinnedTLSConfig(serverName, fingerprint, roots)
	if err != nil {
		return err
	}
	cfg.MinVersion = opts.MinVersion

	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", ep.Address())
	if err != nil {
		return &ConnectionError{Endpoint: ep, Err: err}
	}

	conn := tls.Client(rawConn, cfg)
	defer conn.Close()

	hsCtx, cancel := context.WithTimeout(ctx, opts.HandshakeTimeout)
	defer cancel()
	_ = rawConn.SetDeadline(time.Now().Add(opts.HandshakeTimeout))

	if err := conn.HandshakeContext(hsCtx); err != nil {
		return &HandshakeError{Endpoint: ep, Err: err}
	}
	return nil
}
