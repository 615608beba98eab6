// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509trust

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"time"

	x509certs "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/certs"
)

const (
	// DefaultConnectTimeout bounds DNS resolution plus the TCP connect.
	DefaultConnectTimeout = 10 * time.Second
	// DefaultHandshakeTimeout bounds the TLS handshake.
	DefaultHandshakeTimeout = 10 * time.Second
)

// Options tune a single resolution. Zero values select the defaults, so both
// timeouts are always finite.
type Options struct {
	// ConnectTimeout bounds name resolution and the TCP connect.
	ConnectTimeout time.Duration
	// HandshakeTimeout bounds the TLS handshake.
	HandshakeTimeout time.Duration
	// ServerName overrides the SNI name. Defaults to the endpoint hostname.
	ServerName string
	// MinVersion is the lowest TLS version offered. Defaults to TLS 1.2.
	MinVersion uint16
}

// DefaultOptions returns the options used by the package-level GetCertificate.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout:   DefaultConnectTimeout,
		HandshakeTimeout: DefaultHandshakeTimeout,
		MinVersion:       tls.VersionTLS12,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = d.ConnectTimeout
	}
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = d.HandshakeTimeout
	}
	if o.MinVersion == 0 {
		o.MinVersion = d.MinVersion
	}
	return o
}

// Result is what the peer presented, reduced to what an operator needs to
// make a pinning decision.
type Result struct {
	Endpoint Endpoint
	// Fingerprint is the SHA-1 digest of the leaf DER, uppercase hex joined by ':'.
	Fingerprint string
	// Readable is the full text rendering of the leaf including its PEM block.
	Readable string
	// Leaf is the end-entity certificate, always Chain[0].
	Leaf *x509.Certificate
	// Chain is every certificate the peer sent, in the order sent.
	Chain []*x509.Certificate
	// TLSVersion and CipherSuite describe the negotiated session.
	TLSVersion  uint16
	CipherSuite uint16
}

// PEM returns the leaf certificate in PEM form.
func (r *Result) PEM() []byte { return x509certs.New().EncodePEM(r.Leaf) }

// ChainPEM returns every presented certificate in PEM form, leaf first.
func (r *Result) ChainPEM() []byte { return x509certs.New().EncodeMultiplePEM(r.Chain) }

// Resolver fetches and describes the certificate of an endpoint. It holds no
// state besides its options and is safe for concurrent use.
type Resolver struct {
	Options Options
}

// NewResolver returns a Resolver with opts; zero fields take defaults.
func NewResolver(opts Options) Resolver { return Resolver{Options: opts} }

// GetCertificate resolves hostname:port with DefaultOptions.
func GetCertificate(ctx context.Context, hostname string, port int) (fingerprint, readable string, err error) {
	return NewResolver(DefaultOptions()).GetCertificate(ctx, hostname, port)
}

// GetCertificate connects to hostname:port, and returns the leaf fingerprint and
// its readable form. On error both strings are empty.
func (r Resolver) GetCertificate(ctx context.Context, hostname string, port int) (fingerprint, readable string, err error) {
	res, err := r.Resolve(ctx, Endpoint{Hostname: hostname, Port: port})
	if err != nil {
		return "", "", err
	}
	return res.Fingerprint, res.Readable, nil
}

// Resolve performs one TCP connect and one TLS handshake against ep without
// verifying the chain, then closes the connection. Nothing is retried, cached
// or written.
func (r Resolver) Resolve(ctx context.Context, ep Endpoint) (*Result, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	opts := r.Options.withDefaults()

	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", ep.Address())
	if err != nil {
		return nil, &ConnectionError{Endpoint: ep, Err: err}
	}

	conn := tls.Client(rawConn, inspectionConfig(ep, opts))
	defer conn.Close()

	hsCtx, cancel := context.WithTimeout(ctx, opts.HandshakeTimeout)
	defer cancel()

	_ = rawConn.SetDeadline(time.Now().Add(opts.HandshakeTimeout))
	if err := conn.HandshakeContext(hsCtx); err != nil {
		return nil, &HandshakeError{Endpoint: ep, Err: err}
	}

	state := conn.ConnectionState()
	leaf, err := leafCertificate(ep, state)
	if err != nil {
		return nil, err
	}

	certs := x509certs.New()
	return &Result{
		Endpoint:    ep,
		Fingerprint: x509certs.SHA1Fingerprint(leaf.Raw).String(),
		Readable:    certs.Describe(leaf),
		Leaf:        leaf,
		Chain:       state.PeerCertificates,
		TLSVersion:  state.Version,
		CipherSuite: state.CipherSuite,
	}, nil
}

// inspectionConfig is the only place chain verification is turned off. It is
// built per call and never shared with connections that carry credentials.
func inspectionConfig(ep Endpoint, opts Options) *tls.Config {
	serverName := opts.ServerName
	if serverName == "" {
		serverName = ep.Hostname
	}
	return &tls.Config{
		ServerName:         serverName,
		MinVersion:         opts.MinVersion,
		InsecureSkipVerify: true, //nolint:gosec // the certificate is shown to the operator, not trusted
	}
}

// leafCertificate picks the end-entity certificate. Servers send the leaf first.
func leafCertificate(ep Endpoint, state tls.ConnectionState) (*x509.Certificate, error) {
	if len(state.PeerCertificates) == 0 {
		return nil, &NoCertificateError{Endpoint: ep}
	}
	return state.PeerCertificates[0], nil
}
