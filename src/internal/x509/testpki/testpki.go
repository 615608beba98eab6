// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package testpki builds throwaway private PKIs and local TLS listeners for tests.
// Nothing here is trusted by the system store, which is the point: the trust
// resolver must work against exactly this kind of endpoint.
package testpki

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"net"
	"strconv"
	"testing"
	"time"
)

// Authority is a CA certificate together with its signing key.
type Authority struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// Leaf is an end-entity certificate and its key.
type Leaf struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

func newKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func serial(t testing.TB) *big.Int {
	t.Helper()
	n, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		t.Fatalf("generate serial: %v", err)
	}
	return n
}

func sign(t testing.TB, template, parent *x509.Certificate, pub any, signer *ecdsa.PrivateKey) *x509.Certificate {
	t.Helper()
	der, err := x509.CreateCertificate(rand.Reader, template, parent, pub, signer)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	return cert
}

func caTemplate(t testing.TB, cn string) *x509.Certificate {
	return &x509.Certificate{
		SerialNumber:          serial(t),
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"Private CA"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
}

// NewRootCA creates a self-signed root authority.
func NewRootCA(t testing.TB, cn string) *Authority {
	t.Helper()
	key := newKey(t)
	tmpl := caTemplate(t, cn)
	return &Authority{Cert: sign(t, tmpl, tmpl, &key.PublicKey, key), Key: key}
}

// NewIntermediate creates an intermediate authority signed by a.
func (a *Authority) NewIntermediate(t testing.TB, cn string) *Authority {
	t.Helper()
	key := newKey(t)
	tmpl := caTemplate(t, cn)
	tmpl.MaxPathLenZero = true
	return &Authority{Cert: sign(t, tmpl, a.Cert, &key.PublicKey, a.Key), Key: key}
}

// IssueLeaf issues a server certificate for hosts. The first host becomes the
// common name; IP literals go to the IP SANs.
func (a *Authority) IssueLeaf(t testing.TB, hosts ...string) *Leaf {
	t.Helper()
	key := newKey(t)
	tmpl := leafTemplate(t, hosts)
	return &Leaf{Cert: sign(t, tmpl, a.Cert, &key.PublicKey, a.Key), Key: key}
}

// SelfSigned creates a self-signed server certificate for hosts.
func SelfSigned(t testing.TB, hosts ...string) *Leaf {
	t.Helper()
	key := newKey(t)
	tmpl := leafTemplate(t, hosts)
	return &Leaf{Cert: sign(t, tmpl, tmpl, &key.PublicKey, key), Key: key}
}

func leafTemplate(t testing.TB, hosts []string) *x509.Certificate {
	tmpl := &x509.Certificate{
		SerialNumber:          serial(t),
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	if len(hosts) > 0 {
		tmpl.Subject = pkix.Name{CommonName: hosts[0], Organization: []string{"Secrets Test"}}
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}
	return tmpl
}

// TLSCertificate assembles the certificate the server presents: the leaf first,
// followed by chain in the given order.
func (l *Leaf) TLSCertificate(chain ...*x509.Certificate) tls.Certificate {
	certs := [][]byte{l.Cert.Raw}
	for _, c := range chain {
		certs = append(certs, c.Raw)
	}
	return tls.Certificate{Certificate: certs, PrivateKey: l.Key, Leaf: l.Cert}
}

// Server is a loopback listener started for the duration of a test.
type Server struct {
	Host string
	Port int
	ln   net.Listener
}

// Addr returns host:port.
func (s *Server) Addr() string { return net.JoinHostPort(s.Host, strconv.Itoa(s.Port)) }

// StartTLSServer serves cert on a loopback port. Each connection completes the
// handshake and is then closed.
func StartTLSServer(t testing.TB, cert tls.Certificate) *Server {
	t.Helper()
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	return StartRawServer(t, func(conn net.Conn) {
		tconn := tls.Server(conn, cfg)
		_ = tconn.SetDeadline(time.Now().Add(5 * time.Second))
		if err := tconn.Handshake(); err == nil {
			// Let the client read the session before closing.
			buf := make([]byte, 1)
			_, _ = tconn.Read(buf)
		}
		_ = tconn.Close()
	})
}

// StartRawServer accepts plain TCP connections on a loopback port and hands each
// one to handle in its own goroutine. handle owns the connection.
func StartRawServer(t testing.TB, handle func(net.Conn)) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				continue
			}
			go handle(conn)
		}
	}()

	t.Cleanup(func() { _ = ln.Close() })

	addr := ln.Addr().(*net.TCPAddr)
	return &Server{Host: "127.0.0.1", Port: addr.Port, ln: ln}
}

// ClosedPort returns a loopback port that nothing listens on.
func ClosedPort(t testing.TB) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}
