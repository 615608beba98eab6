// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509trust

import (
	"errors"
	"fmt"
	"net"
)

// ConnectionError reports that the endpoint could not be reached: name
// resolution failed, the connection was refused, or the connect timed out.
type ConnectionError struct {
	Endpoint Endpoint
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("x509trust: cannot connect to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Timeout reports whether the connect attempt ran out of time.
func (e *ConnectionError) Timeout() bool { return isTimeout(e.Err) }

// HandshakeError reports a TLS negotiation failure that is not a trust decision,
// such as a protocol mismatch, a non-TLS peer, or a peer closing mid-handshake.
type HandshakeError struct {
	Endpoint Endpoint
	Err      error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("x509trust: TLS handshake with %s failed: %v", e.Endpoint, e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// Timeout reports whether the handshake ran out of time.
func (e *HandshakeError) Timeout() bool { return isTimeout(e.Err) }

// NoCertificateError reports a completed handshake in which the peer presented
// no certificate.
type NoCertificateError struct {
	Endpoint Endpoint
}

func (e *NoCertificateError) Error() string {
	return fmt.Sprintf("x509trust: %s presented no certificate", e.Endpoint)
}

// Kind names the resolver error class of err for user-facing output:
// "ConnectionError", "HandshakeError", "NoCertificateError", or "" for
// anything else.
func Kind(err error) string {
	var (
		connErr *ConnectionError
		hsErr   *HandshakeError
		noCert  *NoCertificateError
	)
	switch {
	case errors.As(err, &connErr):
		return "ConnectionError"
	case errors.As(err, &hsErr):
		return "HandshakeError"
	case errors.As(err, &noCert):
		return "NoCertificateError"
	default:
		return ""
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
