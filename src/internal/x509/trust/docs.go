// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509trust establishes trust in a secrets service endpoint.
//
// The [Resolver] opens one TLS connection to a host and port without validating
// the presented chain, takes the leaf certificate, and returns its SHA-1
// fingerprint and a complete readable rendering so an operator can decide whether
// to pin it. Chain validation is skipped only on that path; every later
// connection goes through [PinnedTLSConfig], which checks the pinned fingerprint.
//
// Failures are reported as [*ConnectionError], [*HandshakeError] or
// [*NoCertificateError]. None of them are retried.
package x509trust
