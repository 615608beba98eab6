// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package truststore persists the certificates an operator has accepted.
//
// A store is a directory holding trusted_hosts.yaml plus one PEM file per
// endpoint. Entries are keyed by host:port. The index and certificate files
// are replaced atomically, so a crash never leaves a half-written store.
//
// The store records decisions only. Callers resolve, show the certificate, ask,
// and then call [Store.Add]; a failed resolve never reaches the store.
package truststore
