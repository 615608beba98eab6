// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509trust_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		defaultPort int
		want        x509trust.Endpoint
		wantErr     bool
	}{
		{name: "bare host", raw: "vault.example.com", want: x509trust.Endpoint{Hostname: "vault.example.com", Port: 443}},
		{name: "host and port", raw: "vault.example.com:8443", want: x509trust.Endpoint{Hostname: "vault.example.com", Port: 8443}},
		{name: "custom default port", raw: "localhost", defaultPort: 9443, want: x509trust.Endpoint{Hostname: "localhost", Port: 9443}},
		{name: "https url", raw: "https://conjur.internal/api", want: x509trust.Endpoint{Hostname: "conjur.internal", Port: 443}},
		{name: "https url with port", raw: "https://conjur.internal:8443", want: x509trust.Endpoint{Hostname: "conjur.internal", Port: 8443}},
		{name: "bracketed ipv6 with port", raw: "[::1]:8443", want: x509trust.Endpoint{Hostname: "::1", Port: 8443}},
		{name: "bare ipv6", raw: "::1", want: x509trust.Endpoint{Hostname: "::1", Port: 443}},
		{name: "bracketed ipv6", raw: "[fe80::1]", want: x509trust.Endpoint{Hostname: "fe80::1", Port: 443}},
		{name: "surrounding whitespace", raw: "  example.com:444 ", want: x509trust.Endpoint{Hostname: "example.com", Port: 444}},
		{name: "empty", raw: "", wantErr: true},
		{name: "http scheme", raw: "http://example.com", wantErr: true},
		{name: "port zero", raw: "example.com:0", wantErr: true},
		{name: "port too large", raw: "example.com:65536", wantErr: true},
		{name: "port not a number", raw: "example.com:https", wantErr: true},
		{name: "empty host with port", raw: ":443", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x509trust.ParseEndpoint(tt.raw, tt.defaultPort)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, x509trust.ErrInvalidEndpoint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Address brackets IPv6",
			testFunc: func(t *testing.T) {
				ep := x509trust.Endpoint{Hostname: "::1", Port: 8443}
				assert.Equal(t, "[::1]:8443", ep.Address())
				assert.Equal(t, ep.Address(), ep.String())
			},
		},
		{
			name: "Validate rejects out of range ports",
			testFunc: func(t *testing.T) {
				for _, port := range []int{-1, 0, 65536} {
					err := x509trust.Endpoint{Hostname: "example.com", Port: port}.Validate()
					assert.ErrorIs(t, err, x509trust.ErrInvalidEndpoint, "port %d", port)
				}
				assert.NoError(t, x509trust.Endpoint{Hostname: "example.com", Port: 65535}.Validate())
				assert.NoError(t, x509trust.Endpoint{Hostname: "example.com", Port: 1}.Validate())
			},
		},
		{
			name: "Validate rejects malformed hostnames",
			testFunc: func(t *testing.T) {
				for _, host := range []string{"", "   ", "bad host", "a/b"} {
					err := x509trust.Endpoint{Hostname: host, Port: 443}.Validate()
					assert.ErrorIs(t, err, x509trust.ErrInvalidEndpoint, "host %q", host)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}
