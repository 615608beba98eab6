// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509trust

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is used when neither the input nor the caller name a port.
const DefaultPort = 443

// ErrInvalidEndpoint is returned for a hostname or port that cannot be dialed.
// It is reported before any network activity.
var ErrInvalidEndpoint = errors.New("x509trust: invalid endpoint")

// Endpoint identifies the service to connect to.
type Endpoint struct {
	Hostname string `json:"hostname" yaml:"hostname"`
	Port     int    `json:"port" yaml:"port"`
}

// Address returns the dialable host:port form, bracketing IPv6 literals.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Hostname, strconv.Itoa(e.Port))
}

// String implements fmt.Stringer.
func (e Endpoint) String() string { return e.Address() }

// Validate checks that the hostname is non-empty and the port is in [1, 65535].
func (e Endpoint) Validate() error {
	if strings.TrimSpace(e.Hostname) == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidEndpoint)
	}
	if strings.ContainsAny(e.Hostname, " \t\r\n/") {
		return fmt.Errorf("%w: malformed hostname %q", ErrInvalidEndpoint, e.Hostname)
	}
	if e.Port < 1 || e.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalidEndpoint, e.Port)
	}
	return nil
}

// ParseEndpoint accepts "host", "host:port", "[v6]:port" and
// "https://host[:port][/path]". defaultPort applies when no port is given;
// zero selects DefaultPort.
func ParseEndpoint(raw string, defaultPort int) (Endpoint, error) {
	if defaultPort == 0 {
		defaultPort = DefaultPort
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Endpoint{}, fmt.Errorf("%w: empty address", ErrInvalidEndpoint)
	}

	if strings.Contains(raw, "://") {
		return parseURL(raw, defaultPort)
	}

	host, portStr, err := net.SplitHostPort(raw)
	if err != nil {
		// No port: a bare name or a bare (possibly bracketed) IPv6 literal.
		host = strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
		ep := Endpoint{Hostname: host, Port: defaultPort}
		return ep, ep.Validate()
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: port %q is not a number", ErrInvalidEndpoint, portStr)
	}

	ep := Endpoint{Hostname: host, Port: port}
	return ep, ep.Validate()
}

func parseURL(raw string, defaultPort int) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return Endpoint{}, fmt.Errorf("%w: scheme %q is not https", ErrInvalidEndpoint, u.Scheme)
	}

	ep := Endpoint{Hostname: u.Hostname(), Port: defaultPort}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Endpoint{}, fmt.Errorf("%w: port %q is not a number", ErrInvalidEndpoint, p)
		}
		ep.Port = port
	}
	return ep, ep.Validate()
}
