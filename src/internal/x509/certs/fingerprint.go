// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is the display convention for certificate fingerprints, not a signature.
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/helper/gc"
)

// ErrInvalidFingerprint indicates that a fingerprint string is not a hex digest
// of a supported length.
var ErrInvalidFingerprint = errors.New("x509certs: invalid fingerprint")

const hexDigits = "0123456789ABCDEF"

// Fingerprint is a digest over the DER encoding of a certificate.
type Fingerprint []byte

// SHA1Fingerprint returns the 20-byte SHA-1 digest of der. This is the value
// printed by "openssl x509 -fingerprint -sha1" and the one pinned in the trust store.
func SHA1Fingerprint(der []byte) Fingerprint {
	sum := sha1.Sum(der) //nolint:gosec
	return sum[:]
}

// SHA256Fingerprint returns the 32-byte SHA-256 digest of der.
func SHA256Fingerprint(der []byte) Fingerprint {
	sum := sha256.Sum256(der)
	return sum[:]
}

// String renders the digest as uppercase hexadecimal octets joined by ':'.
func (f Fingerprint) String() string {
	return gc.Render(func(buf gc.Buffer) {
		for i, b := range f {
			if i > 0 {
				buf.WriteByte(':')
			}
			buf.WriteByte(hexDigits[b>>4])
			buf.WriteByte(hexDigits[b&0x0f])
		}
	})
}

// Equal compares two fingerprints in constant time.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return len(f) == len(other) && subtle.ConstantTimeCompare(f, other) == 1
}

// ParseFingerprint parses a hex digest in any case, with or without ':' or
// space separators. Only SHA-1 and SHA-256 lengths are accepted.
func ParseFingerprint(s string) (Fingerprint, error) {
	cleaned := strings.NewReplacer(":", "", " ", "").Replace(strings.TrimSpace(s))

	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFingerprint, s)
	}

	switch len(raw) {
	case sha1.Size, sha256.Size:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidFingerprint, len(raw))
	}
}

// NormalizeFingerprint returns s in the canonical uppercase colon form.
func NormalizeFingerprint(s string) (string, error) {
	f, err := ParseFingerprint(s)
	if err != nil {
		return "", err
	}
	return f.String(), nil
}
