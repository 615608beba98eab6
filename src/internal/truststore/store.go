// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package truststore

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/certs"
	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

// IndexFileName is the name of the YAML index inside a store directory.
const IndexFileName = "trusted_hosts.yaml"

var (
	// ErrNotTrusted is returned for an endpoint with no accepted certificate.
	ErrNotTrusted = errors.New("truststore: endpoint is not trusted")
	// ErrFingerprintMismatch is returned when an endpoint presents a certificate
	// other than the one accepted for it.
	ErrFingerprintMismatch = errors.New("truststore: certificate fingerprint changed")
	// ErrNoResult is returned by Add when given nothing to store.
	ErrNoResult = errors.New("truststore: no certificate to store")
)

// Entry is one accepted endpoint.
type Entry struct {
	Host            string    `yaml:"host" json:"host"`
	Port            int       `yaml:"port" json:"port"`
	Fingerprint     string    `yaml:"fingerprint" json:"fingerprint"`
	Subject         string    `yaml:"subject" json:"subject"`
	NotAfter        time.Time `yaml:"not_after" json:"not_after"`
	CertificateFile string    `yaml:"certificate_file" json:"certificate_file"`
	AcceptedAt      time.Time `yaml:"accepted_at" json:"accepted_at"`
}

// Endpoint returns the endpoint the entry pins.
func (e Entry) Endpoint() x509trust.Endpoint {
	return x509trust.Endpoint{Hostname: e.Host, Port: e.Port}
}

type indexFile struct {
	Hosts []Entry `yaml:"hosts"`
}

// Store is a directory of accepted certificates. It is safe for concurrent use
// within one process.
type Store struct {
	mu      sync.RWMutex
	dir     string
	entries map[string]Entry

	// now is replaced in tests.
	now func() time.Time
}

// Open loads the store in dir, creating the directory if needed. A missing
// index is an empty store.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("truststore: create %s: %w", dir, err)
	}

	s := &Store{
		dir:     dir,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) indexPath() string { return filepath.Join(s.dir, IndexFileName) }

func (s *Store) load() error {
	f, err := os.Open(s.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("truststore: read index: %w", err)
	}
	defer f.Close()

	data, err := gc.ReadAll(f)
	if err != nil {
		return fmt.Errorf("truststore: read index: %w", err)
	}

	var idx indexFile
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("truststore: parse %s: %w", s.indexPath(), err)
	}
	for _, e := range idx.Hosts {
		s.entries[e.Endpoint().Address()] = e
	}
	return nil
}

// save writes the index. Callers hold s.mu.
func (s *Store) save() error {
	idx := indexFile{Hosts: s.sorted()}
	data, err := yaml.Marshal(&idx)
	if err != nil {
		return fmt.Errorf("truststore: marshal index: %w", err)
	}
	if err := writeFileAtomic(s.indexPath(), data, 0o600); err != nil {
		return fmt.Errorf("truststore: write index: %w", err)
	}
	return nil
}

func (s *Store) sorted() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Host != out[j].Host {
			return out[i].Host < out[j].Host
		}
		return out[i].Port < out[j].Port
	})
	return out
}

// Add records res as trusted, replacing any earlier entry for the same
// endpoint. The leaf PEM is written before the index.
func (s *Store) Add(res *x509trust.Result) (Entry, error) {
	if res == nil || res.Leaf == nil {
		return Entry{}, ErrNoResult
	}
	if err := res.Endpoint.Validate(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	certFile := certFileName(res.Endpoint)
	if err := writeFileAtomic(filepath.Join(s.dir, certFile), res.PEM(), 0o600); err != nil {
		return Entry{}, fmt.Errorf("truststore: write certificate: %w", err)
	}

	entry := Entry{
		Host:            res.Endpoint.Hostname,
		Port:            res.Endpoint.Port,
		Fingerprint:     x509certs.SHA1Fingerprint(res.Leaf.Raw).String(),
		Subject:         res.Leaf.Subject.String(),
		NotAfter:        res.Leaf.NotAfter.UTC(),
		CertificateFile: certFile,
		AcceptedAt:      s.now().UTC().Truncate(time.Second),
	}

	key := res.Endpoint.Address()
	prev, hadPrev := s.entries[key]
	s.entries[key] = entry
	if err := s.save(); err != nil {
		if hadPrev {
			s.entries[key] = prev
		} else {
			delete(s.entries, key)
		}
		return Entry{}, err
	}
	return entry, nil
}

// Get returns the entry for ep.
func (s *Store) Get(ep x509trust.Endpoint) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[ep.Address()]
	return e, ok
}

// List returns every entry sorted by host then port.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted()
}

// Remove forgets ep and deletes its certificate file.
func (s *Store) Remove(ep x509trust.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ep.Address()
	e, ok := s.entries[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotTrusted, key)
	}

	delete(s.entries, key)
	if err := s.save(); err != nil {
		s.entries[key] = e
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, e.CertificateFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("truststore: remove certificate: %w", err)
	}
	return nil
}

// Verify compares fingerprint, in any accepted notation, against the entry for ep.
func (s *Store) Verify(ep x509trust.Endpoint, fingerprint string) error {
	e, ok := s.Get(ep)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotTrusted, ep)
	}

	want, err := x509certs.ParseFingerprint(e.Fingerprint)
	if err != nil {
		return fmt.Errorf("truststore: stored fingerprint for %s: %w", ep, err)
	}
	got, err := x509certs.ParseFingerprint(fingerprint)
	if err != nil {
		return err
	}
	if !want.Equal(got) {
		return fmt.Errorf("%w for %s\n  accepted: %s\n  presented: %s\nremove the entry and re-run init if the certificate was rotated",
			ErrFingerprintMismatch, ep, want, got)
	}
	return nil
}

// Certificate loads the accepted certificate for ep from disk.
func (s *Store) Certificate(ep x509trust.Endpoint) (*x509.Certificate, error) {
	e, ok := s.Get(ep)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotTrusted, ep)
	}

	data, err := os.ReadFile(s.CertificatePath(e)) // #nosec G304 - path is inside the store directory
	if err != nil {
		return nil, fmt.Errorf("truststore: read certificate: %w", err)
	}
	cert, err := x509certs.New().Decode(data)
	if err != nil {
		return nil, fmt.Errorf("truststore: %s: %w", e.CertificateFile, err)
	}
	if got := x509certs.SHA1Fingerprint(cert.Raw).String(); got != e.Fingerprint {
		return nil, fmt.Errorf("%w: %s on disk does not match index", ErrFingerprintMismatch, e.CertificateFile)
	}
	return cert, nil
}

// CertPool returns a pool holding only the accepted certificate for ep.
func (s *Store) CertPool(ep x509trust.Endpoint) (*x509.CertPool, error) {
	cert, err := s.Certificate(ep)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	pool.AddCert(cert)
	return pool, nil
}

// CertificatePath returns the absolute path of e's PEM file.
func (s *Store) CertificatePath(e Entry) string {
	return filepath.Join(s.dir, e.CertificateFile)
}

// certFileName maps an endpoint to a file name that is valid on every platform.
func certFileName(ep x509trust.Endpoint) string {
	host := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, ep.Hostname)
	return host + "_" + strconv.Itoa(ep.Port) + ".pem"
}

// writeFileAtomic writes data to a temporary file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
