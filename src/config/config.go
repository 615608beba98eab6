// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

// Environment variables read by Load.
const (
	EnvConfigFile = "SECRETS_CLI_CONFIG"
	EnvURL        = "SECRETS_CLI_URL"
	EnvAccount    = "SECRETS_CLI_ACCOUNT"
	EnvCertFile   = "SECRETS_CLI_CERT_FILE"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

const (
	defaultConnectSeconds   = 10
	defaultHandshakeSeconds = 10
)

// ErrNoURL is returned by Endpoint when no service URL is configured.
var ErrNoURL = errors.New("config: no service URL configured; run init first")

// configFormat represents supported configuration file formats.
type configFormat int

const (
	configFormatJSON configFormat = iota
	configFormatYAML
)

// Timeouts bound the trust resolver, in seconds.
type Timeouts struct {
	ConnectSeconds   int `json:"connect_seconds" yaml:"connect_seconds"`
	HandshakeSeconds int `json:"handshake_seconds" yaml:"handshake_seconds"`
}

// Config is the secrets-cli configuration.
type Config struct {
	// URL of the secrets service, for example https://conjur.example.com.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	// Account is the organization account on the service.
	Account string `json:"account,omitempty" yaml:"account,omitempty"`
	// CertFile is the PEM file holding the accepted server certificate.
	CertFile string `json:"cert_file,omitempty" yaml:"cert_file,omitempty"`
	// TrustDir is the trust store directory.
	TrustDir string   `json:"trust_dir,omitempty" yaml:"trust_dir,omitempty"`
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
	// Output is one of text, json or yaml.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	path string
}

// Default returns a Config holding only built-in defaults.
func Default() *Config {
	return &Config{
		Timeouts: Timeouts{
			ConnectSeconds:   defaultConnectSeconds,
			HandshakeSeconds: defaultHandshakeSeconds,
		},
		Output: OutputText,
	}
}

// Load builds the configuration from defaults, the config file and the
// environment. A missing file is not an error; init creates it later.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg.path = path

	if err := cfg.loadFromFile(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if cfg.TrustDir == "" {
		dir, err := DefaultTrustDir()
		if err != nil {
			return nil, err
		}
		cfg.TrustDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from or will be saved to.
func (c *Config) Path() string { return c.path }

func detectConfigFormat(path string) configFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - path is chosen by the user
	if err != nil {
		return err
	}

	var file Config
	switch detectConfigFormat(path) {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse YAML config file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse JSON config file %s: %w", path, err)
		}
	}

	c.merge(&file)
	return nil
}

// merge copies the non-zero fields of other into c.
func (c *Config) merge(other *Config) {
	if other.URL != "" {
		c.URL = other.URL
	}
	if other.Account != "" {
		c.Account = other.Account
	}
	if other.CertFile != "" {
		c.CertFile = other.CertFile
	}
	if other.TrustDir != "" {
		c.TrustDir = other.TrustDir
	}
	if other.Timeouts.ConnectSeconds != 0 {
		c.Timeouts.ConnectSeconds = other.Timeouts.ConnectSeconds
	}
	if other.Timeouts.HandshakeSeconds != 0 {
		c.Timeouts.HandshakeSeconds = other.Timeouts.HandshakeSeconds
	}
	if other.Output != "" {
		c.Output = other.Output
	}
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv(EnvURL); v != "" {
		c.URL = v
	}
	if v := os.Getenv(EnvAccount); v != "" {
		c.Account = v
	}
	if v := os.Getenv(EnvCertFile); v != "" {
		c.CertFile = v
	}
}

// Flags are command-line overrides. Zero values leave the config untouched.
type Flags struct {
	URL            string
	Account        string
	TimeoutSeconds int
	Output         string
}

// ApplyFlags applies command-line values, the highest priority layer. A
// timeout flag sets both the connect and the handshake timeout.
func (c *Config) ApplyFlags(f Flags) error {
	c.merge(&Config{
		URL:     f.URL,
		Account: f.Account,
		Output:  f.Output,
		Timeouts: Timeouts{
			ConnectSeconds:   f.TimeoutSeconds,
			HandshakeSeconds: f.TimeoutSeconds,
		},
	})
	return c.Validate()
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.URL != "" {
		if _, err := x509trust.ParseEndpoint(c.URL, 0); err != nil {
			return fmt.Errorf("invalid url %q: %w", c.URL, err)
		}
	}
	if c.Timeouts.ConnectSeconds <= 0 {
		return fmt.Errorf("invalid connect timeout %d: must be positive", c.Timeouts.ConnectSeconds)
	}
	if c.Timeouts.HandshakeSeconds <= 0 {
		return fmt.Errorf("invalid handshake timeout %d: must be positive", c.Timeouts.HandshakeSeconds)
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output format %q: must be text, json or yaml", c.Output)
	}
	return nil
}

// ResolverOptions converts the timeouts for the trust resolver.
func (c *Config) ResolverOptions() x509trust.Options {
	opts := x509trust.DefaultOptions()
	opts.ConnectTimeout = time.Duration(c.Timeouts.ConnectSeconds) * time.Second
	opts.HandshakeTimeout = time.Duration(c.Timeouts.HandshakeSeconds) * time.Second
	return opts
}

// Endpoint parses the configured URL.
func (c *Config) Endpoint() (x509trust.Endpoint, error) {
	if c.URL == "" {
		return x509trust.Endpoint{}, ErrNoURL
	}
	return x509trust.ParseEndpoint(c.URL, 0)
}

// Save writes the configuration to path, or to the load path when path is
// empty. The format follows the file extension.
func (c *Config) Save(path string) error {
	if path == "" {
		path = c.path
	}
	if path == "" {
		return errors.New("config: no path to save to")
	}

	var (
		data []byte
		err  error
	)
	switch detectConfigFormat(path) {
	case configFormatYAML:
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	c.path = path
	return nil
}
