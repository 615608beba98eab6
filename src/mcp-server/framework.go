// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/secrets-cli/src/config"
	"github.com/H0llyW00dzZ/secrets-cli/src/internal/truststore"
	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
	"github.com/H0llyW00dzZ/secrets-cli/src/logger"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "secrets-cli trust resolver"

// CertificateResolver fetches the certificate an endpoint presents.
// [x509trust.Resolver] is the production implementation.
type CertificateResolver interface {
	Resolve(ctx context.Context, ep x509trust.Endpoint) (*x509trust.Result, error)
}

// TrustStore is the read-only view of the trust store the tools need.
// [*truststore.Store] is the production implementation.
type TrustStore interface {
	Get(ep x509trust.Endpoint) (truststore.Entry, bool)
	List() []truststore.Entry
}

// ToolHandler is the signature of an MCP tool implementation.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolHandlerWithDeps is a tool implementation that needs the server dependencies.
type ToolHandlerWithDeps func(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error)

// ToolDefinition pairs an MCP tool specification with its handler.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandlerWithDeps
}

// ServerDependencies holds everything the tools and resources use.
type ServerDependencies struct {
	Config   *config.Config
	Version  string
	Resolver CertificateResolver
	Store    TrustStore
	Logger   logger.Logger
	Tools    []ToolDefinition
}

// ServerBuilder constructs the [MCP] server with a fluent interface.
//
// Example:
//
//	s, err := NewServerBuilder().
//	    WithConfig(cfg).
//	    WithVersion("1.0.0").
//	    WithResolver(x509trust.NewResolver(cfg.ResolverOptions())).
//	    WithStore(store).
//	    WithDefaultTools().
//	    Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a builder with no dependencies set.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the client configuration.
func (b *ServerBuilder) WithConfig(cfg *config.Config) *ServerBuilder {
	b.deps.Config = cfg
	return b
}

// WithVersion sets the version reported to clients.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithResolver sets the certificate resolver used by get_certificate.
func (b *ServerBuilder) WithResolver(r CertificateResolver) *ServerBuilder {
	b.deps.Resolver = r
	return b
}

// WithStore sets the trust store read by list_trusted and verify_trusted.
func (b *ServerBuilder) WithStore(s TrustStore) *ServerBuilder {
	b.deps.Store = s
	return b
}

// WithLogger sets the diagnostics logger. Diagnostics never go to stdout,
// which carries the protocol.
func (b *ServerBuilder) WithLogger(l logger.Logger) *ServerBuilder {
	b.deps.Logger = l
	return b
}

// WithTools adds tool definitions.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithDefaultTools adds get_certificate, list_trusted and verify_trusted.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	return b.WithTools(createTools()...)
}

// Build validates the dependencies and creates the [MCP] server.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	if b.deps.Config == nil {
		b.deps.Config = config.Default()
	}
	if b.deps.Resolver == nil {
		b.deps.Resolver = x509trust.NewResolver(b.deps.Config.ResolverOptions())
	}
	if b.deps.Logger == nil {
		b.deps.Logger = logger.NewMCPLogger(nil, true)
	}
	if b.deps.Store == nil {
		return nil, errors.New("mcpserver: trust store is required")
	}

	s := server.NewMCPServer(
		ServerName,
		b.deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
	)

	for _, st := range b.serverTools() {
		s.AddTool(st.Tool, st.Handler)
	}
	for _, r := range createResources(&b.deps) {
		s.AddResource(r.Resource, r.Handler)
	}
	return s, nil
}

// serverTools binds every tool handler to the builder's dependencies.
func (b *ServerBuilder) serverTools() []server.ServerTool {
	out := make([]server.ServerTool, 0, len(b.deps.Tools))
	for _, tool := range b.deps.Tools {
		handler := tool.Handler
		out = append(out, server.ServerTool{
			Tool: tool.Tool,
			Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handler(ctx, request, &b.deps)
			},
		})
	}
	return out
}
