// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/helper/gc"
	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

// endpointFromRequest reads the hostname and port arguments.
func endpointFromRequest(request mcp.CallToolRequest) (x509trust.Endpoint, error) {
	hostname, err := request.RequireString("hostname")
	if err != nil {
		return x509trust.Endpoint{}, fmt.Errorf("hostname parameter required: %w", err)
	}
	ep := x509trust.Endpoint{Hostname: hostname, Port: request.GetInt("port", x509trust.DefaultPort)}
	return ep, ep.Validate()
}

// toolError reports err to the client, prefixed with the resolver error kind
// when there is one.
func toolError(err error) *mcp.CallToolResult {
	if kind := x509trust.Kind(err); kind != "" {
		return mcp.NewToolResultError(kind + ": " + err.Error())
	}
	return mcp.NewToolResultError(err.Error())
}

// handleGetCertificate fetches an endpoint's leaf certificate without
// verifying it. Nothing is persisted.
func handleGetCertificate(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	ep, err := endpointFromRequest(request)
	if err != nil {
		return toolError(err), nil
	}
	includeChain := request.GetBool("include_chain", false)

	deps.Logger.Debugf("get_certificate %s", ep)
	res, err := deps.Resolver.Resolve(ctx, ep)
	if err != nil {
		deps.Logger.Printf("get_certificate %s failed: %v", ep, err)
		return toolError(err), nil
	}

	text := gc.Render(func(buf gc.Buffer) {
		fmt.Fprintf(buf, "Endpoint: %s\n", ep)
		fmt.Fprintf(buf, "SHA1 Fingerprint: %s\n", res.Fingerprint)
		if entry, ok := deps.Store.Get(ep); ok {
			if entry.Fingerprint == res.Fingerprint {
				buf.WriteString("Trust store: pinned, fingerprint matches\n")
			} else {
				fmt.Fprintf(buf, "Trust store: pinned to %s, fingerprint CHANGED\n", entry.Fingerprint)
			}
		} else {
			buf.WriteString("Trust store: not pinned\n")
		}
		buf.WriteString("\n")
		buf.WriteString(res.Readable)
		if includeChain {
			buf.WriteString("\n")
			buf.WriteString(x509trust.RenderChainTable(res.Chain))
		}
	})
	return mcp.NewToolResultText(text), nil
}

// handleListTrusted returns the trust store entries as JSON.
func handleListTrusted(_ context.Context, _ mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	entries := deps.Store.List()
	if len(entries) == 0 {
		return mcp.NewToolResultText("No trusted endpoints"), nil
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trust store entries: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleVerifyTrusted connects to a pinned endpoint with the pin enforced.
func handleVerifyTrusted(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	ep, err := endpointFromRequest(request)
	if err != nil {
		return toolError(err), nil
	}

	entry, ok := deps.Store.Get(ep)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not trusted; run init or trust fetch first", ep)), nil
	}

	if err := x509trust.VerifyPinned(ctx, ep, entry.Fingerprint, nil, deps.Config.ResolverOptions()); err != nil {
		deps.Logger.Printf("verify_trusted %s failed: %v", ep, err)
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s presents the pinned certificate %s", ep, entry.Fingerprint)), nil
}
