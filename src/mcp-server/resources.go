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
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs.
const (
	versionResourceURI      = "info://version"
	trustedHostsResourceURI = "trust://hosts"
)

// createResources returns the static resources bound to deps.
func createResources(deps *ServerDependencies) []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource(versionResourceURI, "Server version",
				mcp.WithResourceDescription("Server name, version and tool list"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return handleVersionResource(ctx, request, deps)
			},
		},
		{
			Resource: mcp.NewResource(trustedHostsResourceURI, "Trusted hosts",
				mcp.WithResourceDescription("Endpoints whose certificates have been accepted"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return handleTrustedHostsResource(ctx, request, deps)
			},
		},
	}
}

func handleVersionResource(_ context.Context, _ mcp.ReadResourceRequest, deps *ServerDependencies) ([]mcp.ResourceContents, error) {
	tools := make([]string, 0, len(deps.Tools))
	for _, t := range deps.Tools {
		tools = append(tools, t.Tool.Name)
	}

	data, err := json.MarshalIndent(map[string]any{
		"name":    ServerName,
		"version": deps.Version,
		"tools":   tools,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: versionResourceURI, MIMEType: "application/json", Text: string(data)},
	}, nil
}

func handleTrustedHostsResource(_ context.Context, _ mcp.ReadResourceRequest, deps *ServerDependencies) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(deps.Store.List(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trust store entries: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: trustedHostsResourceURI, MIMEType: "application/json", Text: string(data)},
	}, nil
}
