// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	x509trust "github.com/H0llyW00dzZ/secrets-cli/src/internal/x509/trust"
)

// createTools returns the tool definitions served by default.
func createTools() []ToolDefinition {
	return []ToolDefinition{
		{
			Tool: mcp.NewTool("get_certificate",
				mcp.WithDescription("Connect to a TLS endpoint without verifying its certificate chain and return the leaf certificate's SHA-1 fingerprint and a readable rendering. Use this to show an operator what they are about to trust; it does not trust anything."),
				mcp.WithString("hostname",
					mcp.Required(),
					mcp.Description("Hostname or IP address of the secrets service"),
				),
				mcp.WithNumber("port",
					mcp.Description("TCP port (default: 443)"),
					mcp.DefaultNumber(x509trust.DefaultPort),
				),
				mcp.WithBoolean("include_chain",
					mcp.Description("Append a table of every certificate the server presented (default: false)"),
					mcp.DefaultBool(false),
				),
			),
			Handler: handleGetCertificate,
		},
		{
			Tool: mcp.NewTool("list_trusted",
				mcp.WithDescription("List the endpoints whose certificates have been accepted into the trust store"),
			),
			Handler: handleListTrusted,
		},
		{
			Tool: mcp.NewTool("verify_trusted",
				mcp.WithDescription("Connect to a pinned endpoint and check that it still presents the accepted certificate"),
				mcp.WithString("hostname",
					mcp.Required(),
					mcp.Description("Hostname or IP address of a pinned endpoint"),
				),
				mcp.WithNumber("port",
					mcp.Description("TCP port (default: 443)"),
					mcp.DefaultNumber(x509trust.DefaultPort),
				),
			),
			Handler: handleVerifyTrusted,
		},
	}
}
