// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver exposes the trust resolver over the [MCP] stdio transport.
//
// Tools:
//   - get_certificate: fetch an endpoint's leaf certificate without verifying
//     it and return the SHA-1 fingerprint and readable form
//   - list_trusted: list the endpoints pinned in the trust store
//   - verify_trusted: check that an endpoint still presents its pinned certificate
//
// The server never writes to the trust store. Accepting a certificate stays an
// operator decision made through the CLI.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
