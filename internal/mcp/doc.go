// Package mcp implements the Model Context Protocol server for bearmcp using
// the mcp-go library.
//
// The server exposes every entry of the bear tool catalog as an MCP tool and
// communicates via stdin/stdout using JSON-RPC 2.0 as specified by the MCP
// standard. Tool schemas are generated from the catalog's parameter tables;
// a single generic handler executes any tool, so adding a Bear action is a
// catalog edit, not new handler code.
//
// # Usage
//
// The server is typically started as a subprocess by AI assistants that
// support MCP integration. It can also be started manually for testing:
//
//	bearmcp serve
//
// The server reads JSON-RPC requests from stdin and writes responses to
// stdout until it receives EOF or is terminated. Logging goes to stderr.
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
// - Bear x-callback-url scheme: https://bear.app/faq/x-callback-url-scheme-documentation/
package mcp
