// Package server implements the MCP (Model Context Protocol) server for the eyedropper tools.
//
// This package provides a JSON-RPC 2.0 server that exposes pixel sampling and
// magnification through the MCP protocol, so an assistant can read the exact
// displayed color of any logical pixel on any attached monitor.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// tools/call requests run concurrently. Responses carry the request ID and
// may be written in a different order than the requests arrived.
//
// # Available Tools
//
//   - sample_color: Color of one logical pixel as hex, RGB, HSL and OKLCH
//   - sample_magnified: Magnified PNG of the pixels around a point
//   - list_monitors: Attached monitors with scale factors
//   - last_magnified_dimensions: Size of the most recent magnified image
//
// Both sampling tools accept an optional path. When present, the screenshot
// at that path stands in for the live screen as a single monitor with the
// given scale_factor. Decoded screenshots are kept in a small LRU cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (bad arguments) or
//     standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv, err := server.New(server.Options{Settings: config.Default()})
//	if err != nil {
//	    return err
//	}
//	return srv.Run()
package server
