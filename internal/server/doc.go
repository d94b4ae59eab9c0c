// Package server implements the MCP (Model Context Protocol) server for depth-map analysis tools.
//
// This package provides a JSON-RPC 2.0 server that exposes depth-buffer
// processing capabilities through the MCP protocol. It's designed to work
// with Claude and other MCP-compatible clients, enabling AI systems to
// inspect and visualize depth captures with precision.
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
// # Available Tools
//
// The server provides 11 depth analysis tools organized into categories:
//
// Basic Depth Map Information:
//   - depth_load: Load a depth map and get metadata
//   - depth_info: Get dimensions and stride
//   - depth_stats: Min/max/mean over valid samples
//
// In-Place Filters:
//   - depth_filter_distance: Zero samples beyond a range
//   - depth_filter_confidence: Zero samples below a confidence threshold
//
// Buffer Operations:
//   - depth_copy: Clone a map under a new cache key
//
// Point Operations:
//   - depth_sample: Depth at a pixel
//   - depth_measure: Distance and depth delta between two points
//
// Analysis:
//   - depth_detect_edges: Depth discontinuity mask
//
// Visualization:
//   - depth_visualize: Colormapped depth image
//   - confidence_visualize: Traffic-light confidence image
//
// # Depth Map Caching
//
// The server maintains an in-memory cache of loaded depth maps, keyed by
// path. The in-place filters mutate cached maps directly, so a filtered map
// stays filtered for subsequent calls; depth_copy preserves a pristine
// snapshot first when that matters. The cache persists for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
