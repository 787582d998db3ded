// Package server holds the shared state of a running MCP server: the
// authorized Google session, lazily created API clients, and the
// dedicated Prometheus metrics listener.
package server
