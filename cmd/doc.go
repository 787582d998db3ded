// Package cmd implements the gmcp command line interface: the MCP
// server (serve), the one-time OAuth authorization flow (auth), and
// the version command.
package cmd
