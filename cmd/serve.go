package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/johnie/gmcp-sub000/internal/instrumentation"
	"github.com/johnie/gmcp-sub000/internal/server"
	"github.com/johnie/gmcp-sub000/internal/tools/calendar_tools"
	"github.com/johnie/gmcp-sub000/internal/tools/gmail_tools"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode       bool
		transport       string
		httpAddr        string
		yolo            bool
		credentialsPath string
		tokenPath       string
		metricsEnabled  bool
		metricsAddr     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Gmail and
Google Calendar tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only
  safe operations. Use --yolo to enable write operations (sending
  mail, trashing messages, deleting events).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(serveOptions{
				transport:       transport,
				debugMode:       debugMode,
				httpAddr:        httpAddr,
				yolo:            yolo,
				credentialsPath: defaultCredentialsPath(credentialsPath),
				tokenPath:       defaultTokenPath(tokenPath),
				metricsEnabled:  metricsEnabled,
				metricsAddr:     metricsAddr,
			})
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (sending mail, trashing, deleting). Default is read-only mode.")
	cmd.Flags().StringVar(&credentialsPath, "credentials", "", "Path to the OAuth client credentials file. Can also use GMCP_CREDENTIALS_PATH env var. Default: ~/.gmcp/credentials.json")
	cmd.Flags().StringVar(&tokenPath, "token", "", "Path to the stored user token. Can also use GMCP_TOKEN_PATH env var. Default: ~/.gmcp/token.json")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

type serveOptions struct {
	transport       string
	debugMode       bool
	httpAddr        string
	yolo            bool
	credentialsPath string
	tokenPath       string
	metricsEnabled  bool
	metricsAddr     string
}

func runServe(opts serveOptions) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	setupLogging(opts.debugMode)

	// Environment fallbacks for metrics settings
	if os.Getenv("METRICS_ENABLED") == "false" {
		opts.metricsEnabled = false
	}
	if addr := os.Getenv("METRICS_ADDR"); addr != "" && opts.metricsAddr == server.DefaultMetricsAddr {
		opts.metricsAddr = addr
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("instrumentation shutdown failed", "error", err)
		}
	}()

	serverContext := server.NewServerContext(shutdownCtx, server.Config{
		CredentialsPath: opts.credentialsPath,
		TokenPath:       opts.tokenPath,
		Yolo:            opts.yolo,
	})
	defer serverContext.Shutdown()
	serverContext.SetMetrics(provider.Metrics())

	// The metrics listener stays off for stdio transport; a CLI-spawned
	// server should not open ports.
	var metricsServer *server.MetricsServer
	if opts.transport != "stdio" && opts.metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     opts.metricsAddr,
			Provider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownTimeout); err != nil {
				slog.Error("metrics server shutdown failed", "error", err)
			}
		}()
	}

	mcpSrv := mcpserver.NewMCPServer("gmcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	if opts.transport != "stdio" {
		if opts.yolo {
			slog.Info("starting server with write operations enabled (--yolo)")
		} else {
			slog.Info("starting server in read-only mode (use --yolo to enable write operations)")
		}
	}

	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	switch opts.transport {
	case "stdio":
		return runStdioServer(shutdownCtx, mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, opts.httpAddr)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}
}

// setupLogging routes slog to stderr so stdio transport keeps stdout
// clean for the protocol.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// registerAllTools registers every tool package on the MCP server.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := gmail_tools.RegisterGmailTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register Gmail tools: %w", err)
	}
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register Calendar tools: %w", err)
	}
	return nil
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, addr string) error {
	httpServer := mcpserver.NewStreamableHTTPServer(mcpSrv)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		slog.Info("starting MCP server", "transport", "streamable-http", "addr", addr)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownTimeout); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}
