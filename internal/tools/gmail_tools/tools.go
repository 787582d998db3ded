package gmail_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/johnie/gmcp-sub000/internal/server"
	"github.com/johnie/gmcp-sub000/internal/tools/common"
)

// RegisterGmailTools registers all Gmail tools with the MCP server.
// Destructive tools are only registered when the server context has
// yolo enabled.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterEmailTools(s, sc); err != nil {
		return fmt.Errorf("failed to register email tools: %w", err)
	}
	if err := RegisterLabelTools(s, sc); err != nil {
		return fmt.Errorf("failed to register label tools: %w", err)
	}
	if err := RegisterAttachmentTools(s, sc); err != nil {
		return fmt.Errorf("failed to register attachment tools: %w", err)
	}
	return nil
}

// addTool registers a tool with the instrumented handler wrapper.
func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, operation string, handler common.ToolHandler) {
	s.AddTool(tool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandlerWithService(tool.Name, "gmail", operation, sc, handler)))
}
