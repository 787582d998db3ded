package gmail_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/johnie/gmcp-sub000/internal/server"
)

// RegisterLabelTools registers label listing and, with yolo, label
// creation and deletion.
func RegisterLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list_email_labels",
		mcp.WithDescription("List all Gmail labels of the mailbox"),
	)
	addTool(s, sc, listTool, "list", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListLabels(ctx, request, sc)
	})

	getTool := mcp.NewTool("get_email_label",
		mcp.WithDescription("Get one Gmail label including its message and thread counts"),
		mcp.WithString("labelId",
			mcp.Required(),
			mcp.Description("The ID of the label"),
		),
	)
	addTool(s, sc, getTool, "get", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetLabel(ctx, request, sc)
	})

	if !sc.Yolo() {
		return nil
	}

	createTool := mcp.NewTool("create_label",
		mcp.WithDescription("Create a new user label"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the label to create"),
		),
	)
	addTool(s, sc, createTool, "create", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateLabel(ctx, request, sc)
	})

	deleteTool := mcp.NewTool("delete_label",
		mcp.WithDescription("Delete a user label"),
		mcp.WithString("labelId",
			mcp.Required(),
			mcp.Description("The ID of the label to delete"),
		),
	)
	addTool(s, sc, deleteTool, "delete", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDeleteLabel(ctx, request, sc)
	})

	return nil
}

func handleListLabels(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	labels, err := client.ListLabels(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list labels: %v", err)), nil
	}
	return jsonResult(labels)
}

func handleGetLabel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	labelID, _ := args["labelId"].(string)
	if labelID == "" {
		return mcp.NewToolResultError("labelId is required"), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	label, err := client.GetLabel(ctx, labelID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get label: %v", err)), nil
	}
	return jsonResult(label)
}

func handleCreateLabel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	label, err := client.CreateLabel(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create label: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Label %q created with ID: %s", label.Name, label.ID)), nil
}

func handleDeleteLabel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	labelID, _ := args["labelId"].(string)
	if labelID == "" {
		return mcp.NewToolResultError("labelId is required"), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.DeleteLabel(ctx, labelID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete label: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Label %s deleted", labelID)), nil
}
