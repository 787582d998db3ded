package gmail_tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/johnie/gmcp-sub000/internal/gmail"
	"github.com/johnie/gmcp-sub000/internal/server"
)

// RegisterAttachmentTools registers attachment listing and download.
func RegisterAttachmentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list_attachments",
		mcp.WithDescription("List the attachments of a Gmail message"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
	)
	addTool(s, sc, listTool, "get", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListAttachments(ctx, request, sc)
	})

	downloadTool := mcp.NewTool("download_attachment",
		mcp.WithDescription("Download an attachment from a Gmail message to a local file"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
		mcp.WithString("attachmentId",
			mcp.Required(),
			mcp.Description("The ID of the attachment, from list_attachments"),
		),
		mcp.WithString("savePath",
			mcp.Required(),
			mcp.Description("Directory to save the attachment into"),
		),
		mcp.WithString("filename",
			mcp.Description("Filename to save as (default: the attachment's own filename)"),
		),
	)
	addTool(s, sc, downloadTool, "get", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDownloadAttachment(ctx, request, sc)
	})

	return nil
}

func handleListAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageID, _ := args["messageId"].(string)
	if messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	attachments, err := client.ListAttachments(ctx, messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list attachments: %v", err)), nil
	}
	if len(attachments) == 0 {
		return mcp.NewToolResultText("The message has no attachments."), nil
	}
	return jsonResult(attachments)
}

func handleDownloadAttachment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageID, _ := args["messageId"].(string)
	if messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}
	attachmentID, _ := args["attachmentId"].(string)
	if attachmentID == "" {
		return mcp.NewToolResultError("attachmentId is required"), nil
	}
	savePath, _ := args["savePath"].(string)
	if savePath == "" {
		return mcp.NewToolResultError("savePath is required"), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	filename, _ := args["filename"].(string)
	if filename == "" {
		attachments, err := client.ListAttachments(ctx, messageID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list attachments: %v", err)), nil
		}
		for _, att := range attachments {
			if att.AttachmentID == attachmentID {
				filename = att.Filename
				break
			}
		}
		if filename == "" {
			filename = attachmentID
		}
	}
	filename = gmail.SanitizeFilename(filename)

	data, err := client.GetAttachment(ctx, messageID, attachmentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to download attachment: %v", err)), nil
	}

	if err := os.MkdirAll(savePath, 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create directory: %v", err)), nil
	}
	target := filepath.Join(savePath, filename)
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to write file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Attachment saved to %s (%d bytes)", target, len(data))), nil
}
