package gmail_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/johnie/gmcp-sub000/internal/gmail"
	"github.com/johnie/gmcp-sub000/internal/google"
	"github.com/johnie/gmcp-sub000/internal/server"
	"github.com/johnie/gmcp-sub000/internal/tools/batch"
)

const defaultSearchMaxResults = 10

// gmailClient fetches the Gmail client, rendering auth problems as a
// tool error result so the MCP client sees actionable text instead of
// a protocol failure.
func gmailClient(sc *server.ServerContext) (*gmail.Client, *mcp.CallToolResult) {
	client, err := sc.GmailClient()
	if err != nil {
		var missing *google.TokenMissingError
		if errors.As(err, &missing) {
			return nil, mcp.NewToolResultError(fmt.Sprintf(
				"No stored Google token was found (%v). Run 'gmcp auth' once to authorize this machine.", err))
		}
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create Gmail client: %v", err))
	}
	return client, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to render result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// stringSlice reads an optional array-of-strings argument.
func stringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RegisterEmailTools registers search, read, and (with yolo) the
// send/reply/modify/trash tools.
func RegisterEmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool("search_emails",
		mcp.WithDescription("Search Gmail messages with a Gmail query string"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g., 'is:unread', 'from:user@example.com')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of results per page (default: 10)"),
		),
		mcp.WithBoolean("includeBody",
			mcp.Description("Include the message body in each result (default: false)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Opaque token from a previous page to continue the listing"),
		),
	)
	addTool(s, sc, searchTool, "list", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchEmails(ctx, request, sc)
	})

	readTool := mcp.NewTool("read_email",
		mcp.WithDescription("Read a single Gmail message including its body"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message to read"),
		),
	)
	addTool(s, sc, readTool, "get", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleReadEmail(ctx, request, sc)
	})

	readThreadTool := mcp.NewTool("read_thread",
		mcp.WithDescription("Read all messages of a Gmail thread in thread order"),
		mcp.WithString("threadId",
			mcp.Required(),
			mcp.Description("The ID of the thread to read"),
		),
	)
	addTool(s, sc, readThreadTool, "get", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleReadThread(ctx, request, sc)
	})

	if !sc.Yolo() {
		return nil
	}

	sendTool := mcp.NewTool("send_email",
		mcp.WithDescription("Send a new email"),
		mcp.WithArray("to",
			mcp.Required(),
			mcp.Description("Recipient email addresses"),
		),
		mcp.WithArray("cc",
			mcp.Description("CC recipients"),
		),
		mcp.WithArray("bcc",
			mcp.Description("BCC recipients"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body"),
		),
		mcp.WithString("contentType",
			mcp.Description("Body content type: text/plain (default) or text/html"),
		),
		mcp.WithString("threadId",
			mcp.Description("Thread to attach the message to"),
		),
	)
	addTool(s, sc, sendTool, "send", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSendEmail(ctx, request, sc)
	})

	replyTool := mcp.NewTool("reply_email",
		mcp.WithDescription("Reply to an existing email, preserving threading"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message to reply to"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Reply body"),
		),
		mcp.WithString("contentType",
			mcp.Description("Body content type: text/plain (default) or text/html"),
		),
		mcp.WithArray("cc",
			mcp.Description("CC recipients"),
		),
		mcp.WithArray("bcc",
			mcp.Description("BCC recipients"),
		),
	)
	addTool(s, sc, replyTool, "send", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleReplyEmail(ctx, request, sc)
	})

	modifyTool := mcp.NewTool("modify_email",
		mcp.WithDescription("Add or remove labels on one or more messages"),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
		mcp.WithArray("addLabelIds",
			mcp.Description("Label IDs to add"),
		),
		mcp.WithArray("removeLabelIds",
			mcp.Description("Label IDs to remove"),
		),
	)
	addTool(s, sc, modifyTool, "modify", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleModifyEmail(ctx, request, sc)
	})

	trashTool := mcp.NewTool("trash_email",
		mcp.WithDescription("Move one or more messages to the trash"),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
	)
	addTool(s, sc, trashTool, "trash", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleTrashEmail(ctx, request, sc)
	})

	return nil
}

func handleSearchEmails(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	maxResults := int64(defaultSearchMaxResults)
	if v, ok := args["maxResults"].(float64); ok && v > 0 {
		maxResults = int64(v)
	}
	includeBody, _ := args["includeBody"].(bool)
	pageToken, _ := args["pageToken"].(string)

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	page, err := client.Search(ctx, query, maxResults, includeBody, pageToken)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err)), nil
	}
	return jsonResult(page)
}

func handleReadEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	msg, err := client.GetMessage(ctx, messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read message: %v", err)), nil
	}
	return jsonResult(msg)
}

func handleReadThread(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	threadID, ok := args["threadId"].(string)
	if !ok || threadID == "" {
		return mcp.NewToolResultError("threadId is required"), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	messages, err := client.GetThread(ctx, threadID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read thread: %v", err)), nil
	}
	return jsonResult(messages)
}

func handleSendEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	to := stringSlice(args, "to")
	if len(to) == 0 {
		return mcp.NewToolResultError("to is required"), nil
	}
	subject, _ := args["subject"].(string)
	if subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}
	body, _ := args["body"].(string)
	if body == "" {
		return mcp.NewToolResultError("body is required"), nil
	}
	contentType, _ := args["contentType"].(string)
	threadID, _ := args["threadId"].(string)

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	id, err := client.SendMessage(ctx, gmail.OutgoingMessage{
		To:          to,
		Cc:          stringSlice(args, "cc"),
		Bcc:         stringSlice(args, "bcc"),
		Subject:     subject,
		Body:        body,
		ContentType: contentType,
		ThreadID:    threadID,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Message sent with ID: %s", id)), nil
}

func handleReplyEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageID, _ := args["messageId"].(string)
	if messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}
	body, _ := args["body"].(string)
	if body == "" {
		return mcp.NewToolResultError("body is required"), nil
	}
	contentType, _ := args["contentType"].(string)

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	id, err := client.ReplyToMessage(ctx, messageID, body, contentType,
		stringSlice(args, "cc"), stringSlice(args, "bcc"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send reply: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reply sent with ID: %s", id)), nil
}

func handleModifyEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	addLabels := stringSlice(args, "addLabelIds")
	removeLabels := stringSlice(args, "removeLabelIds")
	if len(addLabels) == 0 && len(removeLabels) == 0 {
		return mcp.NewToolResultError("at least one of addLabelIds or removeLabelIds is required"), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	results := batch.Process(ids, func(id string) (string, error) {
		if err := client.ModifyMessage(ctx, id, addLabels, removeLabels); err != nil {
			return "", err
		}
		return "labels updated", nil
	})
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleTrashEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := gmailClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	results := batch.Process(ids, func(id string) (string, error) {
		if err := client.TrashMessage(ctx, id); err != nil {
			return "", err
		}
		return "moved to trash", nil
	})
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}
