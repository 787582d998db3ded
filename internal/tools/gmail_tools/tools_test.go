package gmail_tools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnie/gmcp-sub000/internal/server"
)

func testServerContext(t *testing.T, yolo bool) *server.ServerContext {
	t.Helper()
	dir := t.TempDir()
	return server.NewServerContext(context.Background(), server.Config{
		CredentialsPath: filepath.Join(dir, "credentials.json"),
		TokenPath:       filepath.Join(dir, "token.json"),
		Yolo:            yolo,
	})
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestRegisterGmailTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterGmailTools(s, testServerContext(t, false)))

	s = mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterGmailTools(s, testServerContext(t, true)))
}

func TestStringSlice(t *testing.T) {
	args := map[string]interface{}{
		"to":    []interface{}{"a@example.com", "b@example.com"},
		"cc":    []interface{}{"c@example.com", 42, ""},
		"bad":   "not-an-array",
		"empty": []interface{}{},
	}

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, stringSlice(args, "to"))
	assert.Equal(t, []string{"c@example.com"}, stringSlice(args, "cc"))
	assert.Nil(t, stringSlice(args, "bad"))
	assert.Nil(t, stringSlice(args, "empty"))
	assert.Nil(t, stringSlice(args, "missing"))
}

func TestHandlersValidateArguments(t *testing.T) {
	sc := testServerContext(t, true)
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error)
		args    map[string]interface{}
		wantMsg string
	}{
		{"search without query", handleSearchEmails, map[string]interface{}{}, "query is required"},
		{"read without messageId", handleReadEmail, map[string]interface{}{}, "messageId is required"},
		{"thread without threadId", handleReadThread, map[string]interface{}{}, "threadId is required"},
		{"send without recipients", handleSendEmail, map[string]interface{}{"subject": "s", "body": "b"}, "to is required"},
		{"send without subject", handleSendEmail, map[string]interface{}{"to": []interface{}{"a@example.com"}, "body": "b"}, "subject is required"},
		{"reply without body", handleReplyEmail, map[string]interface{}{"messageId": "m1"}, "body is required"},
		{"modify without ids", handleModifyEmail, map[string]interface{}{}, "messageIds is required"},
		{"modify without labels", handleModifyEmail, map[string]interface{}{"messageIds": "m1"}, "addLabelIds or removeLabelIds"},
		{"trash without ids", handleTrashEmail, map[string]interface{}{}, "messageIds is required"},
		{"label get without id", handleGetLabel, map[string]interface{}{}, "labelId is required"},
		{"label create without name", handleCreateLabel, map[string]interface{}{}, "name is required"},
		{"download without savePath", handleDownloadAttachment, map[string]interface{}{"messageId": "m1", "attachmentId": "a1"}, "savePath is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := tc.handler(ctx, callRequest(tc.args), sc)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text := resultText(t, result)
			assert.Contains(t, text, tc.wantMsg)
		})
	}
}

func TestHandlersReportMissingToken(t *testing.T) {
	// Credentials file absent: the handler must return an error result,
	// not a Go error.
	sc := testServerContext(t, false)

	result, err := handleListLabels(context.Background(), callRequest(nil), sc)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return tc.Text
}
