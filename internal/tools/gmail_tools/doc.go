// Package gmail_tools registers the Gmail MCP tools: searching and
// reading mail, label management, attachments, and (behind the yolo
// flag) sending, replying, modifying, and trashing.
//
// Handlers return provider failures as error tool results rather than
// Go errors, so the MCP client always receives a structured response.
package gmail_tools
