// Package calendar_tools registers the Google Calendar MCP tools:
// listing and reading events, and (behind the yolo flag) creating,
// updating, and deleting them.
package calendar_tools
