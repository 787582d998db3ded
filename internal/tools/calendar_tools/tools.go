package calendar_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/johnie/gmcp-sub000/internal/calendar"
	"github.com/johnie/gmcp-sub000/internal/google"
	"github.com/johnie/gmcp-sub000/internal/server"
	"github.com/johnie/gmcp-sub000/internal/tools/common"
)

const defaultCalendarID = "primary"

// RegisterCalendarTools registers all Calendar tools with the MCP
// server. Destructive tools are only registered when the server
// context has yolo enabled.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list_events",
		mcp.WithDescription("List calendar events within a time range"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Start of the range, RFC 3339 (default: now)"),
		),
		mcp.WithString("timeMax",
			mcp.Description("End of the range, RFC 3339 (default: 7 days from now)"),
		),
		mcp.WithString("query",
			mcp.Description("Free-text search over event fields"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return"),
		),
	)
	addTool(s, sc, listTool, "list", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListEvents(ctx, request, sc)
	})

	getTool := mcp.NewTool("get_event",
		mcp.WithDescription("Get a calendar event by ID"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event"),
		),
	)
	addTool(s, sc, getTool, "get", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetEvent(ctx, request, sc)
	})

	if !sc.Yolo() {
		return nil
	}

	createTool := mcp.NewTool("create_event",
		mcp.WithDescription("Create a calendar event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time, RFC 3339 (or YYYY-MM-DD for all-day events)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time, RFC 3339 (or YYYY-MM-DD for all-day events)"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for the event (default: UTC)"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Create an all-day event"),
		),
		mcp.WithArray("attendees",
			mcp.Description("Attendee email addresses"),
		),
		mcp.WithArray("recurrence",
			mcp.Description("Recurrence rules (RRULE, EXRULE, RDATE, EXDATE)"),
		),
	)
	addTool(s, sc, createTool, "create", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateEvent(ctx, request, sc)
	})

	updateTool := mcp.NewTool("update_event",
		mcp.WithDescription("Update a calendar event; omitted fields keep their current values"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithString("start",
			mcp.Description("New start time, RFC 3339"),
		),
		mcp.WithString("end",
			mcp.Description("New end time, RFC 3339"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for the new times"),
		),
		mcp.WithArray("attendees",
			mcp.Description("Replacement attendee email addresses"),
		),
	)
	addTool(s, sc, updateTool, "update", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUpdateEvent(ctx, request, sc)
	})

	deleteTool := mcp.NewTool("delete_event",
		mcp.WithDescription("Delete a calendar event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)
	addTool(s, sc, deleteTool, "delete", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDeleteEvent(ctx, request, sc)
	})

	return nil
}

func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, operation string, handler common.ToolHandler) {
	s.AddTool(tool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandlerWithService(tool.Name, "calendar", operation, sc, handler)))
}

func calendarClient(sc *server.ServerContext) (*calendar.Client, *mcp.CallToolResult) {
	client, err := sc.CalendarClient()
	if err != nil {
		var missing *google.TokenMissingError
		if errors.As(err, &missing) {
			return nil, mcp.NewToolResultError(fmt.Sprintf(
				"No stored Google token was found (%v). Run 'gmcp auth' once to authorize this machine.", err))
		}
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create Calendar client: %v", err))
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

func calendarID(args map[string]interface{}) string {
	if id, ok := args["calendarId"].(string); ok && id != "" {
		return id
	}
	return defaultCalendarID
}

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

// parseEventTime accepts RFC 3339 timestamps and, for all-day events,
// bare dates.
func parseEventTime(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid time %q, expected RFC 3339 or YYYY-MM-DD", value)
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	timeMin := time.Now()
	if v, ok := args["timeMin"].(string); ok && v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid timeMin: %v", err)), nil
		}
		timeMin = t
	}
	timeMax := timeMin.Add(7 * 24 * time.Hour)
	if v, ok := args["timeMax"].(string); ok && v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid timeMax: %v", err)), nil
		}
		timeMax = t
	}

	query, _ := args["query"].(string)
	var maxResults int64
	if v, ok := args["maxResults"].(float64); ok && v > 0 {
		maxResults = int64(v)
	}

	client, errResult := calendarClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	events, err := client.ListEvents(ctx, calendarID(args), timeMin, timeMax, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No events found in the given range."), nil
	}
	return jsonResult(events)
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, _ := args["eventId"].(string)
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	client, errResult := calendarClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	event, err := client.GetEvent(ctx, calendarID(args), eventID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get event: %v", err)), nil
	}
	return jsonResult(event)
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	summary, _ := args["summary"].(string)
	if summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	startStr, _ := args["start"].(string)
	endStr, _ := args["end"].(string)
	if startStr == "" || endStr == "" {
		return mcp.NewToolResultError("start and end are required"), nil
	}

	start, startAllDay, err := parseEventTime(startStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, _, err := parseEventTime(endStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	allDay, _ := args["allDay"].(bool)
	description, _ := args["description"].(string)
	location, _ := args["location"].(string)
	timeZone, _ := args["timeZone"].(string)

	client, errResult := calendarClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	event, err := client.CreateEvent(ctx, calendarID(args), calendar.EventInput{
		Summary:     summary,
		Description: description,
		Location:    location,
		Start:       start,
		End:         end,
		TimeZone:    timeZone,
		AllDay:      allDay || startAllDay,
		Attendees:   stringSlice(args, "attendees"),
		Recurrence:  stringSlice(args, "recurrence"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event %q created with ID: %s", event.Summary, event.ID)), nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, _ := args["eventId"].(string)
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	input := calendar.EventInput{}
	input.Summary, _ = args["summary"].(string)
	input.Description, _ = args["description"].(string)
	input.Location, _ = args["location"].(string)
	input.TimeZone, _ = args["timeZone"].(string)
	input.Attendees = stringSlice(args, "attendees")

	startStr, _ := args["start"].(string)
	endStr, _ := args["end"].(string)
	if (startStr == "") != (endStr == "") {
		return mcp.NewToolResultError("start and end must be provided together"), nil
	}
	if startStr != "" {
		start, allDay, err := parseEventTime(startStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, _, err := parseEventTime(endStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		input.Start, input.End, input.AllDay = start, end, allDay
	}

	client, errResult := calendarClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	event, err := client.UpdateEvent(ctx, calendarID(args), eventID, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update event: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event %s updated", event.ID)), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, _ := args["eventId"].(string)
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	client, errResult := calendarClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.DeleteEvent(ctx, calendarID(args), eventID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted", eventID)), nil
}
