package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/johnie/gmcp-sub000/internal/google"
)

// APIError wraps a provider failure with the operation that caused it.
type APIError struct {
	Operation string
	Err       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar %s: %v", e.Operation, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

func apiErr(operation string, err error) *APIError {
	return &APIError{Operation: operation, Err: err}
}

// Client wraps the Calendar service for one session.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client over the session's authorized
// transport.
func NewClient(ctx context.Context, session *google.Session) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(session.HTTPClient(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return newClient(svc), nil
}

func newClient(svc *calendar.Service) *Client {
	return &Client{svc: svc}
}

// ListEvents lists events in a calendar within a time range, expanded
// to single events and ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string, maxResults int64) ([]EventSummary, error) {
	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	if query != "" {
		call = call.Q(query)
	}
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	events, err := call.Do()
	if err != nil {
		return nil, apiErr("list events", err)
	}

	summaries := make([]EventSummary, 0, len(events.Items))
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}
	return summaries, nil
}

// GetEvent retrieves a specific event by ID.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*EventSummary, error) {
	event, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, apiErr("get event "+eventID, err)
	}
	summary := toEventSummary(event)
	return &summary, nil
}

// CreateEvent creates a new calendar event.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	if input.Summary == "" {
		return nil, fmt.Errorf("summary is required")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, fmt.Errorf("start and end times are required")
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Recurrence:  input.Recurrence,
	}
	event.Start, event.End = eventTimes(input)
	if len(input.Attendees) > 0 {
		event.Attendees = toAttendees(input.Attendees)
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, apiErr("create event", err)
	}
	summary := toEventSummary(created)
	return &summary, nil
}

// UpdateEvent patches an existing event. Only fields set on the input
// are changed; the rest of the event is preserved.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, input EventInput) (*EventSummary, error) {
	existing, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, apiErr("get event "+eventID, err)
	}

	if input.Summary != "" {
		existing.Summary = input.Summary
	}
	if input.Description != "" {
		existing.Description = input.Description
	}
	if input.Location != "" {
		existing.Location = input.Location
	}
	if !input.Start.IsZero() && !input.End.IsZero() {
		existing.Start, existing.End = eventTimes(input)
	}
	if len(input.Attendees) > 0 {
		existing.Attendees = toAttendees(input.Attendees)
	}
	if len(input.Recurrence) > 0 {
		existing.Recurrence = input.Recurrence
	}

	updated, err := c.svc.Events.Update(calendarID, eventID, existing).Context(ctx).Do()
	if err != nil {
		return nil, apiErr("update event "+eventID, err)
	}
	summary := toEventSummary(updated)
	return &summary, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return apiErr("delete event "+eventID, err)
	}
	return nil
}
