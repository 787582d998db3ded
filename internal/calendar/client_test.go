package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(ts.URL),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return newClient(svc)
}

func TestToEventSummaryTimedEvent(t *testing.T) {
	summary := toEventSummary(&calendar.Event{
		Id:          "ev-1",
		Summary:     "Standup",
		Description: "daily sync",
		Location:    "Room 1",
		Status:      "confirmed",
		Start:       &calendar.EventDateTime{DateTime: "2026-03-02T09:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2026-03-02T09:15:00Z"},
		Creator:     &calendar.EventCreator{Email: "alice@example.com"},
		Organizer:   &calendar.EventOrganizer{Email: "bob@example.com"},
		Attendees: []*calendar.EventAttendee{
			{Email: "carol@example.com", ResponseStatus: "accepted", Organizer: false},
		},
	})

	assert.Equal(t, "ev-1", summary.ID)
	assert.Equal(t, "Standup", summary.Summary)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), summary.Start)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC), summary.End)
	assert.Equal(t, "alice@example.com", summary.Creator)
	assert.Equal(t, "bob@example.com", summary.Organizer)
	require.Len(t, summary.Attendees, 1)
	assert.Equal(t, "accepted", summary.Attendees[0].ResponseStatus)
}

func TestToEventSummaryAllDayEvent(t *testing.T) {
	summary := toEventSummary(&calendar.Event{
		Id:    "ev-2",
		Start: &calendar.EventDateTime{Date: "2026-03-02"},
		End:   &calendar.EventDateTime{Date: "2026-03-03"},
	})

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), summary.Start)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), summary.End)
}

func TestToEventSummaryUnparseableTimes(t *testing.T) {
	summary := toEventSummary(&calendar.Event{
		Id:    "ev-3",
		Start: &calendar.EventDateTime{DateTime: "not a timestamp"},
	})

	assert.True(t, summary.Start.IsZero())
	assert.True(t, summary.End.IsZero())
}

func TestEventTimes(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	s, e := eventTimes(EventInput{Start: start, End: end})
	assert.Equal(t, "2026-03-02T09:00:00Z", s.DateTime)
	assert.Equal(t, "UTC", s.TimeZone)
	assert.Equal(t, "2026-03-02T10:00:00Z", e.DateTime)

	s, e = eventTimes(EventInput{Start: start, End: end, AllDay: true})
	assert.Equal(t, "2026-03-02", s.Date)
	assert.Empty(t, s.DateTime)
	assert.Equal(t, "2026-03-02", e.Date)

	s, _ = eventTimes(EventInput{Start: start, End: end, TimeZone: "Europe/Berlin"})
	assert.Equal(t, "Europe/Berlin", s.TimeZone)
}

func TestListEvents(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		assert.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
		assert.Equal(t, "standup", r.URL.Query().Get("q"))

		json.NewEncoder(w).Encode(calendar.Events{
			Items: []*calendar.Event{
				{Id: "ev-1", Summary: "first"},
				{Id: "ev-2", Summary: "second"},
			},
		})
	}))

	events, err := c.ListEvents(context.Background(), "primary",
		time.Now(), time.Now().Add(24*time.Hour), "standup", 10)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, "second", events[1].Summary)
}

func TestCreateEventValidation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := c.CreateEvent(context.Background(), "primary", EventInput{
		Start: time.Now(), End: time.Now().Add(time.Hour),
	})
	assert.ErrorContains(t, err, "summary")

	_, err = c.CreateEvent(context.Background(), "primary", EventInput{Summary: "x"})
	assert.ErrorContains(t, err, "start and end")
}

func TestCreateEvent(t *testing.T) {
	var posted calendar.Event
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		posted.Id = "ev-new"
		json.NewEncoder(w).Encode(posted)
	}))

	summary, err := c.CreateEvent(context.Background(), "primary", EventInput{
		Summary:   "Planning",
		Start:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Attendees: []string{"alice@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ev-new", summary.ID)
	assert.Equal(t, "Planning", posted.Summary)
	require.Len(t, posted.Attendees, 1)
	assert.Equal(t, "alice@example.com", posted.Attendees[0].Email)
}

func TestDeleteEventWrapsError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404}}`, http.StatusNotFound)
	}))

	err := c.DeleteEvent(context.Background(), "primary", "missing")
	require.Error(t, err)

	var apiError *APIError
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, "delete event missing", apiError.Operation)
}
