package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventInput carries the fields for creating or updating an event.
// On update, zero-valued fields leave the existing value untouched.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	AllDay      bool
	Attendees   []string
	Recurrence  []string // RRULE, EXRULE, RDATE, EXDATE
}

// EventSummary is the simplified event record handed to the tool
// layer.
type EventSummary struct {
	ID          string         `json:"id"`
	Summary     string         `json:"summary"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Creator     string         `json:"creator,omitempty"`
	Organizer   string         `json:"organizer,omitempty"`
	Status      string         `json:"status,omitempty"`
	Attendees   []AttendeeInfo `json:"attendees,omitempty"`
}

// AttendeeInfo describes one event attendee.
type AttendeeInfo struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"` // "needsAction", "declined", "tentative", "accepted"
	Optional       bool   `json:"optional,omitempty"`
	Organizer      bool   `json:"organizer,omitempty"`
}

const allDayFormat = "2006-01-02"

// toEventSummary flattens a provider event. Unparseable times are left
// at the zero value rather than failing the whole listing.
func toEventSummary(event *calendar.Event) EventSummary {
	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
	}

	summary.Start = parseEventTime(event.Start)
	summary.End = parseEventTime(event.End)

	if event.Creator != nil {
		summary.Creator = event.Creator.Email
	}
	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	for _, att := range event.Attendees {
		summary.Attendees = append(summary.Attendees, AttendeeInfo{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: att.ResponseStatus,
			Optional:       att.Optional,
			Organizer:      att.Organizer,
		})
	}

	return summary
}

func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
		return time.Time{}
	}
	if edt.Date != "" {
		if t, err := time.Parse(allDayFormat, edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// eventTimes renders the input's start and end in provider form, as
// all-day dates or zoned timestamps.
func eventTimes(input EventInput) (start, end *calendar.EventDateTime) {
	if input.AllDay {
		return &calendar.EventDateTime{Date: input.Start.Format(allDayFormat)},
			&calendar.EventDateTime{Date: input.End.Format(allDayFormat)}
	}
	tz := input.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	return &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339), TimeZone: tz},
		&calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339), TimeZone: tz}
}

func toAttendees(emails []string) []*calendar.EventAttendee {
	attendees := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	return attendees
}
