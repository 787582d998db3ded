// Package calendar wraps the Google Calendar REST API behind
// simplified event types. Events are exposed as flat summaries with
// start and end resolved to time.Time, whether the provider reported
// a timed or an all-day event.
package calendar
