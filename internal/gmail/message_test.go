package gmail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/johnie/gmcp-sub000/internal/codec"
)

func rawMessage(headers map[string]string) *gmail.Message {
	payload := &gmail.MessagePart{}
	for name, value := range headers {
		payload.Headers = append(payload.Headers, &gmail.MessagePartHeader{Name: name, Value: value})
	}
	return &gmail.Message{
		Id:       "msg-1",
		ThreadId: "thread-1",
		Snippet:  "a snippet",
		LabelIds: []string{"INBOX", "UNREAD"},
		Payload:  payload,
	}
}

func TestParseMessageHeaders(t *testing.T) {
	msg := ParseMessage(rawMessage(map[string]string{
		"Subject": "Quarterly report",
		"From":    "alice@example.com",
		"To":      "bob@example.com",
		"Date":    "Mon, 2 Jan 2006 15:04:05 -0700",
	}), false)

	assert.Equal(t, "msg-1", msg.ID)
	assert.Equal(t, "thread-1", msg.ThreadID)
	assert.Equal(t, "Quarterly report", msg.Subject)
	assert.Equal(t, "alice@example.com", msg.From)
	assert.Equal(t, "bob@example.com", msg.To)
	assert.Equal(t, "Mon, 2 Jan 2006 15:04:05 -0700", msg.Date)
	assert.Equal(t, "a snippet", msg.Snippet)
	assert.Equal(t, []string{"INBOX", "UNREAD"}, msg.Labels)
}

func TestParseMessageHeaderCaseInsensitive(t *testing.T) {
	msg := ParseMessage(rawMessage(map[string]string{
		"subject": "lowercase header",
		"FROM":    "shouty@example.com",
	}), false)

	assert.Equal(t, "lowercase header", msg.Subject)
	assert.Equal(t, "shouty@example.com", msg.From)
}

func TestParseMessageMissingHeaderPlaceholders(t *testing.T) {
	msg := ParseMessage(rawMessage(nil), false)

	assert.Equal(t, "(no subject)", msg.Subject)
	assert.Equal(t, "(unknown)", msg.From)
	assert.Equal(t, "(unknown)", msg.To)
	assert.Equal(t, "", msg.Date)
}

func TestParseMessageBodyOnlyWhenRequested(t *testing.T) {
	raw := rawMessage(nil)
	raw.Payload.MimeType = "text/plain"
	raw.Payload.Body = &gmail.MessagePartBody{Data: codec.Encode("the body")}

	withoutBody := ParseMessage(raw, false)
	assert.Nil(t, withoutBody.Body)

	withBody := ParseMessage(raw, true)
	require.NotNil(t, withBody.Body)
	assert.Equal(t, "the body", *withBody.Body)
}

func TestParseMessageBodySentinelIsNotNil(t *testing.T) {
	msg := ParseMessage(rawMessage(nil), true)
	require.NotNil(t, msg.Body)
	assert.Equal(t, NoBodySentinel, *msg.Body)
}

func TestParseLabelDefaultsToUserType(t *testing.T) {
	l := ParseLabel(&gmail.Label{Id: "Label_1", Name: "work", Type: "weird"})
	assert.Equal(t, LabelTypeUser, l.Type)
	assert.Nil(t, l.MessagesTotal)
	assert.Nil(t, l.ThreadsUnread)

	sys := ParseLabel(&gmail.Label{Id: "INBOX", Name: "INBOX", Type: "system"})
	assert.Equal(t, LabelTypeSystem, sys.Type)
}

func TestParseLabelDetailsReportsCounts(t *testing.T) {
	l := ParseLabelDetails(&gmail.Label{
		Id:             "Label_1",
		Name:           "work",
		MessagesTotal:  42,
		MessagesUnread: 0,
		ThreadsTotal:   10,
		ThreadsUnread:  3,
	})

	require.NotNil(t, l.MessagesTotal)
	assert.Equal(t, int64(42), *l.MessagesTotal)
	require.NotNil(t, l.MessagesUnread)
	assert.Equal(t, int64(0), *l.MessagesUnread)
	require.NotNil(t, l.ThreadsTotal)
	assert.Equal(t, int64(10), *l.ThreadsTotal)
	require.NotNil(t, l.ThreadsUnread)
	assert.Equal(t, int64(3), *l.ThreadsUnread)
}

func TestBuildMIMEMessage(t *testing.T) {
	raw := BuildMIMEMessage(OutgoingMessage{
		To:      []string{"a@example.com", "b@example.com"},
		Cc:      []string{"c@example.com"},
		Subject: "Hello",
		Body:    "line one\nline two",
	})

	lines := strings.Split(raw, "\r\n")
	assert.Equal(t, []string{
		"To: a@example.com, b@example.com",
		"Cc: c@example.com",
		"Subject: Hello",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		"line one\nline two",
	}, lines)
}

func TestBuildMIMEMessageThreadingHeaders(t *testing.T) {
	raw := BuildMIMEMessage(OutgoingMessage{
		To:          []string{"a@example.com"},
		Subject:     "Re: Hello",
		Body:        "reply",
		ContentType: "text/html",
		InReplyTo:   "<orig@example.com>",
		References:  "<root@example.com> <orig@example.com>",
	})

	assert.Contains(t, raw, "In-Reply-To: <orig@example.com>\r\n")
	assert.Contains(t, raw, "References: <root@example.com> <orig@example.com>\r\n")
	assert.Contains(t, raw, `Content-Type: text/html; charset="UTF-8"`+"\r\n")
}

func TestBuildMIMEMessageEncodesNonASCIISubject(t *testing.T) {
	raw := BuildMIMEMessage(OutgoingMessage{
		To:      []string{"a@example.com"},
		Subject: "Grüße aus München",
		Body:    "hi",
	})

	assert.Contains(t, raw, "Subject: =?UTF-8?")
	assert.NotContains(t, raw, "Subject: Grüße")
}
