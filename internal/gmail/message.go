package gmail

import (
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// Placeholders substituted for absent message headers.
const (
	noSubjectPlaceholder = "(no subject)"
	unknownPlaceholder   = "(unknown)"
)

// HeaderValue returns the first header with the given name, matched
// case-insensitively because providers are inconsistent about header
// capitalization. Returns "" when absent.
func HeaderValue(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// ParseMessage converts a raw provider message into the normalized
// record. The body is extracted only when includeBody is set; a nil
// Body means "not fetched", never "empty".
func ParseMessage(raw *gmail.Message, includeBody bool) Message {
	m := Message{
		ID:       raw.Id,
		ThreadID: raw.ThreadId,
		Snippet:  raw.Snippet,
		Labels:   raw.LabelIds,
		Subject:  noSubjectPlaceholder,
		From:     unknownPlaceholder,
		To:       unknownPlaceholder,
	}
	if v := HeaderValue(raw, "Subject"); v != "" {
		m.Subject = v
	}
	if v := HeaderValue(raw, "From"); v != "" {
		m.From = v
	}
	if v := HeaderValue(raw, "To"); v != "" {
		m.To = v
	}
	m.Date = HeaderValue(raw, "Date")

	if includeBody {
		body := ExtractBody(raw.Payload)
		m.Body = &body
	}
	return m
}

// ParseLabel converts a raw label from a list response. Labels default
// to the user type unless the provider says exactly "system". Count
// fields stay nil: list responses do not report them.
func ParseLabel(raw *gmail.Label) Label {
	l := Label{
		ID:                    raw.Id,
		Name:                  raw.Name,
		Type:                  LabelTypeUser,
		MessageListVisibility: raw.MessageListVisibility,
		LabelListVisibility:   raw.LabelListVisibility,
	}
	if raw.Type == LabelTypeSystem {
		l.Type = LabelTypeSystem
	}
	if raw.Color != nil {
		l.Color = &LabelColor{
			TextColor:       raw.Color.TextColor,
			BackgroundColor: raw.Color.BackgroundColor,
		}
	}
	return l
}

// ParseLabelDetails converts a raw label from a get response, which
// additionally reports message and thread counts.
func ParseLabelDetails(raw *gmail.Label) Label {
	l := ParseLabel(raw)
	messagesTotal, messagesUnread := raw.MessagesTotal, raw.MessagesUnread
	threadsTotal, threadsUnread := raw.ThreadsTotal, raw.ThreadsUnread
	l.MessagesTotal = &messagesTotal
	l.MessagesUnread = &messagesUnread
	l.ThreadsTotal = &threadsTotal
	l.ThreadsUnread = &threadsUnread
	return l
}

// crlf is the line terminator RFC 2822 requires; Gmail's parser is
// strict about it.
const crlf = "\r\n"

// BuildMIMEMessage renders an outgoing message in RFC 2822 form. The
// header order (To, Cc, Bcc, Subject, In-Reply-To, References,
// Content-Type) is fixed: provider parsers are strict about this
// wire format.
func BuildMIMEMessage(msg OutgoingMessage) string {
	contentType := msg.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}

	var b strings.Builder
	b.WriteString("To: " + strings.Join(msg.To, ", ") + crlf)
	if len(msg.Cc) > 0 {
		b.WriteString("Cc: " + strings.Join(msg.Cc, ", ") + crlf)
	}
	if len(msg.Bcc) > 0 {
		b.WriteString("Bcc: " + strings.Join(msg.Bcc, ", ") + crlf)
	}
	b.WriteString("Subject: " + encodeRFC2047(msg.Subject) + crlf)
	if msg.InReplyTo != "" {
		b.WriteString("In-Reply-To: " + msg.InReplyTo + crlf)
	}
	if msg.References != "" {
		b.WriteString("References: " + msg.References + crlf)
	}
	b.WriteString("Content-Type: " + contentType + `; charset="UTF-8"` + crlf)
	b.WriteString(crlf)
	b.WriteString(msg.Body)
	return b.String()
}

// encodeRFC2047 encodes a header value per RFC 2047 when it contains
// non-ASCII characters (umlauts and the like); ASCII passes through
// untouched.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
