package gmail

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/johnie/gmcp-sub000/internal/codec"
	"github.com/johnie/gmcp-sub000/internal/google"
)

const (
	// MaxAttachmentSize caps attachment downloads at 25MB.
	MaxAttachmentSize = 25 * 1024 * 1024

	// detailFetchRate bounds per-message detail fetches; Gmail's
	// per-user quota is 250 units/s and a full get costs 5.
	detailFetchRate = rate.Limit(25)
)

// APIError wraps a provider failure with the operation that caused it,
// so the tool layer can render a useful message.
type APIError struct {
	Operation string
	Err       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gmail %s: %v", e.Operation, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

func apiErr(operation string, err error) *APIError {
	return &APIError{Operation: operation, Err: err}
}

// Client wraps the Gmail Users service for one session.
type Client struct {
	svc     *gmail.UsersService
	limiter *rate.Limiter
}

// NewClient creates a Gmail client over the session's authorized
// transport.
func NewClient(ctx context.Context, session *google.Session) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(session.HTTPClient(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return newClient(svc), nil
}

func newClient(svc *gmail.Service) *Client {
	return &Client{
		svc:     svc.Users,
		limiter: rate.NewLimiter(detailFetchRate, fetchWindowSize),
	}
}

// GetMessage retrieves a full message and maps it to the normalized
// record, body included.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	raw, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, apiErr("get message "+messageID, err)
	}
	msg := ParseMessage(raw, true)
	return &msg, nil
}

// GetThread retrieves a thread and maps its messages in thread order,
// bodies included.
func (c *Client) GetThread(ctx context.Context, threadID string) ([]Message, error) {
	raw, err := c.svc.Threads.Get("me", threadID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, apiErr("get thread "+threadID, err)
	}
	messages := make([]Message, 0, len(raw.Messages))
	for _, m := range raw.Messages {
		messages = append(messages, ParseMessage(m, true))
	}
	return messages, nil
}

// SendMessage builds the RFC 2822 message, base64url-encodes it, and
// sends it. Returns the new message ID.
func (c *Client) SendMessage(ctx context.Context, msg OutgoingMessage) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	raw := &gmail.Message{
		Raw:      codec.Encode(BuildMIMEMessage(msg)),
		ThreadId: msg.ThreadID,
	}
	sent, err := c.svc.Messages.Send("me", raw).Context(ctx).Do()
	if err != nil {
		return "", apiErr("send message", err)
	}
	return sent.Id, nil
}

// ReplyToMessage sends a reply to an existing message, carrying the
// threading headers (In-Reply-To, References) so mail clients keep the
// conversation together.
func (c *Client) ReplyToMessage(ctx context.Context, messageID, body, contentType string, cc, bcc []string) (string, error) {
	if messageID == "" {
		return "", fmt.Errorf("messageID is required")
	}
	if body == "" {
		return "", fmt.Errorf("body is required")
	}

	orig, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return "", apiErr("get message "+messageID, err)
	}

	from := HeaderValue(orig, "From")
	if from == "" {
		return "", fmt.Errorf("original message %s has no From header", messageID)
	}

	subject := HeaderValue(orig, "Subject")
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	origMessageID := HeaderValue(orig, "Message-ID")
	references := HeaderValue(orig, "References")
	if references != "" && origMessageID != "" {
		references += " " + origMessageID
	} else if origMessageID != "" {
		references = origMessageID
	}

	return c.SendMessage(ctx, OutgoingMessage{
		To:          []string{from},
		Cc:          cc,
		Bcc:         bcc,
		Subject:     subject,
		Body:        body,
		ContentType: contentType,
		InReplyTo:   origMessageID,
		References:  references,
		ThreadID:    orig.ThreadId,
	})
}

// ModifyMessage adds and removes labels on a message.
func (c *Client) ModifyMessage(ctx context.Context, messageID string, addLabels, removeLabels []string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds:    addLabels,
		RemoveLabelIds: removeLabels,
	}).Context(ctx).Do()
	if err != nil {
		return apiErr("modify message "+messageID, err)
	}
	return nil
}

// TrashMessage moves a message to the trash.
func (c *Client) TrashMessage(ctx context.Context, messageID string) error {
	if _, err := c.svc.Messages.Trash("me", messageID).Context(ctx).Do(); err != nil {
		return apiErr("trash message "+messageID, err)
	}
	return nil
}

// ListLabels lists all labels of the mailbox.
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	res, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, apiErr("list labels", err)
	}
	labels := make([]Label, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, ParseLabel(l))
	}
	return labels, nil
}

// GetLabel retrieves one label with its message and thread counts.
func (c *Client) GetLabel(ctx context.Context, labelID string) (*Label, error) {
	raw, err := c.svc.Labels.Get("me", labelID).Context(ctx).Do()
	if err != nil {
		return nil, apiErr("get label "+labelID, err)
	}
	label := ParseLabelDetails(raw)
	return &label, nil
}

// CreateLabel creates a user label.
func (c *Client) CreateLabel(ctx context.Context, name string) (*Label, error) {
	raw, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		MessageListVisibility: "show",
		LabelListVisibility:   "labelShow",
	}).Context(ctx).Do()
	if err != nil {
		return nil, apiErr("create label "+name, err)
	}
	label := ParseLabel(raw)
	return &label, nil
}

// DeleteLabel deletes a user label.
func (c *Client) DeleteLabel(ctx context.Context, labelID string) error {
	if err := c.svc.Labels.Delete("me", labelID).Context(ctx).Do(); err != nil {
		return apiErr("delete label "+labelID, err)
	}
	return nil
}

// ListAttachments extracts attachment metadata from a message.
func (c *Client) ListAttachments(ctx context.Context, messageID string) ([]Attachment, error) {
	raw, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, apiErr("get message "+messageID, err)
	}
	return ExtractAttachments(raw.Payload), nil
}

// GetAttachment fetches and decodes one attachment's content.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	att, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, apiErr("get attachment "+attachmentID, err)
	}
	if att.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum %d", att.Size, MaxAttachmentSize)
	}

	data, err := codec.DecodeBytes(att.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment %s: %w", attachmentID, err)
	}
	return data, nil
}

// SanitizeFilename strips path separators from a provider-supplied
// filename before it is used on the local filesystem.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
