package gmail

// Message is the normalized representation of a Gmail message handed
// to the tool layer. Body is nil when the caller did not ask for it;
// a fetched-but-empty body is a non-nil pointer to the "(no body)"
// sentinel, so absence and emptiness stay distinguishable.
type Message struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	Subject  string   `json:"subject"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Date     string   `json:"date"`
	Snippet  string   `json:"snippet"`
	Body     *string  `json:"body,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

// Label types as reported to the tool layer.
const (
	LabelTypeSystem = "system"
	LabelTypeUser   = "user"
)

// Label is the normalized representation of a Gmail label. Count
// fields are pointers: nil means the provider did not report them
// (list responses omit counts), which consumers must distinguish from
// a reported zero.
type Label struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Type                  string      `json:"type"`
	MessageListVisibility string      `json:"messageListVisibility,omitempty"`
	LabelListVisibility   string      `json:"labelListVisibility,omitempty"`
	MessagesTotal         *int64      `json:"messagesTotal,omitempty"`
	MessagesUnread        *int64      `json:"messagesUnread,omitempty"`
	ThreadsTotal          *int64      `json:"threadsTotal,omitempty"`
	ThreadsUnread         *int64      `json:"threadsUnread,omitempty"`
	Color                 *LabelColor `json:"color,omitempty"`
}

// LabelColor carries the optional label color pair.
type LabelColor struct {
	TextColor       string `json:"textColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// Attachment identifies an attachment without carrying its content;
// content is fetched separately by attachment ID.
type Attachment struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	AttachmentID string `json:"attachmentId"`
}

// SearchPage is one page of search results. HasMore is true exactly
// when NextPageToken is set; the token is provider-issued and opaque.
type SearchPage struct {
	Emails        []Message `json:"emails"`
	TotalEstimate int64     `json:"total_estimate"`
	HasMore       bool      `json:"has_more"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

// OutgoingMessage describes a message to be sent. ContentType selects
// text/plain or text/html; InReplyTo and References carry threading
// headers when replying.
type OutgoingMessage struct {
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string
	ContentType string
	InReplyTo   string
	References  string
	ThreadID    string
}
