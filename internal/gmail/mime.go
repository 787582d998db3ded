package gmail

import (
	gmail "google.golang.org/api/gmail/v1"

	"github.com/johnie/gmcp-sub000/internal/codec"
)

// NoBodySentinel is returned by ExtractBody when a message carries no
// extractable body anywhere in its MIME tree. Callers and tests match
// on this exact string.
const NoBodySentinel = "(no body)"

// Provider trees cannot be cyclic, but a depth cap keeps a hostile or
// broken response from exhausting the stack.
const maxPartDepth = 100

// findBody searches the MIME tree depth-first in pre-order for the
// first part whose mime type matches exactly, checking each node
// before descending into its parts and visiting sibling subtrees in
// array order. Returns the decoded content, or "" when no part with
// data matches.
func findBody(part *gmail.MessagePart, mimeType string, depth int) string {
	if part == nil || depth > maxPartDepth {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return codec.Decode(part.Body.Data)
	}
	for _, sub := range part.Parts {
		if body := findBody(sub, mimeType, depth+1); body != "" {
			return body
		}
	}
	return ""
}

// ExtractBody pulls a displayable body out of a message payload.
// Plain text is preferred over HTML so downstream text processing gets
// clean input; a payload with inline data and no parts is decoded
// directly; NoBodySentinel covers everything else. The tier order is
// part of the contract with the tool layer.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return NoBodySentinel
	}
	if body := findBody(payload, "text/plain", 0); body != "" {
		return body
	}
	if body := findBody(payload, "text/html", 0); body != "" {
		return body
	}
	if len(payload.Parts) == 0 && payload.Body != nil && payload.Body.Data != "" {
		return codec.Decode(payload.Body.Data)
	}
	return NoBodySentinel
}

// ExtractAttachments walks the full MIME tree and collects every part
// that identifies an attachment, in document order. Unlike body
// extraction this does not stop at the first hit.
func ExtractAttachments(payload *gmail.MessagePart) []Attachment {
	var attachments []Attachment
	collectAttachments(payload, 0, &attachments)
	return attachments
}

func collectAttachments(part *gmail.MessagePart, depth int, out *[]Attachment) {
	if part == nil || depth > maxPartDepth {
		return
	}
	if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
		*out = append(*out, Attachment{
			Filename:     part.Filename,
			MimeType:     part.MimeType,
			Size:         part.Body.Size,
			AttachmentID: part.Body.AttachmentId,
		})
	}
	for _, sub := range part.Parts {
		collectAttachments(sub, depth+1, out)
	}
}
