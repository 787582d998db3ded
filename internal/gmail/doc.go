// Package gmail wraps the Gmail REST API behind normalized record
// types: messages, labels, and attachments with provider quirks
// (base64url bodies, nested MIME trees, inconsistent headers) already
// resolved.
//
// The Search method is the main retrieval path: one list call followed
// by rate-limited, windowed concurrent detail fetches that preserve
// result order.
package gmail
