// Package codec implements the base64url codec used for Gmail wire
// payloads: message bodies, attachments, and outgoing raw messages.
//
// Decoding is deliberately tolerant. Gmail is inconsistent about
// padding and occasionally serves standard-alphabet base64, and a
// single corrupt MIME part must never abort a whole message fetch.
package codec

import (
	"encoding/base64"
	"strings"
)

// DecodeFailedPlaceholder is returned by Decode for input that cannot
// be decoded under any accepted base64 variant. Callers and tests
// match on this exact string.
const DecodeFailedPlaceholder = "(unable to decode body)"

// Encode encodes s as base64url: URL-safe alphabet, padding stripped.
// This is the encoding Gmail expects for the raw field of outgoing
// messages.
func Encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// Decode decodes a base64url payload into text. Malformed input yields
// DecodeFailedPlaceholder rather than an error.
func Decode(s string) string {
	b, err := DecodeBytes(s)
	if err != nil {
		return DecodeFailedPlaceholder
	}
	return string(b)
}

// DecodeBytes is the strict variant used for attachment content, where
// silently substituting a placeholder would corrupt binary data.
// It accepts base64url with or without padding, falling back to
// standard base64 for payloads Gmail serves with the "+/" alphabet.
func DecodeBytes(s string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "=")); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
