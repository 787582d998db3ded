package codec

import (
	"encoding/base64"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "ascii", text: "hello, world"},
		{name: "multiline", text: "line one\r\nline two\r\n"},
		{name: "utf8", text: "grüße aus köln ✉"},
		{name: "url unsafe bytes", text: "\xff\xfe?>~~"},
		{name: "json-ish", text: `{"subject":"Re: hi","body":"a+b/c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(Encode(tt.text)); got != tt.text {
				t.Errorf("Decode(Encode(%q)) = %q, want %q", tt.text, got, tt.text)
			}
		})
	}
}

func TestEncodeIsURLSafe(t *testing.T) {
	// Bytes that produce '+' and '/' under standard base64.
	encoded := Encode("\xfb\xff\xbf>>>???")
	for _, c := range encoded {
		if c == '+' || c == '/' || c == '=' {
			t.Fatalf("Encode produced non-url-safe character %q in %q", c, encoded)
		}
	}
}

func TestDecodeTolerance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unpadded url-safe",
			input: base64.RawURLEncoding.EncodeToString([]byte("plain body")),
			want:  "plain body",
		},
		{
			name:  "padded url-safe",
			input: base64.URLEncoding.EncodeToString([]byte("padded body")),
			want:  "padded body",
		},
		{
			name:  "standard alphabet",
			input: base64.StdEncoding.EncodeToString([]byte("\xfb\xff\xbf body")),
			want:  "\xfb\xff\xbf body",
		},
		{
			name:  "garbage does not panic",
			input: "!!!invalid!!!",
			want:  DecodeFailedPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.input); got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeBytesRejectsGarbage(t *testing.T) {
	if _, err := DecodeBytes("!!!invalid!!!"); err == nil {
		t.Error("DecodeBytes() expected error for invalid input, got nil")
	}
}
