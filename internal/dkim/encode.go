package dkim

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const upperHex = "0123456789ABCDEF"

// QuotedPrintable encodes s for use as a value inside a DKIM-Signature tag
// list. Every byte outside printable ASCII is written as =XX, and so are '=',
// ';' and space, which are significant in the tag-list syntax. No soft line
// breaks are inserted.
//
// s must be valid UTF-8; otherwise ErrEncoding is returned. An empty result
// with a nil error is the encoding of the empty string.
func QuotedPrintable(s string) (string, error) {
	raw, _, err := transform.String(encoding.UTF8Validator, s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return quote(raw), nil
}

// QuotedPrintableCharset transcodes s into the named charset before quoting
// it. Charset names are resolved with the WHATWG encoding index, e.g.
// "utf-8", "windows-1252" or "iso-8859-2".
func QuotedPrintableCharset(s, charset string) (string, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("%w: charset %q: %w", ErrEncoding, charset, err)
	}
	raw, err := enc.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("%w: transcoding to %s: %w", ErrEncoding, charset, err)
	}
	return quote(raw), nil
}

// quote applies DKIM-Quoted-Printable (RFC 6376 section 2.11) to raw bytes.
func quote(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('=')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

// isSafe reports whether c may appear literally: printable ASCII except
// '=' and ';'. Space is not printable in this sense.
func isSafe(c byte) bool {
	return c > ' ' && c < 0x7f && c != '=' && c != ';'
}

// Base64 encodes b with the standard alphabet and no line breaks.
func Base64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
