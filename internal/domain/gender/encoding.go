package gender

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingByName resolves a WHATWG encoding label such as "utf-8",
// "iso-8859-1" or "windows-1252".
func EncodingByName(name string) (encoding.Encoding, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// Decode converts raw bytes in enc to UTF-8. A leading byte order mark is
// honored and stripped. Bytes that do not map to a character under enc
// yield ErrEncoding.
func Decode(raw []byte, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		enc = unicode.UTF8
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	// x/text decoders substitute U+FFFD for invalid input instead of failing.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return nil, ErrEncoding
	}
	return out, nil
}
