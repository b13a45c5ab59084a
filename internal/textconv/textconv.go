// Package textconv converts between page encodings and the single-byte
// charset the tag index is stored in.
package textconv

import (
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// IndexCharset is the encoding of stored tag text (Latin-9).
var IndexCharset = charmap.ISO8859_15

// ToIndexCharset encodes UTF-8 text to the index charset. Runes with no
// Latin-9 form are replaced by the charset's substitution byte.
func ToIndexCharset(s string) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(IndexCharset.NewEncoder())
	return enc.Bytes([]byte(s))
}

// FromIndexCharset decodes stored tag bytes back to UTF-8.
func FromIndexCharset(b []byte) (string, error) {
	out, err := IndexCharset.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeBody converts a fetched body to UTF-8 using the Content-Type header
// and any <meta charset> in the first bytes of data.
func DecodeBody(data []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return "", err
		}
		utf8data = data
	}
	return string(utf8data), nil
}
