package xml

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// declaredEncodingRe is a cheap, tolerant scan for encoding="..." inside a
// leading "<?xml ... ?>" declaration — run before the real parser even
// sees the bytes, since the real parser only ever operates on an
// already-UTF-8 Go string (§6 "Input: a UTF-8 XML 1.0 source string").
var declaredEncodingRe = regexp.MustCompile(`(?i)encoding\s*=\s*["']([^"']+)["']`)

// ParseBytes decodes data to UTF-8 per the encoding named in its XML
// declaration (input with no declared encoding is taken as UTF-8) —
// generalizing the teacher's hand-rolled windows1252Table/latin1Reader
// (util.go) to the full charset.Reader table from golang.org/x/net — then
// parses the result with Parse. This is the entry point for real-world
// files, which may not be UTF-8; Parse itself always takes an
// already-decoded Go string.
func ParseBytes(data []byte, opts ...ParseOption) (*Document, error) {
	text, err := decodeToUTF8(data)
	if err != nil {
		return nil, err
	}
	return Parse(text, opts...)
}

func decodeToUTF8(data []byte) (string, error) {
	enc := ""
	if strings.HasPrefix(strings.TrimSpace(string(data)), "<?xml") {
		if m := declaredEncodingRe.FindSubmatch(firstLine(data)); m != nil {
			enc = string(m[1])
		}
	}

	if enc == "" || strings.EqualFold(enc, "utf-8") || strings.EqualFold(enc, "us-ascii") {
		return string(data), nil
	}

	r, err := charsetNewReader(enc, data)
	if err != nil {
		return string(data), nil
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", newParseError(UnexpectedEOF, 0, fmt.Sprintf("failed transcoding declared encoding %q: %s", enc, err))
	}
	return string(out), nil
}

func charsetNewReader(enc string, data []byte) (io.Reader, error) {
	e, _ := charset.Lookup(enc)
	if e == nil {
		return strings.NewReader(string(data)), nil
	}
	return e.NewDecoder().Reader(strings.NewReader(string(data))), nil
}

func firstLine(data []byte) []byte {
	if i := strings.IndexByte(string(data), '\n'); i >= 0 && i < len(data) {
		return data[:i]
	}
	if len(data) > 256 {
		return data[:256]
	}
	return data
}
