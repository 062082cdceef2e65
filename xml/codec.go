package xml

import "strings"

// decodeEntities replaces the five predefined XML entities and numeric
// character references with their decoded runes. Any other &name; sequence
// is passed through unchanged — the parser is non-validating and does not
// know the universe of possible entity names.
func decodeEntities(raw string) string {
	if !strings.ContainsRune(raw, '&') {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}

		end := strings.IndexByte(raw[i:], ';')
		if end < 0 {
			// No terminator found before the end of input: not a valid
			// entity reference, copy the ampersand as-is and move on.
			b.WriteByte(c)
			i++
			continue
		}
		end += i

		body := raw[i+1 : end]
		if r, ok := decodeEntityBody(body); ok {
			b.WriteRune(r)
			i = end + 1
			continue
		}

		// Unknown entity name or malformed numeric reference: passed through
		// verbatim, including the ampersand and semicolon.
		b.WriteString(raw[i : end+1])
		i = end + 1
	}

	return b.String()
}

func decodeEntityBody(body string) (rune, bool) {
	switch body {
	case "lt":
		return '<', true
	case "gt":
		return '>', true
	case "amp":
		return '&', true
	case "quot":
		return '"', true
	case "apos":
		return '\'', true
	}

	if len(body) > 1 && body[0] == '#' {
		return decodeNumericRef(body[1:])
	}

	return 0, false
}

func decodeNumericRef(digits string) (rune, bool) {
	base := 10
	if len(digits) > 1 && (digits[0] == 'x' || digits[0] == 'X') {
		base = 16
		digits = digits[1:]
	}
	if digits == "" {
		return 0, false
	}

	var v int64
	for _, c := range digits {
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return 0, false
		}
		v = v*int64(base) + d
		if v > 0x10FFFF {
			return 0, false
		}
	}
	return rune(v), true
}

// escapeText escapes &, < and > for element text content. " and ' are left
// untouched, matching §4.1's encoding rule for modified text.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeAttrValue escapes &, < and the attribute's active quote character
// for a modified attribute value (§4.1).
func escapeAttrValue(s string, quote byte) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '<':
			b.WriteString("&lt;")
		case r == rune(quote) && quote == '"':
			b.WriteString("&quot;")
		case r == rune(quote) && quote == '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
