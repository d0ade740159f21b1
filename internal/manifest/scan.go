package manifest

import "strings"

// skipHSpace advances past spaces and tabs only (never newlines).
func skipHSpace(src []byte, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

// skipQuoted returns the offset just past the closing quote of the quoted
// string starting at src[i]. Handles backslash escapes inside double-quoted
// strings; single-quoted (literal) strings have none.
func skipQuoted(src []byte, i int) int {
	quote := src[i]
	j := i + 1
	for j < len(src) {
		if quote == '"' && src[j] == '\\' && j+1 < len(src) {
			j += 2
			continue
		}
		if src[j] == quote {
			return j + 1
		}
		j++
	}
	return j
}

// skipBracketed returns the offset just past the closing bracket/brace
// matching the opening one at src[i], tracking nested brackets and braces
// together (valid TOML never interleaves them incorrectly) and skipping
// over quoted strings so a `]` or `}` inside one is not mistaken for a
// closer.
func skipBracketed(src []byte, i int) int {
	depth := 0
	j := i
	for j < len(src) {
		switch src[j] {
		case '"', '\'':
			j = skipQuoted(src, j)
			continue
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return j + 1
			}
		}
		j++
	}
	return j
}

// skipScalar returns the offset of the first newline, comment start, or EOF
// following a bare scalar (bool, number, date) starting at src[i].
func skipScalar(src []byte, i int) int {
	j := i
	for j < len(src) && src[j] != '\n' && src[j] != '#' {
		j++
	}
	// trim trailing horizontal whitespace from the scalar itself.
	for j > i && (src[j-1] == ' ' || src[j-1] == '\t') {
		j--
	}
	return j
}

// valueSpan returns the offset just past the TOML value starting at
// src[i], which must be the first non-whitespace byte after a top-level
// "key =".
func valueSpan(src []byte, i int) int {
	if i >= len(src) {
		return i
	}
	switch src[i] {
	case '"', '\'':
		return skipQuoted(src, i)
	case '[', '{':
		return skipBracketed(src, i)
	default:
		return skipScalar(src, i)
	}
}

// isBareKeyByte reports whether b may appear inside an unquoted TOML key.
func isBareKeyByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// matchKey reports whether body[j:] begins with the literal key followed by
// a byte that cannot continue a bare key (so "log" doesn't match "log-sys").
func matchKey(body []byte, j int, key string) bool {
	if j+len(key) > len(body) {
		return false
	}
	if string(body[j:j+len(key)]) != key {
		return false
	}
	end := j + len(key)
	if end < len(body) && isBareKeyByte(body[end]) {
		return false
	}
	return true
}

// locateTable finds the body byte range of a top-level table header
// `[name]` (not an array-of-tables `[[name]]`). The returned range runs
// from just after the header line to the next top-level header line or
// EOF.
func locateTable(src []byte, name string) (start, end int, found bool) {
	offset := 0
	bodyStart := -1
	for offset < len(src) {
		nl := indexByteFrom(src, offset, '\n')
		var line []byte
		var lineLen int
		if nl < 0 {
			line = src[offset:]
			lineLen = len(line)
		} else {
			line = src[offset : nl+1]
			lineLen = len(line)
		}
		trimmed := strings.TrimSpace(string(line))
		if strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]") {
			header := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			if bodyStart >= 0 {
				return bodyStart, offset, true
			}
			if header == name {
				bodyStart = offset + lineLen
			}
		}
		offset += lineLen
	}
	if bodyStart >= 0 {
		return bodyStart, len(src), true
	}
	return 0, 0, false
}

func indexByteFrom(src []byte, from int, b byte) int {
	for i := from; i < len(src); i++ {
		if src[i] == b {
			return i
		}
	}
	return -1
}

// locateAssignment finds a top-level `key = value` statement within body
// (a byte range already scoped to one table), returning the absolute
// offsets of the value. Statements nested inside arrays/inline tables or
// comments are skipped.
func locateAssignment(body []byte, key string) (valStart, valEnd int, found bool) {
	depth := 0
	i := 0
	atLineStart := true
	for i < len(body) {
		if atLineStart && depth == 0 {
			j := skipHSpace(body, i)
			if j < len(body) && body[j] != '#' && body[j] != '\n' && matchKey(body, j, key) {
				k := skipHSpace(body, j+len(key))
				if k < len(body) && body[k] == '=' {
					vs := skipHSpace(body, k+1)
					ve := valueSpan(body, vs)
					return vs, ve, true
				}
			}
			atLineStart = false
		}
		switch body[i] {
		case '"', '\'':
			i = skipQuoted(body, i)
			continue
		case '[', '{':
			depth++
		case ']', '}':
			if depth > 0 {
				depth--
			}
		case '#':
			for i < len(body) && body[i] != '\n' {
				i++
			}
			continue
		case '\n':
			atLineStart = true
		}
		i++
	}
	return 0, 0, false
}

// splitTopLevelCommas splits inner (the content between an array's
// brackets) into segments separated by top-level commas, skipping commas
// that occur inside quoted strings or nested brackets.
func splitTopLevelCommas(inner []byte) []string {
	var segs []string
	depth := 0
	start := 0
	i := 0
	for i < len(inner) {
		switch inner[i] {
		case '"', '\'':
			i = skipQuoted(inner, i)
			continue
		case '[', '{':
			depth++
		case ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				segs = append(segs, string(inner[start:i]))
				start = i + 1
			}
		}
		i++
	}
	segs = append(segs, string(inner[start:]))
	return segs
}
