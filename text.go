package html2md

import "strings"

// isSpace reports whether r is whitespace as browsers define it for text
// trimming: wider than ASCII, but without U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// trimSpace trims leading and trailing whitespace as defined by isSpace.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// collapseSpace replaces every whitespace run with a single space and drops
// leading and trailing whitespace.
func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	pending := false
	for _, r := range s {
		if isSpace(r) {
			pending = true
			continue
		}
		if pending && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pending = false
		sb.WriteRune(r)
	}
	return sb.String()
}
