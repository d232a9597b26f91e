// Package textx holds the plain-text helpers shared by the note list, the
// AI service and the grammar hints: markup stripping, previews and
// whitespace normalisation.
package textx

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// StripHTML removes anything that looks like a markup tag. Entities are left
// untouched.
func StripHTML(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// PlainText strips tags, turns &nbsp; into spaces and collapses runs of
// whitespace into one space.
func PlainText(s string) string {
	s = StripHTML(s)
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Preview is the one-line excerpt shown in note listings.
func Preview(content string, n int) string {
	return Truncate(PlainText(content), n)
}

// RuneLen counts characters rather than bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
