package ats

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWord = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Normalize collapses every run of non-word characters into a single space,
// lower-cases the text and trims it. Accented letters and compatibility forms
// such as the "ﬁ" ligature are folded first, so the output alphabet is always
// [a-z0-9_ ].
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := foldAccents(raw)
	s = nonWord.ReplaceAllString(s, " ")
	return strings.TrimSpace(strings.ToLower(s))
}

// Tokens splits normalized text on whitespace.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
