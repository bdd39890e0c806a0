package auth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeUsername returns the stored form of a username: NFKC composed
// and trimmed. Case is preserved.
func NormalizeUsername(raw string) string {
	return strings.TrimSpace(norm.NFKC.String(raw))
}

// NormalizeEmail returns the stored form of an email address: NFKC composed,
// trimmed and case folded.
func NormalizeEmail(raw string) string {
	return cases.Fold().String(strings.TrimSpace(norm.NFKC.String(raw)))
}
