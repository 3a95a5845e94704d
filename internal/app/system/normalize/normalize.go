// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"
	"time"
)

// Name trims surrounding whitespace and collapses internal runs of spaces.
// Case is preserved for display; use Key for matching.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Key folds a display value for matching: trimmed, space-collapsed,
// lowercased. The membership cascade matches on Key(name) + Contact.
func Key(s string) string {
	return strings.ToLower(Name(s))
}

// Contact keeps only digits and a leading '+'. Phone numbers arrive with
// spaces, dashes, and country prefixes; matching needs a stable form.
func Contact(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DateLayout is the calendar date format used across all collections.
const DateLayout = "2006-01-02"

// Date validates and canonicalizes a calendar date string. Returns the
// "2006-01-02" form, or "" when s is blank or unparseable.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return ""
	}
	return t.Format(DateLayout)
}

// LoginID lowercases and trims a dashboard login identifier.
func LoginID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
