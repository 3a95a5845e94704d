// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// textPolicy strips all markup. Inquiry descriptions and attendance
	// notes are stored as plain text.
	textPolicy = bluemonday.StrictPolicy()
)

// Text strips every HTML tag and attribute from s, returning plain text.
// Free-text fields (description, notes, addresses) pass through here before
// any store write.
func Text(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
