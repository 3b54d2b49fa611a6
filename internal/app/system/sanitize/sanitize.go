// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from user-supplied text before it is
// stored or broadcast. Note titles, contents, comments, and chat
// messages all pass through here.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
