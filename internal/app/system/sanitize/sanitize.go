// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from user-authored text before it is
// stored. Every free-text field that round-trips to other users' clients
// (bios, discussion posts, replies, comments, messages) goes through
// here.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Slice sanitizes every element, dropping entries that become empty.
func Slice(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if cleaned := Text(s); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
