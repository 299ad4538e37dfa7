package main

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()

	// the policy escapes these; they are harmless in JSON text
	unescapeSafe = strings.NewReplacer("&amp;", "&", "&#34;", `"`, "&#39;", "'")
)

// sanitizeText strips every HTML tag from user-supplied free text and trims
// surrounding whitespace. Angle brackets stay escaped.
func sanitizeText(s string) string {
	return strings.TrimSpace(unescapeSafe.Replace(strictPolicy.Sanitize(s)))
}

// sanitizeOptional sanitizes an optional field. An empty result means the
// field was cleared.
func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := sanitizeText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}
