package chat

import (
	"html"
	"regexp"
	"strings"
)

const maxMessageLen = 4000

var reControl = regexp.MustCompile(`[\x00-\x1f\x7f]+`)

// SanitizeMessage strips control characters, resolves HTML entities, and caps
// the message length before it reaches the model.
func SanitizeMessage(s string) string {
	s = reControl.ReplaceAllString(s, " ")
	s = strings.TrimSpace(html.UnescapeString(s))
	if len(s) > maxMessageLen {
		s = s[:maxMessageLen]
	}
	return s
}
