package chat

import (
	"regexp"
	"strings"
)

var reFenced = regexp.MustCompile("(?is)```json\\s*([\\s\\S]*?)```")

// extractJSONCandidates pulls possible JSON documents out of model text, in
// preference order: the raw text itself, any fenced json block, then the
// outermost brace-delimited span.
func extractJSONCandidates(text string) []string {
	var out []string
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		out = append(out, trimmed)
	}
	if m := reFenced.FindStringSubmatch(text); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			out = append(out, text[start:end+1])
		}
	}
	return out
}
