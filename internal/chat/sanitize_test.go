package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "what can I cook with rice?", "what can I cook with rice?"},
		{"control chars become spaces", "hello\x00\x1fworld", "hello world"},
		{"newlines collapse", "line1\nline2", "line1 line2"},
		{"html entities unescape", "rice &amp; dal", "rice & dal"},
		{"surrounding whitespace trimmed", "  hi  ", "hi"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMessage(tt.in))
		})
	}
}

func TestSanitizeMessageCapsLength(t *testing.T) {
	long := strings.Repeat("a", maxMessageLen+500)
	got := SanitizeMessage(long)
	assert.Len(t, got, maxMessageLen)
}
