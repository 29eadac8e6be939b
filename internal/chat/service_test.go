package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

type fakeGenerator struct {
	output string
	err    error

	gotSystem  string
	gotHistory []Turn
	gotMessage string
}

func (f *fakeGenerator) Generate(_ context.Context, system string, history []Turn, message string) (string, error) {
	f.gotSystem = system
	f.gotHistory = history
	f.gotMessage = message
	return f.output, f.err
}

func newTestService(gen Generator) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(gen, logger, Options{})
}

func TestChatEmptyMessage(t *testing.T) {
	s := newTestService(&fakeGenerator{})

	_, err := s.Chat(context.Background(), Request{Message: "   "})
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
}

func TestChatStructuredReply(t *testing.T) {
	gen := &fakeGenerator{output: `{"replyText":"Try a pulao!","recipes":[],"safetyTips":[],"command":null}`}
	s := newTestService(gen)

	resp, err := s.Chat(context.Background(), Request{Message: "leftover rice ideas", Mode: "Veg"})
	require.NoError(t, err)

	assert.Equal(t, "Try a pulao!", resp.Text)
	require.NotNil(t, resp.Structured)
	assert.Equal(t, "Try a pulao!", resp.Structured.ReplyText)
	assert.Equal(t, "leftover rice ideas", gen.gotMessage)
	assert.Contains(t, gen.gotSystem, "You are Anna")
	assert.Contains(t, gen.gotSystem, "Only suggest vegetarian recipes.")
}

func TestChatModeInstructions(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"Veg", "Only suggest vegetarian recipes."},
		{"Non-Veg", "You may suggest meat, fish, and egg recipes"},
		{"Jain", "Strictly avoid onion, garlic, eggs, and meat."},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			gen := &fakeGenerator{output: `{"replyText":"ok","recipes":[],"safetyTips":[],"command":null}`}
			s := newTestService(gen)

			_, err := s.Chat(context.Background(), Request{Message: "hi", Mode: tt.mode})
			require.NoError(t, err)
			assert.Contains(t, gen.gotSystem, tt.want)
		})
	}
}

func TestChatDefaultsToVeg(t *testing.T) {
	gen := &fakeGenerator{output: `{"replyText":"ok","recipes":[],"safetyTips":[],"command":null}`}
	s := newTestService(gen)

	_, err := s.Chat(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.Contains(t, gen.gotSystem, "Only suggest vegetarian recipes.")
}

func TestChatFallbackOnUnparseableOutput(t *testing.T) {
	gen := &fakeGenerator{output: "I forgot how to produce JSON today."}
	s := newTestService(gen)

	resp, err := s.Chat(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)

	require.NotNil(t, resp.Structured)
	assert.Equal(t, FallbackReplyText, resp.Structured.ReplyText)
	// raw text is preserved for the caller even when parsing fails
	assert.Equal(t, "I forgot how to produce JSON today.", resp.Text)
}

func TestChatUpstreamError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("dial tcp: connection refused")}
	s := newTestService(gen)

	_, err := s.Chat(context.Background(), Request{Message: "hi"})
	require.Error(t, err)
}

func TestChatHistoryCapped(t *testing.T) {
	gen := &fakeGenerator{output: `{"replyText":"ok","recipes":[],"safetyTips":[],"command":null}`}
	s := newTestService(gen)

	history := make([]Turn, 10)
	for i := range history {
		history[i] = Turn{Role: "user", Content: "old"}
	}

	_, err := s.Chat(context.Background(), Request{Message: "hi", History: history})
	require.NoError(t, err)
	assert.Len(t, gen.gotHistory, requestHistoryMax)
}

func TestChatSanitizesBeforeSending(t *testing.T) {
	gen := &fakeGenerator{output: `{"replyText":"ok","recipes":[],"safetyTips":[],"command":null}`}
	s := newTestService(gen)

	_, err := s.Chat(context.Background(), Request{Message: "hi\x00there &amp; friends"})
	require.NoError(t, err)
	assert.Equal(t, "hi there & friends", gen.gotMessage)
}
