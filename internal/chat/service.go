package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anna-sampada/spoilage-backend/internal/async"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/metrics"
	"github.com/anna-sampada/spoilage-backend/internal/repository"
)

// ErrUpstream marks a failure reaching the language model service.
var ErrUpstream = errors.New("upstream llm failure")

// FallbackReplyText is returned whenever the model output cannot be parsed
// into the structured reply.
const FallbackReplyText = "I'm having a little trouble thinking clearly. Please try rephrasing your request."

// requestHistoryMax caps how many client-supplied turns reach the model.
const requestHistoryMax = 6

type Request struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
	History []Turn `json:"history"`
	UserID  string `json:"userId"`
}

type Response struct {
	Text       string `json:"text"`
	Structured *Reply `json:"structured"`
}

type Service struct {
	gen     Generator
	history HistoryStore
	logs    repository.ChatLogRepository
	queue   *async.LogQueue
	metrics *metrics.Metrics
	logger  *slog.Logger

	historyMax int
}

type Options struct {
	History    HistoryStore
	Logs       repository.ChatLogRepository
	Queue      *async.LogQueue
	Metrics    *metrics.Metrics
	HistoryMax int
}

func NewService(gen Generator, logger *slog.Logger, opts Options) *Service {
	historyMax := opts.HistoryMax
	if historyMax <= 0 {
		historyMax = 5
	}
	return &Service{
		gen:        gen,
		history:    opts.History,
		logs:       opts.Logs,
		queue:      opts.Queue,
		metrics:    opts.Metrics,
		logger:     logger,
		historyMax: historyMax,
	}
}

// Chat runs one assistant exchange. Model output that fails schema
// validation degrades to a fixed fallback reply rather than an error; only
// an unreachable upstream fails the request.
func (s *Service) Chat(ctx context.Context, req Request) (*Response, error) {
	message := SanitizeMessage(req.Message)
	if message == "" {
		return nil, common.ValidationErrorf("Empty message")
	}
	mode := req.Mode
	if mode == "" {
		mode = "Veg"
	}

	system := SystemPrompt
	if mi := ModeInstructions(mode); mi != "" {
		system += " " + mi
	}

	var history []Turn
	if s.history != nil {
		history = append(history, s.history.Recall(ctx, req.UserID, s.historyMax)...)
	}
	reqHistory := req.History
	if len(reqHistory) > requestHistoryMax {
		reqHistory = reqHistory[len(reqHistory)-requestHistoryMax:]
	}
	history = append(history, reqHistory...)

	raw, err := s.gen.Generate(ctx, system, history, message)
	if err != nil {
		s.count("upstream_error")
		s.logger.Error("chat.generate.failed", "user_id", req.UserID, "error", err)
		return nil, err
	}

	resp := &Response{Text: raw}
	reply, perr := ParseReply(raw)
	if perr != nil {
		s.count("fallback")
		s.logger.Warn("chat.parse.fallback", "user_id", req.UserID, "error", perr)
		resp.Structured = &Reply{ReplyText: FallbackReplyText, Recipes: []Recipe{}, SafetyTips: []string{}}
	} else {
		s.count("ok")
		resp.Structured = reply
		if reply.ReplyText != "" {
			resp.Text = reply.ReplyText
		}
	}

	s.remember(ctx, req.UserID, message, resp.Text)
	s.logExchange(req.UserID, mode, message, resp.Text)
	return resp, nil
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.ChatRequestsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) remember(ctx context.Context, userID, message, reply string) {
	if s.history != nil && userID != "" {
		s.history.Remember(ctx, userID, message, reply)
	}
}

// logExchange persists the exchange off the request path. Failures are
// logged by the queue and swallowed.
func (s *Service) logExchange(userID, mode, message, reply string) {
	if s.logs == nil || s.queue == nil {
		return
	}
	s.queue.Enqueue(async.Job{
		Name: "chat_log",
		Run: func(ctx context.Context) error {
			return s.logs.Insert(ctx, userID, mode, message, reply)
		},
	})
}
