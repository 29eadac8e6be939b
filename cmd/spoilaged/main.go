package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anna-sampada/spoilage-backend/internal/async"
	"github.com/anna-sampada/spoilage-backend/internal/auth"
	"github.com/anna-sampada/spoilage-backend/internal/chat"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/metrics"
	"github.com/anna-sampada/spoilage-backend/internal/ngo"
	"github.com/anna-sampada/spoilage-backend/internal/predict"
	"github.com/anna-sampada/spoilage-backend/internal/repository"
	"github.com/anna-sampada/spoilage-backend/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence is optional. Without DB_URL the service still predicts;
	// accounts and request logging are disabled.
	var (
		users repository.UserRepository
		preds repository.PredictionRepository
		logs  repository.ChatLogRepository
	)
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)

		if err := repository.HealthCheck(ctx, pool, 3*time.Second, logger); err != nil {
			logger.Error("database health check failed", "error", err)
			os.Exit(1)
		}
		if err := repository.EnsureSchema(ctx, pool, logger); err != nil {
			logger.Error("database schema setup failed", "error", err)
			os.Exit(1)
		}

		users = repository.NewUserRepository(pool, logger.With("component", "users"))
		preds = repository.NewPredictionRepository(pool, logger.With("component", "predictions"))
		logs = repository.NewChatLogRepository(pool, logger.With("component", "chat_logs"))
	} else {
		logger.Warn("DB_URL not set, accounts and request logging disabled")
	}

	queue := async.NewLogQueue(logger.With("component", "queue"))

	m := metrics.New()

	predictions := predict.NewService(cfg.Models.Dir, cfg.Models.MilkRoomTempSlackHours,
		logger.With("component", "predict"), predict.Options{
			Predictions: preds,
			Queue:       queue,
			Metrics:     m,
		})

	var authSvc *auth.Service
	if users != nil {
		authSvc = auth.NewService(users, logger.With("component", "auth"))
	}

	var chatSvc *chat.Service
	if cfg.Chat.APIKey != "" {
		gen, err := chat.NewGeminiClient(ctx, cfg.Chat)
		if err != nil {
			logger.Error("gemini client setup failed", "error", err)
			os.Exit(1)
		}
		var cache *redis.Client
		if cfg.Redis.Addr != "" {
			cache = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer cache.Close()
		}
		history := chat.NewHistoryStore(logs, cache, cfg.Redis.TTL, logger.With("component", "chat_history"))
		chatSvc = chat.NewService(gen, logger.With("component", "chat"), chat.Options{
			History:    history,
			Logs:       logs,
			Queue:      queue,
			Metrics:    m,
			HistoryMax: cfg.Chat.HistoryMax,
		})
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat assistant disabled")
	}

	var locator *ngo.Locator
	if cfg.Maps.APIKey != "" {
		var err error
		locator, err = ngo.NewLocator(cfg.Maps.APIKey, cfg.Maps.SearchRadius, logger.With("component", "ngo"))
		if err != nil {
			logger.Error("maps client setup failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, NGO search disabled")
	}

	var notifier *ngo.Notifier
	if cfg.Mail.Sender != "" && cfg.Mail.Password != "" {
		var err error
		notifier, err = ngo.NewNotifier(cfg.Mail, logger.With("component", "mail"))
		if err != nil {
			logger.Error("mail client setup failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("EMAIL_SENDER or EMAIL_APP_PASSWORD not set, NGO notifications disabled")
	}

	srv := server.New(logger.With("component", "http"), server.Options{
		Predictions: predictions,
		Chat:        chatSvc,
		Auth:        authSvc,
		Locator:     locator,
		Notifier:    notifier,
		Metrics:     m,
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
