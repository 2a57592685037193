// cmd/chat-api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"career-chat-workers/internal/api"
	"career-chat-workers/internal/bootstrap"
	"career-chat-workers/internal/chat"
	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/common/observability"
	"career-chat-workers/internal/resume"
	"career-chat-workers/internal/store"
	"career-chat-workers/internal/structuring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()
	deps, err := bootstrap.Connect(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("dependencies failed", zap.Error(err))
	}
	defer deps.Close()

	structurer, err := structuring.New(structuring.WithMaxInputBytes(cfg.Structuring.MaxInputBytes))
	if err != nil {
		zapLog.Fatal("structurer setup failed", zap.Error(err))
	}

	svc, err := chat.NewService(chat.Options{
		Generator:     deps.Generator,
		Conversations: deps.Conversations,
		Retriever:     deps.Retriever,
		Live:          deps.Realtime,
		Structurer:    structurer,
		Observability: obs,
		HistoryLimit:  cfg.Conversation.HistoryLimit,
		Temperature:   cfg.APIs.GenAI.Temperature,
	}, log)
	if err != nil {
		zapLog.Fatal("chat service setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: api.NewRouter(api.Deps{
			Chat:           svc,
			Conversations:  deps.Conversations,
			Accounts:       store.NewAccounts(deps.Users, log),
			Resume:         resume.NewAnalyzer(deps.Generator, 0),
			ListLimit:      cfg.Conversation.ListLimit,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RequestTimeout: config.GetDuration(cfg.Server.RequestTimeout),
			Ready:          deps.Ready,
			Logger:         log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("chat API listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("chat API failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("chat API stopped")
}
