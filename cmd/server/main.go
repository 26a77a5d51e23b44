package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oranie/livechat/internal/chat"
	"github.com/oranie/livechat/internal/config"
	"github.com/oranie/livechat/internal/dynamo"
	"github.com/oranie/livechat/internal/logging"
	"github.com/oranie/livechat/internal/server"
	"github.com/oranie/livechat/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(srv *server.Server, registry *chat.Registry) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		registry.Close()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	build := version.Get()
	slog.Info("Application starting",
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"version", build.Version,
		"commit", build.Commit,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := dynamo.NewClient(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("Failed to create DynamoDB client", "error", err)
		os.Exit(1)
	}

	commentStore := dynamo.NewCommentStore(client, cfg.ChatTable, cfg.ChatRoomIndex, cfg.CommentTTL, clock)
	diaryStore := dynamo.NewDiaryStore(client, cfg.DiaryTable, clock)

	registry := chat.NewRegistry("default")
	broadcaster := chat.NewBroadcaster(registry)
	channel := chat.NewHandler(registry, broadcaster, commentStore, cfg.DefaultChatRoom, clock)

	srv, err := server.NewServer(cfg, commentStore, diaryStore, channel, clock)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, registry)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
