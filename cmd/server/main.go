// Command server starts the AI Job Matcher HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	groqai "github.com/fairyhunter13/ai-job-matcher/internal/adapter/ai/groq"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/cache/rediscache"
	httpserver "github.com/fairyhunter13/ai-job-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/jobprovider/joinrise"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/jobprovider/jsearch"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/jobprovider/sample"
	tikaext "github.com/fairyhunter13/ai-job-matcher/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/ai-job-matcher/internal/app"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	ctx := context.Background()

	// Infra: cache (optional), AI, providers, extractor.
	cache := rediscache.New(ctx, cfg.RedisURL)
	if !cache.Enabled() {
		slog.Warn("redis cache disabled, running without persistence")
	}
	aiClient := groqai.New(cfg)
	searchProvider := jsearch.New(cfg)
	feedProvider := joinrise.New(cfg)
	extractor := tikaext.New(cfg.TikaURL)

	// Usecases.
	jobs := usecase.NewJobService(cache, searchProvider, feedProvider, sample.Jobs)
	skills := usecase.NewSkillService(aiClient, cache)
	resumes := usecase.NewResumeService(cache, extractor, skills)
	match := usecase.NewMatchService(cfg, cache, aiClient, jobs, skills)
	apps := usecase.NewApplicationService(cache)
	chat := usecase.NewChatService(aiClient, jobs)

	srv := httpserver.NewServer(cfg, jobs, resumes, match, apps, chat, cache.Ping)
	handler := app.BuildRouter(cfg, srv)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.Int("port", cfg.Port), slog.String("env", cfg.AppEnv))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	case sig := <-stop:
		slog.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("server stopped")
}
