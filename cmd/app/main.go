package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-interview-platform/internal/config"
	"ai-interview-platform/internal/domain/ports/adapter"
	aiAdapters "ai-interview-platform/internal/infra/adapters/ai"
	"ai-interview-platform/internal/infra/adapters/notify"
	"ai-interview-platform/internal/infra/adapters/voice"
	pg "ai-interview-platform/internal/infra/db/postgres"
	"ai-interview-platform/internal/infra/logging"
	"ai-interview-platform/internal/infra/metrics"
	red "ai-interview-platform/internal/infra/redis"
	"ai-interview-platform/internal/infra/web"
	"ai-interview-platform/internal/infra/worker"
	"ai-interview-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (canned AI, no voice key required)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	rateLimiter := red.NewRateLimiter(redisClient)
	sessionCache := red.NewSessionCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	interviewRepo := pg.NewInterviewRepoCacheDecorator(pg.NewInterviewRepo(pool), redisClient)
	sessionRepo := pg.NewSessionRepo(pool)
	feedbackRepo := pg.NewFeedbackRepo(pool)

	// ---- AI adapter (OpenRouter -> Gemini -> canned dev fallback) ----
	var ai adapter.CompletionAdapter
	switch {
	case cfg.AI.OpenRouterKey != "":
		ai, err = aiAdapters.NewOpenRouterAdapter(cfg.AI.OpenRouterKey, cfg.AI.QuestionModel, cfg.AI.OpenRouterBase)
		if err != nil {
			logger.Fatal().Err(err).Msg("openrouter adapter")
		}
		logger.Info().Str("base", cfg.AI.OpenRouterBase).Msg("AI adapter: OpenRouter")
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.QuestionModel, 0)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Msg("AI adapter: Gemini")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("AI adapter: canned responses (dev)")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.openrouter_key or ai.gemini_key in %s", *cfgPath)
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Voice adapter ----
	var voiceAdapter adapter.VoiceCallAdapter
	if cfg.Voice.APIKey == "" && cfg.Runtime.Dev {
		voiceAdapter = voice.NewNoopVoiceAdapter()
		logger.Warn().Msg("voice adapter: noop (dev, no api key)")
	} else {
		voiceAdapter, err = voice.NewVapiAdapter(cfg.Voice.APIKey, cfg.Voice.BaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("voice adapter")
		}
	}

	// ---- Recruiter notifications (optional) ----
	var notifier adapter.Notifier
	if cfg.Notify.TelegramToken != "" {
		notifier, err = notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.ChatID)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram notifier disabled")
			notifier = nil
		}
	}

	// ---- Background workers ----
	pool4 := worker.NewPool(4, logger)
	pool4.Start(ctx)
	defer pool4.Stop()

	// ---- Use cases ----
	interviewUC := usecase.NewInterviewUseCase(interviewRepo, ai, cfg.AI.QuestionModel, cfg.Server.BaseURL, logger)
	feedbackUC := usecase.NewFeedbackUseCase(feedbackRepo, interviewRepo, ai, notifier, cfg.AI.FeedbackModel, logger)
	sessionUC := usecase.NewSessionUseCase(interviewRepo, sessionRepo, feedbackUC, voiceAdapter, sessionCache, pool4, cfg.Voice, logger)
	statsUC := usecase.NewStatsUseCase(interviewRepo, feedbackRepo, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth)
	srv := web.NewServer(interviewUC, sessionUC, feedbackUC, statsUC, auth, rateLimiter, cfg.Voice.WebhookSecret, logger)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- DB pool gauge ----
	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	sessionUC.Shutdown(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
