package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/realm-engine/internal/config"
	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/internal/logger"
	"github.com/jwebster45206/realm-engine/internal/services"
	"github.com/jwebster45206/realm-engine/internal/services/queue"
	"github.com/jwebster45206/realm-engine/internal/session"
	"github.com/jwebster45206/realm-engine/internal/storage"
	"github.com/jwebster45206/realm-engine/internal/worker"
	"github.com/jwebster45206/realm-engine/pkg/engine"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Realm Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName,
		"avatar_mode", cfg.AvatarMode)

	var llm interface {
		services.NarrativeService
		services.Summarizer
	}
	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		svc := services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, cfg.SummaryModelName, log)
		if cfg.LLMBaseURL != "" {
			svc = svc.WithBaseURL(cfg.LLMBaseURL)
		}
		llm = svc
		log.Info("Using Anthropic LLM provider")
	case "openai":
		if cfg.LLMBaseURL == "" {
			log.Error("LLM_BASE_URL is required when using openai provider")
			os.Exit(1)
		}
		llm = services.NewOpenAIService(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.ModelName, cfg.SummaryModelName)
		log.Info("Using OpenAI-compatible LLM provider", "base_url", cfg.LLMBaseURL)
	case "mock":
		llm = services.NewMockLLM()
		log.Warn("Using mock LLM provider; narration is canned")
	}

	ladder, err := cfg.Progression()
	if err != nil {
		log.Error("Failed to load progression table", "error", err, "file", cfg.ProgressionFile)
		os.Exit(1)
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.SaveTTL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	store.SetDefaultProgression(ladder)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	deps := session.Deps{
		Engine:        engine.New(cfg.Engine(), log),
		Pagination:    pagination.NewController(cfg.PageSize, llm, log),
		Narrative:     llm,
		Storage:       store,
		HistoryLimit:  cfg.HistoryLimit,
		PromptHistory: cfg.PromptHistory,
		Logger:        log,
	}

	health := handlers.NewHealthHandler(store, log)

	var inline *worker.AsyncScheduler
	if cfg.Engine().AutoGenerateAvatars {
		queueClient := queue.NewClientFrom(store.Client(), log)
		health.WithCheck("avatar_queue", queueClient)
		avatars := queue.NewAvatarQueue(queueClient)
		deps.Avatars = avatars
		switch cfg.AvatarMode {
		case config.AvatarModeQueue:
			deps.Scheduler = worker.NewQueueScheduler(avatars, log)
			log.Info("Avatar jobs go to the worker queue", "key", queue.JobsKey)
		default:
			images := services.NewHTTPImageService(cfg.ImageServiceURL, cfg.ImageAPIKey)
			inline = worker.NewAsyncScheduler(worker.NewAvatarProcessor(images, store, avatars, log), log)
			deps.Scheduler = inline
			log.Info("Avatar jobs run in-process")
		}
	}

	manager := session.NewManager(deps).WithLimits(cfg.SessionCacheSize, cfg.SessionIdleTTL)

	mux := http.NewServeMux()
	mux.Handle("GET /health", health)
	handlers.NewSessionHandler(manager, log).Register(mux)
	handlers.NewWorldHandler(store, log).Register(mux)
	handlers.NewAvatarHandler(store, log).Register(mux)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handlers.RequestLogger(log, mux),
		ReadTimeout: 15 * time.Second,
		// Turns wait on the narrator; no WriteTimeout.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if inline != nil {
		inline.Wait()
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
