package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/storyforge/internal/config"
	"github.com/jwebster45206/storyforge/internal/handlers"
	"github.com/jwebster45206/storyforge/internal/logger"
	"github.com/jwebster45206/storyforge/internal/middleware"
	"github.com/jwebster45206/storyforge/internal/queue"
	"github.com/jwebster45206/storyforge/internal/services"
	"github.com/jwebster45206/storyforge/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting StoryForge API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	case "ollama":
		llmService = services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log)
		log.Info("Using Ollama LLM provider", "url", cfg.OllamaURL)
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"anthropic", "ollama"})
		os.Exit(1)
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	// Initialize the model on startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := llmService.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	// The draft queue shares the Redis instance with storage. If it
	// cannot be reached the API still serves; async generation is off.
	var draftQueue *queue.DraftQueue
	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Warn("Draft queue unavailable, async generation disabled", "error", err)
	} else {
		draftQueue = queue.NewDraftQueue(queueClient)
	}

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	mux.Handle("/v1/convert", handlers.NewConvertHandler(log))
	mux.Handle("/v1/validate", handlers.NewValidateHandler(log))

	storyHandler := handlers.NewStoryHandler(log, store)
	mux.Handle("/v1/stories", storyHandler)
	mux.Handle("/v1/stories/", storyHandler)

	playHandler := handlers.NewPlayHandler(log, store)
	mux.Handle("/v1/play", playHandler)
	mux.Handle("/v1/play/", playHandler)

	generateHandler := handlers.NewGenerateHandler(log, llmService, store, draftQueue)
	mux.Handle("/v1/generate", generateHandler)
	mux.Handle("/v1/generate/", generateHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
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

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue connection", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
