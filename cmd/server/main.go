package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nmehta-dev/weatherchat/internal/chat"
	"github.com/nmehta-dev/weatherchat/internal/llm"
	"github.com/nmehta-dev/weatherchat/internal/store"
	"github.com/nmehta-dev/weatherchat/internal/tools"
	"github.com/nmehta-dev/weatherchat/internal/weather"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// main is the composition root: it loads configuration, constructs all
// services, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting Weather Chat | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	sink := initializeSink(cfg)

	weatherClient, err := weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, sink)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	llmClients, err := initializeLLMClients(cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	pipeline, err := initializePipeline(cfg, llmClients, weatherClient)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}
	log.Printf("✅ All services initialized (pipeline: %s).", cfg.Pipeline)

	chatHandler := NewChatHandler(pipeline, sink)

	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := gin.Default()
	engine.LoadHTMLGlob("web/templates/*")
	engine.GET("/", chatHandler.HandleIndex)
	engine.GET("/ws", chatHandler.HandleWebSocket)

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// initializeSink picks the persistence sink. Redis when configured,
// otherwise an in-process store so local runs still work.
func initializeSink(cfg *AppConfig) store.Sink {
	if cfg.RedisAddr == "" {
		log.Println("⚠️ REDIS_ADDR not set, using in-memory persistence.")
		return store.NewMemorySink()
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ FATAL: Could not connect to Redis: %v", err)
	}
	log.Println("✅ Redis persistence sink connected.")
	return store.NewRedisSink(rdb)
}

// initializeLLMClients creates a client per configured model, keyed by model ID.
func initializeLLMClients(cfg *AppConfig) (map[string]llm.Client, error) {
	clients := make(map[string]llm.Client)
	for modelID, apiKey := range cfg.APIKeys {
		var client llm.Client
		var err error
		switch {
		case strings.HasPrefix(modelID, "gpt"):
			client, err = llm.NewOpenAIClient(apiKey)
		case strings.HasPrefix(modelID, "gemini"):
			client, err = llm.NewGeminiClient(apiKey, modelID)
		default:
			return nil, fmt.Errorf("unknown model provider for %s", modelID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create client for %s: %w", modelID, err)
		}
		clients[modelID] = client
	}
	log.Printf("✅ %d LLM clients initialized.", len(clients))
	return clients, nil
}

// initializePipeline builds the orchestration variant selected in config.yaml.
func initializePipeline(cfg *AppConfig, clients map[string]llm.Client, weatherClient *weather.Client) (chat.Pipeline, error) {
	chatClient, ok := clients[cfg.ChatModel]
	if !ok {
		return nil, fmt.Errorf("no client available for chat model %s", cfg.ChatModel)
	}

	switch cfg.Pipeline {
	case "keyword":
		extractorClient, ok := clients[cfg.ExtractorModel]
		if !ok {
			return nil, fmt.Errorf("no client available for extractor model %s", cfg.ExtractorModel)
		}
		extractor := chat.NewCityExtractor(extractorClient, cfg.ExtractorModel)
		synthesizer := chat.NewSynthesizer(chatClient, cfg.ChatModel)
		return chat.NewKeywordPipeline(extractor, synthesizer, weatherClient, cfg.Keywords), nil
	case "tools":
		registry := tools.NewRegistry()
		registry.Register(tools.NewWeatherTool(weatherClient))
		log.Printf("✅ Tool registry initialized with %d tools.", registry.Count())
		return chat.NewToolPipeline(chatClient, cfg.ChatModel, registry), nil
	default:
		return nil, fmt.Errorf("unknown pipeline %q", cfg.Pipeline)
	}
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Weather chat is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
