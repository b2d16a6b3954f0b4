package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds all configuration, loaded from the environment and config.yaml.
type AppConfig struct {
	// From config.yaml.
	Pipeline       string
	ChatModel      string
	ExtractorModel string
	Keywords       []string

	// From the environment.
	WeatherAPIKey  string
	WeatherBaseURL string
	APIKeys        map[string]string
	RedisAddr      string
	Port           string
}

// chatConfigFile mirrors config.yaml.
type chatConfigFile struct {
	Pipeline       string   `yaml:"pipeline"`
	ChatModel      string   `yaml:"chat_model"`
	ExtractorModel string   `yaml:"extractor_model"`
	Keywords       []string `yaml:"keywords"`
}

// LoadConfig loads configuration from a .env file, environment variables,
// and config.yaml. In release mode configuration comes directly from the
// environment (e.g. Docker Compose), so the .env file is skipped.
func LoadConfig() (*AppConfig, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherBaseURL: os.Getenv("WEATHER_BASE_URL"),
		APIKeys:        make(map[string]string),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		Port:           os.Getenv("PORT"),
	}
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("WEATHER_API_KEY environment variable is not set")
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}

	fileBytes, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}
	var fileCfg chatConfigFile
	if err := yaml.Unmarshal(fileBytes, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
	}

	cfg.Pipeline = fileCfg.Pipeline
	cfg.ChatModel = fileCfg.ChatModel
	cfg.ExtractorModel = fileCfg.ExtractorModel
	cfg.Keywords = fileCfg.Keywords

	if cfg.Pipeline != "keyword" && cfg.Pipeline != "tools" {
		return nil, fmt.Errorf("config.yaml pipeline must be \"keyword\" or \"tools\", got %q", cfg.Pipeline)
	}
	if cfg.ChatModel == "" {
		return nil, fmt.Errorf("config.yaml chat_model is not set")
	}
	if cfg.Pipeline == "keyword" && cfg.ExtractorModel == "" {
		cfg.ExtractorModel = cfg.ChatModel
	}

	for _, modelID := range []string{cfg.ChatModel, cfg.ExtractorModel} {
		if modelID == "" {
			continue
		}
		var apiKey string
		switch {
		case strings.HasPrefix(modelID, "gpt"):
			apiKey = os.Getenv("OPENAI_API_KEY")
		case strings.HasPrefix(modelID, "gemini"):
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("no API key configured for model %s", modelID)
		}
		cfg.APIKeys[modelID] = apiKey
	}

	return cfg, nil
}
