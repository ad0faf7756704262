package app

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"llm-tasks/internal/assistant"
	"llm-tasks/internal/config"
	"llm-tasks/internal/llmapi"
	"llm-tasks/internal/logger"
)

// Deps bundles common runtime dependencies for the gateway and CLI.
type Deps struct {
	Config      config.Config
	Log         *slog.Logger
	OCR         *assistant.OCR
	Math        *assistant.Math
	Programming *assistant.Programming
	Chat        *assistant.Chat
	Speech      *assistant.Speech
}

// Build loads env, config, and the shared client plus all task services.
func Build() (Deps, error) {
	// A missing .env file is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.OpenAIKey == "" {
		return Deps{}, fmt.Errorf("OPENAI_API_KEY is required")
	}

	client := llmapi.New(llmapi.Config{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.OpenAIKey,
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
	}, log)
	log.Info("using model API", "base_url", cfg.BaseURL, "chat_model", cfg.ChatModel)

	return Deps{
		Config:      cfg,
		Log:         log,
		OCR:         assistant.NewOCR(client, cfg.VisionModel),
		Math:        assistant.NewMath(client, cfg.ChatModel),
		Programming: assistant.NewProgramming(client, cfg.ChatModel),
		Chat:        assistant.NewChat(client, cfg.ChatModel),
		Speech:      assistant.NewSpeech(client, cfg.TranscriptionModel, cfg.SpeechModel),
	}, nil
}
