package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/dannysmp/genai-customer-support-agent/internal/agent"
	"github.com/dannysmp/genai-customer-support-agent/internal/agent/returns"
	"github.com/dannysmp/genai-customer-support-agent/internal/chat"
	"github.com/dannysmp/genai-customer-support-agent/internal/core"
	"github.com/dannysmp/genai-customer-support-agent/internal/nlg"
	"github.com/dannysmp/genai-customer-support-agent/internal/rag"
	"github.com/dannysmp/genai-customer-support-agent/internal/server"
	"github.com/dannysmp/genai-customer-support-agent/internal/store"
	logx "github.com/dannysmp/genai-customer-support-agent/pkg/logger"
	pkgredis "github.com/dannysmp/genai-customer-support-agent/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment  string `envconfig:"ENVIRONMENT" default:"development"`
	Port         int    `envconfig:"PORT" default:"8000"`
	DataDir      string `envconfig:"DATA_DIR" default:"data"`
	SettingsPath string `envconfig:"SETTINGS_PATH" default:"prompts/settings.toml"`

	// Infrastructure
	Redis           pkgredis.Config
	ConversationTTL string `envconfig:"CONVERSATION_TTL" default:"15m"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})

	settings, err := nlg.LoadSettings(cfg.SettingsPath)
	if err != nil {
		logx.Fatal().Err(err).Str("path", cfg.SettingsPath).Msg("failed to load settings")
	}

	st := store.NewService(cfg.DataDir)
	validator := returns.NewValidator(st.ForbiddenCategorySet())
	controller := agent.NewController(agent.Config{
		Store:     st,
		Validator: validator,
	})

	index, err := rag.NewIndex(rag.BuildDocuments(st))
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build knowledge index")
	}
	defer index.Close()
	logx.Info().Int("documents", index.Size()).Msg("knowledge index ready")

	chatModel, err := nlg.NewChatModel(ctx, nlg.ModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       settings.General.Model,
		Temperature: settings.General.Temperature,
		MaxTokens:   settings.General.MaxTokens,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to create chat model")
	}
	renderer := nlg.NewRenderer(chatModel, settings, rag.NewBuilder(st, validator, index, nil))

	var transcripts chat.Repository
	if cfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(cfg.ConversationTTL)
		if err != nil {
			logx.Fatal().Err(err).Str("ttl", cfg.ConversationTTL).Msg("invalid CONVERSATION_TTL")
		}
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to initialise Redis client")
		}
		defer rdb.Close()
		transcripts = chat.NewRedisRepository(rdb, ttl)
		logx.Info().Msg("transcript store: redis")
	} else {
		transcripts = chat.NewMemoryRepository()
		logx.Info().Msg("transcript store: in-memory")
	}

	srv := server.New(fmt.Sprintf(":%d", cfg.Port), controller, renderer, transcripts)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil {
		logx.Fatal().Err(err).Msg("http server failed")
	}
}
