package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/graph"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/graph/nodes"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/language"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/memory"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/repo"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/tools"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/api"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/contacts"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/core"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/kb"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
	pkgredis "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/redis"
)

// AppConfig defines all configurable parameters of the agent service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8000"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Session    model.SessionConfig
	Response   model.ResponseModelConfig
	Classifier model.ClassifierModelConfig
	Agent      model.AgentConfig
	Contacts   model.ContactsConfig
	Knowledge  model.KnowledgeConfig
}

// redisPinger adapts the go-redis client to the health handler.
type redisPinger struct {
	rdb *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		logx.Info().Msg("No .env file found, using environment variables")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})
	logx.Info().Str("environment", env.String()).Str("port", cfg.Port).Msg("Starting agent service")

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	defer rdb.Close()
	logx.Info().Msg("Connected to Redis")

	ttl, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", cfg.Session.TTL).Msg("Invalid SESSION_TTL")
	}

	models, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		RespConfig:       &cfg.Response,
		ClassifierConfig: &cfg.Classifier,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat models")
	}

	// The knowledge base is optional: without DATABASE_URL the search
	// tool answers "nothing found" instead of querying.
	var knowledge tools.KnowledgeBase
	if cfg.Knowledge.DatabaseURL != "" {
		pool, err := kb.NewPool(ctx, cfg.Knowledge.DatabaseURL)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to connect to knowledge base")
		}
		defer pool.Close()
		store := kb.NewStore(pool, models.Client(), cfg.Knowledge)
		knowledge = kb.NewService(store, models.Classifier)
		logx.Info().Msg("Knowledge base connected")
	} else {
		logx.Warn().Msg("DATABASE_URL not set - knowledge base search disabled")
	}

	builder := graph.NewBuilder(models, knowledge, cfg.Agent.MaxToolCalls)

	sessions := repo.NewRedisSessionRepository(rdb, ttl, cfg.Session.KeyPrefix)
	detector := language.NewDetector(models.Classifier)
	summarizer := memory.NewLLMSummarizer(models.Classifier)

	var directory agent.ContactDirectory
	if cfg.Contacts.BackendURL != "" {
		directory = contacts.NewClient(cfg.Contacts)
		logx.Info().Msg("Contact directory enabled")
	}

	orchestrator := agent.NewOrchestrator(sessions, builder, detector, summarizer, directory, cfg.Agent.MemoryTokenBudget)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	api.NewWhatsAppHandler(orchestrator).RegisterRoutes(r)
	r.Get("/healthz", api.NewHealthHandler(redisPinger{rdb}).Healthz)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logx.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-serveCtx.Done()
	stop()
	logx.Info().Msg("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("Server forced to shutdown")
	}
	logx.Info().Msg("Server stopped")
}
