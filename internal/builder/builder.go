package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/remedy-companion/internal/api"
	remedyapi "github.com/futig/remedy-companion/internal/api/remedy"
	"github.com/futig/remedy-companion/internal/config"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/integration/callback"
	"github.com/futig/remedy-companion/internal/integration/gemini"
	"github.com/futig/remedy-companion/internal/integration/llm"
	"github.com/futig/remedy-companion/internal/pkg/formatter"
	"github.com/futig/remedy-companion/internal/pkg/validator"
	"github.com/futig/remedy-companion/internal/repository"
	"github.com/futig/remedy-companion/internal/telegram"
	"github.com/futig/remedy-companion/internal/usecase/generation"
	"github.com/futig/remedy-companion/internal/usecase/session"
	"github.com/futig/remedy-companion/internal/usecase/walkthrough"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// generationConnector produces both recipe text and images
type generationConnector interface {
	generation.TextConnector
	generation.ImageConnector
}

// core holds what both entry points share
type core struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *session.Service
	validator *validator.Validator
	db        *pgxpool.Pool
}

func buildCore(ctx context.Context, component string) (*core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	logger = logger.With(zap.String("component", component))

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("generation_provider", cfg.GenerationCfg.Provider),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	saved, db, err := setupSavedRecipes(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	conn, err := setupGenerationConnector(ctx, cfg, logger)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	v := validator.New()
	gen := generation.NewClient(conn, conn, v, cfg.GenerationCfg.Retry)

	store := repository.NewCacheStore[*session.Session](
		cfg.SessionCfg.TTL,
		cfg.SessionCfg.CleanupInterval,
		entity.ErrSessionNotFound,
	)
	store.OnEvicted(func(id string, s *session.Session) {
		s.Close()
		logger.Debug("session evicted", zap.String("session_id", id))
	})

	service := session.NewService(store, gen, cfg.Catalog, saved, formatter.NewFactory(), session.Config{
		Delays: walkthrough.Delays{
			Greeting:   cfg.WalkthroughCfg.GreetingDelay,
			StartPause: cfg.WalkthroughCfg.StartPause,
			Typing:     cfg.WalkthroughCfg.TypingDelay,
		},
		LoadingInterval: cfg.SessionCfg.LoadingMessageInterval,
	})
	logger.Info("Session service initialized",
		zap.Duration("session_ttl", cfg.SessionCfg.TTL),
		zap.Bool("saving_enabled", service.SavingEnabled()),
	)

	return &core{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		validator: v,
		db:        db,
	}, nil
}

func setupGenerationConnector(ctx context.Context, cfg *config.Config, logger *zap.Logger) (generationConnector, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock connector for recipe generation")
		return llm.NewMockConnector(logger), nil
	}

	switch cfg.GenerationCfg.Provider {
	case config.GenerationProviderHTTP:
		logger.Info("Using HTTP generator service", zap.String("url", cfg.LLMConnectorCfg.Url))
		return llm.NewConnector(cfg.LLMConnectorCfg, logger), nil
	default:
		logger.Info("Using Gemini for recipe generation",
			zap.String("text_model", cfg.GeminiCfg.TextModel),
			zap.String("image_model", cfg.GeminiCfg.ImageModel),
		)
		conn, err := gemini.NewConnector(ctx, cfg.GeminiCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup gemini connector: %w", err)
		}
		return conn, nil
	}
}

func Build() (*App, error) {
	c, err := buildCore(context.Background(), "api")
	if err != nil {
		return nil, err
	}
	logger := c.logger

	callbackConnector := callback.NewConnector(c.cfg.CallbackConnectorCfg, logger)
	remedyHandler := remedyapi.NewHandler(c.service, c.validator, callbackConnector)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(remedyHandler, c.cfg.RequestTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         c.cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: c.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("server_addr", c.cfg.ServerAddr),
	)

	return &App{
		server:          server,
		db:              c.db,
		logger:          logger,
		shutdownTimeout: c.cfg.ShutdownTimeout,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, func(), error) {
	c, err := buildCore(context.Background(), "telegram")
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		if c.db != nil {
			c.db.Close()
		}
		_ = c.logger.Sync()
	}

	if c.cfg.TelegramCfg.BotToken == "" {
		cleanup()
		return nil, nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	bot, err := telegram.NewBot(&c.cfg.TelegramCfg, c.cfg.SessionCfg, c.service, c.cfg.Catalog, c.logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("Telegram bot built successfully")

	return bot, c.logger, cleanup, nil
}
