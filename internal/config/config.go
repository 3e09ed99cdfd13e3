package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/remedy-companion/internal/catalog"
	pkgRetry "github.com/futig/remedy-companion/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	GenerationProviderGemini = "gemini"
	GenerationProviderHTTP   = "http"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Database configuration (optional, enables saved recipes)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MigrationsPath      string        `env:"MIGRATIONS_PATH" envDefault:"file://internal/repository/migrations"`

	// Generation
	GenerationCfg        GenerationConfig        `envPrefix:"GENERATION_"`
	GeminiCfg            GeminiConfig            `envPrefix:"GEMINI_"`
	LLMConnectorCfg      LLMConnectorConfig      `envPrefix:"LLM_"`
	CallbackConnectorCfg CallbackConnectorConfig `envPrefix:"CALLBACK_"`

	// Guided interaction
	WalkthroughCfg WalkthroughConfig `envPrefix:"WALKTHROUGH_"`
	SessionCfg     SessionConfig     `envPrefix:"SESSION_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Catalog override file (optional JSON)
	CatalogFile string `env:"CATALOG_FILE"`
	Catalog     *catalog.Catalog

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// GenerationConfig selects the text/image generator and how hard to try
type GenerationConfig struct {
	Provider string `env:"PROVIDER" envDefault:"gemini"`
	// Attempts defaults to a single call, failures surface to the user at once
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type GeminiConfig struct {
	APIKey      string `env:"API_KEY"`
	TextModel   string `env:"TEXT_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel  string `env:"IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	AspectRatio string `env:"ASPECT_RATIO" envDefault:"3:4"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	GenerateRecipeEndpoint string `env:"GENERATE_RECIPE_ENDPOINT" envDefault:"/v1/recipes"`
	GenerateImageEndpoint  string `env:"GENERATE_IMAGE_ENDPOINT" envDefault:"/v1/images"`
}

type CallbackConnectorConfig struct {
	HTTPClientConfig
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"90s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	TokenHeader           string        `env:"TOKEN_HEADER"`
	Url                   string        `env:"SERVICE_URL"`
}

// WalkthroughConfig holds the pacing of the preparation transcript
type WalkthroughConfig struct {
	GreetingDelay time.Duration `env:"GREETING_DELAY" envDefault:"800ms"`
	StartPause    time.Duration `env:"START_PAUSE" envDefault:"1s"`
	TypingDelay   time.Duration `env:"TYPING_DELAY" envDefault:"1500ms"`
}

type SessionConfig struct {
	TTL                    time.Duration `env:"TTL" envDefault:"2h"`
	CleanupInterval        time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	LoadingMessageInterval time.Duration `env:"LOADING_MESSAGE_INTERVAL" envDefault:"2500ms"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	WebhookURL         string `env:"WEBHOOK_URL"`
	UseWebhook         bool   `env:"USE_WEBHOOK" envDefault:"false"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int    `env:"MAX_CONCURRENT_USERS" envDefault:"100"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.GenerationCfg.Retry.Attempts == 0 {
		cfg.GenerationCfg.Retry = *pkgRetry.SingleAttemptConfig()
	}
	if cfg.CallbackConnectorCfg.Retry.Attempts == 0 {
		cfg.CallbackConnectorCfg.Retry = *pkgRetry.DefaultRetryConfig()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := loadCatalog(cfg); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.GenerationCfg.Provider {
	case GenerationProviderGemini:
		if cfg.GeminiCfg.APIKey == "" && !cfg.EnableMocks {
			errors = append(errors, "GEMINI_API_KEY is required for the gemini provider")
		}
	case GenerationProviderHTTP:
		if cfg.LLMConnectorCfg.Url == "" && !cfg.EnableMocks {
			errors = append(errors, "LLM_SERVICE_URL is required for the http provider")
		}
	default:
		errors = append(errors, fmt.Sprintf("GENERATION_PROVIDER must be %q or %q, got %q",
			GenerationProviderGemini, GenerationProviderHTTP, cfg.GenerationCfg.Provider))
	}

	if cfg.GenerationCfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("GENERATION_RETRY_ATTEMPTS must be between 1 and 10, got %d", cfg.GenerationCfg.Retry.Attempts))
	}

	for name, d := range map[string]time.Duration{
		"WALKTHROUGH_GREETING_DELAY": cfg.WalkthroughCfg.GreetingDelay,
		"WALKTHROUGH_START_PAUSE":    cfg.WalkthroughCfg.StartPause,
		"WALKTHROUGH_TYPING_DELAY":   cfg.WalkthroughCfg.TypingDelay,
	} {
		if d < 0 || d > time.Minute {
			errors = append(errors, fmt.Sprintf("%s must be between 0 and 1m, got %s", name, d))
		}
	}

	if cfg.SessionCfg.TTL < time.Minute {
		errors = append(errors, fmt.Sprintf("SESSION_TTL must be at least 1m, got %s", cfg.SessionCfg.TTL))
	}

	if cfg.SessionCfg.LoadingMessageInterval <= 0 {
		errors = append(errors, fmt.Sprintf("SESSION_LOADING_MESSAGE_INTERVAL must be positive, got %s", cfg.SessionCfg.LoadingMessageInterval))
	}

	// Validate Telegram configuration
	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func loadCatalog(cfg *Config) error {
	if cfg.CatalogFile == "" {
		cfg.Catalog = catalog.Default()
		return nil
	}

	c, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		return err
	}
	cfg.Catalog = c

	fmt.Printf("Loaded catalog from %s\n", cfg.CatalogFile)
	return nil
}

// SavingEnabled reports whether a database is configured for saved recipes
func (c *Config) SavingEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
