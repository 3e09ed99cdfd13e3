package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/config"
	"github.com/futig/remedy-companion/internal/telegram/bot"
	"github.com/futig/remedy-companion/internal/telegram/handlers"
	"github.com/futig/remedy-companion/internal/telegram/keyboard"
	"github.com/futig/remedy-companion/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	sessionCfg config.SessionConfig,
	service handlers.SessionService,
	c *catalog.Catalog,
	logger *zap.Logger,
) (Bot, error) {
	stateManager := state.NewManager(state.NewCacheStorage(sessionCfg.TTL, sessionCfg.CleanupInterval))

	b, err := bot.New(cfg, stateManager, service, keyboard.NewBuilder(c), logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	registerHandlers(b, c, sessionCfg.LoadingMessageInterval, logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(b *bot.Bot, c *catalog.Catalog, loadingInterval time.Duration, logger *zap.Logger) {
	api := b.GetSender()
	stateManager := b.GetStateManager()
	kb := b.GetKeyboard()

	b.RegisterHandler(handlers.NewCallbackHandler(api, stateManager, b.GetSessionService(), c, kb, loadingInterval, logger))
	b.RegisterHandler(handlers.NewTextHandler(api, stateManager, kb, logger))

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", 2),
	)
}
