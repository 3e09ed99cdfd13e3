package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/remedy-companion/internal/config"
	"github.com/futig/remedy-companion/internal/telegram/handlers"
	"github.com/futig/remedy-companion/internal/telegram/keyboard"
	"github.com/futig/remedy-companion/internal/telegram/middleware"
	"github.com/futig/remedy-companion/internal/telegram/render"
	"github.com/futig/remedy-companion/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api          *tgbotapi.BotAPI
	sender       handlers.Sender
	cfg          *config.TelegramConfig
	stateManager *state.Manager
	handlers     map[string]handlers.Handler
	service      handlers.SessionService
	keyboard     *keyboard.Builder
	logger       *zap.Logger
	loggingMW    *middleware.LoggingMiddleware
	recoveryMW   *middleware.RecoveryMiddleware
	rateLimitMW  *middleware.RateLimiterMiddleware
	updatesChan  tgbotapi.UpdatesChannel
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	stateManager *state.Manager,
	service handlers.SessionService,
	kb *keyboard.Builder,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	b := newBot(api, cfg, stateManager, service, kb, logger)
	b.api = api
	return b, nil
}

func newBot(
	sender handlers.Sender,
	cfg *config.TelegramConfig,
	stateManager *state.Manager,
	service handlers.SessionService,
	kb *keyboard.Builder,
	logger *zap.Logger,
) *Bot {
	return &Bot{
		sender:       sender,
		cfg:          cfg,
		stateManager: stateManager,
		service:      service,
		keyboard:     kb,
		logger:       logger,
		handlers:     make(map[string]handlers.Handler),
		stopChan:     make(chan struct{}),
		loggingMW:    middleware.NewLoggingMiddleware(logger),
		recoveryMW:   middleware.NewRecoveryMiddleware(logger, sender),
		rateLimitMW: middleware.NewRateLimiterMiddleware(
			cfg.RateLimitPerMinute,
			cfg.RateLimitBurst,
			logger,
			sender,
		),
	}
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot API is not initialized")
	}

	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		if b.api != nil {
			b.api.StopReceivingUpdates()
		}
		b.rateLimitMW.Close()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware runs rate limiting, logging and recovery around the handler
func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, b.handleUpdate)
		})
	})
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	handler, exists := b.handlers[handlers.HandlerStateText]
	if !exists {
		ctxzap.Warn(ctx, "text handler not registered")
		return
	}

	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    message.From.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "text handler error",
			zap.Error(err),
			zap.Int64("user_id", msg.UserID),
		)
		b.sendError(msg.ChatID, render.ErrGeneric)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("user_id", message.From.ID),
	)

	switch command {
	case "start":
		b.handleStartCommand(ctx, message)
	case "help":
		b.sendError(message.Chat.ID, render.MsgHelp)
	case "cancel":
		b.handleCancelCommand(ctx, message)
	default:
		b.sendError(message.Chat.ID, render.ErrUnknownCommand)
	}
}

// handleStartCommand shows the welcome message, the session is created by the button
func (b *Bot) handleStartCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if _, err := b.sendMessage(chatID, render.MsgWelcome, b.keyboard.StartKeyboard()); err != nil {
		ctxzap.Error(ctx, "failed to send welcome message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// handleCancelCommand asks for confirmation first and closes the session on the second /cancel
func (b *Bot) handleCancelCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	st, err := b.stateManager.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, state.ErrNoChat) {
			ctxzap.Error(ctx, "failed to get chat state", zap.Error(err))
		}
		b.sendError(chatID, render.MsgNoSession)
		return
	}

	if st.PendingConfirmation == state.ConfirmCancel {
		handlers.CloseSession(ctx, b.service, b.stateManager, st)
		b.sendError(chatID, render.MsgSessionClosed)
		return
	}

	if _, err := b.stateManager.Update(ctx, userID, func(s *state.ChatState) {
		s.PendingConfirmation = state.ConfirmCancel
	}); err != nil {
		ctxzap.Error(ctx, "failed to update chat state", zap.Error(err))
		b.sendError(chatID, render.ErrGeneric)
		return
	}

	if _, err := b.sendMessage(chatID, render.MsgCancelConfirm, b.keyboard.CancelConfirmKeyboard()); err != nil {
		ctxzap.Error(ctx, "failed to send cancel confirmation", zap.Error(err))
	}
}

// handleCallbackQuery answers the query at once and handles it in the background
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil || query.Message == nil || query.Message.Chat == nil {
		b.answerCallback(query.ID, "")
		return
	}

	handler, exists := b.handlers[handlers.HandlerStateCallback]
	if !exists {
		ctxzap.Warn(ctx, "callback handler not registered")
		b.answerCallback(query.ID, "")
		return
	}

	// Telegram shows a spinner on the button until the query is answered
	b.answerCallback(query.ID, "")

	msg := &handlers.Message{
		ChatID:       query.Message.Chat.ID,
		UserID:       query.From.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := handler.Handle(ctx, msg); err != nil {
			ctxzap.Error(ctx, "callback handler error",
				zap.Error(err),
				zap.String("data", msg.CallbackData),
				zap.Int64("user_id", msg.UserID),
			)
			b.sendError(msg.ChatID, render.ErrGeneric)
		}
	}()
}

// sendMessage sends a message to chat
func (b *Bot) sendMessage(chatID int64, text string, replyMarkup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	return b.sender.Send(msg)
}

// sendError sends a plain message and only logs failures
func (b *Bot) sendError(chatID int64, text string) {
	if _, err := b.sendMessage(chatID, text, nil); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(callbackID string, text string) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

// RegisterHandler registers a handler for a state
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	name := handler.GetState()

	if !handlers.IsValidState(name) {
		b.logger.Fatal("invalid handler state",
			zap.String("state", name),
		)
	}

	b.handlers[name] = handler
	b.logger.Info("handler registered",
		zap.String("state", name),
	)
}

// GetSender returns the API used by handlers to talk to Telegram
func (b *Bot) GetSender() handlers.Sender {
	return b.sender
}

// GetStateManager returns the state manager (for handlers)
func (b *Bot) GetStateManager() *state.Manager {
	return b.stateManager
}

// GetKeyboard returns the keyboard builder (for handlers)
func (b *Bot) GetKeyboard() *keyboard.Builder {
	return b.keyboard
}

// GetSessionService returns the remedy session service (for handlers)
func (b *Bot) GetSessionService() handlers.SessionService {
	return b.service
}
