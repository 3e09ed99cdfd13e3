package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/pkg/logger"
	"github.com/futig/remedy-companion/internal/telegram/keyboard"
	"github.com/futig/remedy-companion/internal/telegram/render"
	"github.com/futig/remedy-companion/internal/telegram/state"
	"github.com/futig/remedy-companion/internal/usecase/flow"
	"github.com/futig/remedy-companion/internal/usecase/preference"
	"github.com/futig/remedy-companion/internal/usecase/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	msgRecipeReady   = "✅ Ecco il tuo rimedio!"
	msgPrepStopped   = "✖️ Preparazione interrotta."
	msgContinue      = "👍 Continuiamo."
	loadingPrefix    = "⏳ "
	errorPrefix      = "⚠️ "
	ownerPrefix      = "tg:"
	defaultLoadEvery = 2500 * time.Millisecond
)

// CallbackHandler handles all callback button clicks
type CallbackHandler struct {
	BaseHandler
	sender          *MessageSender
	stateManager    *state.Manager
	service         SessionService
	catalog         *catalog.Catalog
	keyboard        *keyboard.Builder
	loadingInterval time.Duration
	logger          *zap.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(
	bot Sender,
	stateManager *state.Manager,
	service SessionService,
	c *catalog.Catalog,
	kb *keyboard.Builder,
	loadingInterval time.Duration,
	logger *zap.Logger,
) *CallbackHandler {
	if loadingInterval <= 0 {
		loadingInterval = defaultLoadEvery
	}

	sender := NewMessageSender(bot, logger)
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateCallback,
			messageSender: sender,
		},
		sender:          sender,
		stateManager:    stateManager,
		service:         service,
		catalog:         c,
		keyboard:        kb,
		loadingInterval: loadingInterval,
		logger:          logger,
	}
}

// Handle routes callback queries to appropriate actions
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		return fmt.Errorf("parse callback: %w", err)
	}

	ctxzap.Debug(ctx, "handling callback",
		zap.String("callback_action", data.Action),
		zap.String("value", data.Value),
		zap.Int64("user_id", msg.UserID),
	)

	if data.Action == keyboard.ActionCommand && data.Value == keyboard.CmdStart {
		h.HandleError(ctx, msg.ChatID, h.handleStart(ctx, msg))
		return nil
	}

	st, err := h.stateManager.Get(ctx, msg.UserID)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}
	ctx = logger.WithSession(ctx, st.SessionID)

	h.HandleError(ctx, msg.ChatID, h.route(ctx, msg, st, data))
	return nil
}

func (h *CallbackHandler) route(ctx context.Context, msg *Message, st state.ChatState, data *keyboard.CallbackData) error {
	switch data.Action {
	case keyboard.ActionCommand:
		return h.handleCommand(ctx, msg, st, data.Value)
	case keyboard.ActionMenu:
		return h.showPage(ctx, msg, st, data.Value, "")
	case keyboard.ActionCategory:
		return h.showPage(ctx, msg, st, keyboard.ActionCategory, data.Value)
	case keyboard.ActionSymptom:
		return h.handlePreference(ctx, msg, st, preference.ActionToggleSymptom, data.Value, keyboard.MenuSymptoms, "")
	case keyboard.ActionPrepType:
		return h.handlePreference(ctx, msg, st, preference.ActionSetPrepType, data.Value, keyboard.MenuPrepType, "")
	case keyboard.ActionTime:
		return h.handlePreference(ctx, msg, st, preference.ActionSetTime, data.Value, keyboard.MenuTime, "")
	case keyboard.ActionIngredient:
		categoryID, ok := h.catalog.CategoryOfIngredient(data.Value)
		if !ok {
			return nil
		}
		return h.handlePreference(ctx, msg, st, preference.ActionToggleIngredient, data.Value, keyboard.ActionCategory, categoryID)
	case keyboard.ActionSelectAll:
		return h.handlePreference(ctx, msg, st, preference.ActionSelectCategory, data.Value, keyboard.ActionCategory, data.Value)
	case keyboard.ActionExit:
		return h.handleExit(ctx, msg, st, data.Value)
	case keyboard.ActionConfirm:
		return h.handleConfirmation(ctx, msg, st, data.Value)
	case keyboard.ActionDownload:
		return h.handleDownload(ctx, msg, st, data.Value)
	default:
		return fmt.Errorf("unknown action: %s", data.Action)
	}
}

func (h *CallbackHandler) handleCommand(ctx context.Context, msg *Message, st state.ChatState, value string) error {
	switch value {
	case keyboard.CmdCreate:
		return h.handleCreate(ctx, msg, st)
	case keyboard.CmdRegenerate:
		return h.handleRegenerate(ctx, msg, st)
	case keyboard.CmdBack:
		return h.handleBack(ctx, msg, st)
	case keyboard.CmdDismiss:
		return h.handleDismiss(ctx, msg, st)
	case keyboard.CmdPrepare:
		return h.handlePrepare(ctx, msg, st)
	case keyboard.CmdDone:
		return h.handleDone(ctx, msg, st)
	case keyboard.CmdExit:
		return h.handleRequestExit(ctx, msg, st)
	case keyboard.CmdNewRemedy:
		return h.handleNewRemedy(ctx, msg, st)
	case keyboard.CmdSave:
		return h.handleSave(ctx, msg, st)
	default:
		return fmt.Errorf("unknown command value: %s", value)
	}
}

// handleStart drops any previous session and opens the selection menu
func (h *CallbackHandler) handleStart(ctx context.Context, msg *Message) error {
	if old, err := h.stateManager.Get(ctx, msg.UserID); err == nil && old.SessionID != "" {
		if err := h.service.Delete(ctx, old.SessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
			ctxzap.Warn(ctx, "failed to delete previous session",
				zap.Error(err),
				zap.String("session_id", old.SessionID),
			)
		}
	}

	view, err := h.service.Create(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if _, err := h.stateManager.Bind(ctx, msg.UserID, msg.ChatID, view.SessionID); err != nil {
		return err
	}

	ctx = logger.WithSession(ctx, view.SessionID)
	ctxzap.Info(ctx, "telegram session started", zap.Int64("user_id", msg.UserID))

	h.sender.ClearKeyboard(msg.ChatID, msg.MessageID)
	return h.sendMenu(ctx, msg, view)
}

// sendMenu posts a fresh selection menu and remembers it for in-place edits
func (h *CallbackHandler) sendMenu(ctx context.Context, msg *Message, view *session.View) error {
	sent, err := h.sender.Send(msg.ChatID,
		render.RenderMenu(view.Preferences, ""),
		h.keyboard.MainMenu(view.Preferences, view.Submittable),
	)
	if err != nil {
		return fmt.Errorf("send menu: %w", err)
	}

	_, err = h.stateManager.Update(ctx, msg.UserID, func(st *state.ChatState) {
		st.MenuMessageID = sent.MessageID
	})
	return err
}

// page returns the text and keyboard of one selection page
func (h *CallbackHandler) page(view *session.View, page, categoryID string) (string, tgbotapi.InlineKeyboardMarkup, bool) {
	prefs := view.Preferences

	switch page {
	case keyboard.MenuMain:
		return render.RenderMenu(prefs, ""), h.keyboard.MainMenu(prefs, view.Submittable), true
	case keyboard.MenuSymptoms:
		return render.MsgSymptoms, h.keyboard.SymptomsKeyboard(prefs), true
	case keyboard.MenuPrepType:
		return render.MsgPrepType, h.keyboard.PrepTypeKeyboard(prefs), true
	case keyboard.MenuTime:
		return render.MsgTime, h.keyboard.TimeKeyboard(prefs), true
	case keyboard.MenuIngredients:
		return render.MsgIngredients, h.keyboard.IngredientCategoriesKeyboard(prefs), true
	case keyboard.ActionCategory:
		cat, ok := h.catalog.IngredientCategory(categoryID)
		if !ok {
			return "", tgbotapi.InlineKeyboardMarkup{}, false
		}
		markup, _ := h.keyboard.IngredientsKeyboard(prefs, categoryID)
		return render.RenderCategory(cat.Icon, cat.Title), markup, true
	default:
		return "", tgbotapi.InlineKeyboardMarkup{}, false
	}
}

// showPage redraws the tapped menu message as the requested page
func (h *CallbackHandler) showPage(ctx context.Context, msg *Message, st state.ChatState, page, categoryID string) error {
	view, err := h.service.View(ctx, st.SessionID)
	if err != nil {
		return err
	}
	if view.Screen != entity.ScreenSelection {
		return entity.TransitionError(view.Screen, "open menu")
	}

	text, markup, ok := h.page(view, page, categoryID)
	if !ok {
		return fmt.Errorf("%w: unknown menu page %q", entity.ErrInvalidParameter, page)
	}
	return h.sender.Edit(msg.ChatID, msg.MessageID, text, &markup)
}

// handlePreference applies one selection edit. Rejected edits, such as a
// disabled symptom, change nothing and leave the message untouched.
func (h *CallbackHandler) handlePreference(
	ctx context.Context,
	msg *Message,
	st state.ChatState,
	action preference.Action,
	value, page, categoryID string,
) error {
	changed, err := h.service.UpdatePreferences(ctx, st.SessionID, preference.Change{Action: action, Value: value})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return h.showPage(ctx, msg, st, page, categoryID)
}

func (h *CallbackHandler) handleCreate(ctx context.Context, msg *Message, st state.ChatState) error {
	view, err := h.service.View(ctx, st.SessionID)
	if err != nil {
		return err
	}
	if view.Screen != entity.ScreenSelection {
		return entity.TransitionError(view.Screen, "submit")
	}
	if !view.Submittable {
		return nil
	}

	// the menu message turns into the loading message
	loadingID := msg.MessageID
	if err := h.sender.Edit(msg.ChatID, loadingID, loadingPrefix+flow.LoadingMessage(0), nil); err != nil {
		return err
	}

	view, err = h.generate(ctx, msg.ChatID, loadingID, st.SessionID, h.service.Submit)
	if err != nil {
		if view == nil || view.Error == "" {
			return err
		}
		ctxzap.Warn(ctx, "recipe generation failed", zap.Error(err))
		markup := h.keyboard.ErrorKeyboard()
		return h.sender.Edit(msg.ChatID, loadingID, render.RenderMenu(view.Preferences, view.Error), &markup)
	}

	h.editStatus(ctx, msg.ChatID, loadingID, msgRecipeReady)
	return h.sendPreview(ctx, msg.ChatID, view.Recipe)
}

func (h *CallbackHandler) handleRegenerate(ctx context.Context, msg *Message, st state.ChatState) error {
	view, err := h.service.View(ctx, st.SessionID)
	if err != nil {
		return err
	}
	if view.Screen != entity.ScreenPreview {
		return entity.TransitionError(view.Screen, "regenerate")
	}

	h.sender.ClearKeyboard(msg.ChatID, msg.MessageID)

	loading, err := h.sender.Send(msg.ChatID, loadingPrefix+flow.LoadingMessage(0), nil)
	if err != nil {
		return fmt.Errorf("send loading message: %w", err)
	}

	view, err = h.generate(ctx, msg.ChatID, loading.MessageID, st.SessionID, h.service.Regenerate)
	if err != nil {
		if view == nil || view.Error == "" {
			return err
		}
		ctxzap.Warn(ctx, "recipe regeneration failed", zap.Error(err))

		// the previous recipe is still on screen, keep its buttons usable
		markup := h.keyboard.PreviewKeyboard()
		if err := h.sender.Edit(msg.ChatID, loading.MessageID, errorPrefix+view.Error, &markup); err != nil {
			return err
		}
		_, err = h.service.DismissError(ctx, st.SessionID)
		return err
	}

	h.editStatus(ctx, msg.ChatID, loading.MessageID, msgRecipeReady)
	return h.sendPreview(ctx, msg.ChatID, view.Recipe)
}

// generate runs a blocking generation while the loading message rotates
func (h *CallbackHandler) generate(
	ctx context.Context,
	chatID int64,
	loadingID int,
	sessionID string,
	run func(ctx context.Context, id string) (*session.View, error),
) (*session.View, error) {
	progress := NewLoadingProgress(h.sender, chatID, loadingID, h.loadingInterval,
		func(ctx context.Context) (string, bool) {
			view, err := h.service.View(ctx, sessionID)
			if err != nil || view.Screen != entity.ScreenLoading {
				return "", false
			}
			return loadingPrefix + view.LoadingMessage, true
		},
	)
	progress.Start(ctx, loadingPrefix+flow.LoadingMessage(0))
	defer progress.Stop()

	return run(ctx, sessionID)
}

// sendPreview posts the recipe image and card
func (h *CallbackHandler) sendPreview(ctx context.Context, chatID int64, recipe *entity.Recipe) error {
	if recipe == nil {
		return entity.ErrNoRecipe
	}

	if recipe.ImageURL != "" {
		if err := h.sender.SendPhoto(chatID, recipe.ImageURL, recipe.Title); err != nil {
			ctxzap.Warn(ctx, "failed to send recipe image", zap.Error(err))
		}
	}

	if _, err := h.sender.Send(chatID, render.RenderRecipeCard(recipe), h.keyboard.PreviewKeyboard()); err != nil {
		return fmt.Errorf("send recipe card: %w", err)
	}
	return nil
}

func (h *CallbackHandler) handleBack(ctx context.Context, msg *Message, st state.ChatState) error {
	view, err := h.service.Back(ctx, st.SessionID)
	if err != nil {
		return err
	}

	h.sender.ClearKeyboard(msg.ChatID, msg.MessageID)
	return h.sendMenu(ctx, msg, view)
}

// handleDismiss closes a generation failure notice and shows the menu again
func (h *CallbackHandler) handleDismiss(ctx context.Context, msg *Message, st state.ChatState) error {
	view, err := h.service.DismissError(ctx, st.SessionID)
	if err != nil {
		return err
	}

	text, markup, _ := h.page(view, keyboard.MenuMain, "")
	if err := h.sender.Edit(msg.ChatID, msg.MessageID, text, &markup); err != nil {
		return err
	}

	_, err = h.stateManager.Update(ctx, msg.UserID, func(st *state.ChatState) {
		st.MenuMessageID = msg.MessageID
	})
	return err
}

func (h *CallbackHandler) handlePrepare(ctx context.Context, msg *Message, st state.ChatState) error {
	view, err := h.service.View(ctx, st.SessionID)
	if err != nil {
		return err
	}
	if view.Recipe == nil {
		return entity.ErrNoRecipe
	}

	listener := newTranscriptListener(
		h.sender,
		h.keyboard,
		msg.ChatID,
		view.Recipe.TotalSteps(),
		h.service.SavingEnabled(),
		ctxzap.Extract(ctx),
	)

	if _, err := h.service.StartPreparation(ctx, st.SessionID, listener); err != nil {
		return err
	}

	h.sender.ClearKeyboard(msg.ChatID, msg.MessageID)
	return nil
}

func (h *CallbackHandler) handleDone(ctx context.Context, msg *Message, st state.ChatState) error {
	if _, err := h.service.ConfirmStep(ctx, st.SessionID); err != nil {
		if errors.Is(err, entity.ErrAdvanceInProgress) {
			// double tap while the next step is composed
			return nil
		}
		return err
	}

	h.sender.ClearKeyboard(msg.ChatID, msg.MessageID)
	return nil
}

func (h *CallbackHandler) handleRequestExit(ctx context.Context, msg *Message, st state.ChatState) error {
	if err := h.service.RequestExit(ctx, st.SessionID); err != nil {
		return err
	}

	_, err := h.sender.SendCritical(ctx, msg.ChatID, render.MsgExitConfirm, h.keyboard.ExitConfirmKeyboard())
	return err
}

func (h *CallbackHandler) handleExit(ctx context.Context, msg *Message, st state.ChatState, value string) error {
	switch value {
	case keyboard.ExitConfirm:
		view, err := h.service.ConfirmExit(ctx, st.SessionID)
		if err != nil {
			return err
		}
		h.editStatus(ctx, msg.ChatID, msg.MessageID, msgPrepStopped)
		return h.sendPreview(ctx, msg.ChatID, view.Recipe)

	case keyboard.ExitCancel:
		if err := h.service.CancelExit(ctx, st.SessionID); err != nil {
			return err
		}
		return h.sender.Edit(msg.ChatID, msg.MessageID, render.MsgExitCancelled, nil)

	default:
		return fmt.Errorf("unknown exit value: %s", value)
	}
}

// editStatus rewrites a status line. The flow goes on when Telegram refuses the edit.
func (h *CallbackHandler) editStatus(ctx context.Context, chatID int64, messageID int, text string) {
	if err := h.sender.Edit(chatID, messageID, text, nil); err != nil {
		ctxzap.Warn(ctx, "failed to update status message",
			zap.Error(err),
			zap.Int("message_id", messageID),
		)
	}
}

// handleNewRemedy closes a finished preparation and starts over in the same session
func (h *CallbackHandler) handleNewRemedy(ctx context.Context, msg *Message, st state.ChatState) error {
	view, err := h.service.Complete(ctx, st.SessionID)
	if err != nil {
		return err
	}

	h.sender.ClearKeyboard(msg.ChatID, msg.MessageID)
	h.sendMessage(msg.ChatID, render.MsgNewRemedy, nil)
	return h.sendMenu(ctx, msg, view)
}

func (h *CallbackHandler) handleSave(ctx context.Context, msg *Message, st state.ChatState) error {
	owner := fmt.Sprintf("%s%d", ownerPrefix, msg.UserID)

	saved, err := h.service.SaveRecipe(ctx, st.SessionID, owner)
	if err != nil {
		return err
	}

	ctxzap.Info(ctx, "recipe saved from telegram", zap.String("recipe_id", saved.ID))
	h.sendMessage(msg.ChatID, render.MsgSaved, nil)
	return nil
}

func (h *CallbackHandler) handleDownload(ctx context.Context, msg *Message, st state.ChatState, value string) error {
	format, err := entity.ParseExportFormat(value)
	if err != nil {
		return err
	}

	export, err := h.service.ExportRecipe(ctx, st.SessionID, format)
	if err != nil {
		return err
	}

	return h.sender.SendDocument(msg.ChatID, export.FileName, export.Data)
}

// handleConfirmation resolves the /cancel prompt
func (h *CallbackHandler) handleConfirmation(ctx context.Context, msg *Message, st state.ChatState, value string) error {
	if st.PendingConfirmation != state.ConfirmCancel {
		return h.sender.Edit(msg.ChatID, msg.MessageID, msgContinue, nil)
	}

	switch value {
	case keyboard.ConfirmCancel:
		CloseSession(ctx, h.service, h.stateManager, st)
		return h.sender.Edit(msg.ChatID, msg.MessageID, render.MsgSessionClosed, nil)

	case keyboard.ConfirmContinue:
		if _, err := h.stateManager.Update(ctx, msg.UserID, func(st *state.ChatState) {
			st.PendingConfirmation = ""
		}); err != nil {
			return err
		}
		return h.sender.Edit(msg.ChatID, msg.MessageID, msgContinue, nil)

	default:
		return fmt.Errorf("unknown confirmation value: %s", value)
	}
}

// CloseSession drops the remedy session and the chat mapping
func CloseSession(ctx context.Context, service SessionService, stateManager *state.Manager, st state.ChatState) {
	if st.SessionID != "" {
		if err := service.Delete(ctx, st.SessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
			ctxzap.Error(ctx, "failed to delete session",
				zap.Error(err),
				zap.String("session_id", st.SessionID),
			)
		}
	}

	if err := stateManager.Delete(ctx, st.UserID); err != nil {
		ctxzap.Error(ctx, "failed to delete chat state",
			zap.Error(err),
			zap.Int64("user_id", st.UserID),
		)
	}
}
