package handlers

import (
	"context"
	"errors"

	"github.com/futig/remedy-companion/internal/telegram/keyboard"
	"github.com/futig/remedy-companion/internal/telegram/render"
	"github.com/futig/remedy-companion/internal/telegram/state"
	"go.uber.org/zap"
)

const msgUseButtons = "👆 Usa i pulsanti per scegliere."

// TextHandler answers free text. The remedy flow is driven by buttons only.
type TextHandler struct {
	BaseHandler
	stateManager *state.Manager
	keyboard     *keyboard.Builder
}

func NewTextHandler(bot Sender, stateManager *state.Manager, kb *keyboard.Builder, logger *zap.Logger) *TextHandler {
	return &TextHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateText,
			messageSender: NewMessageSender(bot, logger),
		},
		stateManager: stateManager,
		keyboard:     kb,
	}
}

func (h *TextHandler) Handle(ctx context.Context, msg *Message) error {
	if _, err := h.stateManager.Get(ctx, msg.UserID); err != nil {
		if !errors.Is(err, state.ErrNoChat) {
			return err
		}
		h.sendMessage(msg.ChatID, render.MsgWelcome, h.keyboard.StartKeyboard())
		return nil
	}

	h.sendMessage(msg.ChatID, msgUseButtons, nil)
	return nil
}
