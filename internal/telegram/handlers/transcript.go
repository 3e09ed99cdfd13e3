package handlers

import (
	"fmt"
	"sync"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/telegram/keyboard"
	"github.com/futig/remedy-companion/internal/telegram/render"
	"github.com/futig/remedy-companion/internal/usecase/walkthrough"
	"go.uber.org/zap"
)

// transcriptListener streams the preparation transcript into the chat.
// The last message of every step carries the step buttons.
type transcriptListener struct {
	sender        *MessageSender
	keyboard      *keyboard.Builder
	chatID        int64
	totalSteps    int
	savingEnabled bool
	logger        *zap.Logger

	mu   sync.Mutex
	step int
}

var _ walkthrough.Listener = (*transcriptListener)(nil)

func newTranscriptListener(
	sender *MessageSender,
	kb *keyboard.Builder,
	chatID int64,
	totalSteps int,
	savingEnabled bool,
	logger *zap.Logger,
) *transcriptListener {
	return &transcriptListener{
		sender:        sender,
		keyboard:      kb,
		chatID:        chatID,
		totalSteps:    totalSteps,
		savingEnabled: savingEnabled,
		logger:        logger,
	}
}

func (l *transcriptListener) OnComposing(on bool) {
	if on {
		l.sender.Typing(l.chatID)
	}
}

// OnMessages receives one batch per engine event: the greeting, a step with
// its optional tip, or the closing pair. User confirmations are not echoed,
// the tapped button already shows them.
func (l *transcriptListener) OnMessages(msgs []entity.ChatMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	app := make([]entity.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Origin == entity.OriginApp {
			app = append(app, m)
		}
	}
	if len(app) == 0 {
		return
	}

	if len(app) == 1 && app[0].Text == walkthrough.MsgGreeting {
		l.sender.Send(l.chatID, app[0].Text, nil)
		return
	}

	finished := app[len(app)-1].Text == walkthrough.MsgEnjoy
	if !finished {
		l.step++
	}

	for i, m := range app {
		text := render.RenderTranscriptMessage(m)
		if i == 0 && !finished {
			text = render.RenderStep(fmt.Sprintf("Passaggio %d di %d", l.step, l.totalSteps), text)
		}

		var markup interface{}
		if i == len(app)-1 {
			if finished {
				markup = l.keyboard.FinishedKeyboard(l.savingEnabled)
			} else {
				markup = l.keyboard.StepKeyboard()
			}
		}

		if _, err := l.sender.Send(l.chatID, text, markup); err != nil {
			l.logger.Warn("failed to stream walkthrough message",
				zap.Error(err),
				zap.Int64("chat_id", l.chatID),
			)
		}
	}
}
