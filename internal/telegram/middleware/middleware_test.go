package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func callbackUpdate(userID, chatID int64) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		CallbackQuery: &tgbotapi.CallbackQuery{
			From:    &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
			Data:    "act:start",
		},
	}
}

func TestRateLimiterBurstAndRefill(t *testing.T) {
	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(60, 2, zap.NewNop(), sender)
	defer rl.Close()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	for i := 0; i < 3; i++ {
		rl.Handle(callbackUpdate(1, 10), next)
	}
	assert.Equal(t, 2, handled)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(10), sender.sent[0].ChatID)

	// other users have their own bucket
	rl.Handle(callbackUpdate(2, 20), next)
	assert.Equal(t, 3, handled)

	// one token per second at 60 rpm
	clock = clock.Add(time.Second)
	rl.Handle(callbackUpdate(1, 10), next)
	assert.Equal(t, 4, handled)

	rl.Handle(callbackUpdate(1, 10), next)
	assert.Equal(t, 4, handled)
	assert.Len(t, sender.sent, 1, "warnings are throttled")
}

func TestRateLimiterRemovesInactive(t *testing.T) {
	rl := NewRateLimiterMiddleware(30, 5, zap.NewNop(), &fakeSender{})
	defer rl.Close()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Handle(callbackUpdate(1, 10), func(tgbotapi.Update) {})
	clock = clock.Add(2 * time.Hour)
	rl.removeInactive()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.limits)
}

func TestRecoveryMiddleware(t *testing.T) {
	sender := &fakeSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	assert.NotPanics(t, func() {
		m.Handle(callbackUpdate(1, 10), func(tgbotapi.Update) { panic("boom") })
	})
	require.Len(t, sender.sent, 1)
	assert.Equal(t, msgPanic, sender.sent[0].Text)
}

func TestLoggingMiddlewareCallsNext(t *testing.T) {
	m := NewLoggingMiddleware(zap.NewNop())

	called := false
	m.Handle(tgbotapi.Update{Message: &tgbotapi.Message{Text: "ciao", Chat: &tgbotapi.Chat{ID: 3}}}, func(tgbotapi.Update) {
		called = true
	})
	assert.True(t, called)
}
