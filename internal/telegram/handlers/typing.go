package handlers

import (
	"context"
	"sync"
	"time"
)

// Telegram typing action expires after 5 seconds
const typingActionInterval = 4 * time.Second

// TypingNotifier sends periodic "typing" actions to show bot activity
type TypingNotifier struct {
	sender   *MessageSender
	chatID   int64
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewTypingNotifier creates a new typing indicator
func NewTypingNotifier(sender *MessageSender, chatID int64) *TypingNotifier {
	return &TypingNotifier{
		sender:   sender,
		chatID:   chatID,
		interval: typingActionInterval,
		done:     make(chan struct{}),
	}
}

// Start sends a typing action now and keeps it alive until Stop or ctx ends
func (t *TypingNotifier) Start(ctx context.Context) {
	t.sender.Typing(t.chatID)

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.sender.Typing(t.chatID)
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops sending typing indicators
func (t *TypingNotifier) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}
