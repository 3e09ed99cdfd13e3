package handlers

import (
	"context"
	"sync"
	"time"
)

// LoadingProgress rewrites the loading message while a recipe is generated.
// The text comes from the session view so it rotates on the session's clock.
type LoadingProgress struct {
	sender    *MessageSender
	chatID    int64
	messageID int
	interval  time.Duration
	text      func(ctx context.Context) (string, bool)
	typing    *TypingNotifier
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewLoadingProgress edits messageID every interval with text(). When text
// reports false the loading is over and the ticker stops on its own.
func NewLoadingProgress(
	sender *MessageSender,
	chatID int64,
	messageID int,
	interval time.Duration,
	text func(ctx context.Context) (string, bool),
) *LoadingProgress {
	return &LoadingProgress{
		sender:    sender,
		chatID:    chatID,
		messageID: messageID,
		interval:  interval,
		text:      text,
		typing:    NewTypingNotifier(sender, chatID),
		done:      make(chan struct{}),
	}
}

// Start begins the edits and the typing indicator
func (p *LoadingProgress) Start(ctx context.Context, current string) {
	p.typing.Start(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		last := current
		for {
			select {
			case <-ticker.C:
				text, loading := p.text(ctx)
				if !loading {
					return
				}
				if text == last {
					continue
				}
				last = text
				p.sender.Edit(p.chatID, p.messageID, text, nil)
			case <-p.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the edits and waits for an in-flight edit to land
func (p *LoadingProgress) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.typing.Stop()
	})
	p.wg.Wait()
}
