// Package walkthrough paces a recipe's steps as a chat transcript.
package walkthrough

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	MsgGreeting = "Pronti? Iniziamo! 🌿"
	MsgDone     = "Fatto! ✓"
	MsgFinished = "Perfetto! Il tuo rimedio è pronto! 🎉"
	MsgEnjoy    = "Goditi il tuo momento di benessere naturale."
)

// Listener receives transcript changes in the order they happen.
// Callbacks run outside the engine lock and may call back into the engine.
type Listener interface {
	OnComposing(composing bool)
	OnMessages(msgs []entity.ChatMessage)
}

type Delays struct {
	Greeting   time.Duration
	StartPause time.Duration
	Typing     time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Greeting:   800 * time.Millisecond,
		StartPause: time.Second,
		Typing:     1500 * time.Millisecond,
	}
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Option func(*Engine)

func WithDelays(d Delays) Option {
	return func(e *Engine) {
		e.delays = d
	}
}

func WithSleep(sleep SleepFunc) Option {
	return func(e *Engine) {
		e.sleep = sleep
	}
}

func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

type Engine struct {
	mu sync.Mutex

	recipe   *entity.Recipe
	delays   Delays
	sleep    SleepFunc
	listener Listener
	now      func() time.Time

	// closed when the user confirms exit or the session completes
	life   context.Context
	cancel context.CancelFunc

	cursor      int
	messages    []entity.ChatMessage
	composing   bool
	inFlight    bool
	started     bool
	exitPending bool
	closed      bool

	pending     []event
	dispatching bool
}

func NewEngine(recipe *entity.Recipe, opts ...Option) *Engine {
	life, cancel := context.WithCancel(context.Background())

	e := &Engine{
		recipe: recipe.Clone(),
		delays: DefaultDelays(),
		sleep:  Sleep,
		now:    time.Now,
		life:   life,
		cancel: cancel,
		cursor: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type event func(Listener)

// unlockAndNotify queues events and releases e.mu. The first goroutine to find
// the queue idle delivers everything queued, so listeners see events in the
// order the state changed and never run under the lock.
func (e *Engine) unlockAndNotify(events ...event) {
	if e.listener == nil {
		e.mu.Unlock()
		return
	}

	e.pending = append(e.pending, events...)
	if e.dispatching {
		e.mu.Unlock()
		return
	}

	e.dispatching = true
	for {
		batch := e.pending
		e.pending = nil
		if len(batch) == 0 {
			e.dispatching = false
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()

		for _, ev := range batch {
			ev(e.listener)
		}

		e.mu.Lock()
	}
}

func composingEvent(on bool) event {
	return func(l Listener) { l.OnComposing(on) }
}

func messagesEvent(msgs []entity.ChatMessage) event {
	out := append([]entity.ChatMessage(nil), msgs...)
	return func(l Listener) { l.OnMessages(out) }
}

func (e *Engine) newMessage(origin entity.MessageOrigin, text string, tip bool) entity.ChatMessage {
	return entity.ChatMessage{
		ID:        uuid.NewString(),
		Origin:    origin,
		Text:      text,
		IsTip:     tip,
		CreatedAt: e.now(),
	}
}

// runContext is cancelled when either parent or the engine ends
func (e *Engine) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(e.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// StartAsync shows the greeting and the first step in the background.
// The returned channel is closed when that sequence ends.
func (e *Engine) StartAsync(ctx context.Context) (<-chan struct{}, error) {
	return e.start(context.WithoutCancel(ctx))
}

// Start is StartAsync that waits for the first step. Cancelling ctx aborts it.
func (e *Engine) Start(ctx context.Context) error {
	done, err := e.start(ctx)
	if err != nil {
		return err
	}
	<-done
	return ctx.Err()
}

func (e *Engine) start(parent context.Context) (<-chan struct{}, error) {
	e.mu.Lock()
	if err := e.checkActiveLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if e.inFlight {
		e.mu.Unlock()
		return nil, entity.ErrAdvanceInProgress
	}
	if e.started {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: walkthrough already started", entity.ErrInvalidTransition)
	}

	e.started = true
	e.inFlight = true
	e.composing = true
	e.unlockAndNotify(composingEvent(true))

	done := make(chan struct{})
	go func() {
		defer close(done)

		ctx, cancel := e.runContext(parent)
		defer cancel()

		if !e.greet(ctx) {
			return
		}
		e.advance(ctx, 0, -1)
	}()

	return done, nil
}

func (e *Engine) greet(ctx context.Context) bool {
	if err := e.sleep(ctx, e.delays.Greeting); err != nil {
		e.abort(ctx, -1, err)
		return false
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	msg := e.newMessage(entity.OriginApp, MsgGreeting, false)
	e.composing = false
	e.messages = append(e.messages, msg)
	e.unlockAndNotify(composingEvent(false), messagesEvent([]entity.ChatMessage{msg}))

	if err := e.sleep(ctx, e.delays.StartPause); err != nil {
		e.abort(ctx, -1, err)
		return false
	}
	return true
}

// advance shows step n, or the completion messages when n == number of steps
func (e *Engine) advance(ctx context.Context, n, prev int) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.cursor = n
	wasComposing := e.composing
	e.composing = true
	if wasComposing {
		e.mu.Unlock()
	} else {
		e.unlockAndNotify(composingEvent(true))
	}

	if err := e.sleep(ctx, e.delays.Typing); err != nil {
		e.abort(ctx, prev, err)
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	var msgs []entity.ChatMessage
	if n < len(e.recipe.Steps) {
		step := e.recipe.Steps[n]
		msgs = append(msgs, e.newMessage(entity.OriginApp, step.Instruction, false))
		if step.Tip != "" {
			msgs = append(msgs, e.newMessage(entity.OriginApp, step.Tip, true))
		}
	} else {
		msgs = append(msgs,
			e.newMessage(entity.OriginApp, MsgFinished, false),
			e.newMessage(entity.OriginApp, MsgEnjoy, false),
		)
	}

	e.composing = false
	e.inFlight = false
	e.messages = append(e.messages, msgs...)
	e.unlockAndNotify(composingEvent(false), messagesEvent(msgs))

	ctxzap.Debug(ctx, "walkthrough advanced", zap.Int("cursor", n), zap.Int("steps", len(e.recipe.Steps)))
}

// abort undoes an interrupted advance so the user can retry it
func (e *Engine) abort(ctx context.Context, prev int, err error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	ctxzap.Info(ctx, "walkthrough delay interrupted", zap.Error(err))

	e.inFlight = false
	e.cursor = prev
	if prev < 0 {
		// nothing shown yet, allow a fresh start
		e.started = len(e.messages) > 0
	} else if last := len(e.messages) - 1; last >= 0 && e.messages[last].Origin == entity.OriginUser {
		// the retried confirm records its own "Fatto!"
		e.messages = e.messages[:last]
	}
	if !e.composing {
		e.mu.Unlock()
		return
	}
	e.composing = false
	e.unlockAndNotify(composingEvent(false))
}

// ConfirmAsync records "Fatto!" and advances in the background
func (e *Engine) ConfirmAsync(ctx context.Context) (<-chan struct{}, error) {
	return e.confirm(context.WithoutCancel(ctx))
}

// Confirm records "Fatto!" and waits for the next step
func (e *Engine) Confirm(ctx context.Context) error {
	done, err := e.confirm(ctx)
	if err != nil {
		return err
	}
	<-done
	return ctx.Err()
}

func (e *Engine) confirm(parent context.Context) (<-chan struct{}, error) {
	e.mu.Lock()
	if err := e.checkActiveLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if e.inFlight {
		e.mu.Unlock()
		return nil, entity.ErrAdvanceInProgress
	}
	if e.finishedLocked() {
		e.mu.Unlock()
		return nil, entity.ErrWalkthroughFinished
	}
	if !e.started {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: walkthrough not started", entity.ErrWalkthroughNotActive)
	}

	prev := e.cursor
	msg := e.newMessage(entity.OriginUser, MsgDone, false)
	e.messages = append(e.messages, msg)
	e.inFlight = true
	e.unlockAndNotify(messagesEvent([]entity.ChatMessage{msg}))

	done := make(chan struct{})
	go func() {
		defer close(done)

		ctx, cancel := e.runContext(parent)
		defer cancel()

		e.advance(ctx, prev+1, prev)
	}()

	return done, nil
}

func (e *Engine) checkActiveLocked() error {
	if e.closed {
		return entity.ErrWalkthroughNotActive
	}
	return nil
}

func (e *Engine) finishedLocked() bool {
	return e.cursor >= len(e.recipe.Steps) && !e.inFlight
}

// RequestExit opens the exit confirmation
func (e *Engine) RequestExit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActiveLocked(); err != nil {
		return err
	}
	e.exitPending = true
	return nil
}

// CancelExit dismisses the exit confirmation; the walkthrough continues
func (e *Engine) CancelExit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActiveLocked(); err != nil {
		return err
	}
	if !e.exitPending {
		return entity.ErrExitNotRequested
	}
	e.exitPending = false
	return nil
}

// ConfirmExit discards the transcript and closes the engine
func (e *Engine) ConfirmExit() error {
	e.mu.Lock()
	if err := e.checkActiveLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if !e.exitPending {
		e.mu.Unlock()
		return entity.ErrExitNotRequested
	}
	e.closeLocked()
	e.mu.Unlock()
	return nil
}

// Close ends the walkthrough without confirmation. Safe to call twice.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed {
		e.closeLocked()
	}
}

func (e *Engine) closeLocked() {
	e.closed = true
	e.exitPending = false
	e.messages = nil
	e.cursor = -1
	e.composing = false
	e.inFlight = false
	e.cancel()
}

// Snapshot is a point-in-time copy of the walkthrough
type Snapshot struct {
	Cursor      int                  `json:"cursor"`
	TotalSteps  int                  `json:"total_steps"`
	Messages    []entity.ChatMessage `json:"messages"`
	Composing   bool                 `json:"composing"`
	InFlight    bool                 `json:"in_flight"`
	Finished    bool                 `json:"finished"`
	ExitPending bool                 `json:"exit_pending"`
	Closed      bool                 `json:"closed"`
}

// CanConfirm reports whether "Fatto!" is enabled
func (s Snapshot) CanConfirm() bool {
	return !s.Closed && !s.InFlight && !s.Finished && len(s.Messages) > 0
}

// Progress is the header line: "Passaggio 2 di 4" or "Completato"
func (s Snapshot) Progress() string {
	if s.Finished {
		return "Completato"
	}
	return fmt.Sprintf("Passaggio %d di %d", max(1, s.Cursor+1), s.TotalSteps)
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		Cursor:      e.cursor,
		TotalSteps:  len(e.recipe.Steps),
		Messages:    append([]entity.ChatMessage{}, e.messages...),
		Composing:   e.composing,
		InFlight:    e.inFlight,
		Finished:    !e.closed && e.finishedLocked(),
		ExitPending: e.exitPending,
		Closed:      e.closed,
	}
}
