package state

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager serializes read-modify-write cycles on chat states
type Manager struct {
	storage Storage
	mu      sync.Mutex
	now     func() time.Time
}

func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		now:     time.Now,
	}
}

// Get returns the chat state of a user or ErrNoChat
func (m *Manager) Get(ctx context.Context, userID int64) (ChatState, error) {
	st, err := m.storage.Get(ctx, userID)
	if err != nil {
		return ChatState{}, fmt.Errorf("get chat state: %w", err)
	}
	return st, nil
}

// Bind starts a fresh chat state for a new remedy session
func (m *Manager) Bind(ctx context.Context, userID, chatID int64, sessionID string) (ChatState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := ChatState{
		UserID:    userID,
		ChatID:    chatID,
		SessionID: sessionID,
		UpdatedAt: m.now(),
	}
	if err := m.storage.Set(ctx, st); err != nil {
		return ChatState{}, fmt.Errorf("save chat state: %w", err)
	}
	return st, nil
}

// Update applies fn to the stored state and saves the result
func (m *Manager) Update(ctx context.Context, userID int64, fn func(st *ChatState)) (ChatState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.storage.Get(ctx, userID)
	if err != nil {
		return ChatState{}, fmt.Errorf("get chat state: %w", err)
	}

	fn(&st)
	st.UpdatedAt = m.now()

	if err := m.storage.Set(ctx, st); err != nil {
		return ChatState{}, fmt.Errorf("save chat state: %w", err)
	}
	return st, nil
}

func (m *Manager) Delete(ctx context.Context, userID int64) error {
	if err := m.storage.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete chat state: %w", err)
	}
	return nil
}
