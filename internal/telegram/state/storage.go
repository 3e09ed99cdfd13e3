package state

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/futig/remedy-companion/internal/repository"
)

// ErrNoChat is returned when a user has no bound remedy session
var ErrNoChat = errors.New("telegram chat state not found")

// Pending confirmations
const (
	ConfirmCancel = "cancel"
)

// ChatState maps a Telegram user to a remedy session plus the few message ids
// the bot edits in place
type ChatState struct {
	UserID    int64
	ChatID    int64
	SessionID string

	// Selection menu message, edited on every preference change
	MenuMessageID int
	// Last transcript message that carries the step buttons
	StepMessageID int

	// Confirmation for destructive actions
	PendingConfirmation string

	UpdatedAt time.Time
}

// Storage defines the interface for chat state persistence
type Storage interface {
	Get(ctx context.Context, userID int64) (ChatState, error)
	Set(ctx context.Context, state ChatState) error
	Delete(ctx context.Context, userID int64) error
}

// CacheStorage keeps chat states in memory next to the sessions they point to
type CacheStorage struct {
	store *repository.CacheStore[ChatState]
}

func NewCacheStorage(ttl, cleanupInterval time.Duration) *CacheStorage {
	return &CacheStorage{
		store: repository.NewCacheStore[ChatState](ttl, cleanupInterval, ErrNoChat),
	}
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *CacheStorage) Get(ctx context.Context, userID int64) (ChatState, error) {
	return s.store.Get(ctx, key(userID))
}

func (s *CacheStorage) Set(ctx context.Context, state ChatState) error {
	return s.store.Set(ctx, key(state.UserID), state)
}

func (s *CacheStorage) Delete(ctx context.Context, userID int64) error {
	return s.store.Delete(ctx, key(userID))
}
