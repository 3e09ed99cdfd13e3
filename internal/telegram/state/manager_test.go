package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager(NewCacheStorage(time.Hour, time.Minute))
}

func TestBindAndGet(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	_, err := m.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrNoChat)

	_, err = m.Bind(ctx, 7, 70, "s-1")
	require.NoError(t, err)

	st, err := m.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "s-1", st.SessionID)
	assert.Equal(t, int64(70), st.ChatID)
}

func TestUpdate(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	_, err := m.Update(ctx, 7, func(st *ChatState) {})
	assert.ErrorIs(t, err, ErrNoChat)

	_, err = m.Bind(ctx, 7, 70, "s-1")
	require.NoError(t, err)

	st, err := m.Update(ctx, 7, func(st *ChatState) {
		st.MenuMessageID = 42
		st.PendingConfirmation = ConfirmCancel
	})
	require.NoError(t, err)
	assert.Equal(t, 42, st.MenuMessageID)

	got, err := m.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ConfirmCancel, got.PendingConfirmation)
}

func TestBindResetsState(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	_, err := m.Bind(ctx, 7, 70, "s-1")
	require.NoError(t, err)
	_, err = m.Update(ctx, 7, func(st *ChatState) { st.MenuMessageID = 5 })
	require.NoError(t, err)

	_, err = m.Bind(ctx, 7, 70, "s-2")
	require.NoError(t, err)

	st, err := m.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "s-2", st.SessionID)
	assert.Zero(t, st.MenuMessageID)
}

func TestDelete(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	_, err := m.Bind(ctx, 7, 70, "s-1")
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, 7))

	_, err = m.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrNoChat)
}
