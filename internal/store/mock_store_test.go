package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_GetOrCreateUser_Idempotent(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	first, err := m.GetOrCreateUser(ctx, "U1")
	require.NoError(t, err)
	second, err := m.GetOrCreateUser(ctx, "U1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestMockStore_UpdateUserContext(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	_, err := m.GetOrCreateUser(ctx, "U1")
	require.NoError(t, err)

	err = m.UpdateUserContext(ctx, "U1", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)

	u, ok := m.GetUser("U1")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(u.Context))

	err = m.UpdateUserContext(ctx, "missing", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockStore_ConversationLog(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	conv, err := m.CreateConversation(ctx, "U1")
	require.NoError(t, err)

	err = m.AddDialog(ctx, conv.ID, &DialogEntry{Name: "a", Message: "m", Reply: "r", Date: 1})
	require.NoError(t, err)

	entries, err := m.GetDialogs(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Name)

	err = m.AddDialog(ctx, "missing", &DialogEntry{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockStore_ErrorInjection(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	boom := errors.New("boom")
	m.CreateConversationErr = boom
	_, err := m.CreateConversation(ctx, "U1")
	assert.ErrorIs(t, err, boom)

	m.AddDialogErr = boom
	err = m.AddDialog(ctx, "any", &DialogEntry{})
	assert.ErrorIs(t, err, boom)

	m.UpdateUserContextErr = boom
	err = m.UpdateUserContext(ctx, "any", nil)
	assert.ErrorIs(t, err, boom)
}
