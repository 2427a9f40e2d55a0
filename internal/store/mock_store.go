// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu            sync.RWMutex
	users         map[string]*User          // keyed by user ID
	conversations map[string]*Conversation  // keyed by conversation ID
	dialogs       map[string][]*DialogEntry // keyed by conversation ID

	// Error injection for failure-path tests. When set, the corresponding
	// operation returns the error instead of mutating state.
	UpdateUserContextErr  error
	CreateConversationErr error
	AddDialogErr          error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:         make(map[string]*User),
		conversations: make(map[string]*Conversation),
		dialogs:       make(map[string][]*DialogEntry),
	}
}

// GetOrCreateUser returns the user with the given ID, creating it on first sight.
func (m *MockStore) GetOrCreateUser(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		result := *u
		return &result, nil
	}

	now := time.Now().UTC()
	u := &User{ID: id, CreatedAt: now, UpdatedAt: now}
	m.users[id] = u

	result := *u
	return &result, nil
}

// UpdateUserContext replaces the user's dialog context.
func (m *MockStore) UpdateUserContext(ctx context.Context, id string, dialogContext json.RawMessage) error {
	if m.UpdateUserContextErr != nil {
		return m.UpdateUserContextErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}

	// Copy to avoid external modification
	u.Context = append(json.RawMessage(nil), dialogContext...)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CreateConversation creates a new conversation owned by the user.
func (m *MockStore) CreateConversation(ctx context.Context, userID string) (*Conversation, error) {
	if m.CreateConversationErr != nil {
		return nil, m.CreateConversationErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	conv := &Conversation{
		ID:     uuid.New().String(),
		UserID: userID,
		Date:   time.Now().UnixMilli(),
	}
	m.conversations[conv.ID] = conv

	result := *conv
	return &result, nil
}

// AddDialog appends an entry to an existing conversation.
func (m *MockStore) AddDialog(ctx context.Context, conversationID string, entry *DialogEntry) error {
	if m.AddDialogErr != nil {
		return m.AddDialogErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.conversations[conversationID]; !ok {
		return ErrNotFound
	}

	e := *entry
	m.dialogs[conversationID] = append(m.dialogs[conversationID], &e)
	return nil
}

// ListConversations returns the user's conversations, most recent first.
func (m *MockStore) ListConversations(ctx context.Context, userID string, limit int) ([]*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	var conversations []*Conversation
	for _, conv := range m.conversations {
		if conv.UserID == userID {
			result := *conv
			conversations = append(conversations, &result)
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].Date > conversations[j].Date
	})
	if len(conversations) > limit {
		conversations = conversations[:limit]
	}
	return conversations, nil
}

// GetDialogs returns a conversation's entries in append order.
func (m *MockStore) GetDialogs(ctx context.Context, conversationID string) ([]*DialogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*DialogEntry, 0, len(m.dialogs[conversationID]))
	for _, e := range m.dialogs[conversationID] {
		result := *e
		entries = append(entries, &result)
	}
	return entries, nil
}

// GetUser returns a stored user without creating it. Test helper.
func (m *MockStore) GetUser(id string) (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, false
	}
	result := *u
	return &result, true
}

// ConversationCount returns the number of stored conversations. Test helper.
func (m *MockStore) ConversationCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conversations)
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}
