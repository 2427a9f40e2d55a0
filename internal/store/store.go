// ABOUTME: Store interfaces and data types for healthbot persistence
// ABOUTME: Defines User, Conversation, DialogEntry structs and the store interfaces

package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// User represents a bot user keyed by the external sender ID assigned by the
// messaging platform (Matrix user ID, or the unique ID a websocket client
// presents). The dialog context is opaque: it belongs to the dialog engine
// and is round-tripped verbatim between turns.
type User struct {
	ID        string
	Context   json.RawMessage // may be nil before the first dialog turn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Conversation represents one continuous interaction for a user. Dialog
// entries are appended to it for as long as the dialog context carries its ID.
type Conversation struct {
	ID     string
	UserID string
	Date   int64 // milliseconds since epoch
}

// DialogEntry is a single logged turn within a conversation.
type DialogEntry struct {
	Name    string // the action tag that produced this turn's reply
	Message string // inbound message text
	Reply   string // outbound reply text
	Date    int64  // milliseconds since epoch
}

// UserStore persists users and their dialog context.
type UserStore interface {
	// GetOrCreateUser returns the user with the given ID, creating it if it
	// does not exist. Idempotent: uniqueness is enforced by the store, so
	// concurrent calls with the same unseen ID yield one user.
	GetOrCreateUser(ctx context.Context, id string) (*User, error)

	// UpdateUserContext replaces the user's dialog context wholesale.
	UpdateUserContext(ctx context.Context, id string, dialogContext json.RawMessage) error
}

// DialogStore persists conversation logs.
type DialogStore interface {
	// CreateConversation creates a new empty conversation owned by the user
	// and returns it with a store-assigned ID.
	CreateConversation(ctx context.Context, userID string) (*Conversation, error)

	// AddDialog appends an entry to an existing conversation.
	AddDialog(ctx context.Context, conversationID string, entry *DialogEntry) error

	// ListConversations returns the user's conversations, most recent first.
	ListConversations(ctx context.Context, userID string, limit int) ([]*Conversation, error)

	// GetDialogs returns a conversation's entries in append order.
	GetDialogs(ctx context.Context, conversationID string) ([]*DialogEntry, error)
}

// Store combines the user and dialog stores. The SQLite implementation backs
// both with one database.
type Store interface {
	UserStore
	DialogStore
	Close() error
}
