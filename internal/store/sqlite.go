// ABOUTME: SQLite implementation of the store interfaces using modernc.org/sqlite
// ABOUTME: Provides user and conversation-log persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			context TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			date INTEGER NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE INDEX IF NOT EXISTS idx_conversations_user_date
			ON conversations(user_id, date);

		CREATE TABLE IF NOT EXISTS dialogs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL,
			name TEXT NOT NULL,
			message TEXT NOT NULL,
			reply TEXT NOT NULL,
			date INTEGER NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id)
		);

		CREATE INDEX IF NOT EXISTS idx_dialogs_conversation_id
			ON dialogs(conversation_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetOrCreateUser returns the user with the given ID, creating it on first
// sight. The primary key makes the create race-safe: a concurrent insert for
// the same ID is ignored and the existing row is read back.
func (s *SQLiteStore) GetOrCreateUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id is required")
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, context, created_at, updated_at) VALUES (?, NULL, ?, ?)`,
		id, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Info("created new user", "user_id", id)
	}

	return s.getUser(ctx, id)
}

func (s *SQLiteStore) getUser(ctx context.Context, id string) (*User, error) {
	var user User
	var contextJSON sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, context, created_at, updated_at FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &contextJSON, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	if contextJSON.Valid && contextJSON.String != "" {
		user.Context = []byte(contextJSON.String)
	}
	return &user, nil
}

// UpdateUserContext replaces the user's dialog context wholesale.
func (s *SQLiteStore) UpdateUserContext(ctx context.Context, id string, dialogContext json.RawMessage) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET context = ?, updated_at = ? WHERE id = ?`,
		nullableString(dialogContext), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user context: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateConversation creates a new empty conversation owned by the user.
func (s *SQLiteStore) CreateConversation(ctx context.Context, userID string) (*Conversation, error) {
	conv := &Conversation{
		ID:     uuid.New().String(),
		UserID: userID,
		Date:   time.Now().UnixMilli(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, date) VALUES (?, ?, ?)`,
		conv.ID, conv.UserID, conv.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	s.logger.Debug("created conversation", "conversation_id", conv.ID, "user_id", userID)
	return conv, nil
}

// AddDialog appends an entry to an existing conversation.
func (s *SQLiteStore) AddDialog(ctx context.Context, conversationID string, entry *DialogEntry) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM conversations WHERE id = ?)`, conversationID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking conversation: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dialogs (conversation_id, name, message, reply, date) VALUES (?, ?, ?, ?, ?)`,
		conversationID, entry.Name, entry.Message, entry.Reply, entry.Date,
	)
	if err != nil {
		return fmt.Errorf("adding dialog: %w", err)
	}
	return nil
}

// ListConversations returns the user's conversations, most recent first.
func (s *SQLiteStore) ListConversations(ctx context.Context, userID string, limit int) ([]*Conversation, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, date FROM conversations WHERE user_id = ? ORDER BY date DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	for rows.Next() {
		var conv Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Date); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conversations = append(conversations, &conv)
	}
	return conversations, rows.Err()
}

// GetDialogs returns a conversation's entries in append order.
func (s *SQLiteStore) GetDialogs(ctx context.Context, conversationID string) ([]*DialogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, message, reply, date FROM dialogs WHERE conversation_id = ? ORDER BY id`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying dialogs: %w", err)
	}
	defer rows.Close()

	var entries []*DialogEntry
	for rows.Next() {
		var entry DialogEntry
		if err := rows.Scan(&entry.Name, &entry.Message, &entry.Reply, &entry.Date); err != nil {
			return nil, fmt.Errorf("scanning dialog: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
