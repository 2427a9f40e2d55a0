// Package store provides persistence for healthbot users and conversation logs.
//
// # Overview
//
// Two concerns share one SQLite database:
//
//   - Users: one row per external sender ID, holding the opaque dialog
//     context the dialog engine threads between turns.
//   - Conversation logs: append-only dialog entries grouped under
//     conversations, one conversation per continuous interaction.
//
// # Interfaces
//
// UserStore and DialogStore are consumed separately by the bot core;
// Store combines them for wiring:
//
//	s, err := store.NewSQLiteStore("/var/lib/healthbot/healthbot.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
// # Users
//
// GetOrCreateUser is idempotent: the user ID is the primary key, so first
// sight creates the row and every later call reads it back. The context
// column stores the dialog engine's blob verbatim; the store never inspects
// it.
//
// # Conversation logs
//
// CreateConversation assigns a UUID and stamps the creation time in
// milliseconds. AddDialog appends entries; conversations are never closed
// or deleted. ListConversations and GetDialogs back history queries.
//
// # Testing
//
// MockStore is an in-memory implementation with optional error injection
// for failure-path tests.
package store
