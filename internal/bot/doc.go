// Package bot implements the conversation-session orchestration core.
//
// # Overview
//
// Bot.ProcessMessage takes a sender ID and a message and runs one dialog
// turn end to end:
//
//  1. Resolve or lazily create the user (store-level uniqueness makes this
//     idempotent).
//  2. Send the message plus the user's prior opaque context to the dialog
//     engine.
//  3. Determine conversation continuity: a newConversation flag in the
//     response context opens a new conversation record, whose ID is stashed
//     back into the context (flag cleared) before anything is persisted.
//  4. Dispatch on the action tag in the context to produce the reply text:
//     default text passthrough, or the findDoctorByLocation places lookup.
//  5. Log the turn to the active conversation when both a conversation ID
//     and an action are present.
//  6. Persist the updated context on the user.
//
// # Error boundary
//
// The orchestrator never raises past its own boundary: every turn yields a
// reply. Any failure is logged with its cause and collapsed into one fixed
// apology string, indistinguishable across causes. A failed dialog call
// leaves persisted state untouched.
//
// A conversation-log append failure is the one deliberate exception to
// fail-hard: the turn has already succeeded, so the failure is logged at
// warn level and the good reply still goes out.
//
// # Concurrency
//
// The Bot holds no mutable per-session state, so concurrent turns for
// different senders are independent and one instance serves every transport
// listener. Concurrent turns for the same sender are not serialized: both
// may read the same context and the second write wins. Accepted limitation.
package bot
