// ABOUTME: Session orchestrator routing one inbound message through a dialog turn
// ABOUTME: Transport-agnostic: invoked identically by the Matrix and websocket listeners

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ibm-watson-data-lab/healthbot/internal/dialog"
	"github.com/ibm-watson-data-lab/healthbot/internal/places"
	"github.com/ibm-watson-data-lab/healthbot/internal/store"
)

// apologyReply is the single user-visible failure reply. Every failure cause
// maps to it so no internal detail leaks to the chat surface.
const apologyReply = "Sorry, something went wrong!"

// Reply is the outcome of one processed message.
type Reply struct {
	// Text is what the user should see, ready for the transport to send.
	Text string

	// DialogResponse is the raw dialog-engine payload for this turn, or nil
	// if the engine was never reached. Socket clients pass it through to the
	// browser.
	DialogResponse *dialog.Response
}

// Bot orchestrates a conversation turn: resolve the user, send the message to
// the dialog engine, dispatch the response on its action tag, persist the
// updated context, and log the exchange. It holds no per-session state of its
// own, so one instance is shared by all transport listeners.
type Bot struct {
	users   store.UserStore
	dialogs store.DialogStore
	dialog  dialog.Client
	places  places.Finder // nil when no places credentials were configured
	logger  *slog.Logger

	// Closed action-handler table, fixed at construction. Unknown or absent
	// actions fall through to the default handler.
	handlers map[string]actionHandler
}

// actionHandler produces the reply text for one dialog response. Handlers
// never mutate user or conversation state; persistence stays with the
// orchestrator.
type actionHandler func(ctx context.Context, resp *dialog.Response) (string, error)

// New creates a Bot. finder may be nil if the places lookup is not configured;
// the location handler then answers with a configuration prompt.
func New(users store.UserStore, dialogs store.DialogStore, client dialog.Client, finder places.Finder) *Bot {
	b := &Bot{
		users:   users,
		dialogs: dialogs,
		dialog:  client,
		places:  finder,
		logger:  slog.Default().With("component", "bot"),
	}
	b.handlers = map[string]actionHandler{
		actionFindDoctorByLocation: b.handleFindDoctorByLocation,
	}
	return b
}

// ProcessMessage runs one conversation turn for the given sender. It never
// returns an error: any failure inside the turn is logged and collapsed into
// the fixed apology reply, with whatever partial dialog response was obtained.
func (b *Bot) ProcessMessage(ctx context.Context, senderID, message string) *Reply {
	text, resp, err := b.processTurn(ctx, senderID, message)
	if err != nil {
		b.logger.Error("turn failed", "sender", senderID, "error", err)
		return &Reply{Text: apologyReply, DialogResponse: resp}
	}
	return &Reply{Text: text, DialogResponse: resp}
}

// processTurn is the fallible body of a turn. On error the caller discards
// the reply text; persisted state is only touched after the dialog call has
// succeeded, so a failed turn leaves the user's context and the conversation
// log unchanged.
func (b *Bot) processTurn(ctx context.Context, senderID, message string) (string, *dialog.Response, error) {
	if senderID == "" {
		return "", nil, fmt.Errorf("sender id is required")
	}

	user, err := b.users.GetOrCreateUser(ctx, senderID)
	if err != nil {
		return "", nil, fmt.Errorf("resolving user: %w", err)
	}

	resp, err := b.dialog.Message(ctx, message, user.Context)
	if err != nil {
		return "", nil, fmt.Errorf("dialog turn: %w", err)
	}

	conversationID, err := b.resolveConversation(ctx, user.ID, resp)
	if err != nil {
		return "", resp, fmt.Errorf("resolving conversation: %w", err)
	}

	action, hasAction := dialog.Action(resp.Context)

	reply, err := b.dispatch(ctx, action, hasAction, resp)
	if err != nil {
		return "", resp, fmt.Errorf("action %q: %w", action, err)
	}

	// Turns with no action tag are never logged. A log failure is isolated:
	// the turn itself succeeded, so the reply still goes out and the context
	// is still persisted.
	if conversationID != "" && hasAction {
		entry := &store.DialogEntry{
			Name:    action,
			Message: message,
			Reply:   reply,
			Date:    time.Now().UnixMilli(),
		}
		if err := b.dialogs.AddDialog(ctx, conversationID, entry); err != nil {
			b.logger.Warn("logging dialog failed",
				"conversation_id", conversationID, "action", action, "error", err)
		}
	}

	if err := b.users.UpdateUserContext(ctx, user.ID, resp.Context); err != nil {
		return "", resp, fmt.Errorf("persisting context: %w", err)
	}

	return reply, resp, nil
}

// resolveConversation determines the active conversation for this turn. When
// the engine signals a new conversation, the flag is cleared and a fresh
// conversation record is created with its ID stashed into the context before
// the context is persisted, so the next turn finds it. Returns "" when no
// conversation is active.
func (b *Bot) resolveConversation(ctx context.Context, userID string, resp *dialog.Response) (string, error) {
	if !dialog.NewConversation(resp.Context) {
		return dialog.ConversationID(resp.Context), nil
	}

	updated, err := dialog.ClearNewConversation(resp.Context)
	if err != nil {
		return "", fmt.Errorf("clearing new-conversation flag: %w", err)
	}

	conv, err := b.dialogs.CreateConversation(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("creating conversation: %w", err)
	}

	updated, err = dialog.SetConversationID(updated, conv.ID)
	if err != nil {
		return "", fmt.Errorf("storing conversation id: %w", err)
	}

	resp.Context = updated
	return conv.ID, nil
}

// dispatch selects the handler for the turn's action tag. The table is a
// closed enumeration; anything it doesn't know gets the default handler.
func (b *Bot) dispatch(ctx context.Context, action string, hasAction bool, resp *dialog.Response) (string, error) {
	if hasAction {
		if handler, ok := b.handlers[action]; ok {
			return handler(ctx, resp)
		}
	}
	return b.handleDefault(ctx, resp)
}
