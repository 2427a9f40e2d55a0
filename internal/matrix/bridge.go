// ABOUTME: Matrix listener relaying direct messages to the bot core
// ABOUTME: Handles sync loop, invite auto-join, DM filtering and reply delivery

package matrix

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/ibm-watson-data-lab/healthbot/internal/bot"
	"github.com/ibm-watson-data-lab/healthbot/internal/config"
)

// typingTimeout is the duration the typing indicator shows.
const typingTimeout = 30 * time.Second

// networkTimeout is the timeout for Matrix API calls.
const networkTimeout = 10 * time.Second

// Bridge connects a Matrix account to the bot. Only direct (two-member)
// rooms are bridged, mirroring a direct-message-only chat integration.
type Bridge struct {
	config config.MatrixConfig
	matrix *mautrix.Client
	bot    *bot.Bot
	logger *slog.Logger

	// Caches the is-direct-room decision per room to avoid a members
	// lookup on every message
	directRooms sync.Map

	// ctx is the parent context for message processing goroutines
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBridge creates a new Matrix bridge around an existing bot instance.
func NewBridge(cfg config.MatrixConfig, b *bot.Bot) (*Bridge, error) {
	client, err := mautrix.NewClient(cfg.Homeserver, id.UserID(cfg.UserID), cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("creating matrix client: %w", err)
	}

	return &Bridge{
		config: cfg,
		matrix: client,
		bot:    b,
		logger: slog.Default().With("component", "matrix"),
	}, nil
}

// Run starts the bridge and blocks until the context is cancelled or the
// sync loop fails.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info("starting matrix bridge",
		"homeserver", b.config.Homeserver,
		"user_id", b.config.UserID,
	)

	b.ctx, b.cancel = context.WithCancel(ctx)
	defer b.cancel()

	syncer, ok := b.matrix.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return fmt.Errorf("unexpected syncer type: %T", b.matrix.Syncer)
	}
	syncer.OnEventType(event.EventMessage, b.handleMessageEvent)
	syncer.OnEventType(event.StateMember, b.handleMemberEvent)

	b.logger.Info("connecting to matrix homeserver")

	syncErr := make(chan error, 1)
	go func() {
		syncErr <- b.matrix.SyncWithContext(b.ctx)
	}()

	select {
	case <-ctx.Done():
		b.logger.Info("shutting down matrix bridge")
		b.cancel()
		return nil
	case err := <-syncErr:
		return fmt.Errorf("matrix sync failed: %w", err)
	}
}

// handleMemberEvent auto-joins rooms the bot is invited to.
func (b *Bridge) handleMemberEvent(ctx context.Context, evt *event.Event) {
	if evt.GetStateKey() != b.config.UserID {
		return
	}
	content, ok := evt.Content.Parsed.(*event.MemberEventContent)
	if !ok || content.Membership != event.MembershipInvite {
		return
	}

	if !b.isUserAllowed(evt.Sender.String()) {
		b.logger.Info("ignoring invite from non-allowed user", "sender", evt.Sender.String())
		return
	}

	joinCtx, cancel := context.WithTimeout(context.Background(), networkTimeout)
	defer cancel()
	if _, err := b.matrix.JoinRoomByID(joinCtx, evt.RoomID); err != nil {
		b.logger.Error("failed to join room", "room", evt.RoomID.String(), "error", err)
		return
	}
	b.logger.Info("joined room on invite", "room", evt.RoomID.String(), "inviter", evt.Sender.String())
}

// handleMessageEvent processes incoming Matrix messages.
func (b *Bridge) handleMessageEvent(ctx context.Context, evt *event.Event) {
	// Ignore our own messages
	if evt.Sender == id.UserID(b.config.UserID) {
		return
	}

	content, ok := evt.Content.Parsed.(*event.MessageEventContent)
	if !ok {
		return
	}

	// Only handle text messages
	if content.MsgType != event.MsgText {
		return
	}

	sender := evt.Sender.String()
	if !b.isUserAllowed(sender) {
		b.logger.Debug("ignoring message from non-allowed user", "sender", sender)
		return
	}

	// Direct messages only, like the original private-channel filter
	if !b.isDirectRoom(evt.RoomID) {
		b.logger.Debug("ignoring message from non-direct room", "room", evt.RoomID.String())
		return
	}

	b.logger.Info("received message",
		"room", evt.RoomID.String(),
		"sender", sender,
		"length", len(content.Body),
	)

	// Process in a goroutine to not block the sync loop
	go b.processMessage(b.ctx, evt.RoomID, sender, content.Body)
}

// processMessage runs one bot turn and sends the reply back to the room.
func (b *Bridge) processMessage(ctx context.Context, roomID id.RoomID, sender, text string) {
	b.setTyping(roomID, true)
	defer b.setTyping(roomID, false)

	reply := b.bot.ProcessMessage(ctx, sender, text)
	if reply.Text == "" {
		b.logger.Warn("empty reply", "room", roomID.String())
		return
	}

	b.sendMessage(roomID, reply.Text)
}

// isDirectRoom reports whether the room has exactly two joined members.
func (b *Bridge) isDirectRoom(roomID id.RoomID) bool {
	if cached, ok := b.directRooms.Load(roomID); ok {
		return cached.(bool)
	}

	ctx, cancel := context.WithTimeout(context.Background(), networkTimeout)
	defer cancel()

	members, err := b.matrix.JoinedMembers(ctx, roomID)
	if err != nil {
		b.logger.Warn("failed to fetch room members", "room", roomID.String(), "error", err)
		return false
	}

	direct := len(members.Joined) == 2
	b.directRooms.Store(roomID, direct)
	return direct
}

// isUserAllowed checks the sender against the allowed-users list.
func (b *Bridge) isUserAllowed(userID string) bool {
	if len(b.config.AllowedUsers) == 0 {
		return true // Allow all if no filter
	}
	for _, allowed := range b.config.AllowedUsers {
		if allowed == userID {
			return true
		}
	}
	return false
}

// setTyping sends a typing indicator to the room.
func (b *Bridge) setTyping(roomID id.RoomID, typing bool) {
	var timeout time.Duration
	if typing {
		timeout = typingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), networkTimeout)
	defer cancel()
	if _, err := b.matrix.UserTyping(ctx, roomID, typing, timeout); err != nil {
		b.logger.Debug("failed to set typing indicator", "room", roomID.String(), "error", err)
	}
}

// sendMessage sends a text message to a room.
func (b *Bridge) sendMessage(roomID id.RoomID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := b.matrix.SendText(ctx, roomID, text); err != nil {
		b.logger.Error("failed to send message", "room", roomID.String(), "error", err)
	}
}
