package bot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibm-watson-data-lab/healthbot/internal/dialog"
	"github.com/ibm-watson-data-lab/healthbot/internal/store"
)

// stubDialog is a canned dialog.Client recording what it was sent.
type stubDialog struct {
	resp *dialog.Response
	err  error

	lastMessage string
	lastContext json.RawMessage
	calls       int
}

func (s *stubDialog) Message(_ context.Context, text string, dialogContext json.RawMessage) (*dialog.Response, error) {
	s.calls++
	s.lastMessage = text
	s.lastContext = dialogContext
	if s.err != nil {
		return nil, s.err
	}
	// Copy so the orchestrator's context mutations don't leak between calls
	resp := *s.resp
	resp.Context = append(json.RawMessage(nil), s.resp.Context...)
	return &resp, nil
}

func respondWith(outputText []string, contextJSON string) *dialog.Response {
	return &dialog.Response{
		Output:  dialog.Output{Text: outputText},
		Context: json.RawMessage(contextJSON),
	}
}

func TestProcessMessage_FirstContact_CreatesOneUser(t *testing.T) {
	m := store.NewMockStore()
	engine := &stubDialog{resp: respondWith([]string{"Hi!"}, `{}`)}
	b := New(m, m, engine, nil)

	reply := b.ProcessMessage(context.Background(), "U-new", "hello")
	require.NotNil(t, reply)
	assert.Equal(t, "Hi!\n", reply.Text)

	_, ok := m.GetUser("U-new")
	assert.True(t, ok)

	// Second message for the same sender resolves the same user
	b.ProcessMessage(context.Background(), "U-new", "hello again")
	assert.Equal(t, 2, engine.calls)
}

func TestProcessMessage_ThreadsContextBetweenTurns(t *testing.T) {
	m := store.NewMockStore()
	engine := &stubDialog{resp: respondWith([]string{"ok"}, `{"system":{"dialog_turn_counter":1}}`)}
	b := New(m, m, engine, nil)

	b.ProcessMessage(context.Background(), "U1", "first")
	assert.Nil(t, engine.lastContext, "first turn carries no prior context")

	b.ProcessMessage(context.Background(), "U1", "second")
	assert.JSONEq(t, `{"system":{"dialog_turn_counter":1}}`, string(engine.lastContext))
}

func TestProcessMessage_DialogFailure_ApologyAndNoStateChange(t *testing.T) {
	m := store.NewMockStore()
	ctx := context.Background()

	// Seed a user with a known context
	_, err := m.GetOrCreateUser(ctx, "U1")
	require.NoError(t, err)
	prior := json.RawMessage(`{"conversationDocId":"conv-old"}`)
	require.NoError(t, m.UpdateUserContext(ctx, "U1", prior))

	engine := &stubDialog{err: errors.New("engine unreachable")}
	b := New(m, m, engine, nil)

	reply := b.ProcessMessage(ctx, "U1", "hello")
	assert.Equal(t, "Sorry, something went wrong!", reply.Text)
	assert.Nil(t, reply.DialogResponse)

	u, ok := m.GetUser("U1")
	require.True(t, ok)
	assert.JSONEq(t, string(prior), string(u.Context), "failed turn must not touch persisted context")
	assert.Zero(t, m.ConversationCount())
}

func TestProcessMessage_NewConversation_CreatedAndStashed(t *testing.T) {
	m := store.NewMockStore()
	engine := &stubDialog{resp: respondWith([]string{"Welcome"}, `{"newConversation":true}`)}
	b := New(m, m, engine, nil)
	ctx := context.Background()

	reply := b.ProcessMessage(ctx, "U1", "hi")
	assert.Equal(t, "Welcome\n", reply.Text)

	assert.Equal(t, 1, m.ConversationCount())

	u, ok := m.GetUser("U1")
	require.True(t, ok)
	assert.False(t, dialog.NewConversation(u.Context), "flag must be cleared in the persisted context")

	convID := dialog.ConversationID(u.Context)
	require.NotEmpty(t, convID, "conversation id must be stashed in the persisted context")

	conversations, err := m.ListConversations(ctx, "U1", 0)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, conversations[0].ID, convID)
}

func TestProcessMessage_ExistingConversation_NoAction_NotLogged(t *testing.T) {
	m := store.NewMockStore()
	ctx := context.Background()

	conv, err := m.CreateConversation(ctx, "U1")
	require.NoError(t, err)

	engine := &stubDialog{resp: respondWith([]string{"noted"},
		`{"conversationDocId":"`+conv.ID+`"}`)}
	b := New(m, m, engine, nil)

	reply := b.ProcessMessage(ctx, "U1", "just chatting")
	assert.Equal(t, "noted\n", reply.Text)

	entries, err := m.GetDialogs(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, entries, "turns without an action tag are never logged")

	u, ok := m.GetUser("U1")
	require.True(t, ok)
	assert.Equal(t, conv.ID, dialog.ConversationID(u.Context), "context still persisted with the conversation id")
}

func TestProcessMessage_ActionTurn_Logged(t *testing.T) {
	m := store.NewMockStore()
	ctx := context.Background()

	conv, err := m.CreateConversation(ctx, "U1")
	require.NoError(t, err)

	engine := &stubDialog{resp: respondWith([]string{"Take two aspirin"},
		`{"conversationDocId":"`+conv.ID+`","action":"prescribe"}`)}
	b := New(m, m, engine, nil)

	reply := b.ProcessMessage(ctx, "U1", "I have a headache")
	assert.Equal(t, "Take two aspirin\n", reply.Text)

	entries, err := m.GetDialogs(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prescribe", entries[0].Name)
	assert.Equal(t, "I have a headache", entries[0].Message)
	assert.Equal(t, "Take two aspirin\n", entries[0].Reply)
	assert.Positive(t, entries[0].Date)
}

func TestProcessMessage_LogFailure_IsIsolated(t *testing.T) {
	m := store.NewMockStore()
	ctx := context.Background()

	conv, err := m.CreateConversation(ctx, "U1")
	require.NoError(t, err)
	m.AddDialogErr = errors.New("log store down")

	engine := &stubDialog{resp: respondWith([]string{"done"},
		`{"conversationDocId":"`+conv.ID+`","action":"anything"}`)}
	b := New(m, m, engine, nil)

	reply := b.ProcessMessage(ctx, "U1", "msg")
	assert.Equal(t, "done\n", reply.Text, "log failure must not override a good reply")

	u, ok := m.GetUser("U1")
	require.True(t, ok)
	assert.Equal(t, conv.ID, dialog.ConversationID(u.Context))
}

func TestProcessMessage_ContextPersistFailure_Apology(t *testing.T) {
	m := store.NewMockStore()
	m.UpdateUserContextErr = errors.New("write failed")

	engine := &stubDialog{resp: respondWith([]string{"ok"}, `{}`)}
	b := New(m, m, engine, nil)

	reply := b.ProcessMessage(context.Background(), "U1", "hi")
	assert.Equal(t, "Sorry, something went wrong!", reply.Text)
	assert.NotNil(t, reply.DialogResponse, "partial dialog response still surfaces")
}

func TestProcessMessage_EmptySender_Apology(t *testing.T) {
	m := store.NewMockStore()
	engine := &stubDialog{resp: respondWith([]string{"ok"}, `{}`)}
	b := New(m, m, engine, nil)

	reply := b.ProcessMessage(context.Background(), "", "hi")
	assert.Equal(t, "Sorry, something went wrong!", reply.Text)
	assert.Zero(t, engine.calls)
}

func TestProcessMessage_ReturnsRawDialogResponse(t *testing.T) {
	m := store.NewMockStore()
	resp := respondWith([]string{"ok"}, `{}`)
	resp.Raw = json.RawMessage(`{"output":{"text":["ok"]},"context":{}}`)
	engine := &stubDialog{resp: resp}
	b := New(m, m, engine, nil)

	reply := b.ProcessMessage(context.Background(), "U1", "hi")
	require.NotNil(t, reply.DialogResponse)
	assert.Equal(t, []string{"ok"}, reply.DialogResponse.Output.Text)
}
