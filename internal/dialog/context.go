// ABOUTME: Accessors for the well-known keys inside the opaque dialog context
// ABOUTME: Reads and mutates single keys without decoding the blob into a struct

package dialog

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Well-known context keys. The dialog design places these into the context;
// everything else in the blob is off limits.
const (
	keyAction          = "action"
	keyNewConversation = "newConversation"
	keyConversationID  = "conversationDocId"
	keySpecialty       = "specialty"
)

// Action returns the action tag embedded in the context, and whether one is
// present.
func Action(dialogContext json.RawMessage) (string, bool) {
	r := gjson.GetBytes(dialogContext, keyAction)
	if !r.Exists() || r.Type == gjson.Null {
		return "", false
	}
	return r.String(), true
}

// NewConversation reports whether the engine flagged this turn as the start
// of a new conversation.
func NewConversation(dialogContext json.RawMessage) bool {
	return gjson.GetBytes(dialogContext, keyNewConversation).Bool()
}

// ClearNewConversation sets the newConversation flag to false, returning the
// updated context. The flag must be cleared before the context is persisted
// or the next turn would open another conversation.
func ClearNewConversation(dialogContext json.RawMessage) (json.RawMessage, error) {
	return setKey(dialogContext, keyNewConversation, false)
}

// ConversationID returns the active conversation ID carried in the context,
// or "" if none.
func ConversationID(dialogContext json.RawMessage) string {
	return gjson.GetBytes(dialogContext, keyConversationID).String()
}

// SetConversationID stashes the conversation ID into the context so the next
// turn can find it.
func SetConversationID(dialogContext json.RawMessage, id string) (json.RawMessage, error) {
	return setKey(dialogContext, keyConversationID, id)
}

// Specialty returns the category string the dialog design placed into the
// context for a places lookup, or "" if none.
func Specialty(dialogContext json.RawMessage) string {
	return gjson.GetBytes(dialogContext, keySpecialty).String()
}

func setKey(dialogContext json.RawMessage, key string, value any) (json.RawMessage, error) {
	if len(dialogContext) == 0 {
		dialogContext = json.RawMessage(`{}`)
	}
	out, err := sjson.SetBytes(dialogContext, key, value)
	if err != nil {
		return nil, err
	}
	return out, nil
}
