// Package dialog is the boundary to the dialog-understanding engine.
//
// # Overview
//
// The engine is a black-box request/response service: each turn sends the
// user's message plus an opaque context blob, and gets back reply text
// segments, recognized entities, and an updated context. The context carries
// all conversational state; this system persists it between turns without
// assuming its shape.
//
// # Client
//
// WatsonClient implements the Client interface against the Watson Assistant
// (Conversation) v1 workspace message API:
//
//	client, err := dialog.NewWatsonClient(dialog.WatsonConfig{
//	    URL:         "https://gateway.watsonplatform.net/conversation/api",
//	    Username:    username,
//	    Password:    password,
//	    WorkspaceID: workspaceID,
//	})
//
// # Well-known context keys
//
// The dialog design places a handful of keys into the context that the bot
// core reads and writes: action, newConversation, conversationDocId,
// specialty. The accessors in context.go operate on the raw blob with
// gjson/sjson so the rest of the context stays untouched and unexamined.
package dialog
