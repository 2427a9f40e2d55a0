// ABOUTME: Client interface and data types for the dialog engine boundary
// ABOUTME: Defines the Response shape and the opaque context contract

package dialog

import (
	"context"
	"encoding/json"
)

// Client is the boundary to the dialog-understanding engine. One call per
// turn: the message text plus the opaque context from the previous turn go
// out, and the reply plus the updated context come back.
type Client interface {
	// Message sends one dialog turn. dialogContext may be nil on a user's
	// first turn.
	Message(ctx context.Context, text string, dialogContext json.RawMessage) (*Response, error)
}

// Entity is a value the engine recognized in the user's message, such as a
// location.
type Entity struct {
	Entity     string  `json:"entity"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Intent is an intent the engine matched, with its confidence.
type Intent struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Output holds the reply text segments configured in the dialog design.
type Output struct {
	Text []string `json:"text"`
}

// Response is the engine's answer to one turn. Context is opaque: the dialog
// design owns its shape, and this system only touches the few well-known keys
// exposed through the helpers in this package.
type Response struct {
	Output   Output          `json:"output"`
	Intents  []Intent        `json:"intents"`
	Entities []Entity        `json:"entities"`
	Context  json.RawMessage `json:"context"`

	// Raw is the engine's payload exactly as received. Socket clients get it
	// back verbatim alongside the reply text.
	Raw json.RawMessage `json:"-"`
}
