package llm

import "context"

// Message is one role-tagged entry in a chat completion prompt.
type Message struct {
	Role    string `json:"role"` // "system" or "user"
	Content string `json:"content"`
}

// Provider produces a text completion for a role-tagged prompt. A
// transport or upstream failure is reported as a non-nil error so callers
// can tell "service unreachable" apart from "service returned unusable
// text" (an empty or malformed completion with a nil error).
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Close() error
}
