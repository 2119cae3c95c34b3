package ports

import "context"

// Conversation is the entry point transport adapters drive.
// One call processes one message for one session and returns the reply.
// Conversation-level problems (unknown city, bad date...) are replies, not errors;
// the error is reserved for infrastructure failures.
type Conversation interface {
	Chat(ctx context.Context, sessionID, message string) (string, error)
}
