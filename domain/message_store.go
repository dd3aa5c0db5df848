package domain

import "context"

type MessageStore interface {
	// Insert persists the message with a store-assigned timestamp and id.
	Insert(ctx context.Context, message *Message) (*Message, error)
	// GetConversation returns every message between the two subjects in both
	// directions, ordered ascending by timestamp with insertion order as the
	// tie-break.
	GetConversation(ctx context.Context, subjectA string, subjectB string) ([]*Message, error)
}
