package output

import "context"

// Attachment is a file sent along with a private message.
type Attachment struct {
	URL         string
	ContentType string
}

// Message is one private message received from a user.
type Message struct {
	Content     string
	Attachments []Attachment
}

// Conversation is the private-message channel with a single user.
type Conversation interface {
	Send(ctx context.Context, userID, text string) error
	// NextMessage blocks until userID sends a private message or ctx ends.
	// A ctx deadline is reported as domain.ErrConversationTimeout.
	NextMessage(ctx context.Context, userID string) (Message, error)
	// Close discards pending messages of userID once its dialog ends.
	Close(userID string)
}
