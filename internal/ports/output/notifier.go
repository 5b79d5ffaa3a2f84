package output

import (
	"context"

	"eventosbot/internal/domain/entities"
)

// Notifier is the messaging collaborator. References returned are opaque
// platform ids.
type Notifier interface {
	// RenderSummary posts a fresh summary of event to its channel.
	RenderSummary(ctx context.Context, event *entities.Event) (messageRef string, err error)
	// UpdateSummary edits event.MessageID in place; domain.ErrSummaryNotFound
	// when the message no longer exists.
	UpdateSummary(ctx context.Context, event *entities.Event) error
	// DeleteSummary removes event.MessageID; domain.ErrForbidden when the bot
	// lacks permission. A missing message is not an error.
	DeleteSummary(ctx context.Context, event *entities.Event) error
	CreateThread(ctx context.Context, channelRef, title string) (threadRef string, err error)
	SendToThread(ctx context.Context, threadRef, text string) error
	SendToVenue(ctx context.Context, channelRef, text string) error
	// SendDirect returns domain.ErrUnreachable when the user cannot be DMed.
	SendDirect(ctx context.Context, participant entities.ParticipantID, text string) error
}
