package input

import (
	"context"
	"time"

	"eventosbot/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, draft *entities.Event) (*entities.Event, error)
	GetEvent(ctx context.Context, id string) (*entities.Event, error)
	GetEventByMessageID(ctx context.Context, messageID string) (*entities.Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]entities.Event, error)
	ApplyEdit(ctx context.Context, id string, edited *entities.Event) (*entities.Event, error)
	// RefreshSummary re-renders the summary message of event.
	RefreshSummary(ctx context.Context, event *entities.Event) (*entities.Event, error)
	DeleteEvent(ctx context.Context, id string) (*entities.Event, error)
}
