package output

import (
	"context"
	"time"

	"eventosbot/internal/domain/entities"
)

// EventRepository is the process-wide authoritative event collection. Every
// mutation is persisted before the call returns; returned events are copies.
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id string) (*entities.Event, error)
	FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error)
	FindAll(ctx context.Context) ([]entities.Event, error)
	FindDueReminders(ctx context.Context, now time.Time, lead time.Duration) ([]entities.Event, error)
	// Update runs mutate on the stored event under the repository lock and
	// persists the result. If mutate or persistence fails nothing changes.
	Update(ctx context.Context, id string, mutate func(*entities.Event) error) (*entities.Event, error)
	Delete(ctx context.Context, id string) (*entities.Event, error)
}
