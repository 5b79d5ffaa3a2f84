package output

import (
	"context"

	"eventosbot/internal/domain/entities"
)

// EventStore persists the full event collection. LoadAll fails with
// domain.ErrCorruptStore when the persisted form cannot be parsed; a missing
// store loads as an empty collection. SaveAll must never leave a previously
// valid store unreadable.
type EventStore interface {
	LoadAll(ctx context.Context) ([]entities.Event, error)
	SaveAll(ctx context.Context, events []entities.Event) error
}
