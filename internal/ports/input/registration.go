package input

import (
	"context"

	"eventosbot/internal/domain/entities"
)

type RegistrationUseCase interface {
	// Register places the participant under key, subject to the event's
	// registration rules.
	Register(ctx context.Context, eventID string, participant entities.Participant, key entities.RoleKey) (*entities.Event, error)
	Unregister(ctx context.Context, eventID string, participant entities.Participant) (*entities.Event, error)
}
