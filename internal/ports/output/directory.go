package output

import (
	"context"

	"eventosbot/internal/domain/entities"
)

// Option is one selectable entry shown by the wizard (a channel or a role).
type Option struct {
	ID   string
	Name string
}

// Directory exposes guild lookups and role grants.
type Directory interface {
	ResolveParticipantDisplay(ctx context.Context, participant entities.ParticipantID) string
	Channels(ctx context.Context) ([]Option, error)
	Roles(ctx context.Context) ([]Option, error)
	GrantRole(ctx context.Context, participant entities.ParticipantID, roleID string) error
	RevokeRole(ctx context.Context, participant entities.ParticipantID, roleID string) error
}
