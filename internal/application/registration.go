package application

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/input"
	"eventosbot/internal/ports/output"
)

var _ input.RegistrationUseCase = (*RegistrationService)(nil)

type RegistrationService struct {
	eventRepo  output.EventRepository
	events     *EventService
	notifier   output.Notifier
	directory  output.Directory
	translator output.T
	locale     string
	now        func() time.Time
}

func NewRegistrationService(
	eventRepo output.EventRepository,
	events *EventService,
	notifier output.Notifier,
	directory output.Directory,
	translator output.T,
	locale string,
) *RegistrationService {
	return &RegistrationService{
		eventRepo:  eventRepo,
		events:     events,
		notifier:   notifier,
		directory:  directory,
		translator: translator,
		locale:     locale,
		now:        time.Now,
	}
}

// checkRegistration applies the event's gating rules for p registering under
// key. e is the stored state inside the repository lock.
func checkRegistration(e *entities.Event, p entities.Participant, key entities.RoleKey, now time.Time) error {
	if !key.Valid() {
		return domain.ErrUnknownRoleKey
	}
	if domain.RegistrationClosed(e, now) {
		return domain.ErrRegistrationClosed
	}
	if len(e.AllowedRoles) > 0 && !slices.ContainsFunc(p.Roles, func(r string) bool {
		return slices.Contains(e.AllowedRoles, r)
	}) {
		return domain.ErrRoleNotAllowed
	}
	if e.MaxAttendees > 0 && key.Attending() && !domain.IsAttending(e, p.ID) &&
		len(e.Attendees()) >= e.MaxAttendees {
		return domain.ErrEventFull
	}
	return nil
}

func (s *RegistrationService) Register(ctx context.Context, eventID string, p entities.Participant, key entities.RoleKey) (*entities.Event, error) {
	var wasRegistered, wasAttending bool
	updated, err := s.eventRepo.Update(ctx, eventID, func(e *entities.Event) error {
		if err := checkRegistration(e, p, key, s.now()); err != nil {
			return err
		}
		wasRegistered = len(domain.RegisteredKeys(e, p.ID)) > 0
		wasAttending = domain.IsAttending(e, p.ID)
		return domain.Register(e, p.ID, key)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("📝 %s inscrito como %s en %s", p.ID, key, eventID)

	if !wasRegistered && updated.ThreadID != "" {
		text := s.translator.T(s.locale, "thread.new_registrants", map[string]any{
			"Mentions": mention(p.ID),
		})
		if err := s.notifier.SendToThread(ctx, updated.ThreadID, text); err != nil {
			log.Printf("⚠️ No se pudo avisar en el hilo del evento %s: %v", eventID, err)
		}
	}
	s.syncAssignedRole(ctx, updated, p.ID, wasAttending)
	return s.events.RefreshSummary(ctx, updated)
}

func (s *RegistrationService) Unregister(ctx context.Context, eventID string, p entities.Participant) (*entities.Event, error) {
	var wasAttending bool
	updated, err := s.eventRepo.Update(ctx, eventID, func(e *entities.Event) error {
		wasAttending = domain.IsAttending(e, p.ID)
		domain.UnregisterAll(e, p.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.syncAssignedRole(ctx, updated, p.ID, wasAttending)
	return s.events.RefreshSummary(ctx, updated)
}

// syncAssignedRole grants the event's assign role to attendees and revokes it
// from participants that stopped attending. Failures are only logged.
func (s *RegistrationService) syncAssignedRole(ctx context.Context, e *entities.Event, p entities.ParticipantID, wasAttending bool) {
	if e.AssignRole == "" {
		return
	}
	attending := domain.IsAttending(e, p)
	var err error
	switch {
	case attending && !wasAttending:
		err = s.directory.GrantRole(ctx, p, e.AssignRole)
	case !attending && wasAttending:
		err = s.directory.RevokeRole(ctx, p, e.AssignRole)
	}
	if err != nil {
		log.Printf("⚠️ No se pudo sincronizar el rol %s de %s: %v", e.AssignRole, p, err)
	}
}

// mention renders participants as platform mentions separated by commas.
func mention(ids ...entities.ParticipantID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("<@%s>", id)
	}
	return strings.Join(parts, ", ")
}
