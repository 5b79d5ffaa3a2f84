package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/input"
	"eventosbot/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

type EventService struct {
	eventRepo output.EventRepository
	notifier  output.Notifier
	newID     func() string
}

func NewEventService(eventRepo output.EventRepository, notifier output.Notifier) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		notifier:  notifier,
		newID:     uuid.NewString,
	}
}

// CreateEvent persists draft under a fresh id and publishes its summary.
// A publishing failure is logged and the event is kept without a MessageID.
func (s *EventService) CreateEvent(ctx context.Context, draft *entities.Event) (*entities.Event, error) {
	if strings.TrimSpace(draft.ChannelID) == "" {
		return nil, fmt.Errorf("%w: canal vacío", domain.ErrInvalidEvent)
	}
	if draft.Start.IsZero() {
		return nil, domain.ErrInvalidStart
	}
	event := draft.Clone()
	event.ID = s.newID()
	event.MessageID = ""
	event.ReminderSent = false
	event.EnsureParticipants()
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	ref, err := s.notifier.RenderSummary(ctx, event)
	if err != nil {
		log.Printf("❌ No se pudo publicar el evento %s: %v", event.ID, err)
		return event, nil
	}
	updated, err := s.eventRepo.Update(ctx, event.ID, func(e *entities.Event) error {
		e.MessageID = ref
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("guardar mensaje del evento: %w", err)
	}
	log.Printf("✅ Evento %s creado (%s)", updated.ID, updated.Title)
	return updated, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*entities.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}

func (s *EventService) GetEventByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	return s.eventRepo.FindByMessageID(ctx, messageID)
}

// ListUpcoming returns events starting at or after now, soonest first.
func (s *EventService) ListUpcoming(ctx context.Context, now time.Time) ([]entities.Event, error) {
	all, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	upcoming := slices.DeleteFunc(all, func(e entities.Event) bool { return e.Start.Before(now) })
	slices.SortStableFunc(upcoming, func(a, b entities.Event) int { return a.Start.Compare(b.Start) })
	return upcoming, nil
}

// ApplyEdit copies the fields the edit dialog manages from edited onto the
// stored event. Registrations and reminder state made meanwhile are kept.
func (s *EventService) ApplyEdit(ctx context.Context, id string, edited *entities.Event) (*entities.Event, error) {
	var previousChannel, previousMessage string
	updated, err := s.eventRepo.Update(ctx, id, func(e *entities.Event) error {
		previousChannel, previousMessage = e.ChannelID, e.MessageID
		e.Title = edited.Title
		e.Description = edited.Description
		if edited.ChannelID != "" {
			e.ChannelID = edited.ChannelID
		}
		if !edited.Start.IsZero() {
			e.Start = edited.Start
		}
		e.End = edited.End
		e.MaxAttendees = edited.MaxAttendees
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.ChannelID != previousChannel && previousMessage != "" {
		old := updated.Clone()
		old.ChannelID, old.MessageID = previousChannel, previousMessage
		if err := s.notifier.DeleteSummary(ctx, old); err != nil {
			log.Printf("⚠️ No se pudo borrar el resumen anterior del evento %s: %v", id, err)
		}
		updated, err = s.setMessageID(ctx, id, "")
		if err != nil {
			return nil, err
		}
	}
	return s.RefreshSummary(ctx, updated)
}

// RefreshSummary re-renders the summary of event, publishing a new one when
// the previous message is gone.
func (s *EventService) RefreshSummary(ctx context.Context, event *entities.Event) (*entities.Event, error) {
	if event.MessageID != "" {
		err := s.notifier.UpdateSummary(ctx, event)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, domain.ErrSummaryNotFound) {
			log.Printf("⚠️ No se pudo actualizar el resumen del evento %s: %v", event.ID, err)
			return event, nil
		}
	}
	ref, err := s.notifier.RenderSummary(ctx, event)
	if err != nil {
		log.Printf("❌ No se pudo volver a publicar el evento %s: %v", event.ID, err)
		return event, nil
	}
	return s.setMessageID(ctx, event.ID, ref)
}

func (s *EventService) setMessageID(ctx context.Context, id, ref string) (*entities.Event, error) {
	return s.eventRepo.Update(ctx, id, func(e *entities.Event) error {
		e.MessageID = ref
		return nil
	})
}

// DeleteEvent removes the summary message and then the event. When the bot
// may not delete the message the event is kept and domain.ErrForbidden is
// returned.
func (s *EventService) DeleteEvent(ctx context.Context, id string) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.MessageID != "" {
		if err := s.notifier.DeleteSummary(ctx, event); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return nil, err
			}
			log.Printf("⚠️ No se pudo borrar el resumen del evento %s: %v", id, err)
		}
	}
	removed, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Printf("🗑️ Evento %s eliminado", id)
	return removed, nil
}
