// Package repository holds the authoritative in-memory event collection and
// writes it through an output.EventStore on every mutation.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository serializes all access to the collection behind one mutex.
// The lock is held while persisting so that saves never interleave.
type EventRepository struct {
	mu     sync.Mutex
	store  output.EventStore
	events []entities.Event
}

func NewEventRepository(store output.EventStore) *EventRepository {
	return &EventRepository{store: store}
}

// Load replaces the in-memory collection with the persisted one. A corrupt
// store starts empty; any other error is returned.
func (r *EventRepository) Load(ctx context.Context) error {
	events, err := r.store.LoadAll(ctx)
	if errors.Is(err, domain.ErrCorruptStore) {
		log.Printf("⚠️ %v, se continúa con una lista vacía", err)
		events = nil
	} else if err != nil {
		return fmt.Errorf("cargar eventos: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = events
	log.Printf("📂 %d eventos cargados", len(events))
	return nil
}

// persist saves next and swaps it in. Caller holds r.mu.
func (r *EventRepository) persist(ctx context.Context, next []entities.Event) error {
	if err := r.store.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("guardar eventos: %w", err)
	}
	r.events = next
	return nil
}

func (r *EventRepository) indexOf(id string) int {
	return slices.IndexFunc(r.events, func(e entities.Event) bool { return e.ID == id })
}

func (r *EventRepository) snapshot() []entities.Event {
	out := make([]entities.Event, len(r.events))
	for i := range r.events {
		out[i] = *r.events[i].Clone()
	}
	return out
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	if event.ID == "" {
		return fmt.Errorf("%w: id vacío", domain.ErrInvalidEvent)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(event.ID) >= 0 {
		return fmt.Errorf("%w: id duplicado %s", domain.ErrInvalidEvent, event.ID)
	}
	stored := event.Clone()
	stored.EnsureParticipants()
	next := append(r.snapshot(), *stored)
	return r.persist(ctx, next)
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	return r.events[i].Clone(), nil
}

func (r *EventRepository) FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if messageID == "" {
		return nil, domain.ErrEventNotFound
	}
	i := slices.IndexFunc(r.events, func(e entities.Event) bool { return e.MessageID == messageID })
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	return r.events[i].Clone(), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(), nil
}

func (r *EventRepository) FindDueReminders(ctx context.Context, now time.Time, lead time.Duration) ([]entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Event
	for i := range r.events {
		if domain.ReminderDue(&r.events[i], now, lead) {
			out = append(out, *r.events[i].Clone())
		}
	}
	return out, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, mutate func(*entities.Event) error) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	next := r.snapshot()
	target := &next[i]
	if err := mutate(target); err != nil {
		return nil, err
	}
	target.ID = id
	target.EnsureParticipants()
	if err := r.persist(ctx, next); err != nil {
		return nil, err
	}
	return r.events[i].Clone(), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	removed := r.events[i].Clone()
	next := slices.Delete(r.snapshot(), i, i+1)
	if err := r.persist(ctx, next); err != nil {
		return nil, err
	}
	return removed, nil
}
