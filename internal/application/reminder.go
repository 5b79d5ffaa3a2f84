package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/input"
	"eventosbot/internal/ports/output"
)

var _ input.ReminderUseCase = (*ReminderService)(nil)

// ReminderService fires the one-shot reminder of each event once its start
// is within lead.
type ReminderService struct {
	eventRepo  output.EventRepository
	notifier   output.Notifier
	translator output.T
	locale     string
	lead       time.Duration
	running    atomic.Bool
}

func NewReminderService(
	eventRepo output.EventRepository,
	notifier output.Notifier,
	translator output.T,
	locale string,
	lead time.Duration,
) *ReminderService {
	return &ReminderService{
		eventRepo:  eventRepo,
		notifier:   notifier,
		translator: translator,
		locale:     locale,
		lead:       lead,
	}
}

// Run ticks immediately and then every interval until ctx is done. A tick
// still in progress when the next one is due makes the ticker drop it.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Tick(ctx, time.Now()); err != nil {
			log.Printf("❌ Recordatorios: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *ReminderService) Tick(ctx context.Context, now time.Time) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.running.Store(false)

	due, err := s.eventRepo.FindDueReminders(ctx, now, s.lead)
	if err != nil {
		return 0, err
	}
	fired := 0
	for i := range due {
		if ctx.Err() != nil {
			return fired, ctx.Err()
		}
		ok, err := s.fire(ctx, &due[i])
		if err != nil {
			log.Printf("❌ Recordatorio del evento %s: %v", due[i].ID, err)
			continue
		}
		if ok {
			fired++
		}
	}
	return fired, nil
}

// errAlreadySent aborts a claim on an event another tick already reminded.
var errAlreadySent = errors.New("recordatorio ya enviado")

// fire claims the reminder of e by committing ReminderSent before anything
// is dispatched, so a failed save can never lead to a second dispatch. It
// reports false when the event was already claimed or disappeared.
func (s *ReminderService) fire(ctx context.Context, e *entities.Event) (bool, error) {
	claimed, err := s.eventRepo.Update(ctx, e.ID, func(stored *entities.Event) error {
		if stored.ReminderSent {
			return errAlreadySent
		}
		stored.ReminderSent = true
		return nil
	})
	switch {
	case errors.Is(err, errAlreadySent):
		return false, nil
	case errors.Is(err, domain.ErrEventNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("marcar recordatorio: %w", err)
	}

	minutes := int(s.lead.Minutes())
	notifiable := claimed.Notifiable()

	venueKey := "reminder.venue_nobody"
	welcomeKey := "reminder.welcome_nobody"
	if len(notifiable) > 0 {
		venueKey, welcomeKey = "reminder.venue", "reminder.welcome"
	}
	mentions := mention(notifiable...)

	if err := s.notifier.SendToVenue(ctx, claimed.ChannelID, s.translator.T(s.locale, venueKey, map[string]any{
		"Minutes": minutes, "Title": claimed.Title, "Mentions": mentions,
	})); err != nil {
		log.Printf("⚠️ No se pudo enviar el recordatorio al canal %s: %v", claimed.ChannelID, err)
	}

	threadID := claimed.ThreadID
	if threadID == "" {
		ref, err := s.notifier.CreateThread(ctx, claimed.ChannelID, s.translator.T(s.locale, "reminder.thread_name", map[string]any{"Title": claimed.Title}))
		if err != nil {
			log.Printf("⚠️ No se pudo crear el hilo del evento %s: %v", claimed.ID, err)
		} else {
			threadID = ref
		}
	}
	if threadID != "" {
		if err := s.notifier.SendToThread(ctx, threadID, s.translator.T(s.locale, welcomeKey, map[string]any{"Mentions": mentions})); err != nil {
			log.Printf("⚠️ No se pudo escribir en el hilo %s: %v", threadID, err)
		}
	}

	dm := s.translator.T(s.locale, "reminder.dm", map[string]any{
		"Title": claimed.Title, "Minutes": minutes, "Channel": claimed.ChannelID,
	})
	for _, p := range notifiable {
		if err := s.notifier.SendDirect(ctx, p, dm); err != nil {
			log.Printf("⚠️ No se pudo enviar DM a %s: %v", p, err)
		}
	}

	if threadID != "" && threadID != claimed.ThreadID {
		_, err := s.eventRepo.Update(ctx, claimed.ID, func(stored *entities.Event) error {
			if stored.ThreadID == "" {
				stored.ThreadID = threadID
			}
			return nil
		})
		if errors.Is(err, domain.ErrEventNotFound) {
			log.Printf("ℹ️ El evento %s se eliminó durante el recordatorio", claimed.ID)
			return false, nil
		}
		if err != nil {
			log.Printf("⚠️ No se pudo guardar el hilo %s del evento %s: %v", threadID, claimed.ID, err)
		}
	}
	log.Printf("⏰ Recordatorio enviado para %s (%d participantes)", claimed.ID, len(notifiable))
	return true, nil
}
