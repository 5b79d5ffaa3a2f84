package discord

import (
	"context"
	"log"
	"time"

	"eventosbot/internal/ports/input"
)

// Scheduler runs the reminder loop in the background for the lifetime of
// the bot.
type Scheduler struct {
	reminders input.ReminderUseCase
	interval  time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewScheduler(reminders input.ReminderUseCase, interval time.Duration) *Scheduler {
	return &Scheduler{reminders: reminders, interval: interval}
}

// Start launches the loop. Calling it twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	if s.done != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		log.Printf("⏰ Recordatorios cada %s", s.interval)
		s.reminders.Run(ctx, s.interval)
	}()
}

// Stop cancels the loop and waits for the tick in progress to finish.
func (s *Scheduler) Stop() {
	if s.done == nil {
		return
	}
	s.cancel()
	<-s.done
}
