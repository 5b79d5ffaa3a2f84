package input

import (
	"context"
	"time"
)

type ReminderUseCase interface {
	// Tick fires every reminder due at now and returns how many fired.
	Tick(ctx context.Context, now time.Time) (int, error)
	// Run calls Tick every interval until ctx is cancelled.
	Run(ctx context.Context, interval time.Duration)
}
