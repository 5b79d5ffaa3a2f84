package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/infrastructure/repository"
)

type reminderFixture struct {
	repo     *repository.EventRepository
	notifier *fakeNotifier
	svc      *ReminderService
}

func newReminderFixture() *reminderFixture {
	repo := newRepo()
	n := &fakeNotifier{unreachable: map[entities.ParticipantID]bool{}}
	return &reminderFixture{
		repo:     repo,
		notifier: n,
		svc:      NewReminderService(repo, n, keyTranslator{}, "es", 15*time.Minute),
	}
}

func (f *reminderFixture) add(t *testing.T, id string, start time.Time, regs map[entities.RoleKey][]entities.ParticipantID) {
	t.Helper()
	e := &entities.Event{ID: id, Title: "T-" + id, ChannelID: "chan-" + id, Start: start, RegistrationOpen: true, Participants: entities.NewParticipants()}
	for k, ids := range regs {
		e.Participants[k] = ids
	}
	require.NoError(t, f.repo.Create(context.Background(), e))
}

var tenAM = time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)

func TestReminder_FiresAtLeadBoundary(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture()
	f.add(t, "e1", tenAM, nil)

	n, err := f.svc.Tick(ctx, tenAM.Add(-16*time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = f.svc.Tick(ctx, tenAM.Add(-15*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestReminder_DispatchesOnceToEveryone(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture()
	f.add(t, "e1", tenAM, map[entities.RoleKey][]entities.ParticipantID{
		entities.RoleInfantry:  {"u1", "u2"},
		entities.RoleTank:      {"u2"},
		entities.RoleTentative: {"u3"},
		entities.RoleDeclined:  {"u4"},
	})
	f.notifier.unreachable["u2"] = true

	n, err := f.svc.Tick(ctx, tenAM.Add(-10*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.Equal(t, []sent{{"chan-e1", "reminder.venue{Mentions=<@u1>, <@u2>, <@u3> Minutes=15 Title=T-e1}"}}, f.notifier.venueMsgs)
	require.Equal(t, []string{"reminder.thread_name{Title=T-e1}"}, f.notifier.threads)
	require.Equal(t, []sent{{"thread-chan-e1", "reminder.welcome{Mentions=<@u1>, <@u2>, <@u3>}"}}, f.notifier.threadMsgs)
	require.Len(t, f.notifier.direct, 2)
	require.Equal(t, "u1", f.notifier.direct[0].To)
	require.Equal(t, "u3", f.notifier.direct[1].To)

	stored, err := f.repo.FindByID(ctx, "e1")
	require.NoError(t, err)
	require.True(t, stored.ReminderSent)
	require.Equal(t, "thread-chan-e1", stored.ThreadID)

	n, err = f.svc.Tick(ctx, tenAM.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, f.notifier.venueMsgs, 1)
}

func TestReminder_LongElapsedStartFiresOnce(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture()
	f.add(t, "old", tenAM.Add(-72*time.Hour), nil)

	n, err := f.svc.Tick(ctx, tenAM)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []sent{{"chan-old", "reminder.venue_nobody{Mentions= Minutes=15 Title=T-old}"}}, f.notifier.venueMsgs)
}

func TestReminder_ReusesExistingThread(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture()
	f.add(t, "e1", tenAM, nil)
	_, err := f.repo.Update(ctx, "e1", func(e *entities.Event) error {
		e.ThreadID = "thread-x"
		return nil
	})
	require.NoError(t, err)

	_, err = f.svc.Tick(ctx, tenAM)
	require.NoError(t, err)
	require.Empty(t, f.notifier.threads)
	require.Equal(t, "thread-x", f.notifier.threadMsgs[0].To)
}

func TestReminder_ThreadFailureStillMarksSent(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture()
	f.notifier.threadErr = domain.ErrForbidden
	f.add(t, "e1", tenAM, nil)

	n, err := f.svc.Tick(ctx, tenAM)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Empty(t, f.notifier.threadMsgs)

	stored, _ := f.repo.FindByID(ctx, "e1")
	require.True(t, stored.ReminderSent)
	require.Empty(t, stored.ThreadID)
}

func TestReminder_SkipsEventDeletedDuringDispatch(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture()
	f.add(t, "e1", tenAM, nil)
	f.notifier.onVenue = func() {
		_, err := f.repo.Delete(ctx, "e1")
		require.NoError(t, err)
	}

	n, err := f.svc.Tick(ctx, tenAM)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReminder_TicksDoNotOverlap(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture()
	f.add(t, "e1", tenAM, nil)

	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	f.notifier.onVenue = func() {
		once.Do(func() { close(entered) })
		<-release
	}

	done := make(chan int)
	go func() {
		n, _ := f.svc.Tick(ctx, tenAM)
		done <- n
	}()
	<-entered

	n, err := f.svc.Tick(ctx, tenAM)
	require.NoError(t, err)
	require.Zero(t, n)

	close(release)
	require.Equal(t, 1, <-done)
	require.Len(t, f.notifier.venueMsgs, 1)
}

func TestReminder_RunStopsWithContext(t *testing.T) {
	f := newReminderFixture()
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		f.svc.Run(ctx, time.Hour)
		close(finished)
	}()
	cancel()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestReminder_FailedClaimDispatchesNothing(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	repo := repository.NewEventRepository(store)
	n := &fakeNotifier{unreachable: map[entities.ParticipantID]bool{}}
	svc := NewReminderService(repo, n, keyTranslator{}, "es", 15*time.Minute)
	require.NoError(t, repo.Create(ctx, &entities.Event{
		ID: "e1", Title: "T", ChannelID: "chan-e1", Start: tenAM, Participants: map[entities.RoleKey][]entities.ParticipantID{
			entities.RoleInfantry: {"u1"},
		},
	}))

	store.failSave.Store(true)
	for _, offset := range []time.Duration{-15, -14, -13} {
		fired, err := svc.Tick(ctx, tenAM.Add(offset*time.Minute))
		require.NoError(t, err)
		require.Zero(t, fired)
	}
	require.Empty(t, n.venueMsgs)
	require.Empty(t, n.threads)
	require.Empty(t, n.direct)

	store.failSave.Store(false)
	fired, err := svc.Tick(ctx, tenAM.Add(-12*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, fired)
	require.Len(t, n.venueMsgs, 1)
	require.Len(t, n.direct, 1)
}

func TestReminder_FailedThreadSaveDoesNotRedispatch(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	repo := repository.NewEventRepository(store)
	n := &fakeNotifier{unreachable: map[entities.ParticipantID]bool{}}
	svc := NewReminderService(repo, n, keyTranslator{}, "es", 15*time.Minute)
	require.NoError(t, repo.Create(ctx, &entities.Event{
		ID: "e1", Title: "T", ChannelID: "chan-e1", Start: tenAM, Participants: map[entities.RoleKey][]entities.ParticipantID{
			entities.RoleInfantry: {"u1"},
		},
	}))
	n.onVenue = func() { store.failSave.Store(true) }

	for _, offset := range []time.Duration{-15, -14, -13} {
		_, err := svc.Tick(ctx, tenAM.Add(offset*time.Minute))
		require.NoError(t, err)
	}
	require.Len(t, n.venueMsgs, 1)
	require.Len(t, n.threads, 1)
	require.Len(t, n.direct, 1)

	stored, err := repo.FindByID(ctx, "e1")
	require.NoError(t, err)
	require.True(t, stored.ReminderSent)
}
