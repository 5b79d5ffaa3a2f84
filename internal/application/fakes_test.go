package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/infrastructure/repository"
	"eventosbot/internal/ports/output"
)

// keyTranslator renders "key" or "key{A=1 B=2}" so tests can assert on
// which message was produced without a catalog.
type keyTranslator struct{}

func (keyTranslator) T(_ string, key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	parts := make([]string, 0, len(data))
	for k, v := range data {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(parts)
	return key + "{" + strings.Join(parts, " ") + "}"
}

type memStore struct {
	mu     sync.Mutex
	events []entities.Event
}

func (m *memStore) LoadAll(context.Context) ([]entities.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Event(nil), m.events...), nil
}

func (m *memStore) SaveAll(_ context.Context, events []entities.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make([]entities.Event, len(events))
	for i := range events {
		m.events[i] = *events[i].Clone()
	}
	return nil
}

// failingStore is a memStore whose saves fail while failSave is set.
type failingStore struct {
	memStore
	failSave atomic.Bool
}

func (f *failingStore) SaveAll(ctx context.Context, events []entities.Event) error {
	if f.failSave.Load() {
		return errors.New("disk full")
	}
	return f.memStore.SaveAll(ctx, events)
}

func newRepo() *repository.EventRepository {
	return repository.NewEventRepository(&memStore{})
}

type sent struct {
	To   string
	Text string
}

type fakeNotifier struct {
	mu          sync.Mutex
	rendered    []string
	updated     []string
	deleted     []string
	threads     []string
	threadMsgs  []sent
	venueMsgs   []sent
	direct      []sent
	nextRef     int
	renderErr   error
	updateErr   error
	deleteErr   error
	threadErr   error
	unreachable map[entities.ParticipantID]bool
	onVenue     func()
}

func (n *fakeNotifier) RenderSummary(_ context.Context, e *entities.Event) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.renderErr != nil {
		return "", n.renderErr
	}
	n.nextRef++
	n.rendered = append(n.rendered, e.ID)
	return fmt.Sprintf("msg-%d", n.nextRef), nil
}

func (n *fakeNotifier) UpdateSummary(_ context.Context, e *entities.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.updateErr != nil {
		return n.updateErr
	}
	n.updated = append(n.updated, e.MessageID)
	return nil
}

func (n *fakeNotifier) DeleteSummary(_ context.Context, e *entities.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.deleteErr != nil {
		return n.deleteErr
	}
	n.deleted = append(n.deleted, e.MessageID)
	return nil
}

func (n *fakeNotifier) CreateThread(_ context.Context, channel, title string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.threadErr != nil {
		return "", n.threadErr
	}
	n.threads = append(n.threads, title)
	return "thread-" + channel, nil
}

func (n *fakeNotifier) SendToThread(_ context.Context, thread, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.threadMsgs = append(n.threadMsgs, sent{thread, text})
	return nil
}

func (n *fakeNotifier) SendToVenue(_ context.Context, channel, text string) error {
	n.mu.Lock()
	hook := n.onVenue
	n.venueMsgs = append(n.venueMsgs, sent{channel, text})
	n.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (n *fakeNotifier) SendDirect(_ context.Context, p entities.ParticipantID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.unreachable[p] {
		return domain.ErrUnreachable
	}
	n.direct = append(n.direct, sent{string(p), text})
	return nil
}

type fakeDirectory struct {
	mu       sync.Mutex
	channels []output.Option
	roles    []output.Option
	granted  []string
	revoked  []string
	grantErr error
}

func (d *fakeDirectory) ResolveParticipantDisplay(_ context.Context, p entities.ParticipantID) string {
	return "name-" + string(p)
}

func (d *fakeDirectory) Channels(context.Context) ([]output.Option, error) { return d.channels, nil }
func (d *fakeDirectory) Roles(context.Context) ([]output.Option, error) { return d.roles, nil }

func (d *fakeDirectory) GrantRole(_ context.Context, p entities.ParticipantID, role string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.grantErr != nil {
		return d.grantErr
	}
	d.granted = append(d.granted, string(p)+":"+role)
	return nil
}

func (d *fakeDirectory) RevokeRole(_ context.Context, p entities.ParticipantID, role string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked = append(d.revoked, string(p)+":"+role)
	return nil
}

// scriptedConversation replays queued messages per user; once the queue is
// empty NextMessage blocks until ctx ends.
type scriptedConversation struct {
	mu      sync.Mutex
	inbox   map[string][]string
	out     map[string][]string
	sendErr error
	closed  int
}

func newConversation() *scriptedConversation {
	return &scriptedConversation{inbox: map[string][]string{}, out: map[string][]string{}}
}

func (c *scriptedConversation) queue(user string, msgs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inbox[user] = append(c.inbox[user], msgs...)
}

func (c *scriptedConversation) sentTo(user string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.out[user]...)
}

func (c *scriptedConversation) Send(_ context.Context, user, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.out[user] = append(c.out[user], text)
	return nil
}

func (c *scriptedConversation) Close(user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

func (c *scriptedConversation) NextMessage(ctx context.Context, user string) (output.Message, error) {
	c.mu.Lock()
	if q := c.inbox[user]; len(q) > 0 {
		c.inbox[user] = q[1:]
		c.mu.Unlock()
		return output.Message{Content: q[0]}, nil
	}
	c.mu.Unlock()
	<-ctx.Done()
	return output.Message{}, ctx.Err()
}
