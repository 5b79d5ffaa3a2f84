package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"eventosbot/internal/domain"
	"eventosbot/internal/ports/input"
	"eventosbot/internal/ports/output"
	"eventosbot/internal/wizard"
)

var _ input.WizardUseCase = (*WizardService)(nil)

// WizardService runs wizard sessions over private messages, one goroutine per
// session and at most one session per user.
type WizardService struct {
	conv       output.Conversation
	directory  output.Directory
	events     *EventService
	translator output.T
	locale     string
	loc        *time.Location
	timeout    time.Duration
	now        func() time.Time

	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup
	base   context.Context
	stop   context.CancelFunc
}

func NewWizardService(
	conv output.Conversation,
	directory output.Directory,
	events *EventService,
	translator output.T,
	locale string,
	loc *time.Location,
	timeout time.Duration,
) *WizardService {
	svc := &WizardService{
		conv:       conv,
		directory:  directory,
		events:     events,
		translator: translator,
		locale:     locale,
		loc:        loc,
		timeout:    timeout,
		now:        time.Now,
		active:     make(map[string]struct{}),
	}
	svc.base, svc.stop = context.WithCancel(context.Background())
	return svc
}

func (s *WizardService) StartCreation(ctx context.Context, userID, venueID string) error {
	if !s.claim(userID) {
		return domain.ErrSessionActive
	}
	sess := wizard.NewCreateSession(userID, s.options(ctx, venueID))
	return s.start(ctx, sess)
}

func (s *WizardService) StartEdit(ctx context.Context, userID, eventID string) error {
	target, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !s.claim(userID) {
		return domain.ErrSessionActive
	}
	sess := wizard.NewEditSession(userID, target, s.options(ctx, target.ChannelID))
	return s.start(ctx, sess)
}

// Wait blocks until every running session has ended.
func (s *WizardService) Wait() { s.wg.Wait() }

// Shutdown interrupts the sessions still waiting for a reply and waits for
// them to end.
func (s *WizardService) Shutdown() {
	s.stop()
	s.wg.Wait()
}

func (s *WizardService) claim(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[userID]; ok {
		return false
	}
	s.active[userID] = struct{}{}
	return true
}

func (s *WizardService) release(userID string) {
	s.conv.Close(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, userID)
}

func (s *WizardService) options(ctx context.Context, currentChannel string) wizard.Options {
	channels, err := s.directory.Channels(ctx)
	if err != nil {
		log.Printf("⚠️ No se pudieron listar los canales: %v", err)
	}
	roles, err := s.directory.Roles(ctx)
	if err != nil {
		log.Printf("⚠️ No se pudieron listar los roles: %v", err)
	}
	return wizard.Options{
		CurrentChannel: currentChannel,
		Channels:       channels,
		Roles:          roles,
		Location:       s.loc,
		Now:            s.now,
	}
}

// start delivers the first prompt synchronously so an unreachable user is
// reported to the caller, then continues the dialog in the background.
func (s *WizardService) start(ctx context.Context, sess *wizard.Session) error {
	if err := s.conv.Send(ctx, sess.UserID(), s.render(sess.Prompt())); err != nil {
		s.release(sess.UserID())
		return errors.Join(domain.ErrUnreachable, err)
	}
	log.Printf("🧙 Asistente %s iniciado para %s", sess.Mode(), sess.UserID())
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	unwatch := context.AfterFunc(s.base, cancel)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(sess.UserID())
		defer cancel()
		defer unwatch()
		s.run(runCtx, sess)
	}()
	return nil
}

func (s *WizardService) render(p wizard.Prompt) string {
	return s.translator.T(s.locale, p.Key, p.Data)
}

func (s *WizardService) send(ctx context.Context, userID, text string) {
	if err := s.conv.Send(ctx, userID, text); err != nil {
		log.Printf("⚠️ No se pudo enviar DM a %s: %v", userID, err)
	}
}

// run reads messages until the session reaches a terminal step. Every wait
// is bounded by the configured timeout.
func (s *WizardService) run(ctx context.Context, sess *wizard.Session) {
	user := sess.UserID()
	for !sess.Step().Terminal() {
		if sess.Step() == wizard.StepFinalize {
			s.finalize(ctx, sess)
			return
		}

		waitCtx, cancel := context.WithTimeout(ctx, s.timeout)
		msg, err := s.conv.NextMessage(waitCtx, user)
		cancel()
		if err != nil {
			if errors.Is(err, domain.ErrConversationTimeout) || errors.Is(err, context.DeadlineExceeded) {
				sess.Timeout()
				log.Printf("⌛ Asistente de %s agotado en %s", user, sess.Step())
				s.send(ctx, user, s.translator.T(s.locale, "wizard.timed_out", nil))
				return
			}
			sess.Cancel()
			log.Printf("⚠️ Asistente de %s interrumpido: %v", user, err)
			return
		}

		res := sess.Handle(msg)
		if res.Notice != nil {
			s.send(ctx, user, s.render(*res.Notice))
		}
		if sess.Step() == wizard.StepCancelled {
			s.send(ctx, user, s.translator.T(s.locale, "wizard.cancelled", nil))
			return
		}
		if res.ShowPrompt && sess.Step() != wizard.StepFinalize {
			s.send(ctx, user, s.render(sess.Prompt()))
		}
	}
}

func (s *WizardService) finalize(ctx context.Context, sess *wizard.Session) {
	user := sess.UserID()
	mode := sess.Mode()
	draft, err := sess.Finalize()
	if err != nil {
		log.Printf("❌ %v", err)
		return
	}

	if mode == wizard.ModeEdit {
		if _, err := s.events.ApplyEdit(ctx, draft.ID, draft); err != nil {
			log.Printf("❌ No se pudo editar el evento %s: %v", draft.ID, err)
			s.send(ctx, user, s.translator.T(s.locale, errorKey(err), nil))
			return
		}
		s.send(ctx, user, s.translator.T(s.locale, "wizard.edited", nil))
		return
	}

	created, err := s.events.CreateEvent(ctx, draft)
	if err != nil {
		log.Printf("❌ No se pudo crear el evento: %v", err)
		s.send(ctx, user, s.translator.T(s.locale, errorKey(err), nil))
		return
	}
	if created.MessageID == "" {
		s.send(ctx, user, s.translator.T(s.locale, "wizard.created_unpublished", nil))
		return
	}
	s.send(ctx, user, s.translator.T(s.locale, "wizard.created", map[string]any{"Channel": created.ChannelID}))
}

// errorKey maps err to its catalog key.
func errorKey(err error) string {
	if code := domain.Code(err); code != "" {
		return "errors." + code
	}
	return "errors.generic"
}
