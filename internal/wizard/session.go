package wizard

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/output"
	"eventosbot/pkg/tz"
)

// Prompt is a translatable message: a catalog key plus template data.
type Prompt struct {
	Key  string
	Data map[string]any
}

// Result describes the effect of one message on the session.
type Result struct {
	// Notice is feedback to show the user (validation error or confirmation).
	Notice *Prompt
	// ShowPrompt is true when the user should see Prompt() again, either
	// because the cursor moved or because the current step was reset.
	ShowPrompt bool
}

// Options carries the environment a session needs to validate input.
type Options struct {
	// CurrentChannel is the channel where the creation was requested.
	CurrentChannel string
	Channels       []output.Option
	Roles          []output.Option
	Location       *time.Location
	Now            func() time.Time
}

// Session is one wizard dialog for one user.
type Session struct {
	mode   Mode
	userID string
	step   Step
	draft  entities.Event
	opts   Options
}

// NewCreateSession starts a creation dialog with default draft values.
func NewCreateSession(userID string, opts Options) *Session {
	opts = withDefaults(opts)
	return &Session{
		mode:   ModeCreate,
		userID: userID,
		step:   StepChannelSelect,
		opts:   opts,
		draft: entities.Event{
			CreatorID:        userID,
			Color:            entities.DefaultColor,
			RegistrationOpen: true,
			Participants:     entities.NewParticipants(),
		},
	}
}

// NewEditSession starts an edit dialog pre-populated from target.
func NewEditSession(userID string, target *entities.Event, opts Options) *Session {
	return &Session{
		mode:   ModeEdit,
		userID: userID,
		step:   editFlow[0],
		opts:   withDefaults(opts),
		draft:  *target.Clone(),
	}
}

func withDefaults(opts Options) Options {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func (s *Session) Mode() Mode     { return s.mode }
func (s *Session) Step() Step     { return s.step }
func (s *Session) UserID() string { return s.userID }

// Draft returns a copy of the event under construction.
func (s *Session) Draft() entities.Event { return *s.draft.Clone() }

// Finalize converts the draft into an event once the dialog reached
// StepFinalize and marks the session completed.
func (s *Session) Finalize() (*entities.Event, error) {
	if s.step != StepFinalize {
		return nil, fmt.Errorf("wizard: finalize from step %s", s.step)
	}
	ev := s.draft.Clone()
	if s.mode == ModeCreate {
		ev.ReminderSent = false
		ev.RegistrationOpen = true
		ev.Participants = entities.NewParticipants()
	}
	s.step = StepCompleted
	return ev, nil
}

// Cancel aborts the session; the draft is discarded.
func (s *Session) Cancel() {
	if !s.step.Terminal() {
		s.step = StepCancelled
		s.draft = entities.Event{}
	}
}

// Timeout ends a session whose user stopped answering.
func (s *Session) Timeout() {
	if !s.step.Terminal() {
		s.step = StepTimedOut
		s.draft = entities.Event{}
	}
}

// Prompt returns the message to show for the current step.
func (s *Session) Prompt() Prompt {
	p := Prompt{Key: fmt.Sprintf("wizard.%s.%s", s.mode, s.step), Data: map[string]any{}}
	switch s.step {
	case StepChannelPick:
		p.Data["List"] = numbered(s.opts.Channels)
		p.Data["Current"] = s.draft.ChannelID
	case StepTitle:
		p.Data["Current"] = s.draft.Title
		p.Data["Max"] = entities.MaxTitleLength
	case StepDescription:
		p.Data["Current"] = s.draft.Description
		p.Data["Max"] = entities.MaxDescriptionLength
	case StepMaxAttendees:
		p.Data["Current"] = s.draft.MaxAttendees
		p.Data["Max"] = entities.MaxAttendeesLimit
	case StepStartTime:
		if !s.draft.Start.IsZero() {
			p.Data["Current"] = tz.Format(s.draft.Start, s.opts.Location)
		}
	case StepDuration:
		p.Data["Current"] = s.draft.End
	case StepMentionRoles, StepAllowedRoles, StepAssignRole:
		p.Data["List"] = numbered(s.opts.Roles)
	}
	return p
}

// Handle consumes one user message.
func (s *Session) Handle(msg output.Message) Result {
	if s.step.Terminal() || s.step == StepFinalize {
		return Result{}
	}
	text := strings.TrimSpace(msg.Content)
	if isToken(text, cancelTokens) {
		s.Cancel()
		return Result{}
	}
	if s.mode == ModeEdit && isToken(text, skipTokens) && s.step != StepAdvancedMenu {
		s.advance()
		return Result{ShowPrompt: true}
	}

	switch s.step {
	case StepChannelSelect:
		return s.handleChannelSelect(text)
	case StepChannelPick:
		return s.handleChannelPick(text)
	case StepTitle:
		return s.handleText(text, entities.MaxTitleLength, false, func(v string) { s.draft.Title = v })
	case StepDescription:
		return s.handleText(text, entities.MaxDescriptionLength, true, func(v string) { s.draft.Description = v })
	case StepMaxAttendees:
		return s.handleMaxAttendees(text)
	case StepStartTime:
		return s.handleStartTime(text)
	case StepDuration:
		return s.handleText(text, entities.MaxDurationLength, true, func(v string) { s.draft.End = v })
	case StepAdvancedMenu:
		return s.handleMenu(text)
	case StepMentionRoles:
		return s.handleRoleSelection(text, func(ids []string) { s.draft.MentionRoles = ids })
	case StepImage:
		return s.handleImage(msg)
	case StepColor:
		return s.handleColor(text)
	case StepAllowedRoles:
		return s.handleRoleSelection(text, func(ids []string) { s.draft.AllowedRoles = ids })
	case StepMultiResponse:
		return s.handleMultiResponse(text)
	case StepAssignRole:
		return s.handleAssignRole(text)
	case StepRegistrationClose:
		return s.handleRegistrationClose(text)
	}
	return Result{}
}

// advance moves the cursor to the step following the current one.
func (s *Session) advance() {
	switch s.mode {
	case ModeEdit:
		i := slices.Index(editFlow, s.step)
		s.step = editFlow[i+1]
		if s.step == StepChannelPick && len(s.opts.Channels) == 0 {
			s.step = editFlow[i+2]
		}
	default:
		switch s.step {
		case StepChannelPick:
			s.step = StepTitle
		case StepMentionRoles, StepImage, StepColor, StepAllowedRoles,
			StepMultiResponse, StepAssignRole, StepRegistrationClose:
			s.step = StepAdvancedMenu
		default:
			i := slices.Index(createFlow, s.step)
			s.step = createFlow[i+1]
		}
	}
}

func (s *Session) moved() Result { s.advance(); return Result{ShowPrompt: true} }

func invalid(key string, data map[string]any) Result {
	return Result{Notice: &Prompt{Key: key, Data: data}}
}

func invalidNumber(lo, hi int) Result {
	return invalid("wizard.invalid.number", map[string]any{"Min": lo, "Max": hi})
}

func (s *Session) handleChannelSelect(text string) Result {
	n, err := parseChoice(text, 1, 2)
	if err != nil {
		return invalidNumber(1, 2)
	}
	if n == 1 {
		s.draft.ChannelID = s.opts.CurrentChannel
		s.step = StepTitle
		return Result{ShowPrompt: true}
	}
	if len(s.opts.Channels) == 0 {
		return Result{Notice: &Prompt{Key: "wizard.no_channels"}, ShowPrompt: true}
	}
	s.step = StepChannelPick
	return Result{ShowPrompt: true}
}

func (s *Session) handleChannelPick(text string) Result {
	n, err := parseChoice(text, 1, len(s.opts.Channels))
	if err != nil {
		return invalidNumber(1, len(s.opts.Channels))
	}
	s.draft.ChannelID = s.opts.Channels[n-1].ID
	return s.moved()
}

func (s *Session) handleText(text string, max int, allowNone bool, set func(string)) Result {
	if allowNone && isToken(text, noneTokens) {
		set("")
		return s.moved()
	}
	if text == "" {
		return invalid("wizard.invalid.empty", nil)
	}
	if tooLong(text, max) {
		return invalid("wizard.invalid.too_long", map[string]any{"Max": max})
	}
	set(text)
	return s.moved()
}

func (s *Session) handleMaxAttendees(text string) Result {
	if isToken(text, noneTokens) {
		s.draft.MaxAttendees = 0
		return s.moved()
	}
	n, err := parseChoice(text, 1, entities.MaxAttendeesLimit)
	if err != nil {
		return invalidNumber(1, entities.MaxAttendeesLimit)
	}
	s.draft.MaxAttendees = n
	return s.moved()
}

func (s *Session) handleStartTime(text string) Result {
	if s.mode == ModeCreate && isToken(text, nowTokens) {
		s.draft.Start = s.opts.Now().In(s.opts.Location).Truncate(time.Minute)
		return s.moved()
	}
	start, err := tz.Parse(text, s.opts.Location)
	if err != nil {
		return invalid("wizard.invalid.datetime", nil)
	}
	s.draft.Start = start
	return s.moved()
}

func (s *Session) handleMenu(text string) Result {
	n, err := parseChoice(text, 1, menuFinish)
	if err != nil {
		return invalidNumber(1, menuFinish)
	}
	needsRoles := n == menuMentionRoles || n == menuAllowedRoles || n == menuAssignRole
	if needsRoles && len(s.opts.Roles) == 0 {
		return Result{Notice: &Prompt{Key: "wizard.no_roles"}, ShowPrompt: true}
	}
	switch n {
	case menuMentionRoles:
		s.step = StepMentionRoles
	case menuImage:
		s.step = StepImage
	case menuColor:
		s.step = StepColor
	case menuAllowedRoles:
		s.step = StepAllowedRoles
	case menuMultiResponse:
		s.step = StepMultiResponse
	case menuAssignRole:
		s.step = StepAssignRole
	case menuRegistrationClose:
		s.step = StepRegistrationClose
	case menuFinish:
		s.step = StepFinalize
		return Result{}
	}
	return Result{ShowPrompt: true}
}

func (s *Session) handleRoleSelection(text string, set func([]string)) Result {
	if isToken(text, noneTokens) {
		set([]string{})
		return s.moved()
	}
	idx, err := parseMultiSelect(text, len(s.opts.Roles))
	if err != nil {
		return invalid("wizard.invalid.selection", map[string]any{"Max": len(s.opts.Roles)})
	}
	ids := make([]string, len(idx))
	for i, j := range idx {
		ids[i] = s.opts.Roles[j].ID
	}
	set(ids)
	return s.moved()
}

func (s *Session) handleImage(msg output.Message) Result {
	if isToken(msg.Content, noneTokens) {
		s.draft.Image = ""
		return s.moved()
	}
	if len(msg.Attachments) > 0 {
		a := msg.Attachments[0]
		if !strings.HasPrefix(a.ContentType, "image/") {
			return invalid("wizard.invalid.image", nil)
		}
		s.draft.Image = a.URL
	} else if isImageURL(msg.Content) {
		s.draft.Image = strings.TrimSpace(msg.Content)
	} else {
		return invalid("wizard.invalid.image", nil)
	}
	s.advance()
	return Result{Notice: &Prompt{Key: "wizard.image_added"}, ShowPrompt: true}
}

func (s *Session) handleColor(text string) Result {
	if isToken(text, skipTokens) {
		return s.moved()
	}
	c, err := parseColor(text)
	if err != nil {
		return invalid("wizard.invalid.color", nil)
	}
	s.draft.Color = c
	return s.moved()
}

func (s *Session) handleMultiResponse(text string) Result {
	switch {
	case isToken(text, yesTokens):
		s.draft.MultiResponse = true
	case isToken(text, noTokens):
		s.draft.MultiResponse = false
	default:
		return invalid("wizard.invalid.yes_no", nil)
	}
	return s.moved()
}

func (s *Session) handleAssignRole(text string) Result {
	if isToken(text, noneTokens) {
		s.draft.AssignRole = ""
		return s.moved()
	}
	n, err := parseChoice(text, 1, len(s.opts.Roles))
	if err != nil {
		return invalidNumber(1, len(s.opts.Roles))
	}
	s.draft.AssignRole = s.opts.Roles[n-1].ID
	return s.moved()
}

func (s *Session) handleRegistrationClose(text string) Result {
	if isToken(text, noneTokens) {
		s.draft.RegistrationClose = ""
		return s.moved()
	}
	if tooLong(text, 50) {
		return invalid("wizard.invalid.too_long", map[string]any{"Max": 50})
	}
	if _, err := domain.ParseCloseOffset(text); err != nil {
		return invalid("wizard.invalid.offset", nil)
	}
	s.draft.RegistrationClose = text
	return s.moved()
}

func numbered(opts []output.Option) string {
	var b strings.Builder
	for i, o := range opts {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, o.Name)
	}
	return b.String()
}
