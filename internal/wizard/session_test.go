package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/output"
)

var fixedNow = time.Date(2030, 1, 1, 8, 30, 42, 0, time.UTC)

func testOptions() Options {
	return Options{
		CurrentChannel: "chan-current",
		Channels: []output.Option{
			{ID: "chan-1", Name: "general"},
			{ID: "chan-2", Name: "operaciones"},
		},
		Roles: []output.Option{
			{ID: "role-1", Name: "Miembro"},
			{ID: "role-2", Name: "Veterano"},
			{ID: "role-3", Name: "Recluta"},
		},
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	}
}

func text(s string) output.Message { return output.Message{Content: s} }

func feed(t *testing.T, s *Session, inputs ...string) Result {
	t.Helper()
	var r Result
	for _, in := range inputs {
		r = s.Handle(text(in))
	}
	return r
}

func TestCreate_HappyPath(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	require.Equal(t, StepChannelSelect, s.Step())
	require.Equal(t, "wizard.create.channel_select", s.Prompt().Key)

	feed(t, s, "2", "2", "Operación Nocturna", "none", "40", "2030-01-01 10:00", "2 horas")
	require.Equal(t, StepAdvancedMenu, s.Step())

	feed(t, s, "1", "1,3")
	require.Equal(t, StepAdvancedMenu, s.Step())
	feed(t, s, "3", "#FF0000")
	feed(t, s, "4", "2")
	feed(t, s, "5", "si")
	feed(t, s, "6", "3")
	feed(t, s, "7", "10 minutos")
	feed(t, s, "2", "https://example.com/banner.png")
	require.Equal(t, StepAdvancedMenu, s.Step())

	r := feed(t, s, "8")
	require.False(t, r.ShowPrompt)
	require.Equal(t, StepFinalize, s.Step())

	ev, err := s.Finalize()
	require.NoError(t, err)
	require.Equal(t, StepCompleted, s.Step())

	require.Equal(t, "chan-2", ev.ChannelID)
	require.Equal(t, "user-1", ev.CreatorID)
	require.Equal(t, "Operación Nocturna", ev.Title)
	require.Equal(t, "", ev.Description)
	require.Equal(t, 40, ev.MaxAttendees)
	require.Equal(t, time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC), ev.Start)
	require.Equal(t, "2 horas", ev.End)
	require.Equal(t, []string{"role-1", "role-3"}, ev.MentionRoles)
	require.Equal(t, 0xFF0000, ev.Color)
	require.Equal(t, []string{"role-2"}, ev.AllowedRoles)
	require.True(t, ev.MultiResponse)
	require.Equal(t, "role-3", ev.AssignRole)
	require.Equal(t, "10 minutos", ev.RegistrationClose)
	require.Equal(t, "https://example.com/banner.png", ev.Image)
	require.True(t, ev.RegistrationOpen)
	require.False(t, ev.ReminderSent)
	require.Len(t, ev.Participants, len(entities.RoleKeys))
	for _, k := range entities.RoleKeys {
		require.Empty(t, ev.Participants[k])
	}
}

func TestCreate_DefaultsAndCurrentChannel(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1", "Patrulla", "Descripción", "none", "ahora", "none", "8")

	ev, err := s.Finalize()
	require.NoError(t, err)
	require.Equal(t, "chan-current", ev.ChannelID)
	require.Equal(t, 0, ev.MaxAttendees)
	require.Equal(t, time.Date(2030, 1, 1, 8, 30, 0, 0, time.UTC), ev.Start)
	require.Equal(t, entities.DefaultColor, ev.Color)
	require.False(t, ev.MultiResponse)
	require.Empty(t, ev.End)
}

func TestNumericStep_OutOfRangeDoesNotAdvance(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())

	r := s.Handle(text("7"))
	require.Equal(t, StepChannelSelect, s.Step())
	require.False(t, r.ShowPrompt)
	require.NotNil(t, r.Notice)
	require.Equal(t, "wizard.invalid.number", r.Notice.Key)
	require.Equal(t, 1, r.Notice.Data["Min"])
	require.Equal(t, 2, r.Notice.Data["Max"])

	s.Handle(text("abc"))
	require.Equal(t, StepChannelSelect, s.Step())

	r = s.Handle(text("2"))
	require.True(t, r.ShowPrompt)
	require.Equal(t, StepChannelPick, s.Step())
}

func TestNumericStep_RejectsSignsAndSeparators(t *testing.T) {
	for _, in := range []string{"+2", "-0", "2.0", "1e0", " 0x1", "٢"} {
		s := NewCreateSession("user-1", testOptions())
		r := s.Handle(text(in))
		require.Equal(t, StepChannelSelect, s.Step(), in)
		require.Equal(t, "wizard.invalid.number", r.Notice.Key, in)
	}

	s := NewCreateSession("user-1", testOptions())
	s.Handle(text(" 2 "))
	require.Equal(t, StepChannelPick, s.Step())
}

func TestTextStep_EmptyMessage(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1")

	r := s.Handle(output.Message{Attachments: []output.Attachment{{URL: "https://cdn.example.org/a.png", ContentType: "image/png"}}})
	require.Equal(t, StepTitle, s.Step())
	require.Equal(t, "wizard.invalid.empty", r.Notice.Key)
}

func TestCancel_AtEveryStep(t *testing.T) {
	prefixes := map[Step][]string{
		StepChannelSelect:     nil,
		StepChannelPick:       {"2"},
		StepTitle:             {"1"},
		StepDescription:       {"1", "T"},
		StepMaxAttendees:      {"1", "T", "D"},
		StepStartTime:         {"1", "T", "D", "5"},
		StepDuration:          {"1", "T", "D", "5", "2030-01-01 10:00"},
		StepAdvancedMenu:      {"1", "T", "D", "5", "2030-01-01 10:00", "1h"},
		StepMentionRoles:      {"1", "T", "D", "5", "2030-01-01 10:00", "1h", "1"},
		StepImage:             {"1", "T", "D", "5", "2030-01-01 10:00", "1h", "2"},
		StepColor:             {"1", "T", "D", "5", "2030-01-01 10:00", "1h", "3"},
		StepAllowedRoles:      {"1", "T", "D", "5", "2030-01-01 10:00", "1h", "4"},
		StepMultiResponse:     {"1", "T", "D", "5", "2030-01-01 10:00", "1h", "5"},
		StepAssignRole:        {"1", "T", "D", "5", "2030-01-01 10:00", "1h", "6"},
		StepRegistrationClose: {"1", "T", "D", "5", "2030-01-01 10:00", "1h", "7"},
	}
	for step, prefix := range prefixes {
		t.Run(step.String(), func(t *testing.T) {
			s := NewCreateSession("user-1", testOptions())
			feed(t, s, prefix...)
			require.Equal(t, step, s.Step())

			s.Handle(text("CANCELAR"))
			require.Equal(t, StepCancelled, s.Step())
			require.True(t, s.Step().Terminal())
			require.Equal(t, entities.Event{}, s.Draft())

			_, err := s.Finalize()
			require.Error(t, err)

			s.Handle(text("1"))
			require.Equal(t, StepCancelled, s.Step())
		})
	}
}

func TestMultiSelect_AllOrNothing(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1", "T", "D", "none", "2030-01-01 10:00", "none", "1")
	require.Equal(t, StepMentionRoles, s.Step())

	for _, bad := range []string{"1,4", "1,x", "0", "", "1,,2"} {
		r := s.Handle(text(bad))
		require.Equal(t, StepMentionRoles, s.Step(), bad)
		require.Equal(t, "wizard.invalid.selection", r.Notice.Key, bad)
	}
	require.Empty(t, s.Draft().MentionRoles)

	s.Handle(text(" 2 , 2, 1"))
	require.Equal(t, StepAdvancedMenu, s.Step())
	require.Equal(t, []string{"role-2", "role-1"}, s.Draft().MentionRoles)
}

func TestTextStep_LengthLimit(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1")

	long := make([]rune, entities.MaxTitleLength+1)
	for i := range long {
		long[i] = 'á'
	}
	r := s.Handle(text(string(long)))
	require.Equal(t, StepTitle, s.Step())
	require.Equal(t, "wizard.invalid.too_long", r.Notice.Key)

	s.Handle(text(string(long[:entities.MaxTitleLength])))
	require.Equal(t, StepDescription, s.Step())
}

func TestStartTime_InvalidFormatReprompts(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1", "T", "D", "none")
	require.Equal(t, StepStartTime, s.Step())

	r := s.Handle(text("01/01/2030 10:00"))
	require.Equal(t, StepStartTime, s.Step())
	require.Equal(t, "wizard.invalid.datetime", r.Notice.Key)
}

func TestImage_AttachmentAndRejections(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1", "T", "D", "none", "2030-01-01 10:00", "none", "2")

	r := s.Handle(output.Message{Attachments: []output.Attachment{{URL: "https://cdn/x.pdf", ContentType: "application/pdf"}}})
	require.Equal(t, StepImage, s.Step())
	require.Equal(t, "wizard.invalid.image", r.Notice.Key)

	s.Handle(text("no es una url"))
	require.Equal(t, StepImage, s.Step())

	r = s.Handle(output.Message{Attachments: []output.Attachment{{URL: "https://cdn/x.png", ContentType: "image/png"}}})
	require.Equal(t, StepAdvancedMenu, s.Step())
	require.Equal(t, "wizard.image_added", r.Notice.Key)
	require.Equal(t, "https://cdn/x.png", s.Draft().Image)
}

func TestColorAndYesNoValidation(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1", "T", "D", "none", "2030-01-01 10:00", "none", "3")

	r := s.Handle(text("verde"))
	require.Equal(t, StepColor, s.Step())
	require.Equal(t, "wizard.invalid.color", r.Notice.Key)
	s.Handle(text("skip"))
	require.Equal(t, entities.DefaultColor, s.Draft().Color)

	feed(t, s, "5")
	r = s.Handle(text("quizás"))
	require.Equal(t, StepMultiResponse, s.Step())
	require.Equal(t, "wizard.invalid.yes_no", r.Notice.Key)
	s.Handle(text("No"))
	require.False(t, s.Draft().MultiResponse)
	require.Equal(t, StepAdvancedMenu, s.Step())
}

func TestRegistrationCloseValidation(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1", "T", "D", "none", "2030-01-01 10:00", "none", "7")

	r := s.Handle(text("cuando sea"))
	require.Equal(t, StepRegistrationClose, s.Step())
	require.Equal(t, "wizard.invalid.offset", r.Notice.Key)

	s.Handle(text("1 hora"))
	require.Equal(t, "1 hora", s.Draft().RegistrationClose)
}

func TestMenu_NoRolesAvailable(t *testing.T) {
	opts := testOptions()
	opts.Roles = nil
	s := NewCreateSession("user-1", opts)
	feed(t, s, "1", "T", "D", "none", "2030-01-01 10:00", "none")

	for _, option := range []string{"1", "4", "6"} {
		r := s.Handle(text(option))
		require.Equal(t, StepAdvancedMenu, s.Step())
		require.Equal(t, "wizard.no_roles", r.Notice.Key)
		require.True(t, r.ShowPrompt)
	}
}

func TestSkipIsEditOnly(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1")

	s.Handle(text("skip"))
	require.Equal(t, StepDescription, s.Step())
	require.Equal(t, "skip", s.Draft().Title)
}

func editTarget() *entities.Event {
	return &entities.Event{
		ID:           "ev-1",
		Title:        "Original",
		Description:  "Desc",
		ChannelID:    "chan-1",
		CreatorID:    "creator",
		Start:        time.Date(2030, 2, 1, 20, 0, 0, 0, time.UTC),
		End:          "1 hora",
		MaxAttendees: 10,
		Color:        0x123456,
		Participants: entities.NewParticipants(),
	}
}

func TestEdit_SkipEverywhereKeepsValues(t *testing.T) {
	target := editTarget()
	s := NewEditSession("user-2", target, testOptions())
	require.Equal(t, StepTitle, s.Step())
	require.Equal(t, "wizard.edit.title", s.Prompt().Key)
	require.Equal(t, "Original", s.Prompt().Data["Current"])

	feed(t, s, "skip", "skip", "skip", "skip", "skip", "skip")
	require.Equal(t, StepFinalize, s.Step())

	ev, err := s.Finalize()
	require.NoError(t, err)
	require.Equal(t, target, ev)
}

func TestEdit_ChangesFields(t *testing.T) {
	target := editTarget()
	target.Participants[entities.RoleTank] = []entities.ParticipantID{"p1"}
	s := NewEditSession("user-2", target, testOptions())

	feed(t, s, "Nuevo", "none", "2", "2030-02-02 21:30", "skip", "none")
	ev, err := s.Finalize()
	require.NoError(t, err)

	require.Equal(t, "Nuevo", ev.Title)
	require.Equal(t, "", ev.Description)
	require.Equal(t, "chan-2", ev.ChannelID)
	require.Equal(t, time.Date(2030, 2, 2, 21, 30, 0, 0, time.UTC), ev.Start)
	require.Equal(t, "1 hora", ev.End)
	require.Equal(t, 0, ev.MaxAttendees)
	require.Equal(t, []entities.ParticipantID{"p1"}, ev.Participants[entities.RoleTank])
	require.Equal(t, "Original", target.Title)
}

func TestEdit_NowIsNotAccepted(t *testing.T) {
	s := NewEditSession("user-2", editTarget(), testOptions())
	feed(t, s, "skip", "skip", "skip")
	require.Equal(t, StepStartTime, s.Step())

	r := s.Handle(text("ahora"))
	require.Equal(t, StepStartTime, s.Step())
	require.Equal(t, "wizard.invalid.datetime", r.Notice.Key)
}

func TestEdit_NoChannelsSkipsChannelStep(t *testing.T) {
	opts := testOptions()
	opts.Channels = nil
	s := NewEditSession("user-2", editTarget(), opts)
	feed(t, s, "skip", "skip")
	require.Equal(t, StepStartTime, s.Step())
}

func TestTimeout(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "1", "Título")

	s.Timeout()
	require.Equal(t, StepTimedOut, s.Step())
	require.Equal(t, entities.Event{}, s.Draft())
}

func TestPrompt_ListsOptions(t *testing.T) {
	s := NewCreateSession("user-1", testOptions())
	feed(t, s, "2")

	p := s.Prompt()
	require.Equal(t, "wizard.create.channel_pick", p.Key)
	require.Equal(t, "1. general\n2. operaciones", p.Data["List"])
}
