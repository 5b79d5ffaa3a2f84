package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
)

// eventRow mirrors the events table; columns are scanned by name.
type eventRow struct {
	ID                string             `db:"id"`
	Position          int32              `db:"position"`
	Title             string             `db:"title"`
	Description       string             `db:"description"`
	ChannelID         string             `db:"channel_id"`
	CreatorID         string             `db:"creator_id"`
	StartAt           pgtype.Timestamptz `db:"start_at"`
	EndText           string             `db:"end_text"`
	MaxAttendees      pgtype.Int4        `db:"max_attendees"`
	Color             int32              `db:"color"`
	Image             string             `db:"image"`
	MentionRoles      []string           `db:"mention_roles"`
	AllowedRoles      []string           `db:"allowed_roles"`
	AssignRole        pgtype.Text        `db:"assign_role"`
	MultiResponse     bool               `db:"multi_response"`
	RegistrationOpen  bool               `db:"registration_open"`
	RegistrationClose string             `db:"registration_close"`
	ReminderSent      bool               `db:"reminder_sent"`
	ChannelCreated    bool               `db:"channel_created"`
	Participants      []byte             `db:"participants"`
	MessageID         pgtype.Text        `db:"message_id"`
	ThreadID          pgtype.Text        `db:"thread_id"`
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func textOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func nullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func eventToDomain(r eventRow, loc *time.Location) (entities.Event, error) {
	e := entities.Event{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		ChannelID:         r.ChannelID,
		CreatorID:         r.CreatorID,
		Start:             pgtypeTimestamptzToTime(r.StartAt).In(loc),
		End:               r.EndText,
		Color:             int(r.Color),
		Image:             r.Image,
		MentionRoles:      nilIfEmpty(r.MentionRoles),
		AllowedRoles:      nilIfEmpty(r.AllowedRoles),
		AssignRole:        textOrEmpty(r.AssignRole),
		MultiResponse:     r.MultiResponse,
		RegistrationOpen:  r.RegistrationOpen,
		RegistrationClose: r.RegistrationClose,
		ReminderSent:      r.ReminderSent,
		ChannelCreated:    r.ChannelCreated,
		MessageID:         textOrEmpty(r.MessageID),
		ThreadID:          textOrEmpty(r.ThreadID),
	}
	if r.MaxAttendees.Valid {
		e.MaxAttendees = int(r.MaxAttendees.Int32)
	}
	if len(r.Participants) > 0 {
		if err := json.Unmarshal(r.Participants, &e.Participants); err != nil {
			return entities.Event{}, fmt.Errorf("%w: evento %s: participants: %v", domain.ErrCorruptStore, r.ID, err)
		}
	}
	e.EnsureParticipants()
	return e, nil
}

func eventFromDomain(e entities.Event, position int) (eventRow, error) {
	e.EnsureParticipants()
	participants, err := json.Marshal(e.Participants)
	if err != nil {
		return eventRow{}, fmt.Errorf("evento %s: participants: %w", e.ID, err)
	}
	r := eventRow{
		ID:                e.ID,
		Position:          int32(position),
		Title:             e.Title,
		Description:       e.Description,
		ChannelID:         e.ChannelID,
		CreatorID:         e.CreatorID,
		StartAt:           pgtype.Timestamptz{Time: e.Start, Valid: !e.Start.IsZero()},
		EndText:           e.End,
		Color:             int32(e.Color),
		Image:             e.Image,
		MentionRoles:      orEmpty(e.MentionRoles),
		AllowedRoles:      orEmpty(e.AllowedRoles),
		AssignRole:        nullableText(e.AssignRole),
		MultiResponse:     e.MultiResponse,
		RegistrationOpen:  e.RegistrationOpen,
		RegistrationClose: e.RegistrationClose,
		ReminderSent:      e.ReminderSent,
		ChannelCreated:    e.ChannelCreated,
		Participants:      participants,
		MessageID:         nullableText(e.MessageID),
		ThreadID:          nullableText(e.ThreadID),
	}
	if e.MaxAttendees > 0 {
		r.MaxAttendees = pgtype.Int4{Int32: int32(e.MaxAttendees), Valid: true}
	}
	return r, nil
}
