package jsonstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"eventosbot/internal/domain/entities"
	"eventosbot/pkg/tz"
)

// flexID is a platform id that older files stored as a JSON number and newer
// ones as a string. It is always written as a string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id inválido %s: %w", b, err)
	}
	*f = flexID(n.String())
	return nil
}

// eventRecord is the persisted shape of an event.
type eventRecord struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	ChannelID         flexID              `json:"channel_id"`
	CreatorID         flexID              `json:"creator_id"`
	Start             string              `json:"start"`
	End               string              `json:"end,omitempty"`
	MaxAttendees      *int                `json:"max_attendees"`
	Color             *int                `json:"color,omitempty"`
	Image             string              `json:"image,omitempty"`
	MentionRoles      []flexID            `json:"mention_roles,omitempty"`
	AllowedRoles      []flexID            `json:"allowed_roles,omitempty"`
	AssignRole        *flexID             `json:"assign_role,omitempty"`
	MultiResponse     bool                `json:"multi_response"`
	RegistrationOpen  *bool               `json:"registration_open"`
	RegistrationClose string              `json:"registration_close,omitempty"`
	ReminderSent      bool                `json:"reminder_sent"`
	ChannelCreated    bool                `json:"channel_created"`
	Participants      map[string][]flexID `json:"participants_roles"`
	MessageID         flexID              `json:"message_id,omitempty"`
	ThreadID          flexID              `json:"thread_id,omitempty"`
}

func idsToStrings(in []flexID) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func stringsToIDs(in []string) []flexID {
	if len(in) == 0 {
		return nil
	}
	out := make([]flexID, len(in))
	for i, v := range in {
		out[i] = flexID(v)
	}
	return out
}

func recordToDomain(r eventRecord, loc *time.Location) (entities.Event, error) {
	start, err := tz.Parse(r.Start, loc)
	if err != nil {
		return entities.Event{}, fmt.Errorf("evento %s: start %q: %w", r.ID, r.Start, err)
	}
	e := entities.Event{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		ChannelID:         string(r.ChannelID),
		CreatorID:         string(r.CreatorID),
		Start:             start,
		End:               r.End,
		Color:             entities.DefaultColor,
		Image:             r.Image,
		MentionRoles:      idsToStrings(r.MentionRoles),
		AllowedRoles:      idsToStrings(r.AllowedRoles),
		MultiResponse:     r.MultiResponse,
		RegistrationOpen:  true,
		RegistrationClose: r.RegistrationClose,
		ReminderSent:      r.ReminderSent,
		ChannelCreated:    r.ChannelCreated,
		MessageID:         string(r.MessageID),
		ThreadID:          string(r.ThreadID),
	}
	if r.MaxAttendees != nil {
		e.MaxAttendees = *r.MaxAttendees
	}
	if r.Color != nil {
		e.Color = *r.Color
	}
	if r.AssignRole != nil {
		e.AssignRole = string(*r.AssignRole)
	}
	if r.RegistrationOpen != nil {
		e.RegistrationOpen = *r.RegistrationOpen
	}
	e.Participants = make(map[entities.RoleKey][]entities.ParticipantID, len(r.Participants))
	for k, ids := range r.Participants {
		list := make([]entities.ParticipantID, len(ids))
		for i, id := range ids {
			list[i] = entities.ParticipantID(id)
		}
		e.Participants[entities.RoleKey(k)] = list
	}
	e.EnsureParticipants()
	return e, nil
}

func recordFromDomain(e entities.Event, loc *time.Location) eventRecord {
	color := e.Color
	open := e.RegistrationOpen
	r := eventRecord{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		ChannelID:         flexID(e.ChannelID),
		CreatorID:         flexID(e.CreatorID),
		Start:             tz.Format(e.Start, loc),
		End:               e.End,
		Color:             &color,
		Image:             e.Image,
		MentionRoles:      stringsToIDs(e.MentionRoles),
		AllowedRoles:      stringsToIDs(e.AllowedRoles),
		MultiResponse:     e.MultiResponse,
		RegistrationOpen:  &open,
		RegistrationClose: e.RegistrationClose,
		ReminderSent:      e.ReminderSent,
		ChannelCreated:    e.ChannelCreated,
		MessageID:         flexID(e.MessageID),
		ThreadID:          flexID(e.ThreadID),
		Participants:      make(map[string][]flexID, len(entities.RoleKeys)),
	}
	if e.MaxAttendees > 0 {
		n := e.MaxAttendees
		r.MaxAttendees = &n
	}
	if e.AssignRole != "" {
		role := flexID(e.AssignRole)
		r.AssignRole = &role
	}
	for _, k := range entities.RoleKeys {
		ids := e.Participants[k]
		list := make([]flexID, len(ids))
		for i, id := range ids {
			list[i] = flexID(id)
		}
		r.Participants[string(k)] = list
	}
	return r
}
