package entities

import (
	"maps"
	"slices"
	"time"
)

// DefaultColor is the embed color used when the creator does not pick one.
const DefaultColor = 0x00FF00

// Field limits shared by the wizard and the persistence layer.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1600
	MaxDurationLength    = 100
	MaxAttendeesLimit    = 250
)

// Event is a scheduled activity with registration roles and reminder state.
type Event struct {
	ID                string
	Title             string
	Description       string
	ChannelID         string
	CreatorID         string
	Start             time.Time
	End               string
	MaxAttendees      int // 0 = no limit
	Color             int
	Image             string
	MentionRoles      []string
	AllowedRoles      []string
	AssignRole        string
	MultiResponse     bool
	RegistrationOpen  bool
	RegistrationClose string
	ReminderSent      bool
	Participants      map[RoleKey][]ParticipantID
	MessageID         string
	ThreadID          string
	ChannelCreated    bool
}

// NewParticipants returns an empty list for every declared role key.
func NewParticipants() map[RoleKey][]ParticipantID {
	out := make(map[RoleKey][]ParticipantID, len(RoleKeys))
	for _, k := range RoleKeys {
		out[k] = []ParticipantID{}
	}
	return out
}

// EnsureParticipants fills in missing role key lists and drops keys that are
// not declared.
func (e *Event) EnsureParticipants() {
	if e.Participants == nil {
		e.Participants = NewParticipants()
		return
	}
	for k := range e.Participants {
		if !k.Valid() {
			delete(e.Participants, k)
		}
	}
	for _, k := range RoleKeys {
		if e.Participants[k] == nil {
			e.Participants[k] = []ParticipantID{}
		}
	}
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	c.MentionRoles = slices.Clone(e.MentionRoles)
	c.AllowedRoles = slices.Clone(e.AllowedRoles)
	if e.Participants != nil {
		c.Participants = maps.Clone(e.Participants)
		for k, v := range c.Participants {
			c.Participants[k] = slices.Clone(v)
		}
	}
	return &c
}

// Attendees returns the distinct participants registered under an attending
// role key, in role display order then registration order.
func (e *Event) Attendees() []ParticipantID {
	seen := make(map[ParticipantID]bool)
	var out []ParticipantID
	for _, k := range RoleKeys {
		if !k.Attending() {
			continue
		}
		for _, p := range e.Participants[k] {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Notifiable returns the distinct participants that should receive a
// reminder: everyone registered except under DECLINADO.
func (e *Event) Notifiable() []ParticipantID {
	seen := make(map[ParticipantID]bool)
	var out []ParticipantID
	for _, k := range RoleKeys {
		if k == RoleDeclined {
			continue
		}
		for _, p := range e.Participants[k] {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// ReminderAt is the instant from which the reminder is due.
func (e *Event) ReminderAt(lead time.Duration) time.Time {
	return e.Start.Add(-lead)
}
