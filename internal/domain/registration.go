package domain

import (
	"slices"

	"eventosbot/internal/domain/entities"
)

// Register places p under key. Without multi-response the participant is
// first removed from every other key. Registering twice under the same key is
// a no-op; existing positions are never reordered.
func Register(e *entities.Event, p entities.ParticipantID, key entities.RoleKey) error {
	if !key.Valid() {
		return ErrUnknownRoleKey
	}
	e.EnsureParticipants()
	if !e.MultiResponse {
		for k, list := range e.Participants {
			if k == key {
				continue
			}
			e.Participants[k] = slices.DeleteFunc(list, func(id entities.ParticipantID) bool { return id == p })
		}
	}
	if !slices.Contains(e.Participants[key], p) {
		e.Participants[key] = append(e.Participants[key], p)
	}
	return nil
}

// UnregisterAll removes p from every role key and reports whether it was
// registered anywhere.
func UnregisterAll(e *entities.Event, p entities.ParticipantID) bool {
	removed := false
	for k, list := range e.Participants {
		n := len(list)
		list = slices.DeleteFunc(list, func(id entities.ParticipantID) bool { return id == p })
		if len(list) != n {
			removed = true
		}
		e.Participants[k] = list
	}
	return removed
}

// RegisteredKeys returns the keys p is registered under, in display order.
func RegisteredKeys(e *entities.Event, p entities.ParticipantID) []entities.RoleKey {
	var out []entities.RoleKey
	for _, k := range entities.RoleKeys {
		if slices.Contains(e.Participants[k], p) {
			out = append(out, k)
		}
	}
	return out
}

// IsAttending reports whether p is registered under any attending key.
func IsAttending(e *entities.Event, p entities.ParticipantID) bool {
	for _, k := range RegisteredKeys(e, p) {
		if k.Attending() {
			return true
		}
	}
	return false
}
