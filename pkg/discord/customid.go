package discord

import (
	"fmt"
	"strings"

	"eventosbot/internal/domain/entities"
)

const (
	prefixRegister = "reg"
	prefixAction   = "act"
)

// ButtonID is the decoded custom id of a summary button. Exactly one of Role
// and Action is set.
type ButtonID struct {
	EventID string
	Role    entities.RoleKey
	Action  entities.ActionKind
}

func RegisterButtonID(eventID string, key entities.RoleKey) string {
	return fmt.Sprintf("%s:%s:%s", prefixRegister, key, eventID)
}

func ActionButtonID(eventID string, kind entities.ActionKind) string {
	return fmt.Sprintf("%s:%s:%s", prefixAction, kind, eventID)
}

// ParseButtonID decodes ids produced by RegisterButtonID and ActionButtonID.
func ParseButtonID(customID string) (ButtonID, error) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return ButtonID{}, fmt.Errorf("custom id inválido: %q", customID)
	}
	switch parts[0] {
	case prefixRegister:
		key, ok := entities.ParseRoleKey(parts[1])
		if !ok {
			return ButtonID{}, fmt.Errorf("rol desconocido en %q", customID)
		}
		return ButtonID{EventID: parts[2], Role: key}, nil
	case prefixAction:
		kind, ok := entities.ParseActionKind(parts[1])
		if !ok {
			return ButtonID{}, fmt.Errorf("acción desconocida en %q", customID)
		}
		return ButtonID{EventID: parts[2], Action: kind}, nil
	}
	return ButtonID{}, fmt.Errorf("prefijo desconocido en %q", customID)
}
