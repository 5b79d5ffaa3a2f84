package entities

import (
	"fmt"
	"strings"
)

// ParticipantID is the canonical identity of a participant: the platform
// user id. Display names are never used for identity.
type ParticipantID string

// Participant is a registration request issuer with the platform roles it
// currently holds (used for allowed-roles gating).
type Participant struct {
	ID    ParticipantID
	Roles []string
}

// RoleKey is one of the fixed registration categories.
type RoleKey string

const (
	RoleInfantry  RoleKey = "INF"
	RoleOfficer   RoleKey = "OFICIAL"
	RoleTank      RoleKey = "TANQUE"
	RoleRecon     RoleKey = "RECON"
	RoleCommander RoleKey = "COMANDANTE"
	RoleDeclined  RoleKey = "DECLINADO"
	RoleTentative RoleKey = "TENTATIVO"
)

// RoleKeys lists every registration key in display order.
var RoleKeys = []RoleKey{
	RoleInfantry,
	RoleOfficer,
	RoleTank,
	RoleRecon,
	RoleCommander,
	RoleDeclined,
	RoleTentative,
}

// ButtonStyle mirrors the platform button palette without importing it.
type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota + 1
	StyleSecondary
	StyleSuccess
	StyleDanger
)

var roleEmoji = map[RoleKey]string{
	RoleInfantry:  "🪖",
	RoleOfficer:   "🎖️",
	RoleTank:      "🛡️",
	RoleRecon:     "🔭",
	RoleCommander: "⭐",
	RoleDeclined:  "❌",
	RoleTentative: "⚠️",
}

var roleStyle = map[RoleKey]ButtonStyle{
	RoleInfantry:  StyleSuccess,
	RoleOfficer:   StylePrimary,
	RoleTank:      StyleSuccess,
	RoleRecon:     StyleSecondary,
	RoleCommander: StyleDanger,
	RoleDeclined:  StyleSecondary,
	RoleTentative: StylePrimary,
}

// ParseRoleKey resolves s (case-insensitive) to a declared role key.
func ParseRoleKey(s string) (RoleKey, bool) {
	k := RoleKey(strings.ToUpper(strings.TrimSpace(s)))
	return k, k.Valid()
}

// Valid reports whether k is a declared registration key.
func (k RoleKey) Valid() bool {
	_, ok := roleEmoji[k]
	return ok
}

// Attending reports whether registering under k counts towards the
// attendee cap.
func (k RoleKey) Attending() bool {
	return k.Valid() && k != RoleDeclined && k != RoleTentative
}

func (k RoleKey) Emoji() string { return roleEmoji[k] }

func (k RoleKey) Style() ButtonStyle { return roleStyle[k] }

// ActionKind is a non-registration button on the event summary.
type ActionKind int

const (
	ActionEdit ActionKind = iota + 1
	ActionDelete
)

func (a ActionKind) String() string {
	switch a {
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseActionKind is the inverse of ActionKind.String.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "edit":
		return ActionEdit, true
	case "delete":
		return ActionDelete, true
	}
	return 0, false
}
